package actor

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed team.yaml
var defaultTeam []byte

// teamFile is the YAML layout of a team definition.
type teamFile struct {
	Entry  string       `yaml:"entry"`
	Actors []actorEntry `yaml:"actors"`
}

type actorEntry struct {
	Name         string `yaml:"name"`
	Description  string `yaml:"description"`
	Instructions string `yaml:"instructions"`
	Write        string `yaml:"write"`
	Shell        bool   `yaml:"shell"`
	Research     bool   `yaml:"research"`
}

// ParseTeam builds a roster from a YAML team definition.
func ParseTeam(data []byte) (*Roster, error) {
	var tf teamFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("parse team: %w", err)
	}

	actors := make([]Actor, 0, len(tf.Actors))
	for _, e := range tf.Actors {
		scope, err := ParseWriteScope(e.Write)
		if err != nil {
			return nil, fmt.Errorf("actor %s: %w", e.Name, err)
		}
		actors = append(actors, Actor{
			Name:         e.Name,
			Description:  e.Description,
			Instructions: e.Instructions,
			Capabilities: Capabilities{
				Write:    scope,
				Shell:    e.Shell,
				Research: e.Research,
			},
		})
	}
	return NewRoster(tf.Entry, actors)
}

// DefaultRoster returns the built-in eight-member team.
func DefaultRoster() *Roster {
	r, err := ParseTeam(defaultTeam)
	if err != nil {
		panic(fmt.Sprintf("built-in team is invalid: %v", err))
	}
	return r
}
