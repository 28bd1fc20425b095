// Package actor defines the team members that take turns in a session and
// what each of them is allowed to do.
package actor

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// WriteScope limits which files an actor may write.
type WriteScope int

const (
	WriteNone WriteScope = iota
	WriteDocsOnly
	WriteAny
)

var docExtensions = map[string]bool{".md": true, ".txt": true}

func (s WriteScope) String() string {
	switch s {
	case WriteNone:
		return "none"
	case WriteDocsOnly:
		return "docs"
	case WriteAny:
		return "any"
	default:
		return fmt.Sprintf("WriteScope(%d)", int(s))
	}
}

// ParseWriteScope accepts "none", "docs" or "any" (case-insensitive).
func ParseWriteScope(s string) (WriteScope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "":
		return WriteNone, nil
	case "docs":
		return WriteDocsOnly, nil
	case "any":
		return WriteAny, nil
	default:
		return WriteNone, fmt.Errorf("unknown write scope %q", s)
	}
}

// Capabilities is an actor's tool profile.
type Capabilities struct {
	Write    WriteScope
	Shell    bool
	Research bool
}

// AllowsWrite reports whether the profile permits writing path.
func (c Capabilities) AllowsWrite(path string) bool {
	switch c.Write {
	case WriteAny:
		return true
	case WriteDocsOnly:
		return docExtensions[strings.ToLower(filepath.Ext(path))]
	default:
		return false
	}
}

// Actor is one team member. Actors are immutable once a roster is built.
type Actor struct {
	Name         string
	Description  string
	Instructions string
	Capabilities Capabilities
}

var (
	ErrDuplicateActor = errors.New("duplicate actor name")
	ErrUnknownEntry   = errors.New("entry actor is not in the roster")
	ErrEmptyRoster    = errors.New("roster has no actors")
)

// Roster is the ordered, fixed set of actors for a session.
type Roster struct {
	actors []Actor
	index  map[string]int
	entry  string
}

// NewRoster validates and builds a roster. Names must be unique ignoring
// case and entry must name one of the actors.
func NewRoster(entry string, actors []Actor) (*Roster, error) {
	if len(actors) == 0 {
		return nil, ErrEmptyRoster
	}
	r := &Roster{
		actors: make([]Actor, len(actors)),
		index:  make(map[string]int, len(actors)),
	}
	copy(r.actors, actors)
	for i, a := range r.actors {
		key := strings.ToLower(strings.TrimSpace(a.Name))
		if key == "" {
			return nil, fmt.Errorf("actor %d has no name", i)
		}
		if _, dup := r.index[key]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateActor, a.Name)
		}
		r.index[key] = i
	}
	e, ok := r.Lookup(entry)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEntry, entry)
	}
	r.entry = e.Name
	return r, nil
}

// Lookup finds an actor by name, ignoring case and surrounding space.
func (r *Roster) Lookup(name string) (Actor, bool) {
	i, ok := r.index[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Actor{}, false
	}
	return r.actors[i], true
}

// Entry returns the actor that opens every session.
func (r *Roster) Entry() Actor {
	a, _ := r.Lookup(r.entry)
	return a
}

// IsEntry reports whether name is the entry actor.
func (r *Roster) IsEntry(name string) bool {
	return strings.EqualFold(strings.TrimSpace(name), r.entry)
}

// Names returns actor names in roster order.
func (r *Roster) Names() []string {
	names := make([]string, len(r.actors))
	for i, a := range r.actors {
		names[i] = a.Name
	}
	return names
}

// Actors returns a copy of the roster's actors.
func (r *Roster) Actors() []Actor {
	out := make([]Actor, len(r.actors))
	copy(out, r.actors)
	return out
}
