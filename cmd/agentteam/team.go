package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Cyclone1070/agentteam/internal/actor"
)

func newTeamCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "team",
		Short: "Show the roster and what each actor may do",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			roster, err := loadRoster(cfg)
			if err != nil {
				return err
			}
			return printRoster(cmd.OutOrStdout(), roster)
		},
	}
}

func printRoster(out io.Writer, roster *actor.Roster) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ACTOR\tWRITE\tSHELL\tRESEARCH\tENTRY")
	for _, a := range roster.Actors() {
		entry := ""
		if roster.IsEntry(a.Name) {
			entry = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%t\t%t\t%s\n",
			a.Name,
			a.Capabilities.Write,
			a.Capabilities.Shell,
			a.Capabilities.Research,
			entry)
	}
	return w.Flush()
}
