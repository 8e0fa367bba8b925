package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/go-drift/stage/cmd/stage/internal/scenario"
)

type scenarioInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Frames      int    `json:"frames"`
}

// NewScenariosCommand creates the scenarios command.
func NewScenariosCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "scenarios",
		Short: "List the built-in scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var infos []scenarioInfo
			for _, name := range scenario.Builtins() {
				s, err := scenario.Builtin(name)
				if err != nil {
					return err
				}
				infos = append(infos, scenarioInfo{Name: s.Name, Description: s.Description, Frames: len(s.Events())})
			}

			if rootOpts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), infos)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, info := range infos {
				fmt.Fprintf(tw, "%s\t%d frames\t%s\n", info.Name, info.Frames, info.Description)
			}
			return tw.Flush()
		},
	}
}
