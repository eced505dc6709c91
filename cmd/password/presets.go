package password

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	pwhash "github.com/Alijeyrad/passhash/pkg/util/password"
)

func NewPresetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the named parameter presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := pwhash.Presets()
			names := make([]string, 0, len(presets))
			for name := range presets {
				names = append(names, name)
			}
			slices.Sort(names)

			out := cmd.OutOrStdout()
			for _, name := range names {
				marker := ""
				if presets[name] == pwhash.DefaultParams() {
					marker = " (default)"
				}
				fmt.Fprintf(out, "%-20s %s%s\n", name, presets[name], marker)
			}
			return nil
		},
	}
}
