package password

import (
	"fmt"

	"github.com/spf13/cobra"

	pwhash "github.com/Alijeyrad/passhash/pkg/util/password"
)

func NewInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <hash>",
		Short: "Show the parameters encoded in a hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := pwhash.Decode(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "algorithm:   %s\n", pwhash.Algorithm)
			fmt.Fprintf(out, "version:     %d\n", pwhash.Version)
			fmt.Fprintf(out, "memory_kib:  %d\n", d.Params.Memory)
			fmt.Fprintf(out, "iterations:  %d\n", d.Params.Iterations)
			fmt.Fprintf(out, "lanes:       %d\n", d.Params.Lanes)
			fmt.Fprintf(out, "salt_bytes:  %d\n", len(d.Salt))
			fmt.Fprintf(out, "tag_bytes:   %d\n", len(d.Tag))
			return nil
		},
	}
}
