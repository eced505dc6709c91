package password

import (
	"fmt"

	"github.com/spf13/cobra"

	passwordsvc "github.com/Alijeyrad/passhash/internal/service/password"
)

func NewHashCommand() *cobra.Command {
	var (
		preset         string
		memory         uint32
		iterations     uint32
		lanes          uint8
		associatedData string
	)

	cmd := &cobra.Command{
		Use:   "hash",
		Short: "Hash a password read from standard input",
		Example: `  printf '%s' 'correct horse' | passhash password hash
  passhash password hash --preset low_memory < secret.txt
  passhash password hash --memory 19456 --iterations 2 --lanes 1 < secret.txt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService(cmd)
			if err != nil {
				return err
			}

			pw, err := readPassword(cmd.InOrStdin())
			if err != nil {
				return err
			}

			req := passwordsvc.HashRequest{
				Password:       pw,
				AssociatedData: associatedData,
				Preset:         preset,
			}

			// Explicit cost flags override the configured parameters one by one.
			flags := cmd.Flags()
			if flags.Changed("memory") || flags.Changed("iterations") || flags.Changed("lanes") {
				p := svc.Params()
				if flags.Changed("memory") {
					p.Memory = memory
				}
				if flags.Changed("iterations") {
					p.Iterations = iterations
				}
				if flags.Changed("lanes") {
					p.Lanes = lanes
				}
				req.Params = &p
			}

			hash, err := svc.Hash(cmd.Context(), req)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}

	cmd.Flags().StringVar(&preset, "preset", "", "named parameter preset (see 'password presets')")
	cmd.Flags().Uint32Var(&memory, "memory", 0, "memory cost in KiB")
	cmd.Flags().Uint32Var(&iterations, "iterations", 0, "number of passes")
	cmd.Flags().Uint8Var(&lanes, "lanes", 0, "degree of parallelism")
	cmd.Flags().StringVar(&associatedData, "associated-data", "", "context bound into the hash, required again on verify")
	cmd.MarkFlagsMutuallyExclusive("preset", "memory")
	cmd.MarkFlagsMutuallyExclusive("preset", "iterations")
	cmd.MarkFlagsMutuallyExclusive("preset", "lanes")

	return cmd
}
