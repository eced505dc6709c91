package password

import (
	"fmt"

	"github.com/spf13/cobra"

	passwordsvc "github.com/Alijeyrad/passhash/internal/service/password"
)

func NewVerifyCommand() *cobra.Command {
	var (
		hash           string
		associatedData string
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check a password read from standard input against a hash",
		Long: `Check a password read from standard input against a PHC hash.

Exits 0 on a match and 1 otherwise. A malformed hash is reported as a mismatch.`,
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

			res, err := svc.Verify(cmd.Context(), passwordsvc.VerifyRequest{
				Password:       pw,
				Hash:           hash,
				AssociatedData: associatedData,
			})
			if err != nil {
				return err
			}
			if !res.Match {
				return ErrMismatch
			}

			fmt.Fprintln(cmd.OutOrStdout(), "match")
			if res.NeedsRehash {
				fmt.Fprintln(cmd.ErrOrStderr(), "note: hash parameters differ from the configured ones, rehash on next login")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&hash, "hash", "", "PHC hash to verify against")
	cmd.Flags().StringVar(&associatedData, "associated-data", "", "context the hash was bound to")
	_ = cmd.MarkFlagRequired("hash")

	return cmd
}
