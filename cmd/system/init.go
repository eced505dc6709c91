package system

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Alijeyrad/passhash/config"
	"github.com/Alijeyrad/passhash/pkg/util/password"
)

const pepperLength = 32

func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter config file with a freshly generated pepper",
		Long: `Write a starter config file holding every setting at its default value and a
random password pepper. The file is created with mode 0600.

Keep the pepper secret and stable: hashes created with it cannot be verified
without it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
			if err != nil {
				return fmt.Errorf("failed to get config flag: %w", err)
			}

			pepper, err := password.Generate(pepperLength)
			if err != nil {
				return fmt.Errorf("failed to generate pepper: %w", err)
			}

			v := config.New()
			v.Set("password.pepper", pepper)

			if force {
				err = v.WriteConfigAs(cfgPath)
			} else {
				err = v.SafeWriteConfigAs(cfgPath)
			}
			if err != nil {
				var exists viper.ConfigFileAlreadyExistsError
				if errors.As(err, &exists) {
					return fmt.Errorf("config file %s already exists, use --force to overwrite", cfgPath)
				}
				return fmt.Errorf("failed to write config: %w", err)
			}
			if err := os.Chmod(cfgPath, 0o600); err != nil {
				return fmt.Errorf("failed to restrict config permissions: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Config written to %s\n", cfgPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")

	return cmd
}
