package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	httpcmd "github.com/Alijeyrad/passhash/cmd/http"
	passwordcmd "github.com/Alijeyrad/passhash/cmd/password"
	systemcmd "github.com/Alijeyrad/passhash/cmd/system"
)

func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "passhash",
		Short: "Argon2id password hashing and verification.",
		Long: `passhash produces and verifies Argon2id password hashes in the PHC string format
($argon2id$v=19$m=...,t=...,p=...$salt$tag), from the command line or over HTTP.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global config flag, available for all commands.
	root.PersistentFlags().String("config", "config.yaml", "config file path")

	root.AddCommand(passwordcmd.NewPasswordCommand())
	root.AddCommand(httpcmd.NewHTTPCommand())
	root.AddCommand(systemcmd.NewSystemCommand())

	return root
}

func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
