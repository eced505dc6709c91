package password

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Alijeyrad/passhash/config"
	passwordsvc "github.com/Alijeyrad/passhash/internal/service/password"
	"github.com/Alijeyrad/passhash/pkg/logs"
)

// ErrMismatch is returned by verify so the process exits non-zero.
var ErrMismatch = errors.New("password does not match")

func NewPasswordCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Hash, verify and inspect Argon2id password hashes",
		Long: `Hash, verify and inspect Argon2id password hashes.

Passwords are read from standard input, never from flags, so they do not end
up in shell history or the process list.`,
	}

	cmd.AddCommand(NewHashCommand())
	cmd.AddCommand(NewVerifyCommand())
	cmd.AddCommand(NewInspectCommand())
	cmd.AddCommand(NewPresetsCommand())

	return cmd
}

func newService(cmd *cobra.Command) (passwordsvc.Service, error) {
	cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	cfg, err := config.ReadConfig(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return passwordsvc.New(cfg.Password, logs.Default())
}

// readPassword reads one line from r without its line terminator.
func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	if line == "" {
		return "", errors.New("no password on standard input")
	}
	return line, nil
}
