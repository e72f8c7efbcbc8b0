package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/conlit/backend/internal/infrastructure"
	"github.com/conlit/backend/internal/service"
)

func newAdminCmd(opts *globalOptions) *cobra.Command {
	adminCmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin credentials for the API",
	}
	adminCmd.AddCommand(
		newHashPasswordCmd(),
		newAdminLoginCmd(opts),
	)
	return adminCmd
}

func newHashPasswordCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Print the bcrypt hash to set as ADMIN_PASSWORD_HASH",
		Long: `Hash-password reads the password from --password or, when the flag is
omitted, from the first line of stdin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := passwordInput(cmd, password)
			if err != nil {
				return err
			}
			hashed, err := service.HashPassword(pw)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), hashed)
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "password to hash (default: read stdin)")
	return cmd
}

func newAdminLoginCmd(opts *globalOptions) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Issue an admin token pair using the configured password hash",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := passwordInput(cmd, password)
			if err != nil {
				return err
			}

			cfg, logger, err := loadRuntime(opts)
			if err != nil {
				return err
			}
			defer infrastructure.SyncLogger(logger)

			tokens := service.NewTokenService(&cfg.JWT, otel.Tracer("conlit"), logger)
			pair, err := tokens.Login(cmd.Context(), pw)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), pair)
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "admin password (default: read stdin)")
	return cmd
}

// passwordInput returns flagValue, or the first line of the command's stdin
func passwordInput(cmd *cobra.Command, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("password is required")
	}
	return line, nil
}
