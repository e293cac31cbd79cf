package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/adminauth/internal/domain/models"
	"github.com/turtacn/adminauth/internal/infrastructure/crypto"
	"github.com/turtacn/adminauth/internal/infrastructure/persistence/postgres"
	"github.com/turtacn/adminauth/pkg/errors"
	"github.com/turtacn/adminauth/pkg/utils"
)

func newCreateAdminCommand(root *rootOptions) *cobra.Command {
	var mobile, password, role string
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create or update an admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := root.load()
			if err != nil {
				return err
			}
			if passwordStdin {
				if password, err = readSecret(cmd.InOrStdin()); err != nil {
					return err
				}
			}
			if password == "" {
				return fmt.Errorf("a password is required (--password or --password-stdin)")
			}

			identifier, err := utils.NormalizeMobile(mobile, cfg.Security.PhoneRegion)
			if err != nil {
				return err
			}
			hash, err := crypto.NewBcryptHasher(cfg.Password.BcryptCost).Hash(password)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			db, err := postgres.NewDBConnection(ctx, &cfg.Database, log)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := db.Migrate(ctx); err != nil {
				return err
			}

			principal := &models.Principal{Identifier: identifier, PasswordHash: hash, Role: strings.ToUpper(strings.TrimSpace(role))}
			if err := postgres.NewAdminRepository(db, log).Save(ctx, principal); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "admin %s saved with authorities %v\n", identifier, principal.Authorities())
			return nil
		},
	}
	cmd.Flags().StringVar(&mobile, "mobile", "", "admin mobile number (login identifier)")
	cmd.Flags().StringVar(&password, "password", "", "admin password")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	cmd.Flags().StringVar(&role, "role", "ADMIN", "role name, stored upper-cased")
	_ = cmd.MarkFlagRequired("mobile")
	return cmd
}

func newHashPasswordCommand() *cobra.Command {
	var cost int

	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Print the bcrypt hash of a password read from stdin",
		Long: `Reads one line from stdin and prints its bcrypt hash, suitable for
bootstrap.password_hash.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readSecret(cmd.InOrStdin())
			if err != nil {
				return err
			}
			hash, err := crypto.NewBcryptHasher(cost).Hash(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
	cmd.Flags().IntVar(&cost, "cost", 10, "bcrypt cost")
	return cmd
}

func newIssueTokenCommand(root *rootOptions) *cobra.Command {
	var mobile string

	cmd := &cobra.Command{
		Use:   "issue-token",
		Short: "Issue a bearer token for an existing admin",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := root.load()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := crypto.ResolveSigningSecret(ctx, cfg, log, nil); err != nil {
				return err
			}

			identifier, err := utils.NormalizeMobile(mobile, cfg.Security.PhoneRegion)
			if err != nil {
				return err
			}

			db, err := postgres.NewDBConnection(ctx, &cfg.Database, log)
			if err != nil {
				return err
			}
			defer db.Close()

			exists, err := postgres.NewAdminRepository(db, log).Exists(ctx, identifier)
			if err != nil {
				return err
			}
			if !exists {
				return errors.ErrPrincipalNotFound.WithMessage(fmt.Sprintf("no admin with identifier %s", identifier))
			}

			codec, err := crypto.NewTokenCodec(cfg.JWT.Secret, cfg.JWT.TTL(), log)
			if err != nil {
				return err
			}
			token, err := codec.Issue(ctx, identifier)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&mobile, "mobile", "", "admin mobile number")
	_ = cmd.MarkFlagRequired("mobile")
	return cmd
}

// readSecret reads the first line of r without its line terminator.
func readSecret(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	secret := strings.TrimRight(line, "\r\n")
	if secret == "" {
		return "", fmt.Errorf("no password on stdin")
	}
	return secret, nil
}
