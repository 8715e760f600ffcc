package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dtroode/speechpractice-server/internal/config"
	"github.com/dtroode/speechpractice-server/internal/model"
	"github.com/dtroode/speechpractice-server/internal/token"
)

func newTokenCommand(load func() (*config.Config, error)) *cobra.Command {
	var (
		userID string
		email  string
		role   string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for a user",
		Long: `Issue a bearer token signed with JWT_SECRET, for local testing and
for bootstrapping accounts before an identity provider is wired in.

Example usage:
  practicectl token --user t1 --email t@clinic.test --role therapist`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}

			session := model.Session{UserID: userID, Email: email, Role: model.Role(role)}
			if err := session.Validate(); err != nil {
				return fmt.Errorf("invalid user or role %q: %w", role, err)
			}

			if ttl <= 0 {
				ttl = cfg.JWT.TTL
			}
			signed, err := token.NewJWT(cfg.JWT.Secret, cfg.JWT.Issuer, ttl).GenerateAccessToken(session)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), signed)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id (required)")
	cmd.Flags().StringVar(&email, "email", "", "user email")
	cmd.Flags().StringVar(&role, "role", string(model.RoleClient), "therapist or client")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default JWT_TTL)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
