// Package cli implements practicectl, the operator tool for the speech
// practice server.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dtroode/speechpractice-server/internal/config"
)

// NewRootCommand builds the practicectl command tree. Configuration is read
// the same way the server reads it: environment first, then envFile.
func NewRootCommand(version, envFile string) *cobra.Command {
	root := &cobra.Command{
		Use:           "practicectl",
		Short:         "Operator tool for the speech practice server",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true

	load := func() (*config.Config, error) {
		cfg, err := config.Load(envFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		return cfg, nil
	}

	root.AddCommand(
		newTokenCommand(load),
		newMigrateCommand(load),
		newStatusCommand(load),
		newChatIDCommand(),
	)
	return root
}
