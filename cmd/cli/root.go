package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/turtacn/adminauth/internal/config"
	"github.com/turtacn/adminauth/internal/infrastructure/monitoring"
	"github.com/turtacn/adminauth/pkg/logger"
)

// rootOptions are the flags shared by every subcommand.
type rootOptions struct {
	configPath string
	verbose    bool
}

// NewRootCommand builds the admin-auth-cli command tree.
// rootCmd 代表在没有任何子命令的情况下调用 `admin-auth-cli` 二进制文件时的基本命令。
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:   "admin-auth-cli",
		Short: "Operator tooling for the admin authentication service.",
		Long: `admin-auth-cli provisions admin accounts, hashes passwords and issues
bearer tokens against the same database and signing secret as the service.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", os.Getenv(config.EnvPrefix+"_CONFIG"), "path to config.yaml")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log to stderr")

	rootCmd.AddCommand(
		newCreateAdminCommand(opts),
		newHashPasswordCommand(),
		newIssueTokenCommand(opts),
	)
	return rootCmd
}

// Execute is the main entry point for the CLI application.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (o *rootOptions) load() (*config.Config, logger.Logger, error) {
	cfg, err := config.LoadConfig(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	if !o.verbose {
		return cfg, logger.NewNoopLogger(), nil
	}
	logCfg := cfg.Log
	logCfg.OutputPath = "stderr"
	log, err := monitoring.NewZapLogger(&logCfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}
