package main

import (
	"fmt"
	"io"
	"strings"

	"chatview/internal/config"
	"chatview/internal/features"
	"chatview/internal/logger"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	overrides  []string
	enable     []string
	disable    []string
	logLevel   string

	cfg       config.Config
	logCloser io.Closer
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "chatview",
		Short:         "Incremental list rendering demo screens",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			opts.cfg = cfg
			closer, err := setupLogging(cfg)
			if err != nil {
				logger.Warnf("failed to initialize log file (%s): %v", cfg.Log.Path, err)
			}
			opts.logCloser = closer
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logCloser != nil {
				_ = opts.logCloser.Close()
			}
		},
	}
	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Config file (default ~/.chatview/config.toml)")
	flags.StringArrayVarP(&opts.overrides, "override", "c", nil, "Override config value key=value (repeatable)")
	flags.StringArrayVar(&opts.enable, "enable", nil, "Enable a feature (repeatable)")
	flags.StringArrayVar(&opts.disable, "disable", nil, "Disable a feature (repeatable)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")

	cmd.AddCommand(newChatsCmd(opts), newAdminLogCmd(opts), newSeedCmd(opts))
	return cmd
}

// loadConfig 依次应用配置文件、环境变量、功能开关、-c 覆盖项与 --log-level。
func (o *rootOptions) loadConfig() (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	featureOverrides, err := features.Overrides(o.enable, o.disable)
	if err != nil {
		return cfg, err
	}
	all := append(featureOverrides, o.overrides...)
	cfg, err = config.ApplyKVOverrides(cfg, all)
	if err != nil {
		return cfg, err
	}
	if lvl := strings.TrimSpace(o.logLevel); lvl != "" {
		cfg.Log.Level = lvl
	}
	if err := cfg.Engine.Validate(); err != nil {
		return cfg, fmt.Errorf("engine config: %w", err)
	}
	return cfg, nil
}

func setupLogging(cfg config.Config) (io.Closer, error) {
	if err := logger.SetLevel(cfg.Log.Level); err != nil {
		return nil, err
	}
	closer, _, err := logger.SetupFile(config.ExpandHome(cfg.Log.Path))
	return closer, err
}
