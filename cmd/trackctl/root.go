package main

import (
	"context"

	"github.com/trackswift/internal/config"
	"github.com/trackswift/internal/logger"
	"github.com/trackswift/internal/provider"
	"github.com/trackswift/internal/repository"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type rootOptions struct {
	configFile string
	driver     string
	dataDir    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "trackctl",
		Short:         "TrackSwift maintenance commands",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "config file (default: config.yml in ., ./etc or ../)")
	cmd.PersistentFlags().StringVar(&opts.driver, "driver", "", "override storage.driver (json, sqlite, postgres, mongo)")
	cmd.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "override storage.data_dir for the json driver")

	cmd.AddCommand(newSeedCmd(opts))
	cmd.AddCommand(newMigrateCmd(opts))
	return cmd
}

// loadConfig 加载配置并应用命令行覆盖项
func (o *rootOptions) loadConfig() *config.Config {
	v := viper.New()
	if o.configFile != "" {
		v.SetConfigFile(o.configFile)
	}
	cfg := config.LoadWith(v)
	if o.driver != "" {
		cfg.Storage.Driver = o.driver
	}
	if o.dataDir != "" {
		cfg.Storage.DataDir = o.dataDir
	}
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	return cfg
}

// openStore 打开存储；打开过程会执行一次结构迁移
func (o *rootOptions) openStore(ctx context.Context) (*repository.Store, error) {
	return provider.OpenStore(ctx, o.loadConfig())
}
