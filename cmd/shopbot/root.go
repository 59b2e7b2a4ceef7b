package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/aretw0/shopbot/internal/cli"
	"github.com/aretw0/shopbot/internal/config"
)

var (
	v       = config.New()
	cfg     *config.Config
	logger  *slog.Logger
	cfgFile string
	envFile string
)

var rootCmd = &cobra.Command{
	Use:   "shopbot",
	Short: "shopbot is a scripted shopping assistant",
	Long: `shopbot greets a user, learns their name and walks them through
choosing an item, a sub-type and a mall to buy it from.

Run it in the terminal with 'chat', as a Bot Framework style HTTP endpoint
with 'serve', or as a Model Context Protocol server with 'mcp'.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(v, config.Options{ConfigFile: cfgFile, EnvFile: envFile})
		if err != nil {
			return err
		}
		l, err := cli.NewLogger(loaded)
		if err != nil {
			return err
		}
		cfg, logger = loaded, l
		slog.SetDefault(logger)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (default ./shopbot.yaml)")
	flags.StringVar(&envFile, "env-file", "", "Dotenv file loaded before the config (default ./.env)")

	flags.String("log-level", "info", "Log level: debug, info, warn, error")
	flags.String("log-format", "text", "Log format: text or json")
	flags.String("store", config.DriverMemory, "Session store: memory, file, bolt, sqlite or redis")
	flags.String("store-path", "", "Directory (file) or database path (bolt, sqlite)")
	flags.Duration("store-ttl", 0, "Session expiry for the redis store (0 keeps sessions)")
	flags.String("redis-addr", "localhost:6379", "Redis address")
	flags.String("catalog", "", "Catalog YAML file (default: built-in catalog)")

	bindFlag(flags, "log-level", "log.level")
	bindFlag(flags, "log-format", "log.format")
	bindFlag(flags, "store", "store.driver")
	bindFlag(flags, "store-path", "store.path")
	bindFlag(flags, "store-ttl", "store.ttl")
	bindFlag(flags, "redis-addr", "redis.addr")
	bindFlag(flags, "catalog", "catalog.path")
}

// bindFlag ties a flag to a config key so an explicit flag wins over the
// config file and the environment.
func bindFlag(fs *pflag.FlagSet, name, key string) {
	if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
		panic(err)
	}
}
