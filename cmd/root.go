package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/misparia/internal/app"
	"github.com/abhisek/misparia/internal/config"
	"github.com/abhisek/misparia/internal/logging"
	"github.com/abhisek/misparia/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "misparia",
	Short: "Arcade arithmetic games for kids",
	Long:  "Misparia is a terminal arcade where kids practice arithmetic through seven mini-games, with an optional AI tutor.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides MISPARIA_DB_PATH)")
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(keyCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the file named by --config, or the default locations.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the configured db.path, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg != nil && cfg.DB.Path != "" {
		return cfg.DB.Path, store.EnsureDir(cfg.DB.Path)
	}
	return store.DefaultDBPath()
}

// openRuntime loads settings, the file logger and every service.
func openRuntime(cmd *cobra.Command) (*app.Runtime, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}
	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}

	rt, err := app.Open(cmd.Context(), app.Options{DBPath: dbPath, Config: cfg, Logger: logger})
	if err != nil {
		logger.Error("startup failed", zap.Error(err))
		_ = logger.Sync()
		return nil, err
	}
	return rt, nil
}

// closeRuntime flushes the log and closes the database.
func closeRuntime(rt *app.Runtime) {
	_ = rt.Close()
	_ = rt.Logger.Sync()
}

// openStore opens only the database, for commands that read the event log.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}
