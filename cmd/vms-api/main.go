package main

import (
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"vms/backend/internal/pkg/config"
	"vms/backend/internal/pkg/repository/postgresql"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "vms-api",
	Short:         "Vendor management backend",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.yaml (overrides VENDOR_CONFIGFILE)")

	rootCmd.AddCommand(serveCmd, migrateCmd, backfillCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("exiting")
		os.Exit(1)
	}
}

// env is what every command needs before doing its own work.
type env struct {
	settings config.Settings
	cfg      *config.Config
	db       *postgresql.Database
}

func setup() (*env, error) {
	settings, err := config.NewSettings()
	if err != nil {
		return nil, err
	}
	initLogger(settings.LogLevel, settings.LogPretty)

	path := settings.ConfigFile
	if configPath != "" {
		path = configPath
	}
	cfg, err := config.NewConfig(path)
	if err != nil {
		return nil, err
	}

	db, err := postgresql.NewDB(postgresql.Config{
		User:         cfg.Database.User,
		Password:     cfg.Database.Password,
		Host:         cfg.Database.Host,
		Port:         cfg.Database.Port,
		Name:         cfg.Database.Name,
		DisableTLS:   cfg.Database.DisableTLS,
		Debug:        cfg.Database.Debug,
		MaxOpenConns: cfg.Database.MaxOpenConns,
	})
	if err != nil {
		return nil, errors.Wrap(err, "connecting to database")
	}

	return &env{settings: settings, cfg: cfg, db: db}, nil
}

func initLogger(level string, pretty bool) {
	zerolog.TimeFieldFormat = time.RFC3339
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	if pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}
