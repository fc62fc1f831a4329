package main

import (
	"context"
	"os"

	"github.com/campusbeacon/api/internal/bootstrap"
	"github.com/campusbeacon/api/internal/config"
	"github.com/campusbeacon/api/internal/pkg/logger"
	"github.com/campusbeacon/api/internal/server"
	"github.com/spf13/cobra"
)

// @title CampusBeacon API
// @version 1.0
// @description Campus portal backend: lost and found, marketplace, ride sharing,
// @description attendance, hostels, study resources and chat.

// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT access token; the access_token cookie is accepted too

var configPath string

var rootCmd = &cobra.Command{
	Use:           "campusbeacon",
	Short:         "CampusBeacon campus portal API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the HTTP API.

Pending migrations and default data are applied before the server starts
listening. SIGINT or SIGTERM triggers a graceful shutdown.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		srv, err := server.NewServer(cmd.Context(), configPath)
		if err != nil {
			return err
		}
		return srv.Run(cmd.Context())
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations and exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
		if err != nil {
			return err
		}
		database, err := bootstrap.SetupDatabase(cmd.Context(), cfg, lgr)
		if err != nil {
			return err
		}
		defer database.Close()
		return bootstrap.RunMigrations(cmd.Context(), database.Pool, lgr)
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the default admin, subjects, hostels and chat room",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
		if err != nil {
			return err
		}
		database, err := bootstrap.SetupDatabase(cmd.Context(), cfg, lgr)
		if err != nil {
			return err
		}
		defer database.Close()
		if err := bootstrap.RunMigrations(cmd.Context(), database.Pool, lgr); err != nil {
			return err
		}
		return bootstrap.SeedDefaults(cmd.Context(), database.Pool, cfg, lgr)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath, "path to the YAML config file")
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logger.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
