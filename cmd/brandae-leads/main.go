// @title           Brandae Leads API
// @version         1.0
// @description     Contact and demo lead intake with webhook fan-out.
// @BasePath        /api

// @securityDefinitions.apikey  ApiKeyAuth
// @in                          header
// @name                        X-Admin-Key

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"brandae-leads-api/internal/config"
	"brandae-leads-api/internal/logging"
)

const version = "1.0.0"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "brandae-leads",
	Short: "Brandae lead intake API",
	Long: `Accepts contact and demo forms from the marketing site, stores them,
and notifies every active webhook endpoint.

Running without a subcommand starts the HTTP server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations and exit",
	RunE:  runMigrate,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (or set BR_CONFIG_FILE)")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

// loadConfig resolves the config file, loads it and sets up logging.
func loadConfig() (config.Config, error) {
	path := configPath
	if path == "" {
		path = os.Getenv("BR_CONFIG_FILE")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if err := logging.Setup(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
