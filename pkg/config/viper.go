// Package config is responsible for initializing the application's configuration.
// It uses the Viper library to read settings from a config file, environment
// variables, and command-line flags, providing a unified configuration system.
package config

import (
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jmartel/sitetext/internal/logging"
)

// InitConfig initializes the application's configuration using Viper.
// It sets up default values, defines configuration search paths, and enables
// reading from environment variables. This function is designed to be called
// once at application startup so that configuration is loaded and available
// to all other packages.
func InitConfig() {
	// --- Set Search Paths ---
	viper.SetConfigName("config")
	viper.AddConfigPath(".")               // Current working directory
	viper.AddConfigPath("/etc/sitetext/")  // System-wide configuration
	viper.AddConfigPath("$HOME/.sitetext") // User-specific configuration

	// --- Set Defaults ---
	const defaultUA = "sitetext/1.0 (+https://github.com/jmartel/sitetext)"
	viper.SetDefault("crawler.user_agent", defaultUA)
	viper.SetDefault("crawler.output_dir", "./crawl_output")
	viper.SetDefault("crawler.max_concurrency", 8)
	viper.SetDefault("crawler.max_depth", 2)
	viper.SetDefault("crawler.workers", 8)
	viper.SetDefault("crawler.request_timeout", "15s")

	viper.SetDefault("server.listen_addr", ":8001")
	viper.SetDefault("server.shutdown_timeout", "10s")
	// The upload endpoint historically defaulted to a much higher per-site
	// concurrency than the CLI path.
	viper.SetDefault("server.default_max_concurrency", 50)

	viper.SetDefault("logging.development", false)

	// --- Environment Variables ---
	viper.SetEnvPrefix("SITETEXT") // e.g., SITETEXT_CRAWLER_MAX_DEPTH=3
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// --- Read Config File ---
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; not fatal, we proceed with defaults
			// and environment variables.
			logging.L.Warn("Config file not found; using defaults and environment variables.")
		} else {
			logging.L.Error("Error reading config file", zap.Error(err))
		}
	} else {
		logging.L.Info("Using config file", zap.String("path", viper.ConfigFileUsed()))
	}
}
