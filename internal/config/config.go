package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/amaumene/videosync/internal/models"
	"github.com/amaumene/videosync/internal/services/providers"
)

// Config holds all application configuration
type Config struct {
	// Sync
	SyncSchedule string // cron spec (default: every 6 hours)
	SyncOrigins  []models.Origin
	SyncLimit    int // records per origin and run, 0 means provider default
	Author       string

	// Providers
	Endpoints map[models.Origin]providers.Endpoint

	// Server
	ServerPort string

	// Paths
	ConfigDir     string
	DatabaseFile  string // $CONFIG_DIR/videosync.db
	JournalFile   string // $CONFIG_DIR/journal.db
	ProfileFile   string // $CONFIG_DIR/profile.yaml
	BlacklistFile string // TITLE_BLACKLIST or $CONFIG_DIR/blacklist.txt

	// Logging
	LogLevel  string
	LogFormat string
	Tracing   bool // log otel spans at debug level
}

var defaultHosts = map[models.Origin]string{
	models.OriginMoonwalk: "moonwalk.cc",
	models.OriginTmdb:     "api.themoviedb.org",
	models.OriginKodik:    "kodikapi.com",
	models.OriginHdvb:     "apivb.info",
	models.OriginVideoCdn: "videocdn.tv",
	models.OriginRutor:    "http://rutor.info",
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Setup viper FIRST to load .env file
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Load .env file if it exists (ignore if not found)
	_ = viper.ReadInConfig()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "text")
	viper.SetDefault("TRACING", false)
	viper.SetDefault("SYNC_SCHEDULE", "0 */6 * * *")
	viper.SetDefault("SYNC_LIMIT", 50)
	viper.SetDefault("AUTHOR", "videosync")
	for origin, host := range defaultHosts {
		prefix := envPrefix(origin)
		viper.SetDefault(prefix+"_HOST", host)
		viper.SetDefault(prefix+"_BASE_PATH", providers.DefaultBasePaths[origin])
	}

	configDir, err := resolveConfigDir(viper.GetString("CONFIG_DIR"))
	if err != nil {
		return nil, err
	}

	// Create config directory if it doesn't exist
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	config := &Config{
		SyncSchedule: viper.GetString("SYNC_SCHEDULE"),
		SyncLimit:    viper.GetInt("SYNC_LIMIT"),
		Author:       viper.GetString("AUTHOR"),
		Endpoints:    make(map[models.Origin]providers.Endpoint),

		ServerPort: viper.GetString("SERVER_PORT"),

		ConfigDir:     configDir,
		DatabaseFile:  filepath.Join(configDir, "videosync.db"),
		JournalFile:   filepath.Join(configDir, "journal.db"),
		ProfileFile:   filepath.Join(configDir, "profile.yaml"),
		BlacklistFile: viper.GetString("TITLE_BLACKLIST"),

		LogLevel:  viper.GetString("LOG_LEVEL"),
		LogFormat: viper.GetString("LOG_FORMAT"),
		Tracing:   viper.GetBool("TRACING"),
	}

	for _, origin := range models.Origins() {
		prefix := envPrefix(origin)
		config.Endpoints[origin] = providers.Endpoint{
			Origin:   origin,
			Host:     viper.GetString(prefix + "_HOST"),
			BasePath: viper.GetString(prefix + "_BASE_PATH"),
			Token:    viper.GetString(prefix + "_TOKEN"),
		}
	}

	if raw := strings.TrimSpace(viper.GetString("SYNC_ORIGINS")); raw != "" {
		for _, name := range strings.Split(raw, ",") {
			origin, err := models.ParseOrigin(strings.ToLower(strings.TrimSpace(name)))
			if err != nil {
				return nil, fmt.Errorf("SYNC_ORIGINS: %w", err)
			}
			config.SyncOrigins = append(config.SyncOrigins, origin)
		}
	} else {
		config.SyncOrigins = config.configuredOrigins()
	}

	if config.BlacklistFile == "" {
		config.BlacklistFile = filepath.Join(configDir, "blacklist.txt")
	}

	// Validate required fields
	if len(config.SyncOrigins) == 0 {
		return nil, fmt.Errorf("SYNC_ORIGINS is empty and no provider token is configured")
	}
	if config.SyncLimit < 0 {
		return nil, fmt.Errorf("SYNC_LIMIT must not be negative")
	}
	if config.ServerPort == "" {
		return nil, fmt.Errorf("SERVER_PORT is required")
	}

	return config, nil
}

// configuredOrigins lists origins whose connection settings are complete
func (c *Config) configuredOrigins() []models.Origin {
	var origins []models.Origin
	for _, origin := range models.Origins() {
		ep := c.Endpoints[origin]
		if ep.Host == "" {
			continue
		}
		if origin != models.OriginRutor && ep.Token == "" {
			continue
		}
		origins = append(origins, origin)
	}
	return origins
}

func envPrefix(origin models.Origin) string {
	return strings.ToUpper(string(origin))
}

func resolveConfigDir(configDir string) (string, error) {
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(homeDir, ".config", "videosync"), nil
	}

	// Convert relative path to absolute path
	absPath, err := filepath.Abs(configDir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path for CONFIG_DIR: %w", err)
	}
	return absPath, nil
}
