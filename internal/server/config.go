package server

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"

	"taskboard/internal/domain/errors"

	"github.com/sirupsen/logrus"
)

type Config struct {
	Addr        string
	Port        int
	DatabaseURL string
	MigratePath string
}

const (
	defaultAddr        = "0.0.0.0"
	defaultPort        = 3000
	defaultDatabaseURL = "postgresql://taskboard:taskboard@db:5432/taskboard?sslmode=disable"
	defaultMigratePath = "migrations"
)

var (
	addr        = flag.String("addr", defaultAddr, "listen address")
	port        = flag.Int("port", defaultPort, "listen port")
	databaseURL = flag.String("dburl", "", "database connection URL (overrides DATABASE_URL)")
	migratePath = flag.String("migratepath", defaultMigratePath, "path to the migrations directory")
	configFile  = flag.String("c", "", "path to a JSON config file")
	parsed      = false
)

// ReadConfig resolves configuration in layers: defaults, then an optional
// JSON file, then environment variables, then command-line flags.
func ReadConfig() *Config {
	if !parsed {
		flag.Parse()
		parsed = true
	}

	cfg := &Config{
		Addr:        defaultAddr,
		Port:        defaultPort,
		DatabaseURL: defaultDatabaseURL,
		MigratePath: defaultMigratePath,
	}

	if jsonConfig := loadJSONConfig(); jsonConfig != nil {
		cfg = jsonConfig
	}

	cfg = applyEnvOverrides(cfg)
	cfg = applyFlagOverrides(cfg)

	return cfg
}

func loadJSONConfig() *Config {
	configPath := *configFile
	if configPath == "" {
		configPath = os.Getenv("CONFIG")
	}
	if configPath == "" {
		return nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		logrus.WithError(err).Warnf("%s: %s", errors.ErrConfigFileReadFailed.Error(), configPath)
		return nil
	}

	var jsonConfig Config
	if err := json.Unmarshal(data, &jsonConfig); err != nil {
		logrus.WithError(err).Warn(errors.ErrConfigParseFailed.Error())
		return nil
	}

	logrus.WithField("path", configPath).Info("JSON config loaded")
	return &jsonConfig
}

func applyEnvOverrides(cfg *Config) *Config {
	if addr := os.Getenv("ADDR"); addr != "" {
		cfg.Addr = addr
	}
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err != nil {
			logrus.Warnf("%s in PORT: %s", errors.ErrConfigInvalidFormat.Error(), port)
		} else if p < 1 || p > 65535 {
			logrus.Warnf("%s: port must be between 1 and 65535, got %d", errors.ErrConfigInvalidFormat.Error(), p)
		} else {
			cfg.Port = p
		}
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.DatabaseURL = dbURL
	}
	if path := os.Getenv("MIGRATE_PATH"); path != "" {
		cfg.MigratePath = path
	}

	// Assemble the URL from parts when no full URL was given.
	if cfg.DatabaseURL == defaultDatabaseURL {
		dbUser := os.Getenv("DB_USER")
		dbPassword := os.Getenv("DB_PASSWORD")
		dbName := os.Getenv("DB_NAME")
		dbHost := os.Getenv("DB_HOST")
		dbPort := os.Getenv("DB_PORT")
		if dbUser != "" && dbPassword != "" && dbName != "" && dbHost != "" && dbPort != "" {
			cfg.DatabaseURL = fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=disable",
				dbUser, dbPassword, dbHost, dbPort, dbName)
		}
	}

	return cfg
}

func applyFlagOverrides(cfg *Config) *Config {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.Addr = *addr
		case "port":
			cfg.Port = *port
		case "migratepath":
			cfg.MigratePath = *migratePath
		case "dburl":
			cfg.DatabaseURL = *databaseURL
		}
	})

	return cfg
}
