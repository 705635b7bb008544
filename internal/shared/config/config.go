package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/ini.v1"

	"github.com/arcvelit/http/internal/shared/types"
)

const (
	DefaultAddress     = "127.0.0.1"
	DefaultPort        = 6969
	DefaultBacklog     = 128
	DefaultGracePeriod = 3 * time.Second
	DefaultLogLevel    = "info"
)

// Default returns the configuration used when no server.ini is present.
func Default() *types.Config {
	return &types.Config{
		ServerConf: types.ServerConf{
			Address:     DefaultAddress,
			Port:        DefaultPort,
			Backlog:     DefaultBacklog,
			BindAll:     true,
			GracePeriod: DefaultGracePeriod,
		},
		LogConf: types.LogConf{Level: DefaultLogLevel},
	}
}

// LoadIni maps server.ini on top of cfg. Keys missing from the file keep the
// values already in cfg, so callers pass Default() to get defaults filled in.
// A missing file is not an error.
func LoadIni(cfg *types.Config, fileName string) error {
	if _, err := os.Stat(fileName); err == nil {
		iniFile, err := ini.Load(fileName)
		if err != nil {
			return err
		}
		if err := iniFile.MapTo(cfg); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat config file: %w", err)
	}

	overrideFromEnvString(&cfg.ServerConf.Address, "SERVER_ADDRESS")
	overrideFromEnvInt(&cfg.ServerConf.Port, "SERVER_PORT")
	overrideFromEnvString(&cfg.LogConf.Level, "LOG_LEVEL")

	return Validate(cfg)
}

// Validate rejects values the listener cannot work with.
func Validate(cfg *types.Config) error {
	if cfg.Port < 0 || cfg.Port > 65535 {
		return fmt.Errorf("port %d out of range", cfg.Port)
	}
	if cfg.Backlog <= 0 {
		cfg.Backlog = DefaultBacklog
	}
	if cfg.MaxConnections < 0 {
		return fmt.Errorf("max_connections must not be negative, got %d", cfg.MaxConnections)
	}
	if cfg.ReadTimeout < 0 || cfg.WriteTimeout < 0 || cfg.StatsInterval < 0 {
		return fmt.Errorf("timeouts and intervals must not be negative")
	}
	if cfg.GracePeriod <= 0 {
		cfg.GracePeriod = DefaultGracePeriod
	}
	return nil
}

func overrideFromEnvInt(target *int, envName string) {
	envValue := os.Getenv(envName)
	if envValue != "" {
		if intValue, err := strconv.Atoi(envValue); err == nil {
			*target = intValue
		}
	}
}

func overrideFromEnvString(target *string, envName string) {
	if envValue := os.Getenv(envName); envValue != "" {
		*target = envValue
	}
}
