package providers

import (
	"fmt"
	"github.com/spf13/viper"
	"path/filepath"
	"spotr/internal/structures"
	"strings"
	"time"
)

const (
	defaultCity          = "Sofia"
	defaultCommentAuthor = "Guest driver"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.SetDefault("storage.driver", "file")
	viper.SetDefault("storage.flushInterval", 5*time.Second)
	viper.SetDefault("storage.memorySizeMB", 16)
	viper.SetDefault("storage.maxRetries", 8)
	viper.SetDefault("session.defaultCity", defaultCity)
	viper.SetDefault("session.commentAuthor", defaultCommentAuthor)

	viper.BindEnv("logger.level", "SPOTR_LOG_LEVEL")
	viper.BindEnv("storage.driver", "SPOTR_STORAGE_DRIVER")
	viper.BindEnv("storage.filePath", "SPOTR_STORAGE_PATH")
	viper.BindEnv("storage.flushInterval", "SPOTR_FLUSH_INTERVAL")
	viper.BindEnv("webServer.port", "SPOTR_PORT")
	viper.BindEnv("metrics.enabled", "SPOTR_METRICS_ENABLED")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "Spotr"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
