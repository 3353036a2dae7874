package providers

import (
	"fmt"
	"github.com/spf13/viper"
	"path/filepath"
	"sitestats/internal/structures"
	"strings"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.SetDefault("persistence.driver", "file")
	viper.SetDefault("persistence.mongo.database", "sitestats")
	viper.SetDefault("persistence.mongo.collection", "stats_records")
	viper.SetDefault("persistence.mongo.timeout", "10s")

	viper.BindEnv("logger.level", "SITESTATS_LOG_LEVEL")
	viper.BindEnv("stats.maxBlogs", "SITESTATS_MAX_BLOGS")
	viper.BindEnv("stats.timezone", "SITESTATS_TIMEZONE")
	viper.BindEnv("persistence.saveInterval", "SITESTATS_SAVE_INTERVAL")
	viper.BindEnv("persistence.driver", "SITESTATS_PERSISTENCE_DRIVER")
	viper.BindEnv("persistence.mongo.uri", "SITESTATS_MONGO_URI")
	viper.BindEnv("cache.enabled", "SITESTATS_CACHE_ENABLED")
	viper.BindEnv("cache.size", "SITESTATS_CACHE_SIZE")
	viper.BindEnv("cache.ttl", "SITESTATS_CACHE_TTL")

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

	conf.AppName = "SiteStatsDaemon"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
