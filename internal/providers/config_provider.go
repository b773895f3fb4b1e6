package providers

import (
	"akd/internal/structures"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.BindEnv("logger.level", "AKD_LOG_LEVEL")
	viper.BindEnv("persistence.saveInterval", "AKD_SAVE_INTERVAL")
	viper.BindEnv("notifier.settleDelay", "AKD_SETTLE_DELAY")
	viper.BindEnv("cache.enabled", "AKD_CACHE_ENABLED")
	viper.BindEnv("cache.size", "AKD_CACHE_SIZE")

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

	conf.AppName = "AchievementKeeperDaemon"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
