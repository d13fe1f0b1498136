package providers

import (
	"fmt"
	"msd/internal/structures"
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

	viper.BindEnv("logger.level", "MSD_LOG_LEVEL")
	viper.BindEnv("data.dir", "MSD_DATA_DIR")
	viper.BindEnv("cache.enabled", "MSD_CACHE_ENABLED")
	viper.BindEnv("cache.dataSize", "MSD_CACHE_SIZE")
	viper.BindEnv("scheduler.pollInterval", "MSD_POLL_INTERVAL")
	viper.BindEnv("scheduler.errorBackoff", "MSD_ERROR_BACKOFF")

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

	if conf.Backup.Dir == "" {
		conf.Backup.Dir = filepath.Join(conf.Data.Dir, "backups")
	}

	conf.AppName = "MessageStatisticDaemon"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
