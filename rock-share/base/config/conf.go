package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gp-miner/gp_config"
	"gp-miner/gradual_pattern/conf/mine"
	"gp-miner/rock-share/base/logger"
)

// All 全部配置索引
var All *AllConfig

var DefaultPath = "./config"
var DebugPath = "./base/config"

// InitConfig 初始化读取配置文件，读不到直接panic
func InitConfig() {
	all, err := Load(DefaultPath)
	if err != nil {
		panic(err)
	}
	All = all
	fmt.Printf("config file content:\n%+v\n", *All)
}

// Load 读取dir下的config.yml，DEBUG=true 时再叠加 DebugPath 下的 debug.yml
func Load(dir string) (*AllConfig, error) {
	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName("config")
	configType := "yml"
	v.SetConfigType(configType)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	//增量配置
	if os.Getenv("DEBUG") == "true" {
		debugPath := filepath.Join(DebugPath, "debug.yml")
		exists, err := isExists(debugPath)
		if err != nil {
			return nil, err
		}
		if exists {
			v.SetConfigFile(debugPath)
			if err := v.MergeInConfig(); err != nil {
				return nil, err
			}
		} else {
			fmt.Printf("%s not exists\n", debugPath)
		}
	}

	// 监控配置文件变化，挖掘参数在下一次任务生效
	v.OnConfigChange(func(e fsnotify.Event) {
		logger.Infof("Config file changed: %s", e.Name)
		next := &AllConfig{}
		if err := v.Unmarshal(next); err != nil {
			logger.Errorf("reload config failed, err:%v", err)
			return
		}
		next.fill()
		All = next
	})
	v.WatchConfig()

	all := &AllConfig{}
	if err := v.Unmarshal(all); err != nil {
		return nil, err
	}
	all.fill()
	if err := all.Mining.Validate(); err != nil {
		return nil, err
	}
	return all, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server_config.http_port", gp_config.GinPort)
	v.SetDefault("server_config.result_dir", gp_config.ResultDir)
	v.SetDefault("logger_config.level", "info")
	v.SetDefault("logger_config.path", "./logs")
	v.SetDefault("logger_config.max_age", 7)
	v.SetDefault("logger_config.rotation_time", 24)
	v.SetDefault("logger_config.rotation_size", 1024)
}

// fill 挖掘参数没配的用默认值
func (a *AllConfig) fill() {
	a.Mining = mine.Default().Merge(a.Mining)
}

// AllConfig 全部配置文件
type AllConfig struct {
	Server ServerConfig `mapstructure:"server_config"`
	Logger LoggerConfig `mapstructure:"logger_config"`
	Mining mine.Config  `mapstructure:"mining_config"`
}

// ServerConfig 服务配置
type ServerConfig struct {
	HttpPort  string `mapstructure:"http_port"`
	SentryDsn string `mapstructure:"sentry_dsn"`
	ResultDir string `mapstructure:"result_dir"`
}

// LoggerConfig 日志配置
type LoggerConfig struct {
	Level        string        `mapstructure:"level"`
	Path         string        `mapstructure:"path"`
	MaxAge       time.Duration `mapstructure:"max_age"`
	RotationTime time.Duration `mapstructure:"rotation_time"`
	RotationSize uint32        `mapstructure:"rotation_size"`
}

// 判断所给文件/文件夹是否存在
func isExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
