package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Cfg 是一个全局变量，保存加载后的应用配置
var Cfg *Config

// Config 结构体定义了应用程序的所有配置项
// 它与 config.yaml 文件的结构完全对应
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
}

// ServerConfig 定义了HTTP服务相关的配置
type ServerConfig struct {
	Mode    string     `mapstructure:"mode"`
	Address string     `mapstructure:"address"`
	Cors    CorsConfig `mapstructure:"cors"`
}

// CorsConfig 定义了CORS相关的配置
type CorsConfig struct {
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
}

// DatabaseConfig 定义了持久化存储相关的配置
type DatabaseConfig struct {
	Sqlite SqliteConfig `mapstructure:"sqlite"`
}

// SqliteConfig 定义了SQLite数据文件的配置
type SqliteConfig struct {
	Path string `mapstructure:"path"`
}

// LoadConfig 查找、加载并解析配置文件。
// 依次在 ./config 和当前目录中查找 config.yaml，
// 并允许通过环境变量覆盖（例如 SERVER_ADDRESS）。
func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 缺少配置文件时按默认值运行
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.address", ":8080")
	v.SetDefault("database.sqlite.path", "data.db")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	Cfg = &cfg
	return Cfg, nil
}
