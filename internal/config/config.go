package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	MQTT    MQTTConfig    `mapstructure:"mqtt"`
	Player  PlayerConfig  `mapstructure:"player"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type MQTTConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	ClientID    string `mapstructure:"client_id"`
	TopicPrefix string `mapstructure:"topic_prefix"`
	QoS         int    `mapstructure:"qos"`
}

type PlayerConfig struct {
	Volume int `mapstructure:"volume"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads the YAML config at path, or the default location under the user
// config dir when path is empty. Every key has a default; REMO_* environment
// variables override the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		if dir, err := defaultDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	v.SetEnvPrefix("REMO")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		// A missing file at the default location just means defaults.
		if _, notFound := err.(viper.ConfigFileNotFoundError); path != "" || !notFound {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mqtt.host", "localhost")
	v.SetDefault("mqtt.port", 1883)
	v.SetDefault("mqtt.username", "")
	v.SetDefault("mqtt.password", "")
	v.SetDefault("mqtt.client_id", "remo")
	v.SetDefault("mqtt.topic_prefix", "remo")
	v.SetDefault("mqtt.qos", 0)
	v.SetDefault("player.volume", 80)
	v.SetDefault("logging.level", "info")
}

func (c *Config) validate() error {
	if c.MQTT.Port < 1 || c.MQTT.Port > 65535 {
		return fmt.Errorf("mqtt.port %d out of range", c.MQTT.Port)
	}
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		return fmt.Errorf("mqtt.qos %d out of range", c.MQTT.QoS)
	}

	prefix := c.MQTT.TopicPrefix
	if prefix == "" {
		return fmt.Errorf("mqtt.topic_prefix must not be empty")
	}
	if strings.ContainsAny(prefix, "+#") || strings.HasSuffix(prefix, "/") {
		return fmt.Errorf("mqtt.topic_prefix %q is not a plain topic", prefix)
	}

	if c.Player.Volume < 0 || c.Player.Volume > 100 {
		return fmt.Errorf("player.volume %d out of range", c.Player.Volume)
	}

	if _, err := parseLevel(c.Logging.Level); err != nil {
		return err
	}

	return nil
}

// LogLevel returns the configured slog level. validate guarantees it parses.
func (c *Config) LogLevel() slog.Level {
	level, err := parseLevel(c.Logging.Level)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

func parseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("logging.level %q is not a level", name)
}

func defaultDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, "remo"), nil
}
