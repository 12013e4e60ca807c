package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Detection DetectionConfig `mapstructure:"detection"`
	Decoys    DecoysConfig    `mapstructure:"decoys"`
	Alerts    AlertsConfig    `mapstructure:"alerts"`
	Exporters ExportersConfig `mapstructure:"exporters"`
	Stream    StreamConfig    `mapstructure:"stream"`
	Locales   LocalesConfig   `mapstructure:"locales"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type ServerConfig struct {
	TrapPort         int      `mapstructure:"trap_port"`
	AdminPort        int      `mapstructure:"admin_port"`
	MetricsPort      int      `mapstructure:"metrics_port"`
	Host             string   `mapstructure:"host"`
	BaseDomain       string   `mapstructure:"base_domain"`
	SecretKey        string   `mapstructure:"secret_key"`
	AdminCORSOrigins []string `mapstructure:"admin_cors_origins"`
}

type MetricsConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	EnableLatency bool `mapstructure:"enable_latency"`
	EnablePerPath bool `mapstructure:"enable_per_path"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TLS      bool   `mapstructure:"tls"`
}

// DetectionConfig carries the thresholds used to classify submissions.
// Thresholds are expressed in seconds of elapsed form-fill time.
type DetectionConfig struct {
	TooFastThreshold        float64       `mapstructure:"too_fast_threshold"`
	TooSlowThreshold        float64       `mapstructure:"too_slow_threshold"`
	GetDetection            bool          `mapstructure:"get_detection"`
	RepeatOffenderThreshold int           `mapstructure:"repeat_offender_threshold"`
	TrackingWindow          time.Duration `mapstructure:"tracking_window"`
	RenderTokenMaxAge       time.Duration `mapstructure:"render_token_max_age"`
}

type DecoysConfig struct {
	Profiles []DecoyProfileConfig `mapstructure:"profiles"`
}

type DecoyProfileConfig struct {
	Name              string   `mapstructure:"name"`
	Enabled           bool     `mapstructure:"enabled"`
	Paths             []string `mapstructure:"paths"`
	ErrorMessage      string   `mapstructure:"error_message"`
	MaxUsernameLength int      `mapstructure:"max_username_length"`
	MaxPasswordLength int      `mapstructure:"max_password_length"`
}

type AlertsConfig struct {
	FailSilently  bool            `mapstructure:"fail_silently"`
	SubjectPrefix string          `mapstructure:"subject_prefix"`
	Channels      []ChannelConfig `mapstructure:"channels"`
}

type ChannelConfig struct {
	Name     string                 `mapstructure:"name"`
	Settings map[string]interface{} `mapstructure:"settings"`
}

type ExportersConfig struct {
	Exporters []ExporterConfig `mapstructure:"exporters"`
}

type ExporterConfig struct {
	Name     string                 `mapstructure:"name"`
	Settings map[string]interface{} `mapstructure:"settings"`
}

type StreamConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	MaxConnections int    `mapstructure:"max_connections"`
	PingPeriod     string `mapstructure:"ping_period"`
	PongWait       string `mapstructure:"pong_wait"`
}

type LocalesConfig struct {
	Default string `mapstructure:"default"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

var globalConfig Config
var decoysConfig DecoysConfig

func Load(configPath string) error {
	setViperDefaults()

	if err := loadConfigFile(configPath, "config", &globalConfig); err != nil {
		return fmt.Errorf("could not load main config file: %w", err)
	}

	if err := loadConfigFile(configPath, "decoys", &decoysConfig); err != nil {
		return fmt.Errorf("could not load decoys config file: %w", err)
	}

	globalConfig.Decoys = decoysConfig

	return nil
}

func loadConfigFile(configPath, fileName string, out interface{}) error {
	viper.SetConfigName(fileName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configPath)
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("config file %s.yaml not found, using only environment variables", fileName)
		}
		return fmt.Errorf("error reading config file %s.yaml: %w", fileName, err)
	}

	if err := viper.Unmarshal(out); err != nil {
		return fmt.Errorf("failed to unmarshal %s config: %w", fileName, err)
	}

	return nil
}

func setViperDefaults() {
	viper.SetDefault("server.trap_port", 8080)
	viper.SetDefault("server.admin_port", 8081)
	viper.SetDefault("server.metrics_port", 9090)
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("detection.too_fast_threshold", 2.0)
	viper.SetDefault("detection.too_slow_threshold", 600.0)
	viper.SetDefault("detection.get_detection", false)
	viper.SetDefault("detection.repeat_offender_threshold", 3)
	viper.SetDefault("detection.tracking_window", "24h")
	viper.SetDefault("detection.render_token_max_age", "24h")
	viper.SetDefault("alerts.fail_silently", true)
	viper.SetDefault("alerts.subject_prefix", "🚨 Honeypot Alert")
	viper.SetDefault("stream.enabled", true)
	viper.SetDefault("stream.max_connections", 100)
	viper.SetDefault("stream.ping_period", "30s")
	viper.SetDefault("stream.pong_wait", "45s")
	viper.SetDefault("locales.default", "en")
	viper.SetDefault("logging.level", "warning")
}

func GetConfig() *Config {
	return &globalConfig
}
