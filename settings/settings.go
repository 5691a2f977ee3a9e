// Package settings reads process settings from defaults, an optional JSON
// file, a .env file and GRAPHRACERS_* environment variables, in increasing
// order of precedence.
package settings

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// FileName is looked up in the working directory when no file is given
	FileName  = "graphracers"
	EnvPrefix = "GRAPHRACERS"
)

// NgrokSettings controls the optional public tunnel
type NgrokSettings struct {
	Enabled   bool   `json:"enabled" mapstructure:"enabled"`
	Domain    string `json:"domain" mapstructure:"domain"`
	AuthToken string `json:"-" mapstructure:"authtoken"`
}

// MetricsSettings controls the OpenTelemetry meter provider. Metrics are
// exported to stderr.
type MetricsSettings struct {
	Enabled  bool          `json:"enabled" mapstructure:"enabled"`
	Interval time.Duration `json:"interval" mapstructure:"interval"`
}

// Settings holds everything the binary needs to start
type Settings struct {
	Host         string          `json:"host" mapstructure:"host"`
	Port         int             `json:"port" mapstructure:"port"`
	ConfigsDir   string          `json:"configs_dir" mapstructure:"configs_dir"`
	DefaultTrack string          `json:"default_track" mapstructure:"default_track"`
	LogLevel     string          `json:"log_level" mapstructure:"log_level"`
	LogFormat    string          `json:"log_format" mapstructure:"log_format"`
	SessionTTL   time.Duration   `json:"session_ttl" mapstructure:"session_ttl"`
	Ngrok        NgrokSettings   `json:"ngrok" mapstructure:"ngrok"`
	Metrics      MetricsSettings `json:"metrics" mapstructure:"metrics"`
}

// Addr is the listen address for the HTTP server
func (s *Settings) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// BaseURL is the loopback URL of the HTTP server
func (s *Settings) BaseURL() string {
	host := s.Host
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(s.Port))
}

func setDefaults() {
	viper.SetDefault("host", "")
	viper.SetDefault("port", 8080)
	viper.SetDefault("configs_dir", "configs")
	viper.SetDefault("default_track", "river_wild")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_format", "console")
	viper.SetDefault("session_ttl", "24h")

	viper.SetDefault("ngrok.enabled", false)
	viper.SetDefault("ngrok.domain", "")
	viper.SetDefault("ngrok.authtoken", "")

	viper.SetDefault("metrics.enabled", false)
	viper.SetDefault("metrics.interval", "1m")
}

// Load builds Settings. configFile may be empty, in which case
// graphracers.json is read from the working directory if it exists.
// An explicitly named file must exist.
func Load(configFile string) (*Settings, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	setDefaults()

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	if err := viper.BindEnv("ngrok.authtoken", "GRAPHRACERS_NGROK_AUTHTOKEN", "NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"); err != nil {
		return nil, fmt.Errorf("error binding env: %v", err)
	}

	viper.SetConfigType("json")
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(FileName)
		viper.AddConfigPath(".")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %v", err)
		}
	}

	s := &Settings{
		Host:         viper.GetString("host"),
		Port:         viper.GetInt("port"),
		ConfigsDir:   viper.GetString("configs_dir"),
		DefaultTrack: viper.GetString("default_track"),
		LogLevel:     viper.GetString("log_level"),
		LogFormat:    viper.GetString("log_format"),
		SessionTTL:   viper.GetDuration("session_ttl"),
		Ngrok: NgrokSettings{
			Enabled:   viper.GetBool("ngrok.enabled"),
			Domain:    viper.GetString("ngrok.domain"),
			AuthToken: viper.GetString("ngrok.authtoken"),
		},
		Metrics: MetricsSettings{
			Enabled:  viper.GetBool("metrics.enabled"),
			Interval: viper.GetDuration("metrics.interval"),
		},
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate rejects settings the server cannot start with
func (s *Settings) Validate() error {
	if s.Port < 0 || s.Port > 65535 {
		return fmt.Errorf("invalid port %d", s.Port)
	}
	if s.ConfigsDir == "" {
		return errors.New("configs_dir is required")
	}
	if s.SessionTTL < 0 {
		return fmt.Errorf("invalid session_ttl %s", s.SessionTTL)
	}
	switch s.LogFormat {
	case "console", "json", "auto":
	default:
		return fmt.Errorf("invalid log_format %q (want console, json or auto)", s.LogFormat)
	}
	if s.Ngrok.Enabled && s.Ngrok.AuthToken == "" {
		return errors.New("ngrok is enabled but no auth token is set (NGROK_AUTHTOKEN)")
	}
	if s.Metrics.Enabled && s.Metrics.Interval <= 0 {
		return fmt.Errorf("invalid metrics.interval %s", s.Metrics.Interval)
	}
	return nil
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("error loading %s: %v", path, err)
	}
	return nil
}
