package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Mode       string        `mapstructure:"mode"`
	Port       int           `mapstructure:"port"`
	ReadLimit  int64         `mapstructure:"read_limit"`
	PingPeriod time.Duration `mapstructure:"ping_period"`
	Secret     string        `mapstructure:"secret"`

	API       API       `mapstructure:"api"`
	Signaling Signaling `mapstructure:"signaling"`
	ICE       ICE       `mapstructure:"ice"`
	Media     Media     `mapstructure:"media"`
	Call      Call      `mapstructure:"call"`
	Relay     Relay     `mapstructure:"relay"`
}

// API is the REST backend holding users and appointments.
type API struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	Token   string        `mapstructure:"token"`
}

type Signaling struct {
	URL          string        `mapstructure:"url"`
	SendQueue    int           `mapstructure:"send_queue"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	MaxDialRetry time.Duration `mapstructure:"max_dial_retry"`
}

type ICE struct {
	Servers []string `mapstructure:"servers"`
}

type Media struct {
	Audio        bool    `mapstructure:"audio"`
	Video        bool    `mapstructure:"video"`
	Width        int     `mapstructure:"width"`
	Height       int     `mapstructure:"height"`
	FrameRate    float64 `mapstructure:"frame_rate"`
	SampleRate   int     `mapstructure:"sample_rate"`
	ChannelCount int     `mapstructure:"channel_count"`
}

type Call struct {
	AppointmentID      string        `mapstructure:"appointment_id"`
	NegotiationTimeout time.Duration `mapstructure:"negotiation_timeout"`
}

// Relay tunes the development signaling relay.
type Relay struct {
	RateLimit    int           `mapstructure:"rate_limit"`
	RateInterval time.Duration `mapstructure:"rate_interval"`
	SendQueue    int           `mapstructure:"send_queue"`
}

func Load() (*Config, error) {
	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	return LoadFile(fmt.Sprintf("config/config.%s.yaml", env))
}

// LoadFile reads fileName if it exists, then applies COUNSEL_* environment
// overrides, e.g. COUNSEL_SIGNALING_URL.
func LoadFile(fileName string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(fileName)

	v.SetEnvPrefix("counsel")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("config loaded")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	log.Info().
		Str("module", "config").
		Str("mode", cfg.Mode).
		Str("api", cfg.API.BaseURL).
		Str("signaling", cfg.Signaling.URL).
		Msg("config")
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("read_limit", 65536)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("secret", "")

	v.SetDefault("api.base_url", "http://localhost:3000/api")
	v.SetDefault("api.timeout", "10s")
	v.SetDefault("api.token", "")

	v.SetDefault("signaling.url", "ws://localhost:8080/api/ws/signal")
	v.SetDefault("signaling.send_queue", 64)
	v.SetDefault("signaling.dial_timeout", "5s")
	v.SetDefault("signaling.max_dial_retry", "15s")

	v.SetDefault("ice.servers", []string{"stun:stun.l.google.com:19302"})

	v.SetDefault("media.audio", true)
	v.SetDefault("media.video", true)
	v.SetDefault("media.width", 640)
	v.SetDefault("media.height", 480)
	v.SetDefault("media.frame_rate", 30)
	v.SetDefault("media.sample_rate", 48000)
	v.SetDefault("media.channel_count", 2)

	v.SetDefault("call.appointment_id", "")
	v.SetDefault("call.negotiation_timeout", "30s")

	v.SetDefault("relay.rate_limit", 50)
	v.SetDefault("relay.rate_interval", "1s")
	v.SetDefault("relay.send_queue", 32)
}
