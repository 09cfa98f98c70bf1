package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	ListenAddr string
	Backend    string
	Device     string
	OutputPath string
	SampleRate int
	// PeriodSize 0 asks ALSA for the largest period the device offers;
	// other backends use sink.DefaultPeriodSize.
	PeriodSize int
	Variant    string
	APIKey     string
	MaxTones   int
	LogLevel   string

	// MaxDurationMs caps the playing time of one sequence and
	// MaxRenderFrames the samples one render may buffer. QueueTimeout
	// bounds the wait for the device.
	MaxDurationMs   int
	MaxRenderFrames int
	QueueTimeout    time.Duration
}

func Load() *Config {
	return &Config{
		ListenAddr: getEnv("ABEEP_LISTEN_ADDR", ":8080"),
		Backend:    getEnv("ABEEP_BACKEND", "alsa"),
		Device:     getEnv("ABEEP_DEVICE", "default"),
		OutputPath: getEnv("ABEEP_OUTPUT", ""),
		SampleRate: getEnvInt("ABEEP_SAMPLE_RATE", 44100),
		PeriodSize: getEnvInt("ABEEP_PERIOD_SIZE", 0),
		Variant:    getEnv("ABEEP_VARIANT", "nco"),
		APIKey:     getEnv("ABEEP_API_KEY", ""),
		MaxTones:   getEnvInt("ABEEP_MAX_TONES", 64),
		LogLevel:   getEnv("LOG_LEVEL", "info"),

		MaxDurationMs:   getEnvInt("ABEEP_MAX_DURATION_MS", 5*60*1000),
		MaxRenderFrames: getEnvInt("ABEEP_MAX_RENDER_FRAMES", 1<<24),
		QueueTimeout:    time.Duration(getEnvInt("ABEEP_QUEUE_TIMEOUT_MS", 30000)) * time.Millisecond,
	}
}

// writeSlack covers opening and draining the device around a playback.
const writeSlack = 15 * time.Second

// WriteTimeout is long enough for a request that waits the full queue
// timeout and then plays the longest sequence allowed. It is 0, meaning no
// timeout, when playback length is unbounded.
func (c *Config) WriteTimeout() time.Duration {
	if c.MaxDurationMs <= 0 {
		return 0
	}
	return c.QueueTimeout + time.Duration(c.MaxDurationMs)*time.Millisecond + writeSlack
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvInt falls back on unset or unparsable values.
func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}
