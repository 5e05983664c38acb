package majorana

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config holds the construction parameters of an Engine.
type Config struct {
	Qubits int
	Noise  NoiseModel
	// Seed makes the run reproducible. Nil seeds from the runtime.
	Seed   *uint64
	Record bool
}

// ConfigOption is a function type for configuring engines.
type ConfigOption func(*Config)

// NewConfig returns a noiseless, recording configuration for n qubits.
func NewConfig(n int, opts ...ConfigOption) *Config {
	cfg := &Config{
		Qubits: n,
		Record: true,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// WithReadoutError sets p_m.
func WithReadoutError(p float64) ConfigOption {
	return func(c *Config) {
		c.Noise.ReadoutError = p
	}
}

// WithDephasing sets p_z.
func WithDephasing(p float64) ConfigOption {
	return func(c *Config) {
		c.Noise.Dephasing = p
	}
}

// WithPoisoning sets p_poison.
func WithPoisoning(p float64) ConfigOption {
	return func(c *Config) {
		c.Noise.Poisoning = p
	}
}

// WithNoise replaces the whole noise model.
func WithNoise(nm NoiseModel) ConfigOption {
	return func(c *Config) {
		c.Noise = nm
	}
}

// WithSeed fixes the random source.
func WithSeed(seed uint64) ConfigOption {
	return func(c *Config) {
		c.Seed = &seed
	}
}

// WithRecording turns transcript recording on or off.
func WithRecording(record bool) ConfigOption {
	return func(c *Config) {
		c.Record = record
	}
}

// Validate checks qubit count and noise rates.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("nil config")
	}

	if c.Qubits <= 0 {
		return errors.Wrapf(ErrQubitCount, "got %d", c.Qubits)
	}

	return c.Noise.Validate()
}

/*
LoadConfig reads a configuration with viper. The file at path may be YAML,
JSON or TOML; an empty path skips the file. Environment variables prefixed
MAJORANA_ override file values, for example MAJORANA_P_M=0.02.

Recognised keys: n, p_m, p_z, p_poison, seed, record.
*/
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	SetConfigDefaults(v)

	v.SetEnvPrefix("majorana")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
	}

	return ConfigFromViper(v)
}

// SetConfigDefaults registers the defaults every key falls back to.
func SetConfigDefaults(v *viper.Viper) {
	v.SetDefault("n", 2)
	v.SetDefault("p_m", 0.0)
	v.SetDefault("p_z", 0.0)
	v.SetDefault("p_poison", 0.0)
	v.SetDefault("record", true)
}

// ConfigFromViper builds and validates a Config from an already populated viper.
func ConfigFromViper(v *viper.Viper) (*Config, error) {
	cfg := NewConfig(
		v.GetInt("n"),
		WithReadoutError(v.GetFloat64("p_m")),
		WithDephasing(v.GetFloat64("p_z")),
		WithPoisoning(v.GetFloat64("p_poison")),
		WithRecording(v.GetBool("record")),
	)

	if v.IsSet("seed") {
		WithSeed(v.GetUint64("seed"))(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
