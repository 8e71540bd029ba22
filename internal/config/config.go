// Package config loads the command line tool configuration from defaults, an
// optional YAML file and CRYPTLIB_* environment variables, in increasing
// order of precedence.
package config

import (
	"encoding/base64"
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/smallyu/go-cryptlib/pkg/cryptlib"
	"github.com/smallyu/go-cryptlib/pkg/cryptlib/factory"
)

// EnvPrefix is the prefix of environment variables overriding configuration
// keys. Nested keys use an underscore, for example CRYPTLIB_LOGGING_LEVEL.
const EnvPrefix = "CRYPTLIB"

// Byte encodings for keys, signatures and ciphertexts on the command line.
const (
	Hex    = "hex"
	Base64 = "base64"
)

// Config directly corresponds to the configuration file.
type Config struct {
	Algorithm string  `mapstructure:"algorithm"`
	Variant   string  `mapstructure:"variant"`
	Encoding  string  `mapstructure:"encoding"`
	Logging   Logging `mapstructure:"logging"`
}

// Logging contains the logger settings.
type Logging struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

var defaults = map[string]interface{}{
	"algorithm":      factory.ECDSA,
	"variant":        "P-256",
	"encoding":       Hex,
	"logging.level":  "info",
	"logging.format": "console",
}

// NewViper returns a viper instance with the defaults registered and
// environment overrides enabled.
func NewViper() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	// for environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// Load reads the file at path into v when path is not empty, then unmarshals
// and validates the result.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "error reading config file %s", path)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, errors.Wrap(err, "error unmarshaling config")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the algorithm, variant and encoding names.
func (c *Config) Validate() error {
	if err := factory.New(c.Algorithm).Init(c.Variant); err != nil {
		return err
	}

	switch c.Encoding {
	case Hex, Base64:
	default:
		return cryptlib.NewError(cryptlib.ErrConfiguration, "unsupported encoding: "+c.Encoding)
	}
	return nil
}

// EncodeBytes renders b in the configured encoding.
func (c *Config) EncodeBytes(b []byte) string {
	if c.Encoding == Base64 {
		return base64.StdEncoding.EncodeToString(b)
	}
	return hex.EncodeToString(b)
}

// DecodeBytes parses s in the configured encoding.
func (c *Config) DecodeBytes(s string) ([]byte, error) {
	var (
		b   []byte
		err error
	)
	if c.Encoding == Base64 {
		b, err = base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	} else {
		b, err = hex.DecodeString(strings.TrimSpace(s))
	}
	if err != nil {
		return nil, cryptlib.NewError(cryptlib.ErrInvalidEncoding, "invalid "+c.Encoding+" input: "+err.Error())
	}
	return b, nil
}
