package main

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/smallyu/go-cryptlib/internal/config"
	"github.com/smallyu/go-cryptlib/internal/logging"
	"github.com/smallyu/go-cryptlib/pkg/cryptlib"
)

// env carries the state shared by all commands of one invocation.
type env struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
	logger  *zap.Logger
	out     io.Writer
	rand    io.Reader
}

// newRootCmd builds the command tree. Results are written to out as JSON and
// all key material is drawn from rand.
func newRootCmd(out io.Writer, rand io.Reader) *cobra.Command {
	e := &env{
		v:      config.NewViper(),
		logger: zap.NewNop(),
		out:    out,
		rand:   rand,
	}

	rootCmd := &cobra.Command{
		Use:          "cryptlib",
		Short:        "Elliptic curve and ML-KEM primitives.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.load(cmd)
		},
	}
	rootCmd.SetOut(out)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&e.cfgFile, "config", "", "path to a YAML configuration file")
	flags.String("algorithm", "", "algorithm: ECDSA, ECDH or KYBER")
	flags.String("variant", "", "curve name or Kyber variant")
	flags.String("encoding", "", "byte encoding for keys and outputs: hex or base64")
	flags.String("log-level", "", "logging level")
	flags.String("log-format", "", "logging format: console, json or logfmt")
	for key, flag := range map[string]string{
		"algorithm":      "algorithm",
		"variant":        "variant",
		"encoding":       "encoding",
		"logging.level":  "log-level",
		"logging.format": "log-format",
	} {
		// BindPFlag only fails for a nil flag.
		_ = e.v.BindPFlag(key, flags.Lookup(flag))
	}

	rootCmd.AddCommand(
		keygenCmd(e),
		signCmd(e),
		verifyCmd(e),
		ecdhCmd(e),
		kemCmd(e),
		selftestCmd(e),
		versionCmd(e),
	)
	return rootCmd
}

// load reads the configuration and builds the logger.
func (e *env) load(cmd *cobra.Command) error {
	cfg, err := config.Load(e.v, e.cfgFile)
	if err != nil {
		return err
	}
	logger, err := logging.New(logging.Config{
		Format: cfg.Logging.Format,
		Level:  cfg.Logging.Level,
		Writer: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	e.cfg = cfg
	e.logger = logger.Named("cryptlib")
	e.logger.Debug("loaded configuration",
		zap.String("algorithm", cfg.Algorithm),
		zap.String("variant", cfg.Variant),
		zap.String("encoding", cfg.Encoding))
	return nil
}

// requireAlgorithm fails unless the configured algorithm is want.
func (e *env) requireAlgorithm(want string) error {
	if !strings.EqualFold(e.cfg.Algorithm, want) {
		return cryptlib.NewError(cryptlib.ErrConfiguration,
			"command requires --algorithm "+want+", configured "+e.cfg.Algorithm)
	}
	return nil
}

// decode parses a command argument in the configured encoding.
func (e *env) decode(name, s string) ([]byte, error) {
	b, err := e.cfg.DecodeBytes(s)
	if err != nil {
		return nil, errors.WithMessagef(err, "bad %s", name)
	}
	return b, nil
}

// print writes v to the output as indented JSON.
func (e *env) print(v interface{}) error {
	enc := json.NewEncoder(e.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
