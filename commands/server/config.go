package server

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/iov-one/pool/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// ConfigFile is the name of the daemon configuration file, looked up in
// the tendermint config directory unless a path is given.
const ConfigFile = "poolvaultd.toml"

// Config holds the daemon settings read from the configuration file.
// Command line flags override any value set here.
type Config struct {
	// Bind is the address the ABCI server listens on.
	Bind string `toml:"bind"`
	// DBPath is the database location. Relative paths are resolved
	// against the home directory. Empty means the default location.
	DBPath string `toml:"db_path"`
	// Debug returns full error information in ABCI responses.
	Debug bool `toml:"debug"`
	// LogLevel is one of debug, info, error or none.
	LogLevel string `toml:"log_level"`
	// Metrics is the address prometheus metrics are served on. Empty
	// disables the metrics endpoint.
	Metrics string `toml:"metrics"`
}

// DefaultConfig returns the settings used when no file is present.
func DefaultConfig() Config {
	return Config{
		Bind:     "tcp://localhost:26658",
		LogLevel: "info",
	}
}

// DefaultConfigPath returns the configuration file location for the home
// directory.
func DefaultConfigPath(home string) string {
	return filepath.Join(home, DirConfig, ConfigFile)
}

// LoadConfig reads the configuration file on top of the defaults. A
// missing file is not an error.
func LoadConfig(path string) (Config, error) {
	conf := DefaultConfig()
	if path == "" {
		return conf, nil
	}
	md, err := toml.DecodeFile(path, &conf)
	switch {
	case os.IsNotExist(err):
		return conf, nil
	case err != nil:
		return conf, errors.Wrapf(errors.ErrInvalidInput, "config %s: %s", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return conf, errors.Wrapf(errors.ErrInvalidInput, "config %s: unknown key %q", path, undecoded[0].String())
	}
	return conf, conf.Validate()
}

// Validate ensures the configuration can be used to start the daemon.
func (c Config) Validate() error {
	if c.Bind == "" {
		return errors.Wrap(errors.ErrEmpty, "bind")
	}
	if _, err := log.AllowLevel(c.LogLevel); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return nil
}

// FilterLogger applies the configured log level.
func (c Config) FilterLogger(logger log.Logger) (log.Logger, error) {
	opt, err := log.AllowLevel(c.LogLevel)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return log.NewFilter(logger, opt), nil
}

// WriteConfig stores the configuration as toml. An existing file is
// never overwritten.
func WriteConfig(path string, c Config) error {
	if _, err := os.Stat(path); err == nil {
		return errors.Wrapf(errors.ErrDuplicate, "config %s already exists", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "config directory")
	}
	fd, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return errors.Wrap(err, "create config")
	}
	defer fd.Close()
	if err := toml.NewEncoder(fd).Encode(c); err != nil {
		return errors.Wrap(err, "encode config")
	}
	return nil
}
