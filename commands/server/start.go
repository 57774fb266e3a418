package server

import (
	"flag"
	"net/http"
	"path/filepath"

	"github.com/iov-one/pool/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagBind     = "bind"
	flagConfig   = "config"
	flagDB       = "db"
	flagDebug    = "debug"
	flagLogLevel = "log_level"
	flagMetrics  = "metrics"
)

// Options are passed to the AppGenerator to build the application.
type Options struct {
	Home   string
	DBPath string
	Logger log.Logger
	Debug  bool
}

// AppGenerator lets us lazily initialize app, using home dir
// and logger potentially initialized with other flags
type AppGenerator func(*Options) (abci.Application, error)

// parseStartArgs loads the configuration file and applies all explicitly
// set flags on top of it.
func parseStartArgs(home string, args []string) (Config, error) {
	startFlags := flag.NewFlagSet("start", flag.ContinueOnError)
	configPath := startFlags.String(flagConfig, DefaultConfigPath(home), "configuration file")
	bind := startFlags.String(flagBind, "", "address server listens on")
	db := startFlags.String(flagDB, "", "database path")
	debug := startFlags.Bool(flagDebug, false, "call stack returned on error")
	level := startFlags.String(flagLogLevel, "", "log level: debug, info, error or none")
	metrics := startFlags.String(flagMetrics, "", "address prometheus metrics are served on")
	if err := startFlags.Parse(args); err != nil {
		return Config{}, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}

	conf, err := LoadConfig(*configPath)
	if err != nil {
		return conf, err
	}
	startFlags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case flagBind:
			conf.Bind = *bind
		case flagDB:
			conf.DBPath = *db
		case flagDebug:
			conf.Debug = *debug
		case flagLogLevel:
			conf.LogLevel = *level
		case flagMetrics:
			conf.Metrics = *metrics
		}
	})
	if conf.DBPath != "" && !filepath.IsAbs(conf.DBPath) {
		conf.DBPath = filepath.Join(home, conf.DBPath)
	}
	return conf, conf.Validate()
}

// StartCmd initializes the application, and runs the ABCI socket server
// until the process is interrupted.
func StartCmd(gen AppGenerator, logger log.Logger, home string, args []string) error {
	conf, err := parseStartArgs(home, args)
	if err != nil {
		return err
	}
	logger, err = conf.FilterLogger(logger)
	if err != nil {
		return err
	}

	// Generate the app in the proper dir
	app, err := gen(&Options{
		Home:   home,
		DBPath: conf.DBPath,
		Logger: logger,
		Debug:  conf.Debug,
	})
	if err != nil {
		return err
	}

	if conf.Metrics != "" {
		go serveMetrics(conf.Metrics, logger.With("module", "metrics"))
	}

	logger.Info("Starting ABCI app", "bind", conf.Bind)
	svr, err := server.NewServer(conf.Bind, "socket", app)
	if err != nil {
		return errors.Wrap(err, "create listener")
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return errors.Wrap(err, "start abci server")
	}

	// Wait forever
	cmn.TrapSignal(logger, func() {
		// Cleanup
		svr.Stop()
	})
	select {}
}

func serveMetrics(addr string, logger log.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	logger.Info("Serving metrics", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("Metrics server stopped", "err", err)
	}
}
