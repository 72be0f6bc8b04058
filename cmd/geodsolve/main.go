// Command geodsolve solves geodesic problems on the ellipsoid, reading one
// problem per line from standard input.
//
//	geodsolve [-i | -l "lat1 lon1 azi1"] [-n | -e "a f"] [-d] [-f] [-p prec]
//
// By default it solves the direct problem "lat1 lon1 azi1 s12" and prints
// "lat2 lon2 azi2". With -i it solves the inverse problem "lat1 lon1 lat2
// lon2" and prints "azi1 azi2 s12". With -l it reads distances s12 along
// a fixed geodesic. Settings may also come from a config file, a .env file
// or GEODSOLVE_* environment variables.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/geodkit/geodesic/internal/batch"
	"github.com/geodkit/geodesic/internal/config"
	"github.com/geodkit/geodesic/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run returns the exit status: 0 on success, 1 if any record failed or
// the command could not run.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(stderr, "geodsolve: .env:", err)
	}

	flags := config.Flags("geodsolve")
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprintln(stderr, "Usage: geodsolve [-i | -l \"lat1 lon1 azi1\"] [-n | -e \"a f\"] [-d] [-f] [-p prec]")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 1
	}
	if flags.NArg() > 0 {
		fmt.Fprintf(stderr, "geodsolve: unexpected argument %q\n", flags.Arg(0))
		flags.Usage()
		return 1
	}

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintln(stderr, "geodsolve:", err)
		return 1
	}

	logger := logging.New(logging.Config{
		Service:    "geodsolve",
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		File:       cfg.Log.File,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	}, stderr)
	defer logger.Close()

	opts, err := batch.OptionsFromConfig(cfg)
	if err != nil {
		fmt.Fprintln(stderr, "geodsolve:", err)
		return 1
	}
	opts.Logger = logger.Logger

	var metrics *batch.Metrics
	if cfg.Metrics.File != "" {
		metrics = batch.NewMetrics()
		opts.Metrics = metrics
	}
	if cfg.Cache.SizeMB > 0 {
		cache, err := batch.NewCache(ctx, cfg.Cache.SizeMB)
		if err != nil {
			logger.Error("result cache disabled", "error", err)
		} else {
			defer cache.Close()
			opts.Cache = cache
		}
	}

	p, err := batch.New(opts)
	if err != nil {
		fmt.Fprintln(stderr, "geodsolve:", err)
		return 1
	}
	logger.Debug("starting", "mode", cfg.Mode, "ellipsoid", cfg.Ellipsoid.Name,
		"radius", opts.Ellipsoid.Radius(), "flattening", opts.Ellipsoid.Flattening(),
		"workers", cfg.Workers)

	stats, err := p.Run(ctx, stdin, stdout)
	if metrics != nil {
		if werr := metrics.WriteFile(cfg.Metrics.File); werr != nil {
			logger.Error("write metrics", "file", cfg.Metrics.File, "error", werr)
		}
	}
	if err != nil {
		logger.Error("batch aborted", "error", err, "records", stats.Records)
		fmt.Fprintln(stderr, "geodsolve:", err)
		return 1
	}
	if stats.Failed > 0 {
		return 1
	}
	return 0
}
