package main

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/bft-labs/netsdr/internal/cliconfig"
	"github.com/bft-labs/netsdr/internal/observability"
	"github.com/bft-labs/netsdr/internal/ports"
	"github.com/bft-labs/netsdr/pkg/log"
	"github.com/bft-labs/netsdr/pkg/netsdr"
)

const helpDescription = `
Capture raw IQ samples from a NetSDR-style receiver over TCP.

netsdr connects to the device, tunes it, starts IQ transmission and writes the
stream to a file until the device closes the connection, --duration elapses or
the process is interrupted. The device is always told to stop and the
connection released before exit.

Configure via file ($HOME/.netsdr/config.toml), NETSDR_* environment variables
or flags, in increasing order of precedence. With --watch, edits to the
frequency in the config file retune the receiver while capturing.
`

var exampleUsage = strings.TrimSpace(`
  netsdr --freq 100M
  netsdr --host 192.168.1.50 --freq 7.1M --duration 30s --output 40m.bin
  netsdr --config ./netsdr.toml --watch --record --metrics-addr :9100
`)

const metricsShutdownTimeout = 5 * time.Second

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	logger := cliconfig.Logger(cfg.LogLevel)

	root := &cobra.Command{
		Use:           "netsdr",
		Short:         "Capture raw IQ samples from a NetSDR-style receiver",
		Long:          strings.TrimSpace(helpDescription),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			// Build set of changed flags
			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			haveFile := cfgFile != "" && cliconfig.FileExists(cfgFile)
			if haveFile {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			// Env overrides the file; flags override both via the changed map.
			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}
			if cfg.Watch && !haveFile {
				return fmt.Errorf("--watch needs a config file (looked for %q)", cfgFile)
			}

			logger = cliconfig.Logger(cfg.LogLevel)
			logger.Info("configuration", log.Any("config", cfg))

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg, cfgFile, logger)
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.netsdr/config.toml)")
	root.Flags().StringVar(&cfg.Host, "host", cfg.Host, "device host")
	root.Flags().IntVar(&cfg.Port, "port", cfg.Port, "device TCP port")
	root.Flags().Var(&cfg.Frequency, "freq", "receiver frequency in Hz, SI suffixes allowed (100M, 7.1M, 1.5k)")
	root.Flags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "file to write IQ samples to (truncated)")

	root.Flags().DurationVar(&cfg.Duration, "duration", cfg.Duration, "stop receiving after this long (0 = until the device closes the stream)")
	root.Flags().DurationVar(&cfg.ConnectTimeout, "connect-timeout", cfg.ConnectTimeout, "dial timeout (0 = none)")
	root.Flags().IntVar(&cfg.BufferSize, "buffer-size", cfg.BufferSize, "read chunk size in bytes")

	root.Flags().StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "serve Prometheus metrics on this address (empty = disabled)")
	root.Flags().BoolVar(&cfg.Watch, "watch", cfg.Watch, "retune when the frequency in the config file changes")
	root.Flags().BoolVar(&cfg.Record, "record", cfg.Record, "write a JSON capture record next to the output file")
	root.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")

	if err := root.Execute(); err != nil {
		logger.Error("netsdr", log.Err(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg cliconfig.Config, cfgFile string, logger *log.ZerologAdapter) error {
	var metrics netsdr.Metrics = ports.NopMetrics{}
	if cfg.MetricsAddr != "" {
		metrics = observability.NewSessionMetrics()
	}

	session := netsdr.New(cfg.Host, cfg.Port,
		netsdr.WithLogger(logger.Named("session")),
		netsdr.WithMetrics(metrics),
		netsdr.WithBufferSize(cfg.BufferSize),
	)
	defer session.Close()

	capCfg := netsdr.CaptureConfig{
		FrequencyHz:    cfg.Frequency.Hz(),
		Output:         cfg.Output,
		Duration:       cfg.Duration,
		ConnectTimeout: cfg.ConnectTimeout,
	}
	opts := []netsdr.CaptureOption{netsdr.WithCaptureLogger(logger.Named("capture"))}
	if cfg.Record {
		opts = append(opts, netsdr.WithRecord(netsdr.NewFileRecordRepository()))
	}
	if cfg.Watch {
		capCfg.WatchPath = cfgFile
		opts = append(opts, netsdr.WithRetune(cliconfig.LoadFrequency))
	}

	capture := session.NewCapture(capCfg, opts...)

	if cfg.MetricsAddr == "" {
		_, err := capture.Run(ctx)
		return err
	}

	srv := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           metricsMux(),
		ReadHeaderTimeout: 5 * time.Second,
		ErrorLog:          stdlog.New(logger.Named("metrics").Logger(), "", 0),
	}

	g, gctx := errgroup.WithContext(ctx)
	captureDone := make(chan struct{})

	g.Go(func() error {
		defer close(captureDone)
		_, err := capture.Run(gctx)
		return err
	})
	g.Go(func() error {
		logger.Info("serving metrics", log.String("addr", cfg.MetricsAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		select {
		case <-captureDone:
		case <-gctx.Done():
		}
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), metricsShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func metricsMux() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", observability.Handler())
	return mux
}
