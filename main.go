package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/quantifiedbob/basis-export/pkg/basis"
	"github.com/quantifiedbob/basis-export/pkg/format"
	exporthttp "github.com/quantifiedbob/basis-export/pkg/http"
	"github.com/quantifiedbob/basis-export/pkg/http/rate"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgPath string

	root := &cobra.Command{
		Use:           "basis-export",
		Short:         "Export Basis device data as json, csv or html",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default ~/"+defaultConfigName+")")

	root.AddCommand(newExportCmd(&cfgPath))
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}

func newExportCmd(cfgPath *string) *cobra.Command {
	var (
		dateArg       string
		endDateArg    string
		kindArgs      []string
		formatArg     string
		outDir        string
		debug         bool
		metricsListen string
		rateLimit     float64
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export one or more days of biometric data",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*cfgPath)
			if err != nil {
				return err
			}
			if formatArg == "" {
				formatArg = cfg.Format
			}
			if outDir == "" {
				outDir = cfg.OutputDir
			}
			rateLimit = resolveRateLimit(cmd, rateLimit, cfg.RateLimit)
			if cfg.Username == "" || cfg.Password == "" {
				return fmt.Errorf("missing credentials: set username/password in the config file or BASIS_USERNAME/BASIS_PASSWORD")
			}

			level := slog.LevelInfo
			if debug {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

			exportFormat, err := basis.ParseFormat(formatArg)
			if err != nil {
				return err
			}
			kinds, err := parseKinds(kindArgs)
			if err != nil {
				return err
			}
			start, end, err := parseDateRange(dateArg, endDateArg)
			if err != nil {
				return err
			}

			limiter := rate.Unlimited()
			if rateLimit > 0 {
				limiter = rate.New(rateLimit, 1)
			}
			var transport http.RoundTripper = http.DefaultTransport
			transport = rate.NewTransport(limiter, transport)
			transport = instrumentTransport(transport)
			if debug {
				transport = exporthttp.LogTransport(logger, transport)
			}
			httpClient := &http.Client{Transport: transport, Timeout: 30 * time.Second}

			if metricsListen != "" {
				mux := http.NewServeMux()
				mux.Handle("/metrics", promhttp.Handler())
				go func() {
					logger.Info("serving metrics", "addr", metricsListen)
					if err := http.ListenAndServe(metricsListen, mux); err != nil {
						log.Printf("Error starting metrics listener: %v", err)
					}
				}()
			}

			sessions := basis.NewSessionManager(
				basis.Credentials{Username: cfg.Username, Password: cfg.Password},
				basis.WithSessionHTTPClient(httpClient),
				basis.WithSessionLogger(logger),
			)
			client := basis.NewClient(
				basis.WithHTTPClient(httpClient),
				basis.WithClientLogger(logger),
			)
			exporter := basis.NewExporter(sessions, client, format.Registry(),
				basis.WithSink(&fileSink{dir: outDir}),
				basis.WithLogger(logger),
			)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			for day := start; !day.After(end); day = day.Next() {
				for _, kind := range kinds {
					req := basis.ExportRequest{Date: day, Kind: kind, Format: exportFormat}
					if _, err := exporter.Export(ctx, req); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dateArg, "date", "", "export day YYYY-MM-DD (default yesterday)")
	cmd.Flags().StringVar(&endDateArg, "end-date", "", "export a range ending at this day inclusive")
	cmd.Flags().StringSliceVar(&kindArgs, "kind", nil, "record kinds to export: metrics, sleep, activity (default all)")
	cmd.Flags().StringVar(&formatArg, "format", "", "output format: json, csv or html")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory")
	cmd.Flags().BoolVar(&debug, "debug", false, "dump HTTP traffic")
	cmd.Flags().StringVar(&metricsListen, "metrics-listen", "", "serve Prometheus metrics on this address during the run")
	cmd.Flags().Float64Var(&rateLimit, "rate", 0, "max API requests per second")
	return cmd
}

// resolveRateLimit prefers an explicitly set --rate flag over the
// config value. An explicit zero means unlimited and must not be
// mistaken for the flag being absent.
func resolveRateLimit(cmd *cobra.Command, flagValue, configValue float64) float64 {
	if cmd.Flags().Changed("rate") {
		return flagValue
	}
	return configValue
}

func parseKinds(args []string) ([]basis.Kind, error) {
	if len(args) == 0 {
		return basis.Kinds(), nil
	}
	kinds := make([]basis.Kind, 0, len(args))
	for _, arg := range args {
		kind, err := basis.ParseKind(arg)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

func parseDateRange(dateArg, endDateArg string) (basis.Date, basis.Date, error) {
	start := basis.Yesterday()
	if dateArg != "" {
		parsed, err := basis.ParseDate(dateArg)
		if err != nil {
			return basis.Date{}, basis.Date{}, err
		}
		start = parsed
	}
	end := start
	if endDateArg != "" {
		parsed, err := basis.ParseDate(endDateArg)
		if err != nil {
			return basis.Date{}, basis.Date{}, err
		}
		end = parsed
	}
	if start.After(end) {
		return basis.Date{}, basis.Date{}, basis.NewError(basis.ErrValidation, fmt.Sprintf("date range %s..%s is reversed", start, end))
	}
	return start, end, nil
}
