// Command ledger is a terminal client for the ledger service. One-shot
// subcommands cover listing, totals, adding, editing and removing
// transactions; "shell" keeps a session open around a single draft form.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"

	"github.com/damon-houk/finance-tracker/internal/application/ledger"
	"github.com/damon-houk/finance-tracker/internal/infrastructure/api"
	"github.com/damon-houk/finance-tracker/internal/infrastructure/config"
	"github.com/damon-houk/finance-tracker/internal/infrastructure/logger"
	promcollector "github.com/damon-houk/finance-tracker/internal/infrastructure/metrics/prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

const usage = `usage: ledger [flags] <command> [command flags]

commands:
  list [-filter all|income|expense]   show transactions and totals
  stats                               show totals
  add -amount N -category C -description D [-type T] [-date YYYY-MM-DD]
  edit -id ID [-type T] [-amount N] [-category C] [-description D] [-date YYYY-MM-DD]
  rm [-yes] ID                        delete a transaction after confirmation
  categories [-type income|expense]   list the categories for a type
  shell                               interactive session

flags:
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "ledger: %v\n", err)
		return exitFailure
	}

	// Client logs are quiet unless asked for
	defaultLevel := "warn"
	if v, ok := os.LookupEnv("LOG_LEVEL"); ok {
		defaultLevel = v
	}

	fs := flag.NewFlagSet("ledger", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	baseURL := fs.String("url", cfg.Client.BaseURL, "ledger service base URL")
	timeout := fs.Duration("timeout", cfg.Client.Timeout, "timeout for each call to the ledger service")
	logLevel := fs.String("log-level", defaultLevel, "log level (debug, info, warn, error)")
	metricsAddr := fs.String("metrics-addr", "", "serve Prometheus metrics on this address while the shell runs")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return exitUsage
	}

	log := logger.NewLogger(logger.Config{
		Level:  logger.ParseLevel(*logLevel),
		Format: cfg.Logger.Format,
		Output: stderr,
	})
	defer log.Sync()
	logger.SetDefaultLogger(log)

	client := api.NewLedgerAPIClient(*baseURL, &http.Client{}, api.BreakerSettings{
		MaxConsecutiveFailures: cfg.Breaker.MaxConsecutiveFailures,
		OpenTimeout:            cfg.Breaker.OpenTimeout,
	}, log)

	collector := promcollector.NewPrometheusCollector("ledger_client")

	a := newApp(stdin, stdout, stderr)
	a.ctrl = ledger.NewSyncController(client, ledger.Options{
		Timeout: *timeout,
		Confirm: a.confirm,
		Metrics: collector,
		Logger:  log,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	if cmd == "shell" && *metricsAddr != "" {
		shutdown, err := serveMetrics(*metricsAddr, collector, log)
		if err != nil {
			fmt.Fprintf(stderr, "ledger: %v\n", err)
			return exitFailure
		}
		defer shutdown()
	}

	switch cmd {
	case "list":
		return a.list(ctx, rest)
	case "stats":
		return a.stats(ctx, rest)
	case "add":
		return a.add(ctx, rest)
	case "edit":
		return a.edit(ctx, rest)
	case "rm":
		return a.remove(ctx, rest)
	case "categories":
		return a.categories(rest)
	case "shell":
		return a.shell(ctx)
	default:
		fmt.Fprintf(stderr, "ledger: unknown command %q\n", cmd)
		fs.Usage()
		return exitUsage
	}
}

// app binds a SyncController to a terminal
type app struct {
	ctrl      *ledger.SyncController
	in        *bufio.Reader
	out       io.Writer
	errOut    io.Writer
	assumeYes bool
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{
		in:     bufio.NewReader(stdin),
		out:    stdout,
		errOut: stderr,
	}
}

// confirm asks on the terminal before a removal; anything but y/yes declines
func (a *app) confirm(_ context.Context, id string) bool {
	if a.assumeYes {
		return true
	}
	fmt.Fprintf(a.out, "Delete transaction %s? [y/N] ", id)
	line, err := a.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// report prints the notice for op and returns the matching exit code
func (a *app) report(op ledger.Operation, err error) int {
	if err != nil {
		fmt.Fprintln(a.errOut, ledger.Notice(op, err))
		return exitFailure
	}
	fmt.Fprintln(a.out, ledger.Notice(op, nil))
	return exitOK
}

func serveMetrics(addr string, collector *promcollector.PrometheusCollector, log logger.Logger) (func(), error) {
	registry := prometheus.NewRegistry()
	if err := collector.Register(registry); err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Metrics server failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	return func() {
		_ = server.Shutdown(context.Background())
	}, nil
}
