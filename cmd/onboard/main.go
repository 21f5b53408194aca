// cmd/onboard/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"employee-onboarding/internal/common/config"
	httpclient "employee-onboarding/internal/common/http"
	"employee-onboarding/internal/common/logger"
	"employee-onboarding/internal/common/observability"
	"employee-onboarding/internal/onboarding/backend"
	"employee-onboarding/internal/onboarding/section"
	"employee-onboarding/internal/onboarding/session"
	"employee-onboarding/internal/onboarding/stepper"
	"employee-onboarding/internal/onboarding/submitter"
	"employee-onboarding/internal/onboarding/validate"
)

const (
	exitOK      = 0
	exitFailed  = 1
	exitInvalid = 2
)

type options struct {
	configPath  string
	answersPath string
	documents   string
	acknowledge bool
	fromStep    int
	reset       bool
	metricsAddr string
	status      bool
}

func parseFlags(args []string) (*options, error) {
	opts := &options{}
	fs := pflag.NewFlagSet("onboard", pflag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config", "", "path to a config file (defaults to config.yaml lookup)")
	fs.StringVar(&opts.answersPath, "answers", "", "YAML file with one block per section")
	fs.StringVar(&opts.documents, "documents", "", "directory of documents named after their slot id")
	fs.BoolVar(&opts.acknowledge, "acknowledge", false, "confirm that all information provided is true and correct")
	fs.IntVar(&opts.fromStep, "from-step", 0, "jump to step n (1-based) before filling in")
	fs.BoolVar(&opts.reset, "reset", false, "discard the stored session and start over")
	fs.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve /metrics and /health on this address")
	fs.BoolVar(&opts.status, "status", false, "print the submission state of every section and exit")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return opts, nil
}

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(ctx context.Context, operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"error":       err.Error(),
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

func serveMetrics(addr string, log logger.Logger) *http.Server {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	})
	r.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info("Metrics server listening", map[string]interface{}{"address": addr})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Metrics server failed", map[string]interface{}{"error": err.Error()})
		}
	}()
	return srv
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, err := parseFlags(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitInvalid
	}

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		return exitFailed
	}

	zapLog := logger.NewWithOutput(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog).With(map[string]interface{}{"app": cfg.App.Name})
	zapLog.Debug("Configuration loaded", zap.String("environment", cfg.App.Environment), zap.String("backend", cfg.Backend.BaseURL))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metricsAddr := opts.metricsAddr
	if metricsAddr == "" && cfg.Metrics.Enabled {
		metricsAddr = cfg.Metrics.Address
	}
	if metricsAddr != "" {
		srv := serveMetrics(metricsAddr, log)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	obs := observability.New(cfg.App.Name, log)
	defer obs.Shutdown()

	var store session.Store
	err = retryWithBackoff(ctx, func() error {
		var err error
		store, err = session.Open(ctx, cfg, log)
		return err
	}, 3, 500*time.Millisecond, log, "Session store initialization")
	if err != nil {
		log.Error("Session store unavailable", map[string]interface{}{"driver": cfg.Session.Driver, "error": err.Error()})
		return exitFailed
	}
	defer store.Close()

	catalog, err := section.LoadCatalog(cfg.Documents.CatalogPath)
	if err != nil {
		log.Error("Document catalog unusable", map[string]interface{}{"path": cfg.Documents.CatalogPath, "error": err.Error()})
		return exitFailed
	}

	transport := httpclient.NewClient(httpclient.Options{
		BaseURL:    cfg.Backend.BaseURL,
		Timeout:    config.GetDuration(cfg.Backend.Timeout),
		RetryCount: cfg.Backend.RetryCount,
		RetryWait:  config.GetDuration(cfg.Backend.RetryWait),
		UserAgent:  cfg.Backend.UserAgent,
		Logger:     log,
	})
	api := backend.NewClient(transport, log)

	ctrl := stepper.New(stepper.Dependencies{
		API:   api,
		Store: store,
		Submitters: submitter.New(submitter.Dependencies{
			API:     api,
			Store:   store,
			Catalog: catalog,
			Logger:  log,
		}),
		Validator:     validate.New(catalog, time.Now),
		Logger:        log,
		Observability: obs,
	})

	if opts.reset {
		if err := ctrl.Reset(ctx); err != nil {
			log.Error("Reset failed", map[string]interface{}{"error": err.Error()})
			return exitFailed
		}
		fmt.Println("Stored session discarded.")
		if opts.answersPath == "" && !opts.status {
			return exitOK
		}
	}

	if err := ctrl.Start(ctx); err != nil {
		printNotice(ctrl.Notice())
		return exitFailed
	}
	if n := ctrl.Notice(); n != nil {
		printNotice(n)
		ctrl.DismissNotice()
	}

	if opts.status {
		printStatus(os.Stdout, ctrl, catalog)
		return exitOK
	}

	if opts.fromStep > 0 {
		if err := ctrl.GoTo(opts.fromStep - 1); err != nil {
			fmt.Fprintf(os.Stderr, "cannot jump to step %d: %v\n", opts.fromStep, err)
			return exitInvalid
		}
	}

	if opts.answersPath == "" {
		fmt.Fprintln(os.Stderr, "--answers is required to fill in the form")
		return exitInvalid
	}
	answers, err := loadAnswers(opts.answersPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "answers: %v\n", err)
		return exitInvalid
	}

	rules := section.FileRules{MaxSize: cfg.Documents.MaxFileSize, AllowedExtensions: cfg.Documents.AllowedExtensions}
	return fill(ctx, ctrl, answers, opts, catalog, rules, log)
}

// fill walks the remaining sections, feeding each its answers block.
func fill(ctx context.Context, ctrl *stepper.Controller, answers *Answers, opts *options, catalog *section.Catalog, rules section.FileRules, log logger.Logger) int {
	for !ctrl.Completed() {
		if ctx.Err() != nil {
			fmt.Fprintln(os.Stderr, "interrupted")
			return exitFailed
		}

		id := ctrl.Current()
		rec, err := answers.Record(id, ctrl.Record(id))
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", id.Title(), err)
			return exitInvalid
		}

		if docs, ok := rec.(*section.DocumentUploads); ok {
			if opts.acknowledge {
				docs.Acknowledged = true
			}
			if opts.documents != "" {
				if err := attachDirectory(docs, opts.documents, catalog, rules, log); err != nil {
					printError(err)
					return exitInvalid
				}
			}
		}

		if err := ctrl.Update(id, rec); err != nil {
			printError(err)
			return exitFailed
		}

		out, err := ctrl.Advance(ctx)
		printOutcome(out)
		if err != nil {
			return exitFailed
		}
		if out.Status == stepper.StatusInvalid {
			return exitInvalid
		}
	}
	return exitOK
}
