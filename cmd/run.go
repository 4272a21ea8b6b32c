package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/wsnlife/app"
	"github.com/kilianp07/wsnlife/config"
	"github.com/kilianp07/wsnlife/core/field"
	"github.com/kilianp07/wsnlife/core/geometry"
	coremon "github.com/kilianp07/wsnlife/core/monitoring"
	"github.com/kilianp07/wsnlife/infra/logger"
	"github.com/kilianp07/wsnlife/infra/monitoring"
	"github.com/kilianp07/wsnlife/pkg/export"
	"github.com/kilianp07/wsnlife/pkg/report"
)

type runFlags struct {
	seed        int64
	iterations  int
	workers     int
	timeout     time.Duration
	jsonPath    string
	csvPath     string
	htmlPath    string
	pngPrefix   string
	metricsAddr string
}

func newRunCmd(load func() (*config.Config, error)) *cobra.Command {
	var fl runFlags
	c := &cobra.Command{
		Use:   "run [size targets sensors range]",
		Short: "Place a random field and search for its longest schedule",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 4 {
				return fmt.Errorf("%w: expected size, targets, sensors and range, got %d values", field.ErrInvalidInput, len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			params, err := resolveParams(cfg, args)
			if err != nil {
				return err
			}
			fl.apply(cmd, cfg)
			return runSearch(cmd, cfg, params, fl)
		},
	}
	f := c.Flags()
	f.Int64Var(&fl.seed, "seed", 0, "seed for placement and search (0 picks a time-based seed)")
	f.IntVar(&fl.iterations, "iterations", 0, "trials after the seed trial")
	f.IntVar(&fl.workers, "workers", 0, "parallel trial workers")
	f.DurationVar(&fl.timeout, "timeout", 0, "stop the search after this long")
	f.StringVar(&fl.jsonPath, "json", "", "write the result as JSON to this file")
	f.StringVar(&fl.csvPath, "csv", "", "write the activation trace as CSV to this file")
	f.StringVar(&fl.htmlPath, "html", "", "write the interactive report to this file")
	f.StringVar(&fl.pngPrefix, "png", "", "write <prefix>-field.png and <prefix>-activity.png")
	f.StringVar(&fl.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	return c
}

// resolveParams prefers positional arguments in size, targets, sensors,
// range order and falls back to the configured field.
func resolveParams(cfg *config.Config, args []string) (field.Params, error) {
	if len(args) == 4 {
		return field.ParseParams(args[2], args[1], args[0], args[3])
	}
	if err := cfg.Field.Validate(); err != nil {
		return field.Params{}, err
	}
	return cfg.Field, nil
}

func (fl runFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Search.Seed = fl.seed
	}
	if flags.Changed("iterations") {
		cfg.Search.Iterations = fl.iterations
	}
	if flags.Changed("workers") {
		cfg.Search.Workers = fl.workers
	}
	if flags.Changed("timeout") {
		secs := int(fl.timeout.Round(time.Second) / time.Second)
		if fl.timeout > 0 && secs == 0 {
			secs = 1
		}
		cfg.Search.TimeoutSeconds = secs
	}
	if fl.metricsAddr != "" {
		cfg.Metrics.PrometheusAddr = fl.metricsAddr
	}
}

func runSearch(cmd *cobra.Command, cfg *config.Config, params field.Params, fl runFlags) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	log := logger.New("cli")

	mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		log.Errorf("sentry disabled: %v", err)
	} else {
		coremon.Init(mon)
	}
	defer coremon.Flush(2 * time.Second)

	if err := cfg.Search.Validate(); err != nil {
		return err
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			log.Errorf("service close: %v", err)
		}
	}()
	svc.ServeMetrics(ctx)

	out, err := svc.Execute(ctx, app.RunRequest{Params: params})
	if err != nil {
		if !errors.Is(err, field.ErrInvalidInput) {
			coremon.CaptureException(err, map[string]string{"module": "cli"})
		}
		return err
	}
	w := cmd.OutOrStdout()
	printSummary(w, out)
	return writeArtifacts(cfg, out, fl)
}

func printSummary(w io.Writer, out *app.Outcome) {
	rec := out.Record
	fmt.Fprintf(w, "Run: %s (seed %d)\n", rec.ID, rec.Seed)
	fmt.Fprintf(w, "Live sensors: %d\n", rec.LiveSensors)
	fmt.Fprintf(w, "Lifetime: %d\n", rec.Lifetime)
	for i, step := range rec.Trace {
		fmt.Fprintf(w, "Step %d: %s\n", i+1, formatStep(step))
	}
	if rec.Interrupted {
		fmt.Fprintf(w, "Interrupted after %d trials\n", rec.Stats.Trials)
	}
}

func formatStep(step []geometry.Point) string {
	parts := make([]string, len(step))
	for i, p := range step {
		parts[i] = fmt.Sprintf("(%.2f, %.2f)", p.X, p.Y)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func writeArtifacts(cfg *config.Config, out *app.Outcome, fl runFlags) error {
	battery := cfg.Search.BatteryDuration
	trace := out.Result.Trace
	if fl.jsonPath != "" {
		if err := writeFile(fl.jsonPath, func(w io.Writer) error { return export.WriteJSON(w, out.Result) }); err != nil {
			return err
		}
	}
	if fl.csvPath != "" {
		if err := writeFile(fl.csvPath, func(w io.Writer) error { return export.WriteCSV(w, trace, battery) }); err != nil {
			return err
		}
	}
	if fl.htmlPath != "" {
		if err := writeFile(fl.htmlPath, func(w io.Writer) error {
			return report.WriteHTML(w, out.Field, trace, battery, cfg.Report)
		}); err != nil {
			return err
		}
	}
	if fl.pngPrefix != "" {
		if err := writeFile(fl.pngPrefix+"-field.png", func(w io.Writer) error {
			return report.WriteFieldPNG(w, out.Field, cfg.Report)
		}); err != nil {
			return err
		}
		if err := writeFile(fl.pngPrefix+"-activity.png", func(w io.Writer) error {
			return report.WriteActivityPNG(w, trace, battery, cfg.Report)
		}); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if err := write(f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
