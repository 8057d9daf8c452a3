// SPDX-License-Identifier: MIT

// Command condmi estimates the conditional mutual information I(X;Y|Z)
// between column groups of a CSV file and tests it against a permutation
// null distribution.
//
//	condmi run --data samples.csv --x a,b --y c --z d --permutations 500
//
// Every run flag may also come from a CONDMI_* environment variable
// (CONDMI_LOCAL_NEIGHBORS for --local-neighbors), a .env file in the working
// directory, or the YAML file named by --config.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/condmi/cmi"
	"github.com/katalvlaran/condmi/metrics"
	"github.com/katalvlaran/condmi/table"
)

var version = "0.1.0"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "condmi",
		Short: "Conditional mutual information with a permutation test",
		Long: `condmi estimates I(X;Y|Z) with the Kraskov-Stögbauer-Grassberger
k-nearest-neighbour estimator (or a plug-in estimator for discrete data)
and reports a permutation p-value for the hypothesis X ⊥ Y | Z.`,
		SilenceUsage: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "condmi v%s\n", version)
			fmt.Fprintf(w, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(w, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Estimate I(X;Y|Z) on a CSV file",
		Example: `  condmi run --data samples.csv --x a --y b --z c
  condmi run --data samples.csv --x a,b --y c --estimator discrete --format json
  CONDMI_PERMUTATIONS=1000 condmi run --config condmi.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	addRunFlags(runCmd)
	root.AddCommand(runCmd)

	return root
}

// run executes one computation described by cfg. The result goes to stdout;
// logs, spans and metrics go to stderr.
func run(ctx context.Context, cfg Config, stdout, stderr io.Writer) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}

	log, err := newLogger(cfg.LogLevel, cfg.LogFormat, stderr)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	switch cfg.Format {
	case formatText, formatJSON, formatYAML, "":
	default:
		return fmt.Errorf("condmi: unknown output format %q", cfg.Format)
	}

	o, err := cfg.options()
	if err != nil {
		return err
	}
	o.Logger = log

	if cfg.Trace {
		shutdown, terr := initTracing(stderr)
		if terr != nil {
			return terr
		}
		defer func() {
			if serr := shutdown(context.Background()); serr != nil && err == nil {
				err = serr
			}
		}()
	}

	var reg *prometheus.Registry
	if cfg.Metrics {
		reg = prometheus.NewRegistry()
		rec, merr := metrics.NewPrometheus(reg, metrics.DefaultNamespace)
		if merr != nil {
			return merr
		}
		o.Recorder = rec
	}

	tbl, err := readTable(cfg)
	if err != nil {
		return err
	}
	log.Info("table loaded",
		zap.String("data", cfg.Data),
		zap.Int("rows", tbl.Len()),
		zap.Strings("columns", tbl.Names()),
	)

	var z any
	if len(cfg.Z) > 0 {
		z = table.Columns(tbl, cfg.Z...)
	}
	res, err := cmi.ComputeWithOptions(ctx,
		table.Columns(tbl, cfg.X...),
		table.Columns(tbl, cfg.Y...),
		z, o)
	if err != nil {
		return err
	}
	log.Info("computed",
		zap.Float64("cmi", res.CMI),
		zap.Float64("p_value", res.PValue),
		zap.Bool("approximate", res.Approximate),
		zap.Duration("elapsed", res.Elapsed),
	)

	if err = writeResult(stdout, cfg.Format, cfg.Alpha, res); err != nil {
		return err
	}
	if reg != nil {
		return dumpMetrics(stderr, reg)
	}

	return nil
}

// readTable loads cfg.Data with the configured CSV dialect.
func readTable(cfg Config) (*table.Table, error) {
	comma, err := singleRune(cfg.Comma)
	if err != nil {
		return nil, fmt.Errorf("--comma: %w", err)
	}
	comment, err := singleRune(cfg.Comment)
	if err != nil {
		return nil, fmt.Errorf("--comment: %w", err)
	}

	f, err := os.Open(cfg.Data)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// encoding/csv reports a bad delimiter as a read error; WithComma would panic.
	dialect := func(o *table.CSVOptions) {
		if comma != 0 {
			o.Comma = comma
		}
		o.Comment = comment
	}
	tbl, err := table.ReadCSV(f, dialect)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.Data, err)
	}

	return tbl, nil
}
