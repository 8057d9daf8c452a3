// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/katalvlaran/condmi/cmi"
	"github.com/katalvlaran/condmi/neighbor"
	"github.com/katalvlaran/condmi/permute"
)

// envPrefix namespaces environment overrides: CONDMI_K, CONDMI_LOG_LEVEL, …
const envPrefix = "CONDMI"

// Config is everything `condmi run` needs. Values come from flags, then
// CONDMI_* environment variables, then the optional YAML config file.
type Config struct {
	Data    string   `mapstructure:"data"`
	Comma   string   `mapstructure:"comma"`
	Comment string   `mapstructure:"comment"`
	X       []string `mapstructure:"x"`
	Y       []string `mapstructure:"y"`
	Z       []string `mapstructure:"z"`

	K              int           `mapstructure:"k"`
	Permutations   int           `mapstructure:"permutations"`
	Base           string        `mapstructure:"base"`
	Seed           int64         `mapstructure:"seed"`
	Workers        int           `mapstructure:"workers"`
	Permute        string        `mapstructure:"permute"`
	Scheme         string        `mapstructure:"scheme"`
	LocalNeighbors int           `mapstructure:"local-neighbors"`
	Estimator      string        `mapstructure:"estimator"`
	Index          string        `mapstructure:"index"`
	Timeout        time.Duration `mapstructure:"timeout"`
	Null           bool          `mapstructure:"null"`

	Format    string  `mapstructure:"format"`
	Alpha     float64 `mapstructure:"alpha"`
	LogLevel  string  `mapstructure:"log-level"`
	LogFormat string  `mapstructure:"log-format"`
	Trace     bool    `mapstructure:"trace"`
	Metrics   bool    `mapstructure:"metrics"`
}

// Index strategies accepted by --index.
var indexStrategies = map[string]neighbor.Strategy{
	"auto":   neighbor.Auto,
	"brute":  neighbor.BruteForce,
	"kdtree": neighbor.KDTree,
}

// addRunFlags declares every run flag with its default.
func addRunFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("config", "", "YAML config file")

	f.String("data", "", "CSV file with a header row")
	f.String("comma", ",", "CSV field delimiter")
	f.String("comment", "", "CSV comment character (empty disables)")
	f.StringSlice("x", nil, "columns of X")
	f.StringSlice("y", nil, "columns of Y")
	f.StringSlice("z", nil, "columns of Z (empty: mutual information)")

	f.Int("k", cmi.DefaultK, "neighbour rank of the k-NN estimator")
	f.Int("permutations", cmi.DefaultPermutations, "permutation runs (0 skips the test)")
	f.String("base", "e", "logarithm base: e, 2, 10 or any number > 0 and != 1")
	f.Int64("seed", cmi.DefaultSeed, "permutation seed")
	f.Int("workers", 0, "permutation goroutines (0: GOMAXPROCS)")
	f.String("permute", permute.TargetY.String(), "variable to permute: x, y or z")
	f.String("scheme", permute.Global.String(), "permutation scheme: global, or local (Z-neighbourhood resampling; rows may repeat)")
	f.Int("local-neighbors", permute.DefaultNeighbors, "Z-neighbourhood size of the local scheme")
	f.String("estimator", cmi.DefaultEstimator, "estimator: knn or discrete")
	f.String("index", "auto", "neighbour index: auto, brute or kdtree")
	f.Duration("timeout", 0, "bound on the permutation test (0 disables)")
	f.Bool("null", false, "include the null distribution in the output")

	f.String("format", formatText, "output format: text, json or yaml")
	f.Float64("alpha", 0.05, "significance level reported by the text format")
	f.String("log-level", "warn", "log level")
	f.String("log-format", encodingJSON, "log encoding: json or console")
	f.Bool("trace", false, "export spans to stderr")
	f.Bool("metrics", false, "print Prometheus metrics to stderr after the run")
}

// loadConfig merges flags, environment and the config file into a Config.
func loadConfig(cmd *cobra.Command) (Config, error) {
	var cfg Config

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return cfg, fmt.Errorf("binding flags: %w", err)
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return cfg, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("error unmarshalling config: %w", err)
	}

	return cfg, nil
}

var (
	errNoData    = errors.New("condmi: --data is required")
	errNoColumns = errors.New("condmi: --x and --y need at least one column each")
	errBadBase   = errors.New("condmi: invalid --base")
	errBadRune   = errors.New("condmi: expected a single character")
	errBadIndex  = errors.New("condmi: unknown --index")
)

// options turns cfg into library options. Values are validated here or by
// cmi.ComputeWithOptions; nothing on this path panics.
func (cfg Config) options() (cmi.Options, error) {
	o := cmi.DefaultOptions()
	if cfg.Data == "" {
		return o, errNoData
	}
	if len(cfg.X) == 0 || len(cfg.Y) == 0 {
		return o, errNoColumns
	}

	base, err := parseBase(cfg.Base)
	if err != nil {
		return o, err
	}
	target, err := permute.ParseTarget(cfg.Permute)
	if err != nil {
		return o, err
	}
	scheme, err := permute.ParseScheme(cfg.Scheme)
	if err != nil {
		return o, err
	}
	strategy, ok := indexStrategies[strings.ToLower(cfg.Index)]
	if !ok {
		return o, fmt.Errorf("%w %q", errBadIndex, cfg.Index)
	}

	o.K = cfg.K
	o.Permutations = cfg.Permutations
	o.Base = base
	o.Seed = cfg.Seed
	o.Workers = cfg.Workers
	o.Target = target
	o.Scheme = scheme
	o.LocalNeighbors = cfg.LocalNeighbors
	o.Estimator = strings.ToLower(cfg.Estimator)
	o.Index.Strategy = strategy
	o.Timeout = cfg.Timeout
	o.KeepNull = cfg.Null

	return o, nil
}

// parseBase accepts "e" or a number.
func parseBase(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "e") {
		return math.E, nil
	}
	b, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w %q", errBadBase, s)
	}

	return b, nil
}

// singleRune decodes a one-character flag; empty gives 0.
func singleRune(s string) (rune, error) {
	if s == "" {
		return 0, nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if size != len(s) || r == utf8.RuneError {
		return 0, fmt.Errorf("%w, got %q", errBadRune, s)
	}

	return r, nil
}
