// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"math"
	"strings"

	gojson "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/condmi/cmi"
)

// Output formats accepted by --format.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// report is the serialised form of cmi.Result. JSON has no NaN, so the
// values that may be undefined are pointers and come out as null.
type report struct {
	CMI          float64   `json:"cmi" yaml:"cmi"`
	PValue       *float64  `json:"p_value" yaml:"p_value"`
	Estimator    string    `json:"estimator" yaml:"estimator"`
	K            int       `json:"k,omitempty" yaml:"k,omitempty"`
	Base         float64   `json:"base" yaml:"base"`
	N            int       `json:"n" yaml:"n"`
	Permutations int       `json:"permutations" yaml:"permutations"`
	Completed    int       `json:"completed" yaml:"completed"`
	Exceed       int       `json:"exceed" yaml:"exceed"`
	Approximate  bool      `json:"approximate" yaml:"approximate"`
	Target       string    `json:"target" yaml:"target"`
	Scheme       string    `json:"scheme" yaml:"scheme"`
	Seed         int64     `json:"seed" yaml:"seed"`
	NullMean     *float64  `json:"null_mean" yaml:"null_mean"`
	NullStdDev   *float64  `json:"null_stddev" yaml:"null_stddev"`
	Null         []float64 `json:"null,omitempty" yaml:"null,omitempty"`
	Elapsed      string    `json:"elapsed" yaml:"elapsed"`
}

func newReport(r cmi.Result) report {
	return report{
		CMI:          r.CMI,
		PValue:       finite(r.PValue),
		Estimator:    r.Estimator,
		K:            r.K,
		Base:         r.Base,
		N:            r.N,
		Permutations: r.Permutations,
		Completed:    r.Completed,
		Exceed:       r.Exceed,
		Approximate:  r.Approximate,
		Target:       r.Target,
		Scheme:       r.Scheme,
		Seed:         r.Seed,
		NullMean:     finite(r.NullMean),
		NullStdDev:   finite(r.NullStdDev),
		Null:         r.Null,
		Elapsed:      r.Elapsed.String(),
	}
}

// finite returns nil for NaN and ±Inf.
func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}

	return &v
}

// writeResult encodes r to w in the requested format.
func writeResult(w io.Writer, format string, alpha float64, r cmi.Result) error {
	switch strings.ToLower(format) {
	case formatJSON:
		enc := gojson.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(newReport(r))
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(newReport(r)); err != nil {
			return err
		}
		return enc.Close()
	case formatText, "":
		return writeText(w, alpha, r)
	}

	return fmt.Errorf("condmi: unknown output format %q", format)
}

func writeText(w io.Writer, alpha float64, r cmi.Result) error {
	var unit string
	switch r.Base {
	case math.E:
		unit = "nats"
	case 2:
		unit = "bits"
	case 10:
		unit = "hartleys"
	case 0:
		unit = "(unit not reported)"
	default:
		unit = fmt.Sprintf("log%g units", r.Base)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "estimator   %s", r.Estimator)
	if r.K > 0 {
		fmt.Fprintf(&sb, " (k=%d)", r.K)
	}
	fmt.Fprintf(&sb, "\nsamples     %d\n", r.N)
	fmt.Fprintf(&sb, "cmi         %.6f %s\n", r.CMI, unit)

	if r.Permutations == 0 {
		sb.WriteString("p-value     n/a (no permutations)\n")
	} else {
		fmt.Fprintf(&sb, "p-value     %.4f (%d/%d runs exceeded, permute %s, %s scheme)\n",
			r.PValue, r.Exceed, r.Completed, r.Target, r.Scheme)
		if r.Approximate {
			fmt.Fprintf(&sb, "            approximate: %d of %d runs completed\n", r.Completed, r.Permutations)
		}
		if !math.IsNaN(r.NullMean) {
			fmt.Fprintf(&sb, "null        mean %.6f sd %.6f\n", r.NullMean, r.NullStdDev)
		}
		fmt.Fprintf(&sb, "significant %t (alpha=%g)\n", r.Significant(alpha), alpha)
	}
	fmt.Fprintf(&sb, "elapsed     %s\n", r.Elapsed)

	_, err := io.WriteString(w, sb.String())
	return err
}
