package main

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	gojson "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/condmi/cmi"
	"github.com/katalvlaran/condmi/permute"
	"github.com/katalvlaran/condmi/table"
)

// writeCSV stores body in a temporary file and returns its path.
func writeCSV(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// rampCSV has y = 2x+1 and an unrelated z.
func rampCSV(t *testing.T, n int) string {
	t.Helper()
	var sb strings.Builder
	sb.WriteString("x,y,z\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, "%d,%d,%d\n", i, 2*i+1, (i*7)%5)
	}
	return writeCSV(t, sb.String())
}

// coinCSV has a balanced binary x copied into y.
func coinCSV(t *testing.T) string {
	t.Helper()
	var sb strings.Builder
	sb.WriteString("x,y\n")
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&sb, "%d,%d\n", i%2, i%2)
	}
	return writeCSV(t, sb.String())
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd(&stdout, &stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func decodeJSON(t *testing.T, s string) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, gojson.Unmarshal([]byte(s), &out), s)
	return out
}

func TestRun_JSON(t *testing.T) {
	data := rampCSV(t, 60)
	out, _, err := execute(t, "run", "--data", data, "--x", "x", "--y", "y",
		"--permutations", "19", "--format", "json")
	require.NoError(t, err)

	got := decodeJSON(t, out)
	assert.Equal(t, "knn", got["estimator"])
	assert.EqualValues(t, cmi.DefaultK, got["k"])
	assert.EqualValues(t, 60, got["n"])
	assert.EqualValues(t, 19, got["permutations"])
	assert.EqualValues(t, 19, got["completed"])
	assert.Equal(t, "y", got["target"])
	assert.Equal(t, "global", got["scheme"])
	assert.Greater(t, got["cmi"].(float64), 1.0)
	assert.InDelta(t, 1.0/20, got["p_value"].(float64), 1e-12)
	assert.NotContains(t, got, "null")
}

func TestRun_YAMLWithoutTest(t *testing.T) {
	data := coinCSV(t)
	out, _, err := execute(t, "run", "--data", data, "--x", "x", "--y", "y",
		"--estimator", "discrete", "--base", "2", "--permutations", "0", "--format", "yaml")
	require.NoError(t, err)

	var got report
	require.NoError(t, yaml.Unmarshal([]byte(out), &got), out)
	assert.Equal(t, "discrete", got.Estimator)
	assert.InDelta(t, 1.0, got.CMI, 1e-12)
	assert.Nil(t, got.PValue)
	assert.Nil(t, got.NullMean)
	assert.Zero(t, got.K)
	assert.NotContains(t, out, "k:")
}

func TestRun_Text(t *testing.T) {
	data := rampCSV(t, 40)
	out, _, err := execute(t, "run", "--data", data, "--x", "x", "--y", "y", "--z", "z",
		"--permutations", "9", "--scheme", "local", "--local-neighbors", "3", "--index", "kdtree")
	require.NoError(t, err)

	assert.Contains(t, out, "estimator   knn (k=3)")
	assert.Contains(t, out, "samples     40")
	assert.Contains(t, out, "nats")
	assert.Contains(t, out, "local scheme")
	assert.Contains(t, out, "significant")
}

func TestRun_NullDistribution(t *testing.T) {
	data := rampCSV(t, 30)
	out, _, err := execute(t, "run", "--data", data, "--x", "x", "--y", "y",
		"--permutations", "7", "--null", "--format", "json", "--permute", "x")
	require.NoError(t, err)

	got := decodeJSON(t, out)
	assert.Equal(t, "x", got["target"])
	assert.Len(t, got["null"], 7)
	assert.NotNil(t, got["null_mean"])
}

func TestRun_SeedReproducible(t *testing.T) {
	data := rampCSV(t, 30)
	args := []string{"run", "--data", data, "--x", "x", "--y", "z", "--permutations", "30", "--seed", "42", "--format", "json"}

	a, _, err := execute(t, append(args, "--workers", "1")...)
	require.NoError(t, err)
	b, _, err := execute(t, append(args, "--workers", "4")...)
	require.NoError(t, err)

	ga, gb := decodeJSON(t, a), decodeJSON(t, b)
	assert.Equal(t, ga["cmi"], gb["cmi"])
	assert.Equal(t, ga["p_value"], gb["p_value"])
	assert.Equal(t, ga["exceed"], gb["exceed"])
}

func TestRun_Environment(t *testing.T) {
	data := rampCSV(t, 30)
	t.Setenv("CONDMI_DATA", data)
	t.Setenv("CONDMI_X", "x")
	t.Setenv("CONDMI_Y", "y")
	t.Setenv("CONDMI_PERMUTATIONS", "0")
	t.Setenv("CONDMI_FORMAT", "json")

	out, _, err := execute(t, "run", "--k", "2")
	require.NoError(t, err)

	got := decodeJSON(t, out)
	assert.EqualValues(t, 0, got["permutations"])
	assert.EqualValues(t, 2, got["k"])
}

func TestRun_ConfigFile(t *testing.T) {
	data := writeCSV(t, "a;b;c\n1;2;9\n2;4;8\n3;6;7\n4;8;6\n5;10;5\n# trailing note\n")
	cfgPath := filepath.Join(t.TempDir(), "condmi.yaml")
	cfgBody := fmt.Sprintf(`data: %q
comma: ";"
comment: "#"
x: [a]
y: [b, c]
k: 1
permutations: 4
format: json
`, data)
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgBody), 0o600))

	// flags win over the file
	out, _, err := execute(t, "run", "--config", cfgPath, "--permutations", "3")
	require.NoError(t, err)

	got := decodeJSON(t, out)
	assert.EqualValues(t, 5, got["n"])
	assert.EqualValues(t, 1, got["k"])
	assert.EqualValues(t, 3, got["permutations"])
}

func TestRun_Observability(t *testing.T) {
	data := rampCSV(t, 30)
	_, stderr, err := execute(t, "run", "--data", data, "--x", "x", "--y", "y",
		"--permutations", "5", "--metrics", "--trace", "--log-level", "debug")
	require.NoError(t, err)

	assert.Contains(t, stderr, `condmi_compute_total{estimator="knn",status="ok"} 1`)
	assert.Contains(t, stderr, "condmi_permutations_total")
	assert.Contains(t, stderr, `"Name": "cmi.Compute"`)
	assert.Contains(t, stderr, `"Name": "permute.Test"`)
	assert.Contains(t, stderr, `"message":"compute done"`)
}

func TestRun_Errors(t *testing.T) {
	data := rampCSV(t, 10)
	tiny := writeCSV(t, "x,y\n1,2\n2,3\n3,5\n")

	cases := []struct {
		name string
		args []string
		want error
	}{
		{"UnknownColumn", []string{"--data", data, "--x", "w", "--y", "y"}, table.ErrUnknownColumn},
		{"TooFewSamples", []string{"--data", tiny, "--x", "x", "--y", "y"}, cmi.ErrInsufficientSamples},
		{"BadK", []string{"--data", data, "--x", "x", "--y", "y", "--k", "0"}, cmi.ErrBadK},
		{"BadBase", []string{"--data", data, "--x", "x", "--y", "y", "--base", "1"}, cmi.ErrBadBase},
		{"UnparsableBase", []string{"--data", data, "--x", "x", "--y", "y", "--base", "ten"}, errBadBase},
		{"BadTarget", []string{"--data", data, "--x", "x", "--y", "y", "--permute", "w"}, permute.ErrBadTarget},
		{"BadScheme", []string{"--data", data, "--x", "x", "--y", "y", "--scheme", "block"}, permute.ErrBadScheme},
		{"BadEstimator", []string{"--data", data, "--x", "x", "--y", "y", "--estimator", "gauss"}, cmi.ErrUnknownEstimator},
		{"BadIndex", []string{"--data", data, "--x", "x", "--y", "y", "--index", "ball"}, errBadIndex},
		{"BadComma", []string{"--data", data, "--x", "x", "--y", "y", "--comma", "::"}, errBadRune},
		{"NoData", []string{"--x", "x", "--y", "y"}, errNoData},
		{"NoColumns", []string{"--data", data, "--x", "x"}, errNoColumns},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := execute(t, append([]string{"run"}, tc.args...)...)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestRun_InvalidSettings(t *testing.T) {
	data := rampCSV(t, 10)
	base := []string{"run", "--data", data, "--x", "x", "--y", "y"}

	_, _, err := execute(t, append(base, "--format", "xml")...)
	assert.ErrorContains(t, err, "unknown output format")

	_, _, err = execute(t, append(base, "--log-level", "loud")...)
	assert.ErrorContains(t, err, "invalid log level")

	_, _, err = execute(t, "run", "--data", filepath.Join(t.TempDir(), "missing.csv"), "--x", "x", "--y", "y")
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, _, err = execute(t, "run", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "error reading config file")
}

func TestRunHelp_LocalScheme(t *testing.T) {
	out, _, err := execute(t, "run", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "rows may repeat")
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "condmi v"+version)
	assert.Contains(t, out, "OS/Arch:")
}

func TestParseBase(t *testing.T) {
	for in, want := range map[string]float64{"": math.E, "e": math.E, "E": math.E, "2": 2, " 10 ": 10} {
		got, err := parseBase(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestWriteResult_NaN(t *testing.T) {
	r := cmi.Result{CMI: 0.5, PValue: math.NaN(), NullMean: math.NaN(), NullStdDev: math.NaN(), Estimator: "knn", Base: 2}

	var buf bytes.Buffer
	require.NoError(t, writeResult(&buf, formatJSON, 0.05, r))
	got := decodeJSON(t, buf.String())
	assert.Nil(t, got["p_value"])
	assert.Nil(t, got["null_stddev"])

	buf.Reset()
	require.NoError(t, writeResult(&buf, formatText, 0.05, r))
	assert.Contains(t, buf.String(), "0.500000 bits")
	assert.Contains(t, buf.String(), "n/a")

	r.Base = 0
	buf.Reset()
	require.NoError(t, writeResult(&buf, formatText, 0.05, r))
	assert.Contains(t, buf.String(), "0.500000 (unit not reported)")
}
