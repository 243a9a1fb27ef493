package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdp-sim/pdp-sim/sim/scenario"
)

func lineOf(text string, i int) string {
	lines := strings.Split(text, "\n")
	if i >= len(lines) {
		return ""
	}
	return lines[i]
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})
	require.NoError(t, rootCmd.Execute())
	return buf.String()
}

func TestSetupLogging_EnvOverridesDefault(t *testing.T) {
	orig := logrus.GetLevel()
	t.Cleanup(func() { logrus.SetLevel(orig) })

	// GIVEN PDPSIM_LOG set and --log left at its default
	t.Setenv(logLevelEnv, "debug")

	// WHEN logging is set up
	setupLogging(generateCmd, nil)

	// THEN the environment level applies
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
}

func TestRunCommand_PrintsStatistics(t *testing.T) {
	// GIVEN a scenario file and a metrics textfile destination
	dir := t.TempDir()
	path := writeScenario(t, dir, "one.yaml", oneParcelScenario)
	prom := filepath.Join(dir, "run.prom")

	// WHEN the run command executes
	out := execute(t, "run", "--scenario", path, "--trace", "--metrics-textfile", prom)

	// THEN the text report and trace summary are printed and metrics written
	assert.True(t, strings.HasPrefix(out, "\t\t\t = Statistics = \n"))
	assert.Contains(t, out, "deliveries:\t\t\t1 / 1\t100%")
	assert.Contains(t, out, "dispatched:\t\t\t3 (3 applied, 0 rejected, max lag 0)")
	data, err := os.ReadFile(prom)
	require.NoError(t, err)
	assert.Contains(t, string(data), "pdpsim_deliveries_total 1")
}

func TestGenerateCommand_WritesLoadableScenario(t *testing.T) {
	out := filepath.Join(t.TempDir(), "gen.yaml")

	execute(t, "generate", "--seed", "9", "--parcels", "6", "--vehicles", "2", "--name", "nine", "--out", out)

	f, err := scenario.Load(out)
	require.NoError(t, err)
	assert.Equal(t, "nine", f.Name)
	assert.Len(t, f.Parcels, 6)
	assert.Len(t, f.Vehicles, 2)

	// the same seed reproduces the same file
	again := filepath.Join(t.TempDir(), "gen.yaml")
	execute(t, "generate", "--seed", "9", "--parcels", "6", "--vehicles", "2", "--name", "nine", "--out", again)
	a, _ := os.ReadFile(out)
	b, _ := os.ReadFile(again)
	assert.Equal(t, string(a), string(b))
}

func TestBatchCommand_PrintsEveryReport(t *testing.T) {
	dir := t.TempDir()
	a := writeScenario(t, dir, "a.yaml", oneParcelScenario)
	b := writeScenario(t, dir, "b.yaml", oneParcelScenario)

	out := execute(t, "batch", "--parallel", "2", a, b)

	assert.Equal(t, 2, strings.Count(out, "= Statistics ="))
	assert.Contains(t, out, "=== one-parcel ("+a+") ===")
	assert.Contains(t, out, "=== one-parcel ("+b+") ===")
}
