package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/merhi-odg/roi-monitor/internal/models"
	"github.com/merhi-odg/roi-monitor/internal/params"
	"github.com/merhi-odg/roi-monitor/internal/roi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testParamsJSON = `{
  "monitoring": {
    "business_value": {
      "ROI": {
        "amount_field": "amount",
        "score_field": "score",
        "label_field": "label",
        "cost_multipliers": {"TP": 10, "TN": 1, "FP": -5, "FN": -20}
      }
    },
    "performance": {"positive_class_label": 1}
  }
}`

const lossBatchCSV = "label,score,amount\n1,1,100\n0,0,50\n0,1,200\n1,0,30\n"

const gainBatchJSONL = `{"label": 1, "score": 1, "amount": 10.005}
{"label": 0, "score": 0, "amount": 0}
`

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func decodeReports(t *testing.T, out string) []models.MetricsReport {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(out))
	var reports []models.MetricsReport
	for dec.More() {
		var r models.MetricsReport
		require.NoError(t, dec.Decode(&r))
		reports = append(reports, r)
	}
	return reports
}

func TestRunCommand_JSON(t *testing.T) {
	dir := t.TempDir()
	paramsPath := writeTestFile(t, dir, "modelop_parameters.json", testParamsJSON)
	batch := writeTestFile(t, dir, "batch.csv", lossBatchCSV)

	out, err := executeRoot(t, "run", "--params", paramsPath, "--format", "json", batch)
	require.NoError(t, err)

	reports := decodeReports(t, out)
	require.Len(t, reports, 1)
	assert.Equal(t, -550.0, reports[0].ActualROI)
	assert.Equal(t, "amount", reports[0].AmountField)
	require.Len(t, reports[0].BusinessValue, 1)
	assert.Equal(t, models.ActualROITestID, reports[0].BusinessValue[0].TestID)
}

func TestRunCommand_MultipleBatchesKeepOrder(t *testing.T) {
	dir := t.TempDir()
	paramsPath := writeTestFile(t, dir, "params.json", testParamsJSON)
	loss := writeTestFile(t, dir, "loss.csv", lossBatchCSV)
	gain := writeTestFile(t, dir, "gain.jsonl", gainBatchJSONL)

	out, err := executeRoot(t, "run", "-p", paramsPath, "-f", "json", "--workers", "2", gain, loss)
	require.NoError(t, err)

	reports := decodeReports(t, out)
	require.Len(t, reports, 2)
	assert.Equal(t, 100.05, reports[0].ActualROI)
	assert.Equal(t, -550.0, reports[1].ActualROI)
}

func TestRunCommand_Table(t *testing.T) {
	dir := t.TempDir()
	paramsPath := writeTestFile(t, dir, "params.json", testParamsJSON)
	batch := writeTestFile(t, dir, "batch.csv", lossBatchCSV)

	out, err := executeRoot(t, "run", "--params", paramsPath, "--format", "table", batch)
	require.NoError(t, err)

	assert.Contains(t, out, "=== batch ===")
	assert.Contains(t, out, "Actual ROI:   -550.00")
	assert.Contains(t, out, "FN (false negative)")
}

func TestRunCommand_DefaultFormatIsJSONWhenNotATerminal(t *testing.T) {
	dir := t.TempDir()
	paramsPath := writeTestFile(t, dir, "params.json", testParamsJSON)
	batch := writeTestFile(t, dir, "batch.csv", lossBatchCSV)

	out, err := executeRoot(t, "run", "--params", paramsPath, batch)
	require.NoError(t, err)
	assert.Len(t, decodeReports(t, out), 1)
}

func TestRunCommand_OutputDirAndJUnit(t *testing.T) {
	dir := t.TempDir()
	paramsPath := writeTestFile(t, dir, "params.json", testParamsJSON)
	batch := writeTestFile(t, dir, "prod.csv", lossBatchCSV)
	outDir := filepath.Join(dir, "reports")
	junitPath := filepath.Join(dir, "results.xml")

	_, err := executeRoot(t, "run", "--params", paramsPath, "--format", "json",
		"--output", outDir, "--junit", junitPath, batch)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(outDir, "prod.json"))
	require.NoError(t, err)
	var report models.MetricsReport
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, -550.0, report.ActualROI)

	xmlData, err := os.ReadFile(junitPath)
	require.NoError(t, err)
	assert.Contains(t, string(xmlData), `name="prod"`)
	assert.Contains(t, string(xmlData), "NegativeROI")
}

func TestRunCommand_FailOnLoss(t *testing.T) {
	dir := t.TempDir()
	paramsPath := writeTestFile(t, dir, "params.json", testParamsJSON)
	loss := writeTestFile(t, dir, "loss.csv", lossBatchCSV)
	gain := writeTestFile(t, dir, "gain.jsonl", gainBatchJSONL)

	_, err := executeRoot(t, "run", "--params", paramsPath, "-f", "json", "--fail-on-loss", gain)
	require.NoError(t, err)

	_, err = executeRoot(t, "run", "--params", paramsPath, "-f", "json", "--fail-on-loss", gain, loss)
	var lossErr *LossError
	require.True(t, errors.As(err, &lossErr), "got %v", err)
	assert.Contains(t, lossErr.Message, "loss")
	assert.NotContains(t, lossErr.Message, "gain")
}

func TestRunCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	paramsPath := writeTestFile(t, dir, "params.json", testParamsJSON)
	noLabel := writeTestFile(t, dir, "no-label.json", `{
  "monitoring": {
    "business_value": {"ROI": {"amount_field": "a", "score_field": "s", "label_field": "l", "cost_multipliers": {"TP": 1}}},
    "performance": {}
  }
}`)
	badBatch := writeTestFile(t, dir, "bad.csv", "label,score\n1,1\n")
	batch := writeTestFile(t, dir, "batch.csv", lossBatchCSV)

	t.Run("missing positive class label", func(t *testing.T) {
		_, err := executeRoot(t, "run", "--params", noLabel, batch)
		var cfgErr *params.ConfigurationError
		require.True(t, errors.As(err, &cfgErr), "got %v", err)
		assert.ErrorIs(t, err, params.ErrPositiveClassRequired)
	})

	t.Run("missing amount column", func(t *testing.T) {
		_, err := executeRoot(t, "run", "--params", paramsPath, "-f", "json", batch, badBatch)
		var dataErr *roi.DataError
		require.True(t, errors.As(err, &dataErr), "got %v", err)
		assert.Equal(t, "amount", dataErr.Field)
	})

	t.Run("unsupported format", func(t *testing.T) {
		_, err := executeRoot(t, "run", "--params", paramsPath, "-f", "xml", batch)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported format")
	})

	t.Run("blob flags must be paired", func(t *testing.T) {
		_, err := executeRoot(t, "run", "--params", paramsPath, "--blob-container", "metrics", batch)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--blob-account and --blob-container")
	})

	t.Run("requires a batch", func(t *testing.T) {
		_, err := executeRoot(t, "run", "--params", paramsPath)
		require.Error(t, err)
	})
}

func TestBatchNames(t *testing.T) {
	got := batchNames([]string{
		"data/prod.csv",
		"other/prod.csv.gz",
		"2026-10-18.jsonl.zst",
		"plain",
	})
	assert.Equal(t, []string{"prod", "prod-2", "2026-10-18", "plain"}, got)
}

func TestScoreBatches_ReportsProgress(t *testing.T) {
	dir := t.TempDir()
	paramsPath := writeTestFile(t, dir, "modelop_parameters.json", testParamsJSON)
	cfg, err := params.LoadFile(paramsPath)
	require.NoError(t, err)

	paths := []string{
		writeTestFile(t, dir, "a.csv", lossBatchCSV),
		writeTestFile(t, dir, "b.jsonl", gainBatchJSONL),
	}

	var mu sync.Mutex
	var seen []int
	results, err := scoreBatches(context.Background(), cfg, paths, 2, func(done, total int) {
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, 2, total)
		seen = append(seen, done)
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].Name)
	assert.Equal(t, "b", results[1].Name)
	assert.ElementsMatch(t, []int{1, 2}, seen)
}
