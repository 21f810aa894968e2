package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emfactor/emfactor/internal/cli"
)

const sampleDataset = `schema_version: "1.0.0"
name: DEFRA
publisher: UK Department for Environment, Food & Rural Affairs
factors:
  - country_code: GB
    year: 2024
    scope: 2
    category: electricity
    activity_type: grid_average
    unit: kWh
    factor_value: 0.207
  - country_code: GLOBAL
    year: 2024
    scope: 2
    category: electricity
    activity_type: grid_average
    unit: kWh
    factor_value: 0.436
    uncertainty_percent: 12
`

// runCommand executes the CLI with captured output. The --config flag points
// at a nonexistent file so host configuration never leaks into tests.
func runCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	root := cli.NewRootCmd("test")
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append(args, "--config", filepath.Join(t.TempDir(), "absent.yaml")))

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

// writeSampleDataset drops the fixture in a temp dir and returns its path.
func writeSampleDataset(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "defra.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleDataset), 0o600))
	return path
}

// TestResolveCommand verifies exact-match output for a country-specific key.
func TestResolveCommand(t *testing.T) {
	data := writeSampleDataset(t)

	stdout, _, err := runCommand(t,
		"resolve", "--data", data,
		"--scope", "2", "--category", "electricity", "--activity-type", "grid_average",
		"--country", "GB", "--year", "2024")
	require.NoError(t, err)

	assert.Contains(t, stdout, "dataset:       DEFRA")
	assert.Contains(t, stdout, "country:       GB")
	assert.NotContains(t, stdout, "fallback")
	assert.Contains(t, stdout, "0.207")
}

// TestResolveCommand_Fallback verifies the GLOBAL fallback is annotated.
func TestResolveCommand_Fallback(t *testing.T) {
	data := writeSampleDataset(t)

	stdout, _, err := runCommand(t,
		"resolve", "--data", data,
		"--scope", "2", "--category", "electricity", "--activity-type", "grid_average",
		"--country", "FR", "--year", "2024")
	require.NoError(t, err)

	assert.Contains(t, stdout, "country:       GLOBAL  (fallback from FR)")
	assert.Contains(t, stdout, "0.436")
}

// TestResolveCommand_NotFound verifies a miss surfaces as a command error.
func TestResolveCommand_NotFound(t *testing.T) {
	data := writeSampleDataset(t)

	_, _, err := runCommand(t,
		"resolve", "--data", data,
		"--scope", "3", "--category", "cloud", "--activity-type", "compute",
		"--year", "2024")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "emission factor not found")
}

// TestCalculateCommand verifies the single-record pipeline output.
func TestCalculateCommand(t *testing.T) {
	data := writeSampleDataset(t)

	stdout, _, err := runCommand(t,
		"calculate", "--data", data,
		"--value", "1000", "--unit", "kWh",
		"--scope", "2", "--category", "electricity", "--activity-type", "grid_average",
		"--country", "GB", "--year", "2024")
	require.NoError(t, err)

	assert.Contains(t, stdout, "emission:      207")
	assert.Contains(t, stdout, "exact (no declared uncertainty)")
	assert.Contains(t, stdout, "factor used:   s2/electricity/grid_average/GB/2024/DEFRA")
}

// TestCalculateCommand_WithUncertainty verifies an interval is printed when
// the factor declares a spread.
func TestCalculateCommand_WithUncertainty(t *testing.T) {
	data := writeSampleDataset(t)

	stdout, _, err := runCommand(t,
		"calculate", "--data", data,
		"--value", "1000", "--unit", "kWh",
		"--scope", "2", "--category", "electricity", "--activity-type", "grid_average",
		"--year", "2024")
	require.NoError(t, err)

	assert.Contains(t, stdout, "95% interval:  [")
}

// TestCalculateCommand_RowError verifies taxonomy errors surface with kind
// and field.
func TestCalculateCommand_RowError(t *testing.T) {
	data := writeSampleDataset(t)

	_, _, err := runCommand(t,
		"calculate", "--data", data,
		"--value", "10", "--unit", "parsec",
		"--scope", "2", "--category", "electricity", "--activity-type", "grid_average",
		"--year", "2024")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown_unit (unit)")
}

// TestBatchCommand verifies a batch file runs end to end with piped NDJSON
// output and per-row failure isolation.
func TestBatchCommand(t *testing.T) {
	data := writeSampleDataset(t)

	batchPath := filepath.Join(t.TempDir(), "batch.json")
	require.NoError(t, os.WriteFile(batchPath, []byte(`{
  "tenant_id": "tenant-a",
  "records": [
    {"activity_value": 1000, "unit": "kWh", "scope": 2, "category": "electricity", "activity_type": "grid_average", "country_code": "GB", "year": 2024},
    {"activity_value": 10, "unit": "kWh", "scope": 3, "category": "cloud", "activity_type": "compute", "year": 2024}
  ]
}`), 0o600))

	stdout, _, err := runCommand(t, "batch", "--data", data, "--file", batchPath)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 2)

	var good struct {
		Index  int `json:"index"`
		Result struct {
			EmissionKgCO2e float64 `json:"emission_kgco2e"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &good))
	assert.Equal(t, 0, good.Index)
	assert.InDelta(t, 207.0, good.Result.EmissionKgCO2e, 1e-9)

	var bad struct {
		Index   int    `json:"index"`
		Error   string `json:"error"`
		ErrKind string `json:"error_kind"`
	}
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &bad))
	assert.Equal(t, 1, bad.Index)
	assert.Equal(t, "factor_not_found", bad.ErrKind)
	assert.Contains(t, bad.Error, "emission factor not found")
}

// TestBatchCommand_BadFile verifies file-level errors abort before any
// calculation.
func TestBatchCommand_BadFile(t *testing.T) {
	data := writeSampleDataset(t)

	batchPath := filepath.Join(t.TempDir(), "batch.json")
	require.NoError(t, os.WriteFile(batchPath, []byte(`{"records": []}`), 0o600))

	_, _, err := runCommand(t, "batch", "--data", data, "--file", batchPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tenant_id is required")
}

// TestDatasetsCommand verifies metadata listing.
func TestDatasetsCommand(t *testing.T) {
	data := writeSampleDataset(t)

	stdout, _, err := runCommand(t, "datasets", "--data", data)
	require.NoError(t, err)

	assert.Contains(t, stdout, "name:      DEFRA")
	assert.Contains(t, stdout, "schema:    1.0.0")
	assert.Contains(t, stdout, "factors:   2")
}

// TestNoDatasetsConfigured verifies the guidance error when neither --data
// nor the config file supplies datasets.
func TestNoDatasetsConfigured(t *testing.T) {
	_, _, err := runCommand(t, "datasets")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no datasets configured")
}
