package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "analysis.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestGetYamlFullConfig(t *testing.T) {
	path := writeConfigFile(t, `
companies: [aapl, msft, googl]
quarters: 4
output: /tmp/analysis
http_timeout: 10s
current_ratio_min: "1.5"
debt_to_assets_max: "0.6"
`)

	cfg, err := getYaml(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"AAPL", "MSFT", "GOOGL"}, cfg.Companies)
	assert.Equal(t, 4, cfg.Quarters)
	assert.Equal(t, "/tmp/analysis", cfg.Output)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "1.5", cfg.CurrentRatioMin.String())
	assert.Equal(t, "0.6", cfg.DebtToAssetsMax.String())
}

func TestGetYamlAppliesThresholdDefaults(t *testing.T) {
	path := writeConfigFile(t, `
companies: [NVDA]
`)

	cfg, err := getYaml(path)
	require.NoError(t, err)

	assert.Equal(t, "2", cfg.CurrentRatioMin.String())
	assert.Equal(t, "0.7", cfg.DebtToAssetsMax.String())
	assert.Equal(t, defaultHTTPTimeout, cfg.HTTPTimeout)
}

func TestGetYamlRejectsBadThreshold(t *testing.T) {
	path := writeConfigFile(t, `
companies: [NVDA]
current_ratio_min: "two"
`)

	_, err := getYaml(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "current_ratio_min")
}

func TestGetYamlRejectsBadTimeout(t *testing.T) {
	path := writeConfigFile(t, `
companies: [NVDA]
http_timeout: soon
`)

	_, err := getYaml(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http_timeout")
}

func TestGetYamlMissingFile(t *testing.T) {
	_, err := getYaml(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestFinalizeFillsDefaults(t *testing.T) {
	t.Setenv(OutputEnv, "")

	cfg, err := finalize(Config{
		CurrentRatioMin: defaultCurrentRatioMin,
		DebtToAssetsMax: defaultDebtToAssetsMax,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"AAPL", "MSFT", "GOOGL"}, cfg.Companies)
	assert.Equal(t, defaultQuarters, cfg.Quarters)
	assert.Equal(t, defaultOutput, cfg.Output)
	assert.Equal(t, defaultHTTPTimeout, cfg.HTTPTimeout)
}

func TestFinalizeEnvOverridesOutput(t *testing.T) {
	t.Setenv(OutputEnv, "/tmp/from-env")

	cfg, err := finalize(Config{
		Output:          "/tmp/from-config",
		CurrentRatioMin: defaultCurrentRatioMin,
		DebtToAssetsMax: defaultDebtToAssetsMax,
	})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/from-env", cfg.Output)
}

func TestFinalizeRejectsNegativeQuarters(t *testing.T) {
	_, err := finalize(Config{
		Quarters:        -2,
		CurrentRatioMin: defaultCurrentRatioMin,
		DebtToAssetsMax: defaultDebtToAssetsMax,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quarters")
}

func TestFinalizeRejectsNonPositiveThresholds(t *testing.T) {
	_, err := finalize(Config{CurrentRatioMin: defaultCurrentRatioMin})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "debt_to_assets_max")
}

func TestNormalizeCompanies(t *testing.T) {
	companies := normalizeCompanies([]string{" aapl ", "", "msft", "  "})
	assert.Equal(t, []string{"AAPL", "MSFT"}, companies)
}

func TestPlotsDir(t *testing.T) {
	cfg := Config{Output: "out"}
	assert.Equal(t, filepath.Join("out", "plots"), cfg.PlotsDir())
}
