package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_NoOverrideFileReturnsDefaults(t *testing.T) {
	t.Setenv("FORMSENDER_CONFIG_FILE", "")

	cfg := Load()

	assert.Contains(t, cfg.Keywords.Primary, "送信")
	assert.Equal(t, 15, cfg.Budgets.PageLoadSeconds)
	assert.Equal(t, 5, cfg.Budgets.ClickSeconds)
}

func TestLoad_OverrideFileMergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "override.yaml")
	yamlContent := "keywords:\n  primary:\n    - 送信する\nbudgets:\n  click_seconds: 9\n"
	require.NoError(t, os.WriteFile(path, []byte(yamlContent), 0o644))
	t.Setenv("FORMSENDER_CONFIG_FILE", path)

	cfg := Load()

	assert.Equal(t, []string{"送信する"}, cfg.Keywords.Primary)
	assert.Equal(t, 9, cfg.Budgets.ClickSeconds)
	// Unspecified fields keep their defaults.
	assert.Equal(t, 15, cfg.Budgets.PageLoadSeconds)
	assert.Contains(t, cfg.Keywords.Consent, "同意")
}

func TestLoad_MalformedOverrideFileFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("not: [valid yaml"), 0o644))
	t.Setenv("FORMSENDER_CONFIG_FILE", path)

	cfg := Load()

	assert.Contains(t, cfg.Keywords.Primary, "submit")
}

func TestToSubmissionBudgets_ZeroFieldsFallBackToSubmissionDefaults(t *testing.T) {
	cfg := defaults()
	cfg.Budgets.ClickSeconds = 0

	b := cfg.ToSubmissionBudgets()

	assert.Equal(t, float64(15), b.PageLoad.Seconds())
	assert.Equal(t, float64(5), b.Click.Seconds())
}
