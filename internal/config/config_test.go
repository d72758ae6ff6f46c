package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"import-reconciler/internal/match"
)

func TestParse(t *testing.T) {
	data := `
version: "1"
log_level: debug
fallback_contract: CT-999
suggestion_limit: 5
min_suggestion_score: 0.75
folds:
  jose: [zé, ze]
columns:
  employee: [colaborador]
`

	cfg, err := Parse([]byte(data))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "CT-999", cfg.FallbackContract)
	assert.Equal(t, 5, cfg.SuggestionLimit)
	assert.InDelta(t, 0.75, cfg.MinSuggestionScore, 1e-9)
	assert.Equal(t, []string{"zé", "ze"}, cfg.Folds["jose"])
	assert.Equal(t, []string{"colaborador"}, cfg.Columns["employee"])

	assert.Equal(t, []string{"jose", "silva"}, cfg.Normalizer().Tokens("Zé Silva"))
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte(`{}`))
	require.NoError(t, err)

	assert.Equal(t, "1", cfg.Version)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 3, cfg.SuggestionLimit)
	assert.InDelta(t, 0.6, cfg.MinSuggestionScore, 1e-9)
	assert.Empty(t, cfg.FallbackContract)
}

func TestParse_ZeroSuggestionLimitDisables(t *testing.T) {
	cfg, err := Parse([]byte("suggestion_limit: 0\nmin_suggestion_score: 0\n"))
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.SuggestionLimit)
	assert.Zero(t, cfg.MinSuggestionScore)
}

func TestParse_EnvOverrides(t *testing.T) {
	t.Setenv("RECONCILER_FALLBACK_CONTRACT", "Terceiros")
	t.Setenv("RECONCILER_LOG_LEVEL", "warn")

	cfg, err := Parse([]byte("fallback_contract: CT-999\nlog_level: debug\n"))
	require.NoError(t, err)

	assert.Equal(t, "Terceiros", cfg.FallbackContract)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("suggestion_limit: [1, 2]"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config YAML")

	_, err = Parse([]byte("min_suggestion_score: 1.5"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "min_suggestion_score")

	_, err = Parse([]byte("suggestion_limit: -1"))
	require.Error(t, err)

	_, err = Parse([]byte("folds:\n  joao: [joão pedro]\n"))
	require.ErrorIs(t, err, match.ErrInvalidFold)
	assert.Contains(t, err.Error(), "folds")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reconciler.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fallback_contract: CT-999\n"), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "CT-999", cfg.FallbackContract)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoadFile_EnvOnly(t *testing.T) {
	t.Setenv("RECONCILER_SUGGESTION_LIMIT", "7")

	cfg, err := LoadFile("")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.SuggestionLimit)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestMarshal_RoundTripKeepsFolds(t *testing.T) {
	cfg := Default()
	cfg.Folds = map[string][]string{"jose": {"ze"}}

	data, err := Marshal(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(data), "jose:")
}
