package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/gcbaptista/go-dream-engine/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// writeConfig points the engine at a fresh data directory and keeps logs quiet.
func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "data_dir: " + filepath.Join(dir, "data") + "\nlog_file: \"\"\nlog_level: ERROR\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, writeConfig(t), "version")
	require.NoError(t, err)
	assert.Contains(t, out, Version)
}

func TestAnalyze(t *testing.T) {
	cfg := writeConfig(t)

	t.Run("json", func(t *testing.T) {
		out, err := run(t, cfg, "analyze", "--json", "눈이", "내린다")
		require.NoError(t, err)

		var outcome model.Outcome
		require.NoError(t, json.Unmarshal([]byte(out), &outcome))
		require.True(t, outcome.Completed())
		require.NotEmpty(t, outcome.Result.Resolutions)
		assert.Equal(t, model.CategoryWeather, outcome.Result.Resolutions[0].SelectedSense.Category)
	})

	t.Run("needs choice", func(t *testing.T) {
		out, err := run(t, cfg, "analyze", "배가 보였다")
		require.NoError(t, err)
		assert.Contains(t, out, "Some words need a choice")
		assert.Contains(t, out, "--choice")
	})

	t.Run("text", func(t *testing.T) {
		out, err := run(t, cfg, "analyze", "강아지가 집에서 뛰어놀았어요")
		require.NoError(t, err)
		assert.Contains(t, out, "Numbers:")
		assert.Contains(t, out, "강아지")
	})
}

func TestImportAndBrowse(t *testing.T) {
	cfg := writeConfig(t)
	dictDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dictDir, "g.txt"), []byte("가위[7]★★, 단순텍스트\n"), 0o644))

	out, err := run(t, cfg, "import", "--rejected", filepath.Join(dictDir, "*.txt"))
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 entries from 1 files (1 lines rejected)")
	assert.Contains(t, out, "단순텍스트")

	out, err = run(t, cfg, "browse", "ㄱ")
	require.NoError(t, err)
	assert.Contains(t, out, "가위 7 2")

	_, err = run(t, cfg, "browse", "가")
	assert.Error(t, err)

	_, err = run(t, cfg, "import", filepath.Join(dictDir, "*.none"))
	assert.Error(t, err)
}
