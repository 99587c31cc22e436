package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/zerr"
	"go.trai.ch/zinc/internal/adapters/config"
	"go.trai.ch/zinc/internal/core/domain"
	"go.trai.ch/zinc/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, config.DefaultFilename)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoad_Success(t *testing.T) {
	content := `
version: "1"
incremental:
  transitiveStep: 4
  recompileAllFraction: 0.3
  apiDebug: true
  apiDumpDirectory: target/api
  classfileManager:
    kind: transactional
    backupDirectory: target/backup
  recompileOnMacroDef: false
  useOptimizedSealed: true
  storeApis: false
  extra:
    ide: metals
`
	path := writeConfig(t, t.TempDir(), content)

	opts, err := config.Load(path)
	require.NoError(t, err)

	want := domain.NewIncOptions().
		WithTransitiveStep(4).
		WithRecompileAllFraction(0.3).
		WithAPIDebug(true).
		WithAPIDumpDirectory(domain.Some("target/api")).
		WithClassFileManagerType(domain.Some(domain.Transactional("target/backup"))).
		WithRecompileOnMacroDef(domain.Some(false)).
		WithUseOptimizedSealed(true).
		WithStoreAPIs(false).
		WithExtra(map[string]string{"ide": "metals"})

	assert.True(t, want.Equal(opts), "diff: %v", want.Diff(opts))
	assert.False(t, opts.EffectiveRecompileOnMacroDef())
}

func TestParse_Defaults(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "empty file", content: ""},
		{name: "version only", content: `version: "1"`},
		{name: "empty incremental section", content: "incremental: {}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := config.Parse([]byte(tt.content))
			require.NoError(t, err)
			assert.True(t, domain.NewIncOptions().Equal(opts))
		})
	}
}

func TestParse_OutOfRangeValuesAreAccepted(t *testing.T) {
	opts, err := config.Parse([]byte("incremental:\n  recompileAllFraction: 2.5\n  apiDiffContextSize: -3\n"))
	require.NoError(t, err)

	assert.InDelta(t, 2.5, opts.RecompileAllFraction(), 0)
	assert.Equal(t, -3, opts.APIDiffContextSize())
}

func TestLoad_Errors(t *testing.T) {
	t.Run("File Not Found", func(t *testing.T) {
		_, err := config.Load("non-existent-file.yaml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})

	t.Run("Invalid YAML", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "incremental: [unclosed")
		_, err := config.Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})

	t.Run("Unknown Key", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "incremental:\n  transitiveSteps: 4\n")
		_, err := config.Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})

	t.Run("Unsupported Version", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), `version: "2"`)
		_, err := config.Load(path)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrUnsupportedConfigVersion))

		_, err = config.Parse([]byte(`version: "2"`))
		var zErr *zerr.Error
		require.ErrorAs(t, err, &zErr)
		assert.Equal(t, "2", zErr.Metadata()["version"])
	})

	t.Run("Unknown Class File Manager", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "incremental:\n  classfileManager:\n    kind: shredder\n")
		_, err := config.Load(path)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrUnknownClassFileManager))
	})
}

func TestLoader_Load(t *testing.T) {
	t.Run("reads the file in the working directory", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockLogger := mocks.NewMockLogger(ctrl)

		dir := t.TempDir()
		writeConfig(t, dir, "incremental:\n  enabled: false\n")

		opts, err := config.NewLoader(mockLogger).Load(dir)
		require.NoError(t, err)
		assert.False(t, opts.Enabled())
	})

	t.Run("missing file falls back to defaults", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockLogger := mocks.NewMockLogger(ctrl)
		mockLogger.EXPECT().Info(gomock.Any()).Times(1)

		opts, err := config.NewLoader(mockLogger).Load(t.TempDir())
		require.NoError(t, err)
		assert.True(t, domain.NewIncOptions().Equal(opts))
	})
}
