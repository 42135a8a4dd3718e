package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifiedError(t *testing.T) {
	t.Run("builder defaults to fatal", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithContext("file", "plugindocs.yaml").
			Build()

		assert.Equal(t, CategoryConfig, err.Category())
		assert.True(t, err.IsFatal())
		assert.Equal(t, "[config:fatal] invalid configuration", err.Error())

		file, ok := err.Context().GetString("file")
		require.True(t, ok)
		assert.Equal(t, "plugindocs.yaml", file)
	})

	t.Run("wrap keeps cause in chain", func(t *testing.T) {
		cause := stderrors.New("exit status 1")
		err := WrapError(cause, CategoryToolchain, "build command failed").Build()

		assert.ErrorIs(t, err, cause)
		assert.Equal(t, "[toolchain:fatal] build command failed: exit status 1", err.Error())
	})

	t.Run("classified error found through fmt wrapping", func(t *testing.T) {
		inner := PluginError("no exported class").Build()
		wrapped := fmt.Errorf("module \"foo/index\": %w", inner)

		classified, ok := AsClassified(wrapped)
		require.True(t, ok)
		assert.Same(t, inner, classified)
		assert.True(t, HasCategory(wrapped, CategoryPlugin))
		assert.Equal(t, CategoryPlugin, GetCategory(wrapped))
	})

	t.Run("unclassified falls back to internal", func(t *testing.T) {
		assert.Equal(t, CategoryInternal, GetCategory(stderrors.New("boom")))
		assert.False(t, HasCategory(nil, CategoryConfig))
	})
}

func TestErrorContextMerge(t *testing.T) {
	a := ErrorContext{"a": 1, "b": 1}
	b := ErrorContext{"b": 2}
	merged := a.Merge(b)

	assert.Equal(t, ErrorContext{"a": 1, "b": 2}, merged)
	assert.Equal(t, 1, a["b"], "merge must not mutate the receiver")
}

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, 0},
		{"validation", ValidationError("bad flag").Build(), 2},
		{"auth", NewError(CategoryAuth, "denied").Build(), 5},
		{"config", ConfigError("missing").Build(), 7},
		{"git", GitError("clone failed").Build(), 8},
		{"toolchain", ToolchainError("npm failed").Build(), 9},
		{"plugin", PluginError("missing tag").Build(), 11},
		{"filesystem", FileSystemError("write failed").Build(), 11},
		{"wrapped plugin", fmt.Errorf("outer: %w", PluginError("x").Build()), 11},
		{"unclassified", stderrors.New("unknown"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, adapter.ExitCodeFor(tt.err))
		})
	}
}

func TestCLIErrorAdapter_HandleError(t *testing.T) {
	var logs, out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	err := ExtractError("symbol tree unreadable").WithContext("path", "dist/docs.json").Build()

	code := NewCLIErrorAdapter(false, logger).WithOutput(&out).HandleError(err)
	assert.Equal(t, 11, code)
	assert.Contains(t, out.String(), "symbol tree unreadable (use -v for details)")
	assert.Contains(t, logs.String(), "category=extract")
	assert.Contains(t, logs.String(), "path=dist/docs.json")

	out.Reset()
	NewCLIErrorAdapter(true, logger).WithOutput(&out).HandleError(err)
	assert.Contains(t, out.String(), "[extract:fatal] symbol tree unreadable")
}
