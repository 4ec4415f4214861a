package perfui

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	t.Run("silent by default", func(t *testing.T) {
		l := Logger()
		require.NotNil(t, l)
		for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
			assert.False(t, l.Enabled(context.Background(), level))
		}
	})

	t.Run("custom logger receives records", func(t *testing.T) {
		var buf bytes.Buffer
		SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

		o := New(DefaultRoot())
		o.Attach(Text[float64](&constEntry{label: "Speed", value: 1}))
		o.Tick(Sources{})

		assert.Contains(t, buf.String(), "row attached")
	})

	t.Run("nil restores silence", func(t *testing.T) {
		SetLogger(slog.Default())
		SetLogger(nil)
		assert.False(t, Logger().Enabled(context.Background(), slog.LevelError))
	})
}
