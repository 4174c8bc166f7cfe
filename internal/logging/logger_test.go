package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(WithJSON(), WithOutput(&buf), WithAttr(slog.String("app", "sealnote")))

	log.Info("note created", NoteID("n1"), Component("notes"))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "note created", rec["msg"])
	assert.Equal(t, "n1", rec["note_id"])
	assert.Equal(t, "notes", rec["component"])
	assert.Equal(t, "sealnote", rec["app"])
}

func TestNewLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(WithOutput(&buf), WithLevel(slog.LevelWarn))

	log.Info("hidden")
	log.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestEmptyAttrs(t *testing.T) {
	assert.Equal(t, slog.Attr{}, Error(nil))
	assert.Equal(t, slog.Attr{}, NoteID(""))
	assert.Equal(t, slog.Attr{}, Reason(""))

	assert.Equal(t, "error", Error(errors.New("x")).Key)
	assert.Equal(t, "duration", Duration(time.Second).Key)
	assert.Equal(t, "elapsed", Elapsed(time.Now()).Key)
}

func TestEmptyAttrsAreDropped(t *testing.T) {
	var buf bytes.Buffer
	log := New(WithOutput(&buf))

	log.Info("ok", Error(nil), NoteID(""))

	assert.False(t, strings.Contains(buf.String(), "error="))
	assert.False(t, strings.Contains(buf.String(), "note_id="))
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}
