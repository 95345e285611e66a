package outwriter

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/qualityscore/internal/contract"
	"github.com/huangsam/qualityscore/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	tests := []struct {
		name     string
		data     any
		expected string
	}{
		{"object", map[string]int{"overall": 82}, "{\n  \"overall\": 82\n}\n"},
		{"array", []string{"a", "b"}, "[\n  \"a\",\n  \"b\"\n]\n"},
		{"string", "hello", "\"hello\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, writeJSON(&buf, tt.data))
			assert.Equal(t, tt.expected, buf.String())
		})
	}
}

func TestWriteJSONError(t *testing.T) {
	var buf bytes.Buffer
	err := writeJSON(&buf, make(chan int))
	assert.ErrorContains(t, err, "failed to encode JSON")
}

func TestWriteCSVWithHeader(t *testing.T) {
	var buf bytes.Buffer
	err := writeCSVWithHeader(&buf, []string{"criterion", "note"}, func(w *csv.Writer) error {
		return w.Write([]string{"style", "a, b"})
	})
	require.NoError(t, err)
	assert.Equal(t, "criterion,note\nstyle,\"a, b\"\n", buf.String())

	err = writeCSVWithHeader(&buf, []string{"col"}, func(*csv.Writer) error { return assert.AnError })
	assert.Equal(t, assert.AnError, err)
}

func TestWriteWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, writeWithFile(path, func(w io.Writer) error {
		_, err := w.Write([]byte("content"))
		return err
	}, "Wrote text"))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "content", string(content))

	err = writeWithFile(path, func(io.Writer) error { return assert.AnError }, "Wrote text")
	assert.Equal(t, assert.AnError, err)

	err = writeWithFile(filepath.Join(t.TempDir(), "missing", "out.txt"), func(io.Writer) error { return nil }, "Wrote text")
	assert.Error(t, err)
}

func TestLabels(t *testing.T) {
	plain := &contract.Config{UseColors: false}
	assert.Equal(t, "B", gradeLabel(plain, schema.GradeB))
	assert.Equal(t, "82", scoreLabel(plain, 82, schema.GradeB))

	colored := &contract.Config{UseColors: true}
	assert.Contains(t, gradeLabel(colored, schema.GradeA), "A")
	assert.Contains(t, scoreLabel(colored, 95, schema.GradeA), "95")
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "short", truncateText("short", 10))
	assert.Equal(t, "abcdefg...", truncateText("abcdefghijklmnop", 10))
	assert.Equal(t, "ab", truncateText("abcdef", 2))
}

func TestGetMaxTablePathWidth(t *testing.T) {
	tests := []struct {
		width    int
		expected int
	}{
		{40, 15},
		{130, 35},
		{300, 70},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, GetMaxTablePathWidth(&contract.Config{Width: tt.width}), "width %d", tt.width)
	}
}
