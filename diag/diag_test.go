package diag

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ava12/sublex/source"
)

func TestReporter(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	r := NewReporter(logger, 2)
	src := source.New("in.txt", []byte("foo\n  bar"))
	rng := source.Range{Begin: source.NewPos(src, 6), End: source.NewPos(src, 9)}

	d := r.Errorf(rng, 301, "missing %s", "thing")
	assert.Equal(t, "missing thing in in.txt at line 2 col 3", d.Err.Message)
	assert.Equal(t, 1, d.Number)
	assert.Equal(t, 2, d.Err.Line)

	d = r.Warnf(source.Range{}, 305, "odd")
	assert.Equal(t, "odd", d.Err.Message)
	assert.Equal(t, "warning: odd", d.Error())
	assert.Equal(t, 1, d.Number)

	d = r.Errorf(rng, 301, "again")
	assert.Equal(t, 2, d.Number)
	assert.Equal(t, 2, r.Errors())
	assert.Equal(t, 1, r.Warnings())
	assert.Len(t, r.Diagnostics(), 2)
	assert.Equal(t, 1, r.Count(301))
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "level=WARN")

	r.Reset()
	assert.Equal(t, 0, r.Errors())
	assert.Empty(t, r.Diagnostics())
}
