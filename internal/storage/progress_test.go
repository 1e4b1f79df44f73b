package storage

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressReporter(t *testing.T) {
	var calls [][2]int64
	p := newProgressReporter(10, func(done, total int64) {
		calls = append(calls, [2]int64{done, total})
	})
	require.NotNil(t, p)

	p.report(0)
	_, err := io.Copy(io.Discard, io.TeeReader(bytes.NewReader(make([]byte, 10)), p))
	require.NoError(t, err)
	p.flush()

	require.NotEmpty(t, calls)
	assert.Equal(t, [2]int64{0, 10}, calls[0])
	assert.Equal(t, [2]int64{10, 10}, calls[len(calls)-1])
}

func TestProgressReporterDisabled(t *testing.T) {
	assert.Nil(t, newProgressReporter(10, nil))
}
