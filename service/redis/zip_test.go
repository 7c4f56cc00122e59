package redis

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZip(t *testing.T) {
	val := bytes.Repeat([]byte(`{"mint":"So11111111111111111111111111111111111111112"}`), 50)

	zipped, err := zip(val)
	require.NoError(t, err)
	assert.Less(t, len(zipped), len(val))

	got, err := unzip(zipped)
	require.NoError(t, err)
	assert.Equal(t, val, got)
}

func TestUnzipPlain(t *testing.T) {
	got, err := unzip([]byte(`{"a":1}`))
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"a":1}`), got)
}

func TestUnzipCorrupt(t *testing.T) {
	_, err := unzip(append([]byte{}, 0x1f, 0x8b, 0x00))
	assert.Error(t, err)
}
