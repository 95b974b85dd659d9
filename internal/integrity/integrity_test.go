package integrity

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestEqual(t *testing.T) {
	a := writeFile(t, "a", []byte("the quick brown fox"))
	b := writeFile(t, "b", []byte("the quick brown fox"))
	c := writeFile(t, "c", []byte("the quick brown fax"))
	d := writeFile(t, "d", []byte("short"))

	eq, err := Equal(a, b)
	require.NoError(t, err)
	assert.True(t, eq)

	eq, err = Equal(a, c)
	require.NoError(t, err)
	assert.False(t, eq)

	eq, err = Equal(a, d)
	require.NoError(t, err)
	assert.False(t, eq)

	_, err = Equal(a, filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}

func TestFingerprint(t *testing.T) {
	a := writeFile(t, "a", []byte("payload"))
	b := writeFile(t, "b", []byte("payload"))
	c := writeFile(t, "c", []byte("payloae"))

	fa, err := Fingerprint(a)
	require.NoError(t, err)
	assert.Len(t, fa, 64) // 32 bytes, hex encoded

	fb, err := Fingerprint(b)
	require.NoError(t, err)
	assert.Equal(t, fa, fb)

	fc, err := Fingerprint(c)
	require.NoError(t, err)
	assert.NotEqual(t, fa, fc)
}
