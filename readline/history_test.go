package readline

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempHistory(t *testing.T) (*History, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "history")
	h, err := load(path)
	require.NoError(t, err)
	return h, path
}

func TestAddPersists(t *testing.T) {
	h, path := tempHistory(t)

	h.Add("hello world")
	h.Add("second line")

	reloaded, err := load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.Size())
}

func TestAddSkipsConsecutiveDuplicates(t *testing.T) {
	h, _ := tempHistory(t)

	h.Add("same")
	h.Add("same")
	h.Add("other")
	h.Add("same")

	assert.Equal(t, 3, h.Size())
}

func TestCompactsToLimit(t *testing.T) {
	h, path := tempHistory(t)

	for i := 0; i < 150; i++ {
		h.Add(fmt.Sprintf("line %d", i))
	}

	assert.Equal(t, 100, h.Size())

	reloaded, err := load(path)
	require.NoError(t, err)
	assert.Equal(t, 100, reloaded.Size())
}

func TestDisabledHistoryNeverWrites(t *testing.T) {
	h, path := tempHistory(t)
	h.Enabled = false

	h.Add("secret input")

	assert.Equal(t, 1, h.Size(), "session buffer still fills")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestClear(t *testing.T) {
	h, _ := tempHistory(t)

	h.Add("one")
	h.Clear()

	assert.Zero(t, h.Size())
}
