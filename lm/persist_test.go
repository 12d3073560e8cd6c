package lm

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	m := trainedModel(t, 3, "a b c\na b d\n")

	prefix := filepath.Join(t.TempDir(), "m")
	require.NoError(t, m.Save(prefix))

	loaded, err := New(3)
	require.NoError(t, err)
	require.NoError(t, loaded.Load(prefix))

	assert.Equal(t, m.VocabSize(), loaded.VocabSize())
	assert.Equal(t, m.TotalTokens(), loaded.TotalTokens())

	for _, tok := range []string{"a", "b", "c", "d"} {
		want, ok := m.vocab.Lookup(tok)
		require.True(t, ok)
		got, ok := loaded.vocab.Lookup(tok)
		require.True(t, ok)
		assert.Equal(t, want, got, "token %q keeps its id", tok)
	}

	queries := [][]string{
		{"a"}, {"b"}, {"c"}, {"d"},
		{"a", "b"}, {"b", "c"}, {"b", "d"},
		{"a", "b", "c"}, {"a", "b", "d"},
	}
	for _, q := range queries {
		ids := make([]uint32, len(q))
		for i, tok := range q {
			ids[i], _ = m.vocab.Lookup(tok)
		}
		assert.Equal(t, m.ngrams.Count(ids), loaded.ngrams.Count(ids), "count of %v", q)
	}
}

func TestLoadedModelPredictsLikeOriginal(t *testing.T) {
	m := trainedModel(t, 3, "a b c\na b d\n")

	prefix := filepath.Join(t.TempDir(), "m")
	require.NoError(t, m.Save(prefix))

	loaded, err := New(3)
	require.NoError(t, err)
	require.NoError(t, loaded.Load(prefix))

	want := m.Predict("a b", 2)
	got := loaded.Predict("a b", 2)
	assert.Equal(t, want, got)
}

func TestLoadToleratesMissingNgramFiles(t *testing.T) {
	m := trainedModel(t, 3, "a b c\n")

	prefix := filepath.Join(t.TempDir(), "m")
	require.NoError(t, m.Save(prefix))
	require.NoError(t, os.Remove(prefix+".bi"))
	require.NoError(t, os.Remove(prefix+".tri"))

	loaded, err := New(3)
	require.NoError(t, err)
	require.NoError(t, loaded.Load(prefix))

	assert.Equal(t, m.VocabSize(), loaded.VocabSize())
	assert.Equal(t, m.TotalTokens(), loaded.TotalTokens())

	a, _ := loaded.vocab.Lookup("a")
	b, _ := loaded.vocab.Lookup("b")
	assert.Equal(t, uint32(1), loaded.ngrams.Count([]uint32{a}))
	assert.Equal(t, uint32(0), loaded.ngrams.Count([]uint32{a, b}), "bigram table was absent")
}

func TestLoadMissingVocabFails(t *testing.T) {
	m, err := New(3)
	require.NoError(t, err)

	assert.Error(t, m.Load(filepath.Join(t.TempDir(), "nope")))
}

func TestLoadShortReadFails(t *testing.T) {
	m := trainedModel(t, 3, "a b c\na b d\n")

	prefix := filepath.Join(t.TempDir(), "m")
	require.NoError(t, m.Save(prefix))

	data, err := os.ReadFile(prefix + ".uni")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(prefix+".uni", data[:len(data)-2], 0o644))

	loaded, err := New(3)
	require.NoError(t, err)
	assert.Error(t, loaded.Load(prefix))
}

func TestSavedFilesExist(t *testing.T) {
	m := trainedModel(t, 3, "a b\n")

	prefix := filepath.Join(t.TempDir(), "m")
	require.NoError(t, m.Save(prefix))

	for _, ext := range []string{".vocab", ".uni", ".bi", ".tri"} {
		_, err := os.Stat(prefix + ext)
		assert.NoError(t, err, "%s must exist", ext)
	}
}
