package tokenizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  []string
	}{
		{"basic", "Hello, World!  HELLO", []string{"hello", "world", "hello"}},
		{"empty", "", nil},
		{"delimiters only", " .,;!?\t", nil},
		{"mixed punctuation", "don't stop-me now", []string{"don", "t", "stop", "me", "now"}},
		{"digits kept", "top40 hits", []string{"top40", "hits"}},
		{"leading trailing space", "  padded  ", []string{"padded"}},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.input))
		})
	}
}

func TestTokenizeTruncatesLongTokens(t *testing.T) {
	long := strings.Repeat("a", 80)
	got := Tokenize(long + " tail")

	assert.Equal(t, []string{strings.Repeat("a", MaxTokenLen), "tail"}, got)
}

func TestTokenizeDiscardsOverflowTokens(t *testing.T) {
	line := strings.TrimSpace(strings.Repeat("word ", MaxTokens+40))
	got := Tokenize(line)

	assert.Len(t, got, MaxTokens)
}

func TestTokenizeOutputInvariants(t *testing.T) {
	inputs := []string{
		"Hello, World!  HELLO",
		"The QUICK brown fox; jumps!! over 13 lazy dogs...",
		strings.Repeat("Antidisestablishmentarianism", 3),
		"tabs\tand\nnewlines\rhere",
	}

	for _, input := range inputs {
		for _, tok := range Tokenize(input) {
			assert.NotEmpty(t, tok)
			assert.LessOrEqual(t, len(tok), MaxTokenLen)
			assert.Equal(t, strings.ToLower(tok), tok)
			for i := 0; i < len(tok); i++ {
				assert.False(t, isDelim(tok[i]), "token %q contains delimiter byte %q", tok, tok[i])
			}
		}
	}
}

func TestTokenizeIdempotent(t *testing.T) {
	first := Tokenize("A Sentence, that NEEDS cleaning up!")
	second := Tokenize(strings.Join(first, " "))

	assert.Equal(t, first, second)
}
