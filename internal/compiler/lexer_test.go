package compiler_test

import (
	"testing"

	"github.com/aretw0/turing/internal/compiler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lexeme struct {
	Kind compiler.Kind
	Text string
}

func lexemes(tokens []compiler.Token) []lexeme {
	out := make([]lexeme, len(tokens))
	for i, t := range tokens {
		out[i] = lexeme{t.Kind, t.Text}
	}
	return out
}

func TestTokenize(t *testing.T) {
	tokens, err := compiler.Tokenize("a(1) -> write 0  move r goto b!\n    x-y:\n")
	require.NoError(t, err)

	assert.Equal(t, []lexeme{
		{compiler.KindWord, "a"},
		{compiler.KindBracketed, "(1)"},
		{compiler.KindArrow, "->"},
		{compiler.KindWord, "write"},
		{compiler.KindWord, "0"},
		{compiler.KindSpace, "  "},
		{compiler.KindWord, "move"},
		{compiler.KindWord, "r"},
		{compiler.KindWord, "goto"},
		{compiler.KindWord, "b!"},
		{compiler.KindNewline, "\n"},
		{compiler.KindIndent, "    "},
		{compiler.KindWord, "x-y"},
		{compiler.KindColon, ":"},
		{compiler.KindNewline, "\n"},
	}, lexemes(tokens))

	assert.Equal(t, 4, tokens[11].Width)
	assert.Equal(t, 2, tokens[11].Line)
}

func TestTokenize_Words(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"q->", []string{"q", "->"}},
		{"a-b->c", []string{"a-b", "->", "c"}},
		{"ab- x", []string{"ab", "-", "x"}},
		{"_ * ! # -", []string{"_", "*", "!", "#", "-"}},
		{"halt-accept!", []string{"halt-accept!"}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			tokens, err := compiler.Tokenize(tt.in)
			require.NoError(t, err)
			var got []string
			for _, tok := range tokens {
				got = append(got, tok.Text)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTokenize_Tabs(t *testing.T) {
	tokens, err := compiler.Tokenize("\t\tgoto a")
	require.NoError(t, err)
	assert.Equal(t, compiler.KindIndent, tokens[0].Kind)
	assert.Equal(t, 8, tokens[0].Width)
}

func TestTokenize_Errors(t *testing.T) {
	for _, in := range []string{"a(12) -> x", "a) b", "{m x}", "a()"} {
		t.Run(in, func(t *testing.T) {
			_, err := compiler.Tokenize(in)
			assert.ErrorIs(t, err, compiler.ErrSyntax)
		})
	}
}

func TestNormalize(t *testing.T) {
	tokens, err := compiler.Tokenize("else: move right goto left")
	require.NoError(t, err)

	var got []string
	for _, tok := range compiler.Normalize(tokens) {
		got = append(got, tok.Text)
	}
	assert.Equal(t, []string{"read", "*", ":", "move", "r", "goto", "l"}, got)
}
