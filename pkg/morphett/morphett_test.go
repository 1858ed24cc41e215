package morphett_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/morphett"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	table := domain.NewTable()
	require.NoError(t, table.AddAll(
		domain.Transition{CurrentState: "a", CurrentCell: "1", NewCell: "0", Direction: "r", NewState: "halt-b"},
		domain.Transition{CurrentState: "b", CurrentCell: "*", NewCell: "*", Direction: "stay", NewState: "halt-b"},
		domain.Transition{CurrentState: "a", CurrentCell: "0", NewCell: "0", Direction: "l", NewState: "a"},
	))

	var buf bytes.Buffer
	require.NoError(t, morphett.Encode(&buf, table))
	assert.Equal(t, "a 1 0 r halt-b\na 0 0 l a\nb * * stay halt-b\n", buf.String())
}

func TestDecode(t *testing.T) {
	src := `; flip the first bit
a 1 0 r halt-b

  b * * stay halt-b
`
	table, err := morphett.Decode(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, "a", table.InitialState())
	assert.Equal(t, 2, table.Len())

	tr, ok := table.Lookup("b", "x")
	require.True(t, ok)
	assert.Equal(t, "stay", tr.Direction)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
		line string
	}{
		{"Too few fields", "a 1 0 r\n", morphett.ErrMalformedLine, "line 1"},
		{"Too many fields", "a 1 0 r b c\n", morphett.ErrMalformedLine, "line 1"},
		{"Bad direction", "a 1 0 r b\na 0 0 up b\n", domain.ErrInvalidDirection, "line 2"},
		{"Duplicate", "a 1 0 r b\n\na 1 1 l b\n", domain.ErrDuplicateTransition, "line 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := morphett.Decode(strings.NewReader(tt.src))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), tt.line)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	src := "start _ 1 r carry\nstart 1 1 r start\ncarry * _ left halt-done\n"
	table, err := morphett.Decode(strings.NewReader(src))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, morphett.Encode(&buf, table))
	assert.Equal(t, src, buf.String())
}

func TestHeader(t *testing.T) {
	table, err := morphett.Decode(strings.NewReader("a 1 0 r b\nb _ 1 l halt\n"))
	require.NoError(t, err)
	require.NoError(t, table.SetInitialState("b"))

	var buf bytes.Buffer
	require.NoError(t, morphett.WriteHeader(&buf, table))
	require.NoError(t, morphett.Encode(&buf, table))
	assert.Equal(t, "; initial: b\na 1 0 r b\nb _ 1 l halt\n", buf.String())

	decoded, err := morphett.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, "b", decoded.InitialState())
}
