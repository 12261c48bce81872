package protocol_test

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/hcollier/penjudge/internal/protocol"
)

func TestReadValues(t *testing.T) {
	values, err := protocol.ReadValues("1 -2 3", 3)
	require.NoError(t, err)
	assert.Equal(t, []int{1, -2, 3}, values)

	values, err = protocol.ReadValues("1        2   \t\t    3", 3)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, values, "any whitespace run separates tokens")
}

func TestReadValues_TokenCountErrors(t *testing.T) {
	tests := []struct {
		line string
		n    int
		want string
	}{
		{"", 1, "Wrong number of tokens: expected 1, found 0."},
		{"1", 2, "Wrong number of tokens: expected 2, found 1."},
		{"1 2 3", 2, "Wrong number of tokens: expected 2, found 3."},
	}
	for _, tt := range tests {
		_, err := protocol.ReadValues(tt.line, tt.n)
		require.Error(t, err)
		assert.Equal(t, tt.want, err.Error())

		var tce *protocol.TokenCountError
		require.True(t, errors.As(err, &tce))
		assert.Equal(t, tt.n, tce.Expected)
	}
}

func TestReadValues_NotIntegerErrors(t *testing.T) {
	_, err := protocol.ReadValues("1 two", 2)
	require.Error(t, err)
	assert.Equal(t, "Not an integer: two.", err.Error())

	_, err = protocol.ReadValues("1.0", 1)
	require.Error(t, err)
	assert.Equal(t, "Not an integer: 1.0.", err.Error())
}

func TestReadValues_TruncatesLongToken(t *testing.T) {
	_, err := protocol.ReadValues(strings.Repeat("a", 100)+"b", 1)
	require.Error(t, err)

	var nie *protocol.NotIntegerError
	require.True(t, errors.As(err, &nie))
	assert.Equal(t, strings.Repeat("a", 100), nie.Token)
	assert.Equal(t, "Not an integer: "+strings.Repeat("a", 100)+".", err.Error())
}

// TestReadValues_RoundTrip_Property: tokenizing a space-joined integer line
// of length k yields exactly the original k integers, in order.
func TestReadValues_RoundTrip_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		want := rapid.SliceOfN(rapid.Int(), 1, 50).Draw(rt, "values")

		tokens := make([]string, len(want))
		for i, v := range want {
			tokens[i] = strconv.Itoa(v)
		}
		got, err := protocol.ReadValues(strings.Join(tokens, " "), len(want))
		require.NoError(rt, err)
		assert.Equal(rt, want, got)
	})
}

// TestReadValues_CountMismatch_Property: any mismatched requested count fails
// and names both counts.
func TestReadValues_CountMismatch_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		values := rapid.SliceOfN(rapid.Int(), 0, 20).Draw(rt, "values")
		request := rapid.IntRange(0, 25).Filter(func(n int) bool {
			return n != len(values)
		}).Draw(rt, "request")

		tokens := make([]string, len(values))
		for i, v := range values {
			tokens[i] = strconv.Itoa(v)
		}
		_, err := protocol.ReadValues(strings.Join(tokens, " "), request)
		require.Error(rt, err)

		var tce *protocol.TokenCountError
		require.True(rt, errors.As(err, &tce))
		assert.Equal(rt, request, tce.Expected)
		assert.Equal(rt, len(values), tce.Found)
	})
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", protocol.Truncate("short"))
	assert.Equal(t, strings.Repeat("x", 100), protocol.Truncate(strings.Repeat("x", 101)))
}

func TestReader_ReadLine(t *testing.T) {
	r := protocol.NewReader(strings.NewReader("a b\r\nc\nfinal"))

	line, err := r.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "a b", line)

	line, err = r.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "c", line)

	line, err = r.ReadLine()
	require.NoError(t, err, "an unterminated final line is still a line")
	assert.Equal(t, "final", line)

	_, err = r.ReadLine()
	assert.ErrorIs(t, err, protocol.ErrEndOfInput)

	_, err = r.ReadLine()
	assert.ErrorIs(t, err, protocol.ErrEndOfInput, "end of input is sticky")
}

func TestReader_EmptyInput(t *testing.T) {
	r := protocol.NewReader(strings.NewReader(""))
	_, err := r.ReadLine()
	assert.ErrorIs(t, err, protocol.ErrEndOfInput)
}

func TestWriter_Format(t *testing.T) {
	var out strings.Builder
	w := protocol.NewWriter(&out, zap.NewNop())

	w.WriteInts([]int{20000, 15, 10900})
	w.WriteInts([]int{0, 1, 0})
	w.WriteInt(-1)

	assert.Equal(t, "20000 15 10900\n0 1 0\n-1\n", out.String())
}

// brokenWriter fails every write.
type brokenWriter struct{}

func (brokenWriter) Write(p []byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestWriter_SwallowsWriteFailures(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	w := protocol.NewWriter(brokenWriter{}, zap.New(core))

	assert.NotPanics(t, func() {
		w.WriteInts([]int{1, 2, 3})
		w.WriteInt(0)
	})
	assert.Equal(t, 2, logs.FilterLevelExact(zap.DebugLevel).Len(),
		"each dropped line is logged, not escalated")
}
