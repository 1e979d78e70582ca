package source

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLineColFirstLine(t *testing.T) {
	s := New("t", []byte("abc\ndef\nghi"))

	line, col := s.LineCol(0)
	require.Equal(t, 1, line)
	require.Equal(t, 1, col)

	line, col = s.LineCol(2)
	require.Equal(t, 1, line)
	require.Equal(t, 3, col)
}

func TestLineColLaterLines(t *testing.T) {
	s := New("t", []byte("abc\ndef\nghi"))

	line, col := s.LineCol(4)
	require.Equal(t, 2, line)
	require.Equal(t, 1, col)

	line, col = s.LineCol(9)
	require.Equal(t, 3, line)
	require.Equal(t, 2, col)
}

func TestLineColClampsOutOfRangeOffsets(t *testing.T) {
	s := New("t", []byte("abc\ndef"))

	line, col := s.LineCol(-5)
	require.Equal(t, 1, line)
	require.Equal(t, 1, col)

	line, col = s.LineCol(1000)
	require.Equal(t, 2, line)
	require.Equal(t, 4, col)
}

func TestLineColMonotonicQueriesReuseMemoizedLine(t *testing.T) {
	s := New("t", []byte("a\nb\nc\nd\ne"))

	var lines []int
	for pos := 0; pos < s.Len(); pos++ {
		line, _ := s.LineCol(pos)
		lines = append(lines, line)
	}
	require.Equal(t, []int{1, 1, 2, 2, 3, 3, 4, 4, 5}, lines)
}

func TestNewPosResolvesLineAndCol(t *testing.T) {
	s := New("grammar.abnf", []byte("rule = \"a\"\nrule2 = \"b\"\n"))

	p := NewPos(s, 11)
	require.Equal(t, "grammar.abnf", p.SourceName())
	require.Equal(t, 2, p.Line())
	require.Equal(t, 1, p.Col())
	require.Equal(t, 11, p.Offset())
	require.Same(t, s, p.Source())
}

func TestNewPosNilSource(t *testing.T) {
	p := NewPos(nil, 5)
	require.Equal(t, "", p.SourceName())
	require.Equal(t, 0, p.Line())
	require.Equal(t, 0, p.Col())
}
