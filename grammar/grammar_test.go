package grammar

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFoldName(t *testing.T) {
	require.Equal(t, "digit", FoldName("DIGIT"))
	require.Equal(t, "rule-1", FoldName("Rule-1"))
	require.Equal(t, "Élite", FoldName("Élite"), "non-ASCII bytes must not be folded")
}

func TestRuleSetDefineAndGet(t *testing.T) {
	rs := NewRuleSet()
	rs.Define(&Rule{Name: "digit", DisplayName: "DIGIT", Element: Range(DecBase, '0', '9')})

	r, ok := rs.Get("DIGIT")
	require.True(t, ok)
	require.Equal(t, "DIGIT", r.DisplayName)
	require.Equal(t, []string{"digit"}, rs.Names())
	require.Equal(t, 1, rs.Len())

	_, ok = rs.Get("missing")
	require.False(t, ok)
}

func TestRuleSetPreservesInsertionOrder(t *testing.T) {
	rs := NewRuleSet()
	rs.Define(&Rule{Name: "b", Element: Char('b', true)})
	rs.Define(&Rule{Name: "a", Element: Char('a', true)})
	rs.Define(&Rule{Name: "b", Element: Char('x', true)}) // redefinition keeps original order slot

	require.Equal(t, []string{"b", "a"}, rs.Names())
	r, _ := rs.Get("b")
	require.Equal(t, byte('x'), r.Element.Byte)
}

func TestWalkVisitsNestedElements(t *testing.T) {
	e := Cat(Ref("a"), Rep(0, Unbounded, Alt(Char('x', true), Char('y', true))))

	var kinds []Kind
	Walk(e, func(el *Element) {
		kinds = append(kinds, el.Kind)
	})

	require.Equal(t, []Kind{Concatenation, RuleRef, Repetition, Alternation, Literal, Literal}, kinds)
}
