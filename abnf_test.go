package abnf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadAndApplyRoundTrip(t *testing.T) {
	g, err := LoadString("inline", "greeting = \"hello\" 1*WSP \"world\"\r\nWSP = %x20\r\n")
	require.NoError(t, err)
	require.True(t, g.HasRule("greeting"))
	require.Equal(t, []string{"greeting", "wsp"}, g.RuleNames())

	res, err := g.Apply("greeting", []byte("hello world!"), nil, nil)
	require.NoError(t, err)
	require.Equal(t, []byte("hello world"), res.StringText)
	require.Equal(t, []byte("!"), res.Rest)
}

func TestLoadRejectsIncompleteGrammar(t *testing.T) {
	_, err := LoadString("inline", "broken ::: not abnf")
	require.Error(t, err)
}

func TestApplyUnknownRule(t *testing.T) {
	g, err := LoadString("inline", "R = \"x\"\r\n")
	require.NoError(t, err)

	_, err = g.Apply("nope", []byte("x"), nil, nil)
	require.Error(t, err)
}

// A small but representative fragment of RFC 5234 §4's self-description
// grammar, enough to exercise rule references, alternation, repetition,
// groups, char-val, and num-val together.
const goldenGrammar = `rulelist    = 1*( rule / blank )
blank       = 1*WSP c-nl
rule        = rulename defined-as elements c-nl
rulename    = ALPHA *(ALPHA / DIGIT / "-")
defined-as  = *c-wsp "=" *c-wsp
elements    = alternation *c-wsp
alternation = concatenation *( *c-wsp "/" *c-wsp concatenation )
concatenation = repetition *(1*c-wsp repetition)
repetition  = element
element     = rulename / char-val
char-val    = DQUOTE *(%x20-21 / %x23-7E) DQUOTE
c-wsp       = WSP / (c-nl WSP)
c-nl        = CRLF
ALPHA       = %x41-5A / %x61-7A
DIGIT       = %x30-39
WSP         = %x20 / %x09
DQUOTE      = %x22
CRLF        = %x0D.0A
`

func TestGoldenGrammarCompilesAndMatches(t *testing.T) {
	g, err := LoadString("rfc5234-fragment", goldenGrammar)
	require.NoError(t, err)

	res, err := g.Apply("rulename", []byte("foo-bar "), nil, nil)
	require.NoError(t, err)
	require.Equal(t, []byte("foo-bar"), res.StringText)
	require.Equal(t, []byte(" "), res.Rest)
}
