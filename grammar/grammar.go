// Package grammar defines the data model of a compiled ABNF grammar: the
// Element operator AST and the RuleSet that maps
// rule names to their compiled right-hand sides. It has no parsing or
// matching logic of its own — langdef builds RuleSets, interpreter walks
// them.
package grammar


// Kind tags the variant of an Element.
type Kind int

const (
	// Alternation holds an ordered list of alternatives; the first one
	// that leads to an overall match wins.
	Alternation Kind = iota

	// Concatenation holds an ordered sequence of elements matched
	// left-to-right. An empty Concatenation matches the empty string.
	Concatenation

	// Repetition matches Inner between Min and Max times, greedily,
	// with backtracking.
	Repetition

	// RuleRef refers to another rule by its case-folded name.
	RuleRef

	// Literal matches a single byte (ASCII case-insensitive when
	// CaseInsensitive is set).
	Literal

	// NumRange matches a single byte whose value lies in [Lo, Hi].
	NumRange

	// NumConcat matches an exact sequence of byte values as one unit.
	NumConcat

	// ProseVal is an informational placeholder (RFC 5234 <...> text).
	// It is unresolvable: reaching one during a match is a hard error,
	// not an ordinary failed alternative.
	ProseVal
)

func (k Kind) String() string {
	switch k {
	case Alternation:
		return "alternation"
	case Concatenation:
		return "concatenation"
	case Repetition:
		return "repetition"
	case RuleRef:
		return "rule-ref"
	case Literal:
		return "literal"
	case NumRange:
		return "num-range"
	case NumConcat:
		return "num-concat"
	case ProseVal:
		return "prose-val"
	default:
		return "unknown"
	}
}

// NumBase records which numeric base a NumRange/NumConcat was written in.
// It only matters for diagnostics; matching only uses the integer bounds.
type NumBase int

const (
	BinBase NumBase = iota
	DecBase
	HexBase
)

// Unbounded marks a Repetition with no upper bound ("*" with no digits
// after it).
const Unbounded = ^uint32(0)

// Element is the tagged-union operator AST node described in §3.
//
// Only the fields relevant to Kind are populated; the zero value of every
// other field is unused.
type Element struct {
	Kind Kind

	// Alternation / Concatenation children, in source order.
	Items []*Element

	// Repetition bounds and inner element.
	Min, Max uint32
	Inner    *Element

	// RuleRef target, case-folded.
	Ref string

	// Literal: the single byte to match and whether it folds ASCII case.
	Byte            byte
	CaseInsensitive bool

	// NumRange: inclusive byte bounds.
	Lo, Hi byte

	// NumConcat: the exact byte sequence to match, length >= 1.
	Bytes []byte

	// NumRange / NumConcat: source numeric base, for diagnostics only.
	Base NumBase

	// ProseVal: the informational text between < and >.
	Prose string
}

// Alt builds an Alternation element.
func Alt(items ...*Element) *Element {
	return &Element{Kind: Alternation, Items: items}
}

// Cat builds a Concatenation element.
func Cat(items ...*Element) *Element {
	return &Element{Kind: Concatenation, Items: items}
}

// Rep builds a Repetition element.
func Rep(min, max uint32, inner *Element) *Element {
	return &Element{Kind: Repetition, Min: min, Max: max, Inner: inner}
}

// Ref builds a RuleRef element. name must already be case-folded.
func Ref(name string) *Element {
	return &Element{Kind: RuleRef, Ref: name}
}

// Char builds a single-byte Literal element.
func Char(b byte, caseInsensitive bool) *Element {
	return &Element{Kind: Literal, Byte: b, CaseInsensitive: caseInsensitive}
}

// Range builds a NumRange element.
func Range(base NumBase, lo, hi byte) *Element {
	return &Element{Kind: NumRange, Base: base, Lo: lo, Hi: hi}
}

// Concat builds a NumConcat element from an exact byte sequence.
func Concat(base NumBase, bytes []byte) *Element {
	return &Element{Kind: NumConcat, Base: base, Bytes: bytes}
}

// Prose builds a ProseVal element.
func Prose(text string) *Element {
	return &Element{Kind: ProseVal, Prose: text}
}

// Rule is a named entry in a RuleSet.
type Rule struct {
	// Name is the case-folded, lowercase rule identifier used for
	// lookup and for RuleRef.Ref.
	Name string

	// DisplayName preserves the rule's original spelling for
	// diagnostics.
	DisplayName string

	// Element is the compiled right-hand-side AST.
	Element *Element

	// Action holds the verbatim, opaque !!!-delimited action source
	// that followed this rule, or nil if the rule has none. langdef
	// never interprets it; action.Registry binds a callback to
	// Name separately.
	Action []byte
}

// RuleSet is an insertion-ordered mapping from case-folded rule name to
// Rule. It has no freeze step; langdef fills it with Define while
// compiling, and nothing in this module modifies it after that.
type RuleSet struct {
	rules map[string]*Rule
	order []string
}

// NewRuleSet creates an empty, mutable RuleSet. Callers (langdef) add
// rules with Define before handing the RuleSet to callers of Load.
func NewRuleSet() *RuleSet {
	return &RuleSet{rules: make(map[string]*Rule)}
}

// FoldName case-folds a rule name the way every lookup in this module
// does: ASCII lower-casing only, matching §3's "case-folded, lowercase"
// requirement (non-ASCII bytes are left alone, there is no Unicode case
// folding anywhere in this module). strings.ToLower is deliberately not
// used here: it case-folds the full Unicode range, which would treat
// accented letters differently than the byte-at-a-time ASCII folding
// the rest of this module (interpreter's literal matching,
// action.Registry) performs.
func FoldName(name string) string {
	b := []byte(name)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// Define adds a rule, or replaces the rule of the same name while keeping
// its original position in Names. RuleSet itself does not reject a
// redefinition: langdef reports a repeated bare "=" as a precise
// DuplicateRuleError, and uses Define to store the merged rule for "=/".
func (rs *RuleSet) Define(r *Rule) {
	if _, has := rs.rules[r.Name]; !has {
		rs.order = append(rs.order, r.Name)
	}
	rs.rules[r.Name] = r
}

// Get looks up a rule by name, case-folding it first.
func (rs *RuleSet) Get(name string) (*Rule, bool) {
	r, has := rs.rules[FoldName(name)]
	return r, has
}

// Has reports whether a (already case-folded) rule name is defined.
func (rs *RuleSet) Has(foldedName string) bool {
	_, has := rs.rules[foldedName]
	return has
}

// Names returns every defined rule name in insertion order.
func (rs *RuleSet) Names() []string {
	out := make([]string, len(rs.order))
	copy(out, rs.order)
	return out
}

// Len reports the number of defined rules.
func (rs *RuleSet) Len() int {
	return len(rs.rules)
}

// Walk applies fn to e and every element nested under it, depth-first.
// It does not follow a RuleRef into the rule it names. fn may be called
// with the same *Element more than once if that pointer is shared
// (RuleSet construction never shares Element pointers across rules).
func Walk(e *Element, fn func(*Element)) {
	if e == nil {
		return
	}
	fn(e)
	switch e.Kind {
	case Alternation, Concatenation:
		for _, item := range e.Items {
			Walk(item, fn)
		}
	case Repetition:
		Walk(e.Inner, fn)
	}
}
