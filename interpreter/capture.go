package interpreter

// Capture is the structured value produced by matching an element. Its
// dynamic type depends on the element kind that produced it:
//
//   - Literal / NumConcat / NumRange -> []byte (the matched bytes)
//   - Concatenation                  -> []Capture (one per item, in order)
//   - Alternation                    -> []Capture of length 1 (chosen branch)
//   - Repetition                     -> []Capture, one per iteration
//   - RuleRef, rule has no action    -> []Capture of length 1 (child wrapped)
//   - RuleRef, rule has an action    -> whatever the action returned
//
// Callers that bind actions destructure this shape themselves; it is not
// hidden behind accessor methods because the contract is the nesting
// itself (see grammar.Walk for the element-side counterpart).
type Capture any

// CaptureResult is produced by a successful top-level Apply.
type CaptureResult struct {
	// Input is the byte sequence Apply was called with.
	Input []byte
	// StringText is the consumed prefix of Input.
	StringText []byte
	// Rest is the unconsumed suffix of Input.
	Rest []byte
	// StringTokens is the flattened list of consumed byte slices found
	// at any depth under the start rule's immediate element, in the
	// order they were matched. Captures produced by actions that
	// returned a non-byte-slice replacement do not contribute tokens.
	StringTokens [][]byte
	// Values is the start rule's own capture: its bound action's
	// return value if one ran, otherwise the direct capture its
	// element kind produces. It is not wrapped in a singleton list
	// the way a nested RuleRef with no action would be.
	Values Capture
	// State is the state value after the last semantic action ran.
	State any
}

// flattenBytes walks a capture tree depth-first and collects every
// []byte leaf it finds, in order. Non-byte-slice leaves (the result of
// actions that replaced their capture) are simply not byte slices and
// contribute nothing.
func flattenBytes(c Capture) [][]byte {
	var out [][]byte
	var walk func(Capture)
	walk = func(c Capture) {
		switch v := c.(type) {
		case []byte:
			out = append(out, v)
		case []Capture:
			for _, child := range v {
				walk(child)
			}
		}
	}
	walk(c)
	return out
}
