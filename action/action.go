// Package action implements the callback-registry strategy for semantic
// actions: a Rule's opaque, verbatim !!!-delimited
// source is never interpreted by this module. Instead, callers bind a Go
// function to a rule name; the interpreter invokes it whenever that rule
// successfully matches.
//
// This mirrors a hook-registration pattern used elsewhere for streaming
// parsers: register a callback by name, dispatch by name at the point a
// non-terminal (here, a rule) completes, and do nothing when no callback
// is bound. Those parsers often expose several hook methods because
// their hooks accumulate state incrementally as a parse proceeds; here a
// single-shot reducer invoked once per successful rule match is enough,
// so the interface collapses to the one Func signature below.
package action

// Func is a semantic action: given the raw bytes a rule matched, the
// structured capture tree of its sub-rules, and the caller's state, it
// returns a Result.
//
// values is interpreter.Capture, but action cannot import interpreter
// (interpreter imports action to invoke it), so it is typed any here;
// interpreter documents the concrete shape callers receive.
type Func func(text []byte, values any, state any) (Result, error)

// Result is what a Func returns on success. A Func signals a controlled
// rejection of the match (distinct from a hard error that aborts the
// whole match) by setting Rejected.
type Result struct {
	// Rejected, when true, causes the owning rule to fail as if its
	// body had not matched; the interpreter resumes backtracking. All
	// other fields are ignored when Rejected is true.
	Rejected bool

	// HasState and State: when HasState is true, State replaces the
	// caller's state for the remainder of the match. When false, the
	// state the action was called with is carried forward unchanged.
	HasState bool
	State    any

	// HasReplacement and Replacement: when HasReplacement is true,
	// Replacement replaces this rule's capture value (in place of the
	// unwrapped child capture). When false, the child capture is used
	// unchanged.
	HasReplacement bool
	Replacement    any
}

// Ok builds a Result that accepts the match without touching state or
// capture.
func Ok() Result {
	return Result{}
}

// OkState builds a Result that accepts the match and replaces state.
func OkState(state any) Result {
	return Result{HasState: true, State: state}
}

// OkReplace builds a Result that accepts the match, replaces the
// capture value, and optionally replaces state.
func OkReplace(replacement any, state any, hasState bool) Result {
	return Result{HasState: hasState, State: state, HasReplacement: true, Replacement: replacement}
}

// Reject builds a Result that rejects the match, driving backtracking.
func Reject() Result {
	return Result{Rejected: true}
}

// Registry binds Funcs to rule names. The zero value is usable.
type Registry struct {
	funcs map[string]Func
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{funcs: make(map[string]Func)}
}

// Bind associates fn with ruleName (case-folded the way grammar.RuleSet
// folds names). A later Bind for the same name replaces the previous one.
func (r *Registry) Bind(ruleName string, fn Func) {
	if r.funcs == nil {
		r.funcs = make(map[string]Func)
	}
	r.funcs[foldName(ruleName)] = fn
}

// Lookup returns the Func bound to ruleName, if any.
func (r *Registry) Lookup(ruleName string) (Func, bool) {
	if r == nil || r.funcs == nil {
		return nil, false
	}
	fn, ok := r.funcs[foldName(ruleName)]
	return fn, ok
}

func foldName(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
