package langdef

import "github.com/ldr/ex-abnf/grammar"

// resolveRefs checks the §3 invariant that every RuleRef in a RuleSet
// resolves to a rule present in the same set.
func resolveRefs(rs *grammar.RuleSet) error {
	seen := make(map[string]bool)
	var missing []string

	for _, name := range rs.Names() {
		rule, _ := rs.Get(name)
		grammar.Walk(rule.Element, func(e *grammar.Element) {
			if e.Kind != grammar.RuleRef {
				return
			}
			if rs.Has(e.Ref) || seen[e.Ref] {
				return
			}
			seen[e.Ref] = true
			missing = append(missing, e.Ref)
		})
	}

	if len(missing) > 0 {
		return unresolvedRuleError(missing)
	}
	return nil
}
