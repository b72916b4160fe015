// Package prefix strips source-specific SKU prefixes to recover the
// canonical product key shared by inventory and sales exports.
package prefix

import "strings"

// Rule is an ordered list of candidate prefixes. Matching is anchored at
// the start of the identifier and the first listed match wins, so rule
// authors control precedence between overlapping prefixes such as "W"
// and "W-" by listing order.
type Rule struct {
	prefixes []string
}

// Compile builds a Rule from an ordered prefix list. The declared order
// is preserved exactly.
func Compile(prefixes []string) Rule {
	copied := make([]string, len(prefixes))
	copy(copied, prefixes)
	return Rule{prefixes: copied}
}

// Prefixes returns the rule's prefixes in declared order.
func (r Rule) Prefixes() []string {
	out := make([]string, len(r.prefixes))
	copy(out, r.prefixes)
	return out
}

// Normalize strips the first matching prefix from a raw identifier cell.
// Non-string cells normalize to "", which never joins against a real key.
// An identifier matching no prefix is returned unchanged.
func (r Rule) Normalize(raw interface{}) string {
	s, ok := raw.(string)
	if !ok {
		return ""
	}
	for _, p := range r.prefixes {
		if strings.HasPrefix(s, p) {
			return s[len(p):]
		}
	}
	return s
}

// Default rules carried over from the production exports. Sales-side and
// inventory-side conventions differ for the same logical product, hence
// two independent rule sets.
var (
	DefaultSalesPrefixes     = []string{"HCA-", "NTRI-", "HTRI-", "MS-", "O", "W-", "W", "H", "N", "L", "QZ-", "SL-", "TRI"}
	DefaultInventoryPrefixes = []string{"V", "W-", "A-", "AMZ-V"}
)
