package catalog

import "regexp"

// defaultFuncRE matches a default expression whose leading token is an
// identifier-like call target, optionally schema-qualified:
// "[schema.]func(...". Case-insensitive.
var defaultFuncRE = regexp.MustCompile(`(?i)^\s*(?:[a-z_][\w$]*\.)?([a-z_][\w$]*)\s*\(`)

// ExtractDefaultFunc returns the function name called by a column default
// expression, or "" when the expression does not look like a function
// call. Best-effort and total: malformed input is a normal miss, never an
// error.
func ExtractDefaultFunc(defaultExpr string) string {
	if defaultExpr == "" {
		return ""
	}
	m := defaultFuncRE.FindStringSubmatch(defaultExpr)
	if m == nil {
		return ""
	}
	return m[1]
}
