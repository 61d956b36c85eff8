package repair

import "strings"

// modelNames maps manufacturer model numbers to the device names iFixit
// indexes guides under. Queries like "A1706" rarely match guide titles
// directly, so searches run against the mapped name as well.
var modelNames = map[string]string{
	// Samsung Galaxy
	"G970": "Samsung Galaxy S10e",
	"G973": "Samsung Galaxy S10",
	"G975": "Samsung Galaxy S10+",
	"G991": "Samsung Galaxy S21",
	"G996": "Samsung Galaxy S21+",
	"G998": "Samsung Galaxy S21 Ultra",

	// iPhone
	"A1549": "iPhone 6",
	"A1522": "iPhone 6 Plus",
	"A1688": "iPhone 6s",
	"A1660": "iPhone 7",
	"A1661": "iPhone 7 Plus",
	"A1863": "iPhone 8",
	"A1864": "iPhone 8 Plus",
	"A1920": "iPhone XS",
	"A2111": "iPhone XR",
	"A2215": "iPhone 11",
	"A2221": "iPhone 11 Pro",

	// MacBook
	"A1466": "MacBook Air 13-inch",
	"A1502": "MacBook Pro 13-inch",
	"A1398": "MacBook Pro 15-inch",
	"A1534": "MacBook 12-inch",
	"A1706": "MacBook Pro 13-inch",
}

// ExpandQuery returns the search queries to run for a user query: the
// original query first, followed by device names for any model numbers it
// mentions. The result is de-duplicated and order-stable, so the original
// query's results always rank ahead of expansion results on merge.
func ExpandQuery(query string) []string {
	expanded := []string{query}
	seen := map[string]struct{}{strings.ToLower(query): {}}

	add := func(q string) {
		key := strings.ToLower(q)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		expanded = append(expanded, q)
	}

	queryLower := strings.ToLower(query)
	for _, token := range strings.Fields(queryLower) {
		if name, ok := lookupModel(token); ok {
			add(name)
		}
	}
	// A bare model-number query with no whitespace is the common case.
	if name, ok := lookupModel(strings.TrimSpace(queryLower)); ok {
		add(name)
	}

	return expanded
}

func lookupModel(token string) (string, bool) {
	for model, name := range modelNames {
		if strings.EqualFold(model, token) {
			return name, true
		}
	}
	return "", false
}
