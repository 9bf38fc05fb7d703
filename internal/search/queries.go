package search

import "strings"

// ParseQueries splits a comma-separated query list, trimming each entry and
// dropping empty ones. Blank input yields nil so callers can tell "no
// queries" apart from an empty list.
func ParseQueries(input string) []string {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}
	var queries []string
	for _, q := range strings.Split(input, ",") {
		if q = strings.TrimSpace(q); q != "" {
			queries = append(queries, q)
		}
	}
	return queries
}

// CleanQueries trims and drops empty entries from an already split list.
func CleanQueries(queries []string) []string {
	var out []string
	for _, q := range queries {
		if q = strings.TrimSpace(q); q != "" {
			out = append(out, q)
		}
	}
	return out
}
