package tags

import (
	"sort"
	"strings"
)

// Filter returns the tags with any display column containing query,
// case-insensitively, in their original order. An empty query matches all.
func Filter(all []Tag, query string) []Tag {
	q := strings.ToUpper(strings.TrimSpace(query))
	if q == "" {
		return all
	}
	out := make([]Tag, 0, len(all))
	for _, t := range all {
		for _, c := range t.Columns {
			if strings.Contains(strings.ToUpper(c), q) {
				out = append(out, t)
				break
			}
		}
	}
	return out
}

// OrderColumns drops columns with a negative order and sorts the rest by order.
func OrderColumns(cols []Column) []Column {
	out := make([]Column, 0, len(cols))
	for _, c := range cols {
		if c.Order >= 0 {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}
