package oracle

import (
	"database/sql"
	"sort"
)

// Binds maps Oracle named placeholders (":name" in the statement text,
// without the colon here) to their values.
type Binds map[string]any

// Merge copies the entries of other into b, overwriting on collision.
// Scope filters and statement parameters use disjoint or identically
// valued names, so overwriting is safe.
func (b Binds) Merge(other map[string]any) Binds {
	for k, v := range other {
		b[k] = v
	}
	return b
}

// Args converts the bind map into sql.Named arguments for the driver,
// ordered by name so a given statement always binds deterministically.
func (b Binds) Args() []any {
	names := make([]string, 0, len(b))
	for k := range b {
		names = append(names, k)
	}
	sort.Strings(names)

	args := make([]any, 0, len(b))
	for _, k := range names {
		args = append(args, sql.Named(k, b[k]))
	}
	return args
}
