package utils

import (
	"fmt"
	"strings"
)

// JoinWithAnd joins a slice of strings with AND operator
func JoinWithAnd(clauses []string) string {
	return strings.Join(clauses, " AND ")
}

// WhereBuilder collects AND-ed conditions and numbers their placeholders.
// Each clause uses a single "?" that becomes $n.
type WhereBuilder struct {
	clauses []string
	args    []any
}

// Add appends clause with its argument, e.g. Add("status = ?", "pending").
func (w *WhereBuilder) Add(clause string, arg any) {
	w.args = append(w.args, arg)
	w.clauses = append(w.clauses, strings.Replace(clause, "?", fmt.Sprintf("$%d", len(w.args)), 1))
}

// SQL returns " WHERE ..." or "" when there are no conditions.
func (w *WhereBuilder) SQL() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + JoinWithAnd(w.clauses)
}

// Args returns the collected arguments in placeholder order.
func (w *WhereBuilder) Args() []any {
	return append([]any(nil), w.args...)
}

// NextPlaceholder returns the $n to use for the next argument appended after Args().
func (w *WhereBuilder) NextPlaceholder(offset int) string {
	return fmt.Sprintf("$%d", len(w.args)+offset)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes LIKE metacharacters so s matches literally (ESCAPE '\').
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}
