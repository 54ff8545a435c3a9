package milvus

import (
	"fmt"
	"sort"
	"strings"

	"github.com/poiesic/groundit/storage"
)

// BuildExpr translates a storage.Filter into a Milvus boolean expression.
// Keys are emitted in sorted order so the expression is deterministic, and
// values are escaped so user-supplied identifiers cannot break out of the
// string literal. An empty filter yields an empty expression.
func BuildExpr(filter storage.Filter) string {
	if len(filter) == 0 {
		return ""
	}

	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	terms := make([]string, 0, len(keys))
	for _, k := range keys {
		terms = append(terms, fmt.Sprintf(`%s == "%s"`, k, escape(filter[k])))
	}
	return strings.Join(terms, " and ")
}

func escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
