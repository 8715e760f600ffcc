// Package chatid derives conversation identifiers from participant pairs.
package chatid

import "strings"

// Separator joins the two participant ids. Identity-provider ids never contain it.
const Separator = "_"

// Canonical returns the conversation id for users a and b. The result does not
// depend on argument order. Equal arguments still yield a deterministic id.
func Canonical(a, b string) string {
	first, second := Participants(a, b)
	return first + Separator + second
}

// Participants returns a and b in lexicographic order.
func Participants(a, b string) (string, string) {
	if strings.Compare(a, b) > 0 {
		return b, a
	}
	return a, b
}
