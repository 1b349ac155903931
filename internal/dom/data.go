package dom

import "strings"

const dataPrefix = "data-"

// DataAttr is a single data-* attribute.
type DataAttr struct {
	Key string
	Val string
}

// DataAttributes returns the element's non-empty data-* attributes in
// source order. With noPrefix the leading "data-" is stripped from keys.
func DataAttributes(el *Element, noPrefix bool) []DataAttr {
	var out []DataAttr
	for _, a := range el.n.Attr {
		if a.Namespace != "" || a.Val == "" || !strings.HasPrefix(a.Key, dataPrefix) {
			continue
		}
		key := a.Key
		if noPrefix {
			key = strings.TrimPrefix(key, dataPrefix)
		}
		out = append(out, DataAttr{Key: key, Val: a.Val})
	}
	return out
}

// DataMap is DataAttributes as a map.
func DataMap(el *Element, noPrefix bool) map[string]string {
	out := make(map[string]string)
	for _, a := range DataAttributes(el, noPrefix) {
		out[a.Key] = a.Val
	}
	return out
}

// CopyDataAttributes copies data-* attributes from one element to
// another. noPrefix strips "data-"; noHyphen turns hyphens in the
// resulting names into underscores.
func CopyDataAttributes(from, to *Element, noPrefix, noHyphen bool) {
	for _, a := range DataAttributes(from, noPrefix) {
		key := a.Key
		if noHyphen {
			key = strings.ReplaceAll(key, "-", "_")
		}
		to.SetAttr(key, a.Val)
	}
}
