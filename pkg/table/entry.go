package table

import "sort"

// Entry is one key/value pair. Entries are printed in slice order, top to
// bottom and left to right.
type Entry struct {
	Key   string
	Value string
}

// LayoutConfig holds the settings that stay fixed for one render.
type LayoutConfig struct {
	// BorderWidth is the total width of a line, already clamped to the terminal.
	BorderWidth int
	// ValueStyle is handed to the Styler for every value fragment.
	ValueStyle []string
	// OverflowHide truncates values that do not fit instead of wrapping them.
	OverflowHide bool
}

// Pairs builds entries from alternating keys and values. A trailing key
// without a value gets an empty value.
func Pairs(kv ...string) []Entry {
	out := make([]Entry, 0, (len(kv)+1)/2)
	for i := 0; i < len(kv); i += 2 {
		e := Entry{Key: kv[i]}
		if i+1 < len(kv) {
			e.Value = kv[i+1]
		}
		out = append(out, e)
	}
	return out
}

// FromMap builds entries from a map in ascending key order.
func FromMap(m map[string]string) []Entry {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Entry, 0, len(keys))
	for _, k := range keys {
		out = append(out, Entry{Key: k, Value: m[k]})
	}
	return out
}
