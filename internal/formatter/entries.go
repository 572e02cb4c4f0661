package formatter

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/oakwood-commons/kvtable/pkg/loader"
	"github.com/oakwood-commons/kvtable/pkg/table"
)

// Array key styles.
const (
	ArrayStyleNumbered = "numbered" // 1, 2, 3
	ArrayStyleIndex    = "index"    // [0], [1], [2]
	ArrayStyleBullet   = "bullet"   // •
)

// Key orders.
const (
	SortNone       = "none" // document order; plain maps are still sorted
	SortAscending  = "ascending"
	SortDescending = "descending"
)

// EntryOptions controls how a node is flattened into table entries.
type EntryOptions struct {
	// ArrayStyle names the keys of sequence elements. Defaults to numbered.
	ArrayStyle string
	// Sort reorders keys. Defaults to document order.
	Sort string
	// Flatten expands nested mappings and sequences into dotted keys such
	// as "server.port" or "items[0]".
	Flatten bool
}

// DefaultEntryOptions returns the options used by the CLI.
func DefaultEntryOptions() EntryOptions {
	return EntryOptions{ArrayStyle: ArrayStyleNumbered, Sort: SortNone}
}

// ParseSort normalizes a sort order name.
func ParseSort(value string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", SortNone:
		return SortNone, nil
	case SortAscending, "asc":
		return SortAscending, nil
	case SortDescending, "desc":
		return SortDescending, nil
	default:
		return "", fmt.Errorf("invalid sort order %q (use ascending, descending or none)", value)
	}
}

// ParseArrayStyle normalizes an array style name.
func ParseArrayStyle(value string) (string, error) {
	switch s := strings.ToLower(strings.TrimSpace(value)); s {
	case "":
		return ArrayStyleNumbered, nil
	case ArrayStyleNumbered, ArrayStyleIndex, ArrayStyleBullet:
		return s, nil
	default:
		return "", fmt.Errorf("invalid array style %q (use numbered, index or bullet)", value)
	}
}

type field struct {
	key   string
	value any
}

// Entries flattens node into table entries. Mappings yield one entry per
// key, sequences one entry per element, and a scalar yields a single
// "value" entry. A nil node yields no entries.
func Entries(node any, opts EntryOptions) []table.Entry {
	if node == nil {
		return nil
	}
	fields, ok := children(node, opts)
	if !ok {
		return []table.Entry{{Key: "value", Value: Stringify(node)}}
	}
	out := make([]table.Entry, 0, len(fields))
	for _, f := range fields {
		out = appendEntries(out, f.key, f.value, opts)
	}
	return out
}

func appendEntries(out []table.Entry, key string, value any, opts EntryOptions) []table.Entry {
	if opts.Flatten {
		if fields, ok := children(value, opts); ok && len(fields) > 0 {
			for _, f := range fields {
				out = appendEntries(out, joinPath(key, f.key), f.value, opts)
			}
			return out
		}
	}
	return append(out, table.Entry{Key: key, Value: Stringify(value)})
}

// joinPath joins a parent key and a child segment like "a.b" or "a[0]".
func joinPath(prefix, seg string) string {
	if prefix == "" {
		return seg
	}
	if strings.HasPrefix(seg, "[") {
		return prefix + seg
	}
	return prefix + "." + seg
}

// children lists the direct members of a mapping or sequence. ok is false
// for scalars.
func children(node any, opts EntryOptions) ([]field, bool) {
	switch t := node.(type) {
	case loader.OrderedMap:
		fields := make([]field, len(t))
		for i, item := range t {
			fields[i] = field{key: item.Key, value: item.Value}
		}
		sortFields(fields, opts.Sort, false)
		return fields, true
	case map[string]any:
		fields := make([]field, 0, len(t))
		for k, v := range t {
			fields = append(fields, field{key: k, value: v})
		}
		sortFields(fields, opts.Sort, true)
		return fields, true
	case []any:
		return sequenceFields(len(t), func(i int) any { return t[i] }, opts), true
	case string, []byte:
		return nil, false
	}

	rv := reflect.ValueOf(node)
	switch rv.Kind() { //nolint:exhaustive // only collections have children
	case reflect.Map:
		fields := make([]field, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			fields = append(fields, field{key: fmt.Sprint(iter.Key().Interface()), value: iter.Value().Interface()})
		}
		sortFields(fields, opts.Sort, true)
		return fields, true
	case reflect.Slice, reflect.Array:
		return sequenceFields(rv.Len(), func(i int) any { return rv.Index(i).Interface() }, opts), true
	}
	return nil, false
}

func sequenceFields(n int, at func(int) any, opts EntryOptions) []field {
	fields := make([]field, n)
	for i := range n {
		fields[i] = field{key: arrayKey(i, opts.ArrayStyle), value: at(i)}
	}
	return fields
}

func arrayKey(i int, style string) string {
	switch style {
	case ArrayStyleIndex:
		return "[" + strconv.Itoa(i) + "]"
	case ArrayStyleBullet:
		return "•"
	default:
		return strconv.Itoa(i + 1)
	}
}

// sortFields applies the requested order. Unordered maps fall back to
// ascending so output is stable.
func sortFields(fields []field, order string, unordered bool) {
	switch {
	case order == SortDescending:
		sort.SliceStable(fields, func(i, j int) bool { return fields[i].key > fields[j].key })
	case order == SortAscending || unordered:
		sort.SliceStable(fields, func(i, j int) bool { return fields[i].key < fields[j].key })
	}
}
