// Package merge deep-merges layered option maps.
//
// Layers are given lowest precedence first. Nested maps are merged key by
// key, scalars from later layers win, and slices are concatenated with the
// earlier layer's elements first. Inputs are never mutated.
package merge

import (
	"reflect"
)

// Merge combines layers into a new map. Nil layers are skipped.
func Merge(layers ...map[string]any) map[string]any {
	result := make(map[string]any)
	for _, layer := range layers {
		for key, val := range layer {
			if existing, ok := result[key]; ok {
				result[key] = mergeValues(existing, val)
				continue
			}
			result[key] = clone(val)
		}
	}
	return result
}

func mergeValues(base, override any) any {
	if bm, ok := asMap(base); ok {
		if om, ok := asMap(override); ok {
			return Merge(bm, om)
		}
	}
	if isSlice(base) && isSlice(override) {
		return concat(base, override)
	}
	return clone(override)
}

// asMap reports whether v is a string-keyed map that can be merged.
func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func isSlice(v any) bool {
	if v == nil {
		return false
	}
	return reflect.TypeOf(v).Kind() == reflect.Slice
}

// concat joins two slices. Slices of the same type keep that type; anything
// else becomes []any.
func concat(a, b any) any {
	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)
	if av.Type() == bv.Type() {
		out := reflect.MakeSlice(av.Type(), 0, av.Len()+bv.Len())
		out = reflect.AppendSlice(out, av)
		out = reflect.AppendSlice(out, bv)
		return out.Interface()
	}
	out := make([]any, 0, av.Len()+bv.Len())
	for i := 0; i < av.Len(); i++ {
		out = append(out, av.Index(i).Interface())
	}
	for i := 0; i < bv.Len(); i++ {
		out = append(out, bv.Index(i).Interface())
	}
	return out
}

// clone copies maps and slices so that the merged result never aliases an
// input layer. Leaf values (including pointers) are shared.
func clone(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return Merge(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = clone(e)
		}
		return out
	}
	if isSlice(v) {
		rv := reflect.ValueOf(v)
		if rv.IsNil() {
			return v
		}
		out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		reflect.Copy(out, rv)
		return out.Interface()
	}
	return v
}
