// Package runorder splices the unit under test into plugin and preset lists.
package runorder

import (
	"reflect"
)

// Sentinel marks the position in a plugin or preset list where the unit under
// test should run. Sentinels compare by identity only.
type Sentinel struct {
	kind string
}

func (s *Sentinel) String() string {
	return "run " + s.kind + " under test here"
}

// Sentinels, one per unit kind.
var (
	PluginHere = &Sentinel{kind: "plugin"}
	PresetHere = &Sentinel{kind: "preset"}
)

// Option keys holding unit lists.
const (
	PluginsKey = "plugins"
	PresetsKey = "presets"
)

// Collate returns a copy of list with the first occurrence of sentinel
// replaced by unit. Further occurrences are dropped. Without a sentinel, unit
// is appended after every other entry.
func Collate(list []any, sentinel *Sentinel, unit any) []any {
	out := make([]any, 0, len(list)+1)
	placed := false
	for _, entry := range list {
		if s, ok := entry.(*Sentinel); ok && s == sentinel {
			if !placed {
				out = append(out, unit)
				placed = true
			}
			continue
		}
		out = append(out, entry)
	}
	if !placed {
		out = append(out, unit)
	}
	return out
}

// Apply collates the plugin and preset lists of opts. A nil unit leaves that
// list alone apart from removing its sentinel. opts is not modified; the
// returned map is a shallow copy.
func Apply(opts map[string]any, plugin, preset any) map[string]any {
	out := make(map[string]any, len(opts)+1)
	for k, v := range opts {
		out[k] = v
	}
	collateKey(out, PluginsKey, PluginHere, plugin)
	collateKey(out, PresetsKey, PresetHere, preset)
	return out
}

func collateKey(opts map[string]any, key string, sentinel *Sentinel, unit any) {
	list := toList(opts[key])
	if unit == nil {
		if list == nil {
			return
		}
		opts[key] = without(list, sentinel)
		return
	}
	opts[key] = Collate(list, sentinel, unit)
}

func without(list []any, sentinel *Sentinel) []any {
	out := make([]any, 0, len(list))
	for _, entry := range list {
		if s, ok := entry.(*Sentinel); ok && s == sentinel {
			continue
		}
		out = append(out, entry)
	}
	return out
}

// toList converts any slice value into []any.
func toList(v any) []any {
	if v == nil {
		return nil
	}
	if l, ok := v.([]any); ok {
		return l
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return []any{v}
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}
