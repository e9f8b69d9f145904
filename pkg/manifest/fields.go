// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"fmt"
	"maps"
	"slices"
)

// FieldsFromMap converts decoded configuration (for example the jar.manifest
// block of the project file) into fields. String values become scalars and
// nested maps become sections. Keys are sorted since maps carry no order.
func FieldsFromMap(m map[string]any) []Field {
	fields := make([]Field, 0, len(m))
	for _, key := range slices.Sorted(maps.Keys(m)) {
		switch v := m[key].(type) {
		case map[string]any:
			sub := make([]Field, 0, len(v))
			for _, subKey := range slices.Sorted(maps.Keys(v)) {
				sub = append(sub, Scalar(subKey, fmt.Sprint(v[subKey])))
			}
			fields = append(fields, NewSection(key, sub...))
		case map[string]string:
			sub := make([]Field, 0, len(v))
			for _, subKey := range slices.Sorted(maps.Keys(v)) {
				sub = append(sub, Scalar(subKey, v[subKey]))
			}
			fields = append(fields, NewSection(key, sub...))
		case nil:
			fields = append(fields, Scalar(key, ""))
		default:
			fields = append(fields, Scalar(key, fmt.Sprint(v)))
		}
	}
	return fields
}
