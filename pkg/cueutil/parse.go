// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// Unify compiles data, unifies it with the definition def of schema and
// validates the result. Validation requires concrete values only when
// WithConcrete(true) is given.
func Unify(schema, data []byte, def string, opts ...Option) (cue.Value, error) {
	return unify(schema, data, def, applyOptions(opts))
}

func unify(schema, data []byte, def string, o options) (cue.Value, error) {
	name := o.name()

	if err := checkSize(data, o.maxFileSize, name); err != nil {
		return cue.Value{}, err
	}

	ctx := cuecontext.New()
	root := ctx.CompileBytes(schema).LookupPath(cue.ParsePath(def))
	if err := root.Err(); err != nil {
		// Schemas are embedded; a failure here is a build defect.
		return cue.Value{}, fmt.Errorf("schema %s: %w", def, err)
	}

	user := ctx.CompileBytes(data, cue.Filename(name))
	if err := user.Err(); err != nil {
		return cue.Value{}, FormatError(err, name)
	}

	v := root.Unify(user)
	if err := v.Validate(cue.Concrete(o.concrete)); err != nil {
		return cue.Value{}, FormatError(err, name)
	}
	return v, nil
}

// Decode is Unify followed by decoding into a T.
func Decode[T any](schema, data []byte, def string, opts ...Option) (T, error) {
	var out T
	o := applyOptions(opts)
	v, err := unify(schema, data, def, o)
	if err != nil {
		return out, err
	}
	if err := v.Decode(&out); err != nil {
		return out, FormatError(err, o.name())
	}
	return out, nil
}

// DecodeMap decodes into the generic map shape viper merges.
func DecodeMap(schema, data []byte, def string, opts ...Option) (map[string]any, error) {
	return Decode[map[string]any](schema, data, def, opts...)
}
