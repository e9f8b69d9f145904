// SPDX-License-Identifier: MPL-2.0

package config

import (
	"reflect"
	"slices"
	"strings"
	"testing"

	"github.com/invowk/badigeon/pkg/cueutil"
	"github.com/invowk/badigeon/pkg/deps"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// cueFieldNames lists the regular fields of a schema definition, sorted.
func cueFieldNames(t *testing.T, def string) []string {
	t.Helper()

	v := cuecontext.New().CompileBytes(configSchema).LookupPath(cue.ParsePath(def))
	iter, err := v.Fields(cue.Optional(true))
	if err != nil {
		t.Fatalf("%s: %v", def, err)
	}
	var names []string
	for iter.Next() {
		if sel := iter.Selector(); sel.IsString() {
			names = append(names, sel.Unquoted())
		}
	}
	slices.Sort(names)
	return names
}

// jsonFieldNames lists the json tag names of a struct type, sorted.
func jsonFieldNames(typ reflect.Type) []string {
	var names []string
	for i := range typ.NumField() {
		f := typ.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if f.IsExported() && name != "" && name != "-" {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

func TestSchemaSync(t *testing.T) {
	t.Parallel()

	tests := []struct {
		def string
		typ reflect.Type
	}{
		{"#Config", reflect.TypeFor[Config]()},
		{"#JarConfig", reflect.TypeFor[JarConfig]()},
		{"#BundleConfig", reflect.TypeFor[BundleConfig]()},
		{"#NativePrefix", reflect.TypeFor[NativePrefix]()},
		{"#ScriptConfig", reflect.TypeFor[ScriptConfig]()},
		{"#JlinkConfig", reflect.TypeFor[JlinkConfig]()},
		{"#UIConfig", reflect.TypeFor[UIConfig]()},
		{"#Dependency", reflect.TypeFor[deps.ResolvedDependency]()},
	}

	for _, tt := range tests {
		t.Run(tt.def, func(t *testing.T) {
			t.Parallel()

			schemaFields := cueFieldNames(t, tt.def)
			goFields := jsonFieldNames(tt.typ)
			if !slices.Equal(schemaFields, goFields) {
				t.Errorf("%s fields %v do not match %s json tags %v", tt.def, schemaFields, tt.typ.Name(), goFields)
			}
		})
	}
}

func TestSchemaConstraints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{"artifact only lib", `lib: "app"`, false},
		{"group artifact lib", `lib: "com.example/app"`, false},
		{"lib with two slashes", `lib: "a/b/c"`, true},
		{"lib with space", `lib: "a b"`, true},
		{"jar out path", `jar: out_path: "target/app.jar"`, false},
		{"jar out path wrong extension", `jar: out_path: "target/app.zip"`, true},
		{"empty libs path", `bundle: libs_path: ""`, true},
		{"windows script", `bundle: script: platform: "windows"`, false},
		{"unknown script", `bundle: script: platform: "beos"`, true},
		{"manifest section", `jar: manifest: {"Main-Class": "x", "sec": {"K": "v"}}`, false},
		{"manifest number", `jar: manifest: {"X": 1}`, true},
		{"dependency without paths", `dependencies: [{lib: "a/b"}]`, true},
		{"dependency empty path", `dependencies: [{lib: "a/b", paths: [""]}]`, true},
		{"dependency unknown field", `dependencies: [{lib: "a/b", paths: [], sha: "x"}]`, true},
		{"native prefix", `bundle: native_prefixes: [{lib: "a/b", prefix: ""}]`, false},
		{"unknown top-level field", `includes: []`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := cueutil.Unify(configSchema, []byte(tt.data), "#Config", cueutil.WithConcrete(true))
			if (err != nil) != tt.wantErr {
				t.Errorf("Unify(%s) error = %v, wantErr %v", tt.data, err, tt.wantErr)
			}
		})
	}
}
