// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"os"
	"os/user"
	"slices"
	"strings"
)

const (
	// VersionHeader is the first line of every manifest.
	VersionHeader = "Manifest-Version: 1.0"

	// MaxLineChars is the maximum number of value characters on one physical
	// line of a scalar field.
	MaxLineChars = 70

	// EntryName is the archive path of the manifest.
	EntryName = "META-INF/MANIFEST.MF"

	// DefaultCreatedBy is the Created-By value when no tool version is given.
	DefaultCreatedBy = "Badigeon"
)

type (
	// Field is one manifest attribute. A field with a non-nil Section is a
	// named section whose sub-fields are rendered after all scalar fields;
	// otherwise Value holds the scalar value.
	Field struct {
		Key     string
		Value   string
		Section []Field
	}

	// Option customizes the base field set of Build.
	Option func(*options)

	options struct {
		createdBy string
		builtBy   string
		buildJdk  string
	}
)

// Scalar returns a scalar field.
func Scalar(key, value string) Field {
	return Field{Key: key, Value: value}
}

// NewSection returns a section field holding the given sub-fields.
func NewSection(key string, fields ...Field) Field {
	if fields == nil {
		fields = []Field{}
	}
	return Field{Key: key, Section: fields}
}

// IsSection reports whether the field is a named section.
func (f Field) IsSection() bool { return f.Section != nil }

// WithCreatedBy sets the Created-By base field.
func WithCreatedBy(v string) Option {
	return func(o *options) { o.createdBy = v }
}

// WithBuiltBy sets the Built-By base field. The default is the current OS
// user name.
func WithBuiltBy(v string) Option {
	return func(o *options) { o.builtBy = v }
}

// WithBuildJdk sets the Build-Jdk base field. The default is $JAVA_VERSION,
// or "unknown" when unset.
func WithBuildJdk(v string) Option {
	return func(o *options) { o.buildJdk = v }
}

func defaultOptions() options {
	jdk := os.Getenv("JAVA_VERSION")
	if jdk == "" {
		jdk = "unknown"
	}
	return options{
		createdBy: DefaultCreatedBy,
		builtBy:   currentUser(),
		buildJdk:  jdk,
	}
}

func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return os.Getenv("USERNAME")
}

// Build renders a manifest. The base fields are Created-By, Built-By and
// Build-Jdk, plus Main-Class (the munged entry point) when mainEntryPoint is
// non-empty. Overrides replace base fields with the same key in place and
// append the rest in order. Section fields always follow scalar fields.
func Build(mainEntryPoint string, overrides []Field, opts ...Option) []byte {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	base := []Field{
		Scalar("Created-By", o.createdBy),
		Scalar("Built-By", o.builtBy),
		Scalar("Build-Jdk", o.buildJdk),
	}
	if mainEntryPoint != "" {
		base = append(base, Scalar("Main-Class", MungeClassName(mainEntryPoint)))
	}

	fields := Order(Merge(base, overrides))

	var b strings.Builder
	b.WriteString(VersionHeader)
	b.WriteByte('\n')
	for _, f := range fields {
		if f.IsSection() {
			writeSection(&b, f)
			continue
		}
		writeScalar(&b, f)
	}
	return []byte(b.String())
}

// Merge overlays overrides on base. A key already present is replaced at its
// original position; new keys are appended in override order.
func Merge(base, overrides []Field) []Field {
	merged := slices.Clone(base)
	for _, o := range overrides {
		idx := slices.IndexFunc(merged, func(f Field) bool { return f.Key == o.Key })
		if idx >= 0 {
			merged[idx] = o
			continue
		}
		merged = append(merged, o)
	}
	return merged
}

// Order moves section fields after scalar fields, keeping the relative order
// within each group.
func Order(fields []Field) []Field {
	ordered := slices.Clone(fields)
	slices.SortStableFunc(ordered, func(a, b Field) int {
		switch {
		case !a.IsSection() && b.IsSection():
			return -1
		case a.IsSection() && !b.IsSection():
			return 1
		default:
			return 0
		}
	})
	return ordered
}

func writeScalar(b *strings.Builder, f Field) {
	b.WriteString(f.Key)
	b.WriteString(": ")
	for i, chunk := range wrap(f.Value, MaxLineChars) {
		if i > 0 {
			b.WriteString("\n ")
		}
		b.WriteString(chunk)
	}
	b.WriteByte('\n')
}

func writeSection(b *strings.Builder, f Field) {
	b.WriteString("\nName: ")
	b.WriteString(f.Key)
	b.WriteByte('\n')
	for _, sub := range f.Section {
		writeScalar(b, Scalar(sub.Key, sub.Value))
	}
}

// wrap splits s into chunks of at most n runes. The empty string yields one
// empty chunk.
func wrap(s string, n int) []string {
	runes := []rune(s)
	if len(runes) <= n {
		return []string{s}
	}
	chunks := make([]string, 0, len(runes)/n+1)
	for len(runes) > n {
		chunks = append(chunks, string(runes[:n]))
		runes = runes[n:]
	}
	if len(runes) > 0 {
		chunks = append(chunks, string(runes))
	}
	return chunks
}
