// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
)

type Id int

const (
	FileNotFoundId Id = iota + 1
	ConfigLoadFailedId
	DependencyFileInvalidId
	InvalidLibraryNameId
	InvalidArchivePathId
	UnreproducibleDependencyId
	UnstableDependencyId
	BundleConflictId
	InvalidPatternId
	UnsafeArchiveEntryId
	EntryPointMissingId
	JlinkNotFoundId
	JlinkFailedId
	PermissionDeniedId
)

// MarkdownMsg is the body of a catalog entry. It starts with a "#" title.
type MarkdownMsg string

type HttpLink string

// Issue is one catalog entry: an explanation of a failure class and the
// ways out of it.
type Issue struct {
	id       Id
	mdMsg    MarkdownMsg
	docLinks []HttpLink // badigeon documentation
	extLinks []HttpLink // upstream tools and formats
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the entry with glamour, appending a "See also" list when
// the entry has links. stylePath is a glamour style name such as "dark" or
// "notty".
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if links := slices.Concat(i.docLinks, i.extLinks); len(links) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range links {
			fmt.Fprintf(&md, "- [%s](%s)\n", link, link)
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	fileNotFoundIssue = &Issue{
		id: FileNotFoundId,
		mdMsg: `
# File not found!

A path given on the command line or in badigeon.cue does not exist.

## Things you can try:
- Check relative paths: they resolve against the project directory
~~~
$ badigeon -C /path/to/project jar
~~~
- Verify your build produced its outputs before packaging`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

badigeon.cue could not be parsed or does not match the schema.

## Things you can try:
- Print the effective configuration:
~~~
$ badigeon config show
~~~
- Check BADIGEON_* environment variables for stale overrides

## Minimal configuration:
~~~cue
lib:     "com.example/app"
version: "1.0.0"
main:    "app.core"
paths: ["src", "classes"]
~~~`,
	}

	dependencyFileInvalidIssue = &Issue{
		id: DependencyFileInvalidId,
		mdMsg: `
# Invalid dependency file!

The resolved dependency file could not be read.

## Supported formats
The format follows the file extension: .toml, .yaml, .yml, .json or .cue.
Each file holds a top-level ` + "`dependencies`" + ` list:
~~~toml
[[dependencies]]
lib = "org.clojure/clojure"
version = "1.12.0"
paths = ["/home/me/.m2/repository/org/clojure/clojure/1.12.0/clojure-1.12.0.jar"]
~~~`,
	}

	invalidLibraryNameIssue = &Issue{
		id: InvalidLibraryNameId,
		mdMsg: `
# Invalid library name!

Library names have the form ` + "`group/artifact`" + ` or a bare ` + "`artifact`" + `.
They may not contain whitespace or more than one slash.`,
	}

	invalidArchivePathIssue = &Issue{
		id: InvalidArchivePathId,
		mdMsg: `
# Invalid archive path!

The output path of a jar must end in ` + "`.jar`" + `. Nothing was written.

## Things you can try:
~~~
$ badigeon jar --out target/app.jar
~~~`,
	}

	unreproducibleDependencyIssue = &Issue{
		id: UnreproducibleDependencyId,
		mdMsg: `
# Dependency without a reliable version!

A dependency has no version, or comes from a local directory or a git
checkout. A jar depending on it cannot be rebuilt from its metadata.

## Things you can try:
- Publish the dependency and depend on the released version
- Package anyway; the dependency is reported as omitted from the metadata:
~~~
$ badigeon jar --allow-all-dependencies
~~~`,
	}

	unstableDependencyIssue = &Issue{
		id: UnstableDependencyId,
		mdMsg: `
# Unstable dependency!

A dependency is a snapshot, a pre-release, or a local checkout. Bundles
built from it are not reproducible. Nothing was copied.

## Things you can try:
- Pin released versions of the listed dependencies
- Bundle anyway:
~~~
$ badigeon bundle --allow-unstable-deps
~~~`,
	}

	bundleConflictIssue = &Issue{
		id: BundleConflictId,
		mdMsg: `
# Conflicting files in bundle!

Two inputs write the same file in the bundle. The copy stopped at the
conflicting file; files copied so far were left in place.

## Things you can try:
- Exclude one of the dependencies:
~~~
$ badigeon bundle --exclude-lib group/artifact
~~~
- Move the conflicting resource in one of the projects
- Remove the output directory before retrying`,
	}

	invalidPatternIssue = &Issue{
		id: InvalidPatternId,
		mdMsg: `
# Invalid pattern!

An exclusion glob or a native library pattern does not compile.

Globs use doublestar syntax (` + "`**/*.bak`" + `, ` + "`target/{tmp,cache}/**`" + `).
Native patterns are regular expressions matched against archive entry names.`,
	}

	unsafeArchiveEntryIssue = &Issue{
		id: UnsafeArchiveEntryId,
		mdMsg: `
# Unsafe archive entry!

An archive entry would be written outside the natives directory
(for example ` + "`../../etc/x.so`" + `). Extraction stopped.

## Things you can try:
- Check the archive's origin
- Narrow the native prefix so the entry is not selected`,
	}

	entryPointMissingIssue = &Issue{
		id: EntryPointMissingId,
		mdMsg: `
# No entry point!

A launch script needs the main namespace.

## Things you can try:
~~~
$ badigeon bundle --main app.core
~~~
- Or set ` + "`main`" + ` in badigeon.cue, or pass ` + "`--no-script`",
	}

	jlinkNotFoundIssue = &Issue{
		id: JlinkNotFoundId,
		mdMsg: `
# jlink not found!

A trimmed runtime needs the jlink tool of a JDK (version 9 or later).

## Things you can try:
- Set JAVA_HOME to a JDK
- Or set ` + "`bundle.jlink.java_home`" + ` in badigeon.cue`,
		extLinks: []HttpLink{"https://docs.oracle.com/en/java/javase/21/docs/specs/man/jlink.html"},
	}

	jlinkFailedIssue = &Issue{
		id: JlinkFailedId,
		mdMsg: `
# jlink failed!

The jlink tool exited with an error. Its output is shown above.

## Things you can try:
- Remove an existing runtime directory from the bundle
- Check the module names in ` + "`bundle.jlink.modules`",
		extLinks: []HttpLink{"https://docs.oracle.com/en/java/javase/21/docs/specs/man/jlink.html"},
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

A file could not be read or the output could not be written.

## Things you can try:
- Check the permissions of the output directory
- Make sure no other process holds the archive open`,
	}

	issues = map[Id]*Issue{
		fileNotFoundIssue.Id():             fileNotFoundIssue,
		configLoadFailedIssue.Id():         configLoadFailedIssue,
		dependencyFileInvalidIssue.Id():    dependencyFileInvalidIssue,
		invalidLibraryNameIssue.Id():       invalidLibraryNameIssue,
		invalidArchivePathIssue.Id():       invalidArchivePathIssue,
		unreproducibleDependencyIssue.Id(): unreproducibleDependencyIssue,
		unstableDependencyIssue.Id():       unstableDependencyIssue,
		bundleConflictIssue.Id():           bundleConflictIssue,
		invalidPatternIssue.Id():           invalidPatternIssue,
		unsafeArchiveEntryIssue.Id():       unsafeArchiveEntryIssue,
		entryPointMissingIssue.Id():        entryPointMissingIssue,
		jlinkNotFoundIssue.Id():            jlinkNotFoundIssue,
		jlinkFailedIssue.Id():              jlinkFailedIssue,
		permissionDeniedIssue.Id():         permissionDeniedIssue,
	}
)

// Values returns the whole catalog ordered by Id.
func Values() []*Issue {
	return slices.SortedFunc(maps.Values(issues), func(a, b *Issue) int {
		return cmp.Compare(a.id, b.id)
	})
}

// Get returns the entry for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
