// SPDX-License-Identifier: MPL-2.0

package manifest

import "strings"

// charMap mirrors the JVM class-name munging applied to Clojure namespace
// names. Dots are kept since they separate packages.
var charMap = map[rune]string{
	'-':  "_",
	':':  "_COLON_",
	'+':  "_PLUS_",
	'>':  "_GT_",
	'<':  "_LT_",
	'=':  "_EQ_",
	'~':  "_TILDE_",
	'!':  "_BANG_",
	'@':  "_CIRCA_",
	'#':  "_SHARP_",
	'\'': "_SINGLEQUOTE_",
	'"':  "_DOUBLEQUOTE_",
	'%':  "_PERCENT_",
	'^':  "_CARET_",
	'&':  "_AMPERSAND_",
	'*':  "_STAR_",
	'|':  "_BAR_",
	'{':  "_LBRACE_",
	'}':  "_RBRACE_",
	'[':  "_LBRACK_",
	']':  "_RBRACK_",
	'/':  "_SLASH_",
	'\\': "_BSLASH_",
	'?':  "_QMARK_",
}

// MungeClassName converts an entry point name (e.g. "my.app-main") into a
// class name valid on the target platform ("my.app_main").
func MungeClassName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if rep, ok := charMap[r]; ok {
			b.WriteString(rep)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
