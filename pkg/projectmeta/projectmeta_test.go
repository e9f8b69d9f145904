// SPDX-License-Identifier: MPL-2.0

package projectmeta

import (
	"strings"
	"testing"
	"time"
)

func TestNewIdentity(t *testing.T) {
	t.Parallel()

	id := NewIdentity("org.example/widget", "1.2.0")
	if id.Group != "org.example" || id.Artifact != "widget" || id.Version != "1.2.0" {
		t.Errorf("NewIdentity() = %+v", id)
	}
	if id.Lib() != "org.example/widget" {
		t.Errorf("Lib() = %q", id.Lib())
	}
	if got := id.EntryName(); got != "META-INF/maven/org.example/widget/pom.properties" {
		t.Errorf("EntryName() = %q", got)
	}

	bare := NewIdentity("widget", "")
	if bare.Group != "widget" || bare.Artifact != "widget" {
		t.Errorf("NewIdentity(widget) = %+v", bare)
	}
}

func TestProperties(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	got := string(Properties(NewIdentity("org.example/widget", "1.2.0"), now))

	want := "#Created by Badigeon\n" +
		"#Fri Mar  1 12:00:00 UTC 2024\n" +
		"version=1.2.0\n" +
		"groupId=org.example\n" +
		"artifactId=widget\n"
	if got != want {
		t.Errorf("Properties() =\n%s\nwant\n%s", got, want)
	}
}

func TestProperties_EscapesSeparators(t *testing.T) {
	t.Parallel()

	got := string(Properties(Identity{Group: "g", Artifact: "a", Version: "1:2=3"}, time.Unix(0, 0).UTC()))
	if !strings.Contains(got, `version=1\:2\=3`+"\n") {
		t.Errorf("separators not escaped:\n%s", got)
	}
}
