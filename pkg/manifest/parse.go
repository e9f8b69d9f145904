// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

type (
	// Manifest is a parsed manifest: the main attributes followed by named
	// sections, both in file order.
	Manifest struct {
		Main     []Field
		Sections []Field
	}
)

// Get returns the value of a main attribute.
func (m *Manifest) Get(key string) (string, bool) {
	for _, f := range m.Main {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// Section returns the named section.
func (m *Manifest) Section(name string) (Field, bool) {
	for _, s := range m.Sections {
		if s.Key == name {
			return s, true
		}
	}
	return Field{}, false
}

// Parse reads a manifest. Continuation lines (starting with one space) are
// joined to the previous value; a blank line starts a new section whose
// first attribute must be "Name".
func Parse(r io.Reader) (*Manifest, error) {
	m := &Manifest{}
	scanner := bufio.NewScanner(r)

	var (
		current   *[]Field
		section   *Field
		lineNo    int
		newGroup  = false
		lastValid = false
	)
	current = &m.Main

	flushSection := func() {
		if section != nil {
			m.Sections = append(m.Sections, *section)
			section = nil
		}
	}

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSuffix(scanner.Text(), "\r")

		if line == "" {
			newGroup = true
			lastValid = false
			continue
		}

		if strings.HasPrefix(line, " ") {
			if !lastValid {
				return nil, fmt.Errorf("manifest line %d: continuation without attribute", lineNo)
			}
			fields := *current
			fields[len(fields)-1].Value += line[1:]
			continue
		}

		key, value, ok := strings.Cut(line, ": ")
		if !ok {
			if k, found := strings.CutSuffix(line, ":"); found {
				key, value, ok = k, "", true
			}
		}
		if !ok || key == "" {
			return nil, fmt.Errorf("manifest line %d: expected \"Key: value\", got %q", lineNo, line)
		}

		if newGroup {
			newGroup = false
			if key != "Name" {
				return nil, fmt.Errorf("manifest line %d: section must start with Name, got %q", lineNo, key)
			}
			flushSection()
			section = &Field{Key: value, Section: []Field{}}
			current = &section.Section
			lastValid = false
			continue
		}

		*current = append(*current, Scalar(key, value))
		lastValid = true
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	flushSection()

	return m, nil
}
