// Package ini parses the small INI dialect used by the config files under
// /config.
//
// Lines are trimmed; blank lines and lines starting with ';' or '#' are
// skipped. "[name]" opens a section, "key=value" splits on the first '=',
// and any other line is kept as a bare item. Values are plain strings:
// there is no type coercion, quoting, escaping or line continuation.
package ini

import (
	"strings"
)

// Entry is one line of a section
type Entry struct {
	Key   string
	Value string
	// Bare entries had no '='; Key and Value both hold the line.
	Bare bool
}

// Section is an ordered run of entries under one header
type Section struct {
	Name    string
	Entries []Entry
}

// Get returns the last value set for key
func (s *Section) Get(key string) (string, bool) {
	if s == nil {
		return "", false
	}
	for i := len(s.Entries) - 1; i >= 0; i-- {
		e := s.Entries[i]
		if !e.Bare && e.Key == key {
			return e.Value, true
		}
	}
	return "", false
}

// GetAll returns every value set for key, in order
func (s *Section) GetAll(key string) []string {
	if s == nil {
		return nil
	}
	var out []string
	for _, e := range s.Entries {
		if !e.Bare && e.Key == key {
			out = append(out, e.Value)
		}
	}
	return out
}

// Items returns the value of every entry in order. Bare lines contribute
// the line itself.
func (s *Section) Items() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.Entries))
	for _, e := range s.Entries {
		out = append(out, e.Value)
	}
	return out
}

// File is a parsed document
type File struct {
	// Global holds entries that appear before any header.
	Global   *Section
	sections []*Section
	index    map[string]*Section
}

// Section returns the named section, or nil. The empty name is Global.
func (f *File) Section(name string) *Section {
	if name == "" {
		return f.Global
	}
	return f.index[name]
}

// Sections returns the named sections in first-declared order
func (f *File) Sections() []*Section {
	return f.sections
}

// Map returns the nested section -> key -> value view. Top-level keys are
// under "". Later keys win; bare items are omitted.
func (f *File) Map() map[string]map[string]string {
	out := map[string]map[string]string{"": toMap(f.Global)}
	for _, s := range f.sections {
		out[s.Name] = toMap(s)
	}
	return out
}

func toMap(s *Section) map[string]string {
	m := make(map[string]string, len(s.Entries))
	for _, e := range s.Entries {
		if !e.Bare {
			m[e.Key] = e.Value
		}
	}
	return m
}

// Parse reads src. It never fails; unrecognized lines become bare items.
func Parse(src string) *File {
	f := &File{
		Global: &Section{},
		index:  make(map[string]*Section),
	}
	current := f.Global

	for _, raw := range strings.Split(src, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || line[0] == ';' || line[0] == '#' {
			continue
		}

		if line[0] == '[' && line[len(line)-1] == ']' {
			// the name is kept verbatim: "[ run ]" is not "[run]"
			name := line[1 : len(line)-1]
			if name == "" {
				current = f.Global
				continue
			}
			s, ok := f.index[name]
			if !ok {
				s = &Section{Name: name}
				f.index[name] = s
				f.sections = append(f.sections, s)
			}
			// redeclaring a section starts it over
			s.Entries = nil
			current = s
			continue
		}

		if key, value, ok := strings.Cut(line, "="); ok {
			current.Entries = append(current.Entries, Entry{
				Key:   strings.TrimSpace(key),
				Value: strings.TrimSpace(value),
			})
			continue
		}

		current.Entries = append(current.Entries, Entry{Key: line, Value: line, Bare: true})
	}

	return f
}
