// File: symtab.go
// Title: Symbol Table
// Description: Flat mapping from declared identifier to declared type name.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

// Package symtab holds the declarations collected from a var section.
// There is one flat namespace; inserting an existing name replaces its type.
package symtab

import (
	"sort"
)

// Entry is one declared identifier
type Entry struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

// View is read-only access to a table
type View interface {
	Contains(name string) bool
	Lookup(name string) (string, bool)
	Len() int
	Names() []string
	Entries() []Entry
}

// Table is a mutable symbol table. The zero value is not usable; call New.
type Table struct {
	entries map[string]string
}

// New creates an empty table
func New() *Table {
	return &Table{entries: make(map[string]string)}
}

// Insert binds name to typeName, replacing any earlier binding
func (t *Table) Insert(name, typeName string) {
	t.entries[name] = typeName
}

// Contains reports whether name has been declared
func (t *Table) Contains(name string) bool {
	_, ok := t.entries[name]
	return ok
}

// Lookup returns the declared type of name
func (t *Table) Lookup(name string) (string, bool) {
	typeName, ok := t.entries[name]
	return typeName, ok
}

// Len returns the number of declared names
func (t *Table) Len() int {
	return len(t.entries)
}

// Names returns the declared names in lexical order
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.entries))
	for name := range t.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Entries returns all bindings ordered by name
func (t *Table) Entries() []Entry {
	names := t.Names()
	entries := make([]Entry, len(names))
	for i, name := range names {
		entries[i] = Entry{Name: name, Type: t.entries[name]}
	}
	return entries
}

// View returns a read-only view backed by the table
func (t *Table) View() View {
	return view{t: t}
}

type view struct {
	t *Table
}

func (v view) Contains(name string) bool         { return v.t.Contains(name) }
func (v view) Lookup(name string) (string, bool) { return v.t.Lookup(name) }
func (v view) Len() int                          { return v.t.Len() }
func (v view) Names() []string                   { return v.t.Names() }
func (v view) Entries() []Entry                  { return v.t.Entries() }

// Snapshot is an immutable View over a fixed set of entries sorted by
// name. Build it with NewSnapshot or NewSnapshotFromEntries.
type Snapshot []Entry

// NewSnapshot copies the current contents of a view
func NewSnapshot(v View) Snapshot {
	return Snapshot(v.Entries())
}

// NewSnapshotFromEntries builds a snapshot from entries in any order.
// The input is not modified; for duplicate names the last entry wins.
func NewSnapshotFromEntries(entries []Entry) Snapshot {
	t := New()
	for _, e := range entries {
		t.Insert(e.Name, e.Type)
	}
	return Snapshot(t.Entries())
}

// Contains reports whether name is in the snapshot
func (s Snapshot) Contains(name string) bool {
	_, ok := s.Lookup(name)
	return ok
}

// Lookup returns the type recorded for name
func (s Snapshot) Lookup(name string) (string, bool) {
	i := sort.Search(len(s), func(i int) bool { return s[i].Name >= name })
	if i < len(s) && s[i].Name == name {
		return s[i].Type, true
	}
	return "", false
}

// Len returns the number of entries
func (s Snapshot) Len() int { return len(s) }

// Names returns the entry names in order
func (s Snapshot) Names() []string {
	names := make([]string, len(s))
	for i, e := range s {
		names[i] = e.Name
	}
	return names
}

// Entries returns a copy of the entries
func (s Snapshot) Entries() []Entry {
	out := make([]Entry, len(s))
	copy(out, s)
	return out
}
