package audit

import (
	"fmt"
	"strings"
)

// WriteOptions describes the save being performed by the host.
type WriteOptions struct {
	GeometryOnly        bool
	SelectedObjectsOnly bool
}

// ReadOptions describes the load being performed by the host.
type ReadOptions struct {
	// ImportMode is set when the document is imported into another one.
	ImportMode bool
	// ImportReferenceMode is set when the document is linked as a reference.
	ImportReferenceMode bool
}

// mergeAllowed reports whether loaded records belong to this session.
func (o ReadOptions) mergeAllowed() bool {
	return !o.ImportMode && !o.ImportReferenceMode
}

// LoadPolicy controls what a load does with records already in the table.
type LoadPolicy int

const (
	// LoadAppend adds loaded records after the existing ones. Loading the same
	// document twice without a close in between duplicates its records.
	LoadAppend LoadPolicy = iota
	// LoadReplace discards the existing records when the stored list is read.
	LoadReplace
)

func (p LoadPolicy) String() string {
	switch p {
	case LoadAppend:
		return "append"
	case LoadReplace:
		return "replace"
	default:
		return "unknown"
	}
}

// ParseLoadPolicy parses "append" or "replace". Empty means append.
func ParseLoadPolicy(s string) (LoadPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "append":
		return LoadAppend, nil
	case "replace":
		return LoadReplace, nil
	default:
		return LoadAppend, fmt.Errorf("invalid load policy %q; use append|replace", s)
	}
}
