// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"io/fs"
	"strings"
)

// SchemaError reports a source record missing required top-level keys. It is
// raised while loading, before any validation runs.
type SchemaError struct {
	// Record is the record kind: "item" or "profile".
	Record string

	// Source is the file the record came from, when known.
	Source string

	// Missing lists the absent keys in declaration order.
	Missing []string
}

func (e *SchemaError) Error() string {
	msg := fmt.Sprintf("%s record missing required keys: %s", e.Record, strings.Join(e.Missing, ", "))
	if e.Source != "" {
		msg += " (" + e.Source + ")"
	}
	return msg
}

// Validation stages reported by ValidationError.
const (
	StageItems   = "items"
	StageProfile = "profile"
	StageOutput  = "output"
)

// ValidationError carries every problem found by one validation stage. The
// pipeline stops at the first stage that produces one; nothing is composed
// or written after it.
type ValidationError struct {
	Stage    string
	Messages []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s validation failed with %d error(s)", e.Stage, len(e.Messages))
}

// NotFoundError reports a referenced profile or base file that does not exist.
// errors.Is(err, fs.ErrNotExist) holds for it.
type NotFoundError struct {
	What string
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.What, e.Path)
}

func (e *NotFoundError) Is(target error) bool {
	return target == fs.ErrNotExist
}
