package frame

import (
	"fmt"
	"strings"
)

// MalformedDateColumnError reports a wide-table column whose name was
// expected to encode a date but failed to parse. The reshape aborts rather
// than dropping the column, since a silently dropped column corrupts
// downstream aggregation.
type MalformedDateColumnError struct {
	Column string
	Err    error
}

func (e *MalformedDateColumnError) Error() string {
	return fmt.Sprintf("column %q does not parse as a date: %v", e.Column, e.Err)
}

func (e *MalformedDateColumnError) Unwrap() error { return e.Err }

// DuplicateKeyError reports a merge input that violates key-uniqueness.
// The merge never silently picks one of the conflicting rows.
type DuplicateKeyError struct {
	TableIndex int
	Key        []string
	KeyValues  []string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("merge input %d has duplicate key {%s} = {%s}; reconcile before merging",
		e.TableIndex, strings.Join(e.Key, ", "), strings.Join(e.KeyValues, ", "))
}

// UnknownColumnError reports configuration naming a column the table does
// not have. Surfaced immediately so a typo never yields misleading
// "clean" results.
type UnknownColumnError struct {
	Column string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("unknown column %q", e.Column)
}
