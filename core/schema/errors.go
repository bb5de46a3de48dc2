package schema

import (
	"fmt"
	"strings"
)

// ErrorKind classifies a validation failure.
type ErrorKind string

const (
	// KindMissingRequiredField reports a required key absent from the input.
	KindMissingRequiredField ErrorKind = "missing_required_field"

	// KindInvalidEnumValue reports a value outside a closed enum.
	KindInvalidEnumValue ErrorKind = "invalid_enum_value"

	// KindAmbiguousOrInvalidUnion reports input that matches none of a
	// union field's candidate shapes.
	KindAmbiguousOrInvalidUnion ErrorKind = "ambiguous_or_invalid_union"

	// KindConflictingAlias reports a key present under both its current
	// name and a legacy alias with differing values.
	KindConflictingAlias ErrorKind = "conflicting_alias"

	// KindInvalidValue reports a value whose kind does not fit the
	// declared field type.
	KindInvalidValue ErrorKind = "invalid_value"
)

// Error is a structured validation failure. It carries enough context to
// locate the offending entry in the source mapping without re-parsing:
// the record type, the dotted field path from the root of the Build call,
// the received value and, for enums, the allowed set.
type Error struct {
	Kind    ErrorKind
	Record  string
	Path    string
	Value   any
	Allowed []string
	Detail  string
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Kind, e.Record)
	if e.Path != "" {
		fmt.Fprintf(&b, ".%s", e.Path)
	}
	switch e.Kind {
	case KindMissingRequiredField:
		b.WriteString(": field is required")
	case KindInvalidEnumValue:
		fmt.Fprintf(&b, ": %v is not one of [%s]", e.Value, strings.Join(e.Allowed, ", "))
	case KindAmbiguousOrInvalidUnion:
		fmt.Fprintf(&b, ": %v matches none of [%s]", e.Value, strings.Join(e.Allowed, ", "))
	case KindConflictingAlias:
		fmt.Fprintf(&b, ": aliased keys disagree (%s)", e.Detail)
	default:
		fmt.Fprintf(&b, ": %v: %s", e.Value, e.Detail)
	}
	return b.String()
}

func joinPath(parent, child string) string {
	if parent == "" {
		return child
	}
	return parent + "." + child
}

func indexPath(parent string, i int) string {
	return fmt.Sprintf("%s[%d]", parent, i)
}
