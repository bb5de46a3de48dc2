package model

import "fmt"

// ResolveErrorKind classifies a resolution failure. Resolution aborts on the
// first failure; no partial layer list is ever returned.
type ResolveErrorKind string

const (
	// KindUnknownStackReference reports a stack token or material name
	// that matches no definition.
	KindUnknownStackReference ResolveErrorKind = "unknown_stack_reference"

	// KindUnknownLikeReference reports an ItemChanger whose "like" target
	// cannot be found.
	KindUnknownLikeReference ResolveErrorKind = "unknown_like_reference"

	// KindCyclicComposition reports definitions that reference themselves,
	// directly or through other composites or sub-stacks.
	KindCyclicComposition ResolveErrorKind = "cyclic_composition"

	// KindInvalidDefinition reports a definition the resolver cannot make
	// concrete, such as a material without density information or a
	// sub-stack with both stack and sequence set.
	KindInvalidDefinition ResolveErrorKind = "invalid_definition"
)

// ResolveError is the single structured failure type of the resolver.
type ResolveError struct {
	Kind   ResolveErrorKind
	Name   string
	Detail string
}

func (e *ResolveError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %q", e.Kind, e.Name)
	}
	return fmt.Sprintf("%s: %q: %s", e.Kind, e.Name, e.Detail)
}

func unknownRef(name string) *ResolveError {
	return &ResolveError{Kind: KindUnknownStackReference, Name: name}
}

func unknownLike(name string) *ResolveError {
	return &ResolveError{Kind: KindUnknownLikeReference, Name: name}
}

func cyclic(name string) *ResolveError {
	return &ResolveError{Kind: KindCyclicComposition, Name: name}
}

func invalidDef(name, detail string) *ResolveError {
	return &ResolveError{Kind: KindInvalidDefinition, Name: name, Detail: detail}
}
