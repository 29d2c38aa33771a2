package class

import "errors"

// The sentinel errors of that originate from the shared object model.
// Callers wrap these with fmt.Errorf("...: %w", ErrReference) so
// errors.Is keeps working while the message stays specific.
var (
	// ErrType is thrown when a value fails a coercion, a property
	// access targets null/undefined, or a super-call resolves to
	// nothing.
	ErrType = errors.New("class: type error")

	// ErrRange is thrown when an index is negative, non-integral, or
	// out of a typed collection's bounds.
	ErrRange = errors.New("class: range error")

	// ErrReference is thrown on a sealed-class property miss.
	ErrReference = errors.New("class: reference error")

	// ErrVerify is raised during class construction when an interface
	// claim cannot be satisfied by the trait set.
	ErrVerify = errors.New("class: verify error")

	// ErrBudgetExhausted is raised by either bytecode interpreter when a
	// caller-supplied instruction budget reaches zero mid-script. It
	// lives here, rather than in avm1 or avm2, so a host holding only a
	// ScriptRunner can recognize it with errors.Is without importing
	// either interpreter package.
	ErrBudgetExhausted = errors.New("class: script instruction budget exhausted")
)
