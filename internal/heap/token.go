package heap

// Token is the mutation capability described in It carries no
// data — its only purpose is to make "has a mutation context been
// established" part of a function's type signature, so a mutation path
// threads an explicit receiver rather than relying on package-level
// mutable state: the arena is shared and long-lived across frames, so
// that discipline matters here in a way it wouldn't for a private,
// single-owner data structure.
//
// Whoever drives an interpreter mints a Token with NewToken and hands it
// to the interpreter's constructor, which passes it down through every
// call that may mutate the heap.
type Token struct {
	_ [0]int // zero-size; prevents accidental equality-comparisons being meaningful
}

// NewToken mints a mutation token. The frame pipeline does not mint or
// pass tokens; the embedder that constructs an interpreter supplies one.
func NewToken() Token { return Token{} }
