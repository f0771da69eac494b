// Package ustr provides UStr, a micro-string: either a static string
// literal or a string built at runtime. Go's strings are already
// immutable and share their backing array on copy, so UStr exists to
// preserve the Static-vs-Shared distinction callers reason about (a
// prepared-statement name that is always "" vs. one formatted per call)
// rather than to solve an allocation problem the runtime doesn't already
// solve.
package ustr

// UStr is a small, cheaply-copied string handle.
type UStr struct {
	s        string
	isStatic bool
}

// Static wraps a string literal known at compile time.
func Static(s string) UStr {
	return UStr{s: s, isStatic: true}
}

// New wraps a string built at runtime.
func New(s string) UStr {
	return UStr{s: s}
}

// String returns the underlying string.
func (u UStr) String() string {
	return u.s
}

// IsStatic reports whether this UStr was constructed via Static.
func (u UStr) IsStatic() bool {
	return u.isStatic
}

// StripPrefix returns a UStr with prefix removed and true, or the zero
// value and false if u doesn't start with prefix.
func StripPrefix(u UStr, prefix string) (UStr, bool) {
	if len(u.s) < len(prefix) || u.s[:len(prefix)] != prefix {
		return UStr{}, false
	}

	return UStr{s: u.s[len(prefix):], isStatic: u.isStatic}, true
}
