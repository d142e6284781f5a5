//go:build !interpresdebug

package interpres

// invariant reports whether cond holds. Production builds skip the
// offending item and continue; build with -tags interpresdebug to panic.
func invariant(cond bool, msg string) bool {
	_ = msg
	return cond
}
