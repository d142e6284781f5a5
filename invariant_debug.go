//go:build interpresdebug

package interpres

// invariant panics when cond is false.
func invariant(cond bool, msg string) bool {
	if !cond {
		panic("interpres: invariant violated: " + msg)
	}
	return true
}
