//go:build !rtresample_debug

package rtassert

// Assert is a no-op in release builds: contract violations truncate or
// zero-fill silently per spec.md §4.F/§7 rather than panicking on the
// audio thread.
func Assert(cond bool, msg string) {}
