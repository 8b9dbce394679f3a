//go:build rtresample_debug

// Package rtassert provides a contract-violation check that panics when
// built with the rtresample_debug tag and is a silent no-op otherwise,
// mirroring gopus's use of build tags to separate diagnostic code paths
// from the release build (see silk/nsq_pred_default.go and friends).
package rtassert

// Assert panics with msg if cond is false. This panicking version is
// only compiled into debug builds; release builds use the empty Assert
// in assert_release.go, so calls on the real-time path do no work there.
func Assert(cond bool, msg string) {
	if !cond {
		panic("rtresample: " + msg)
	}
}
