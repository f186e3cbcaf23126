package vm

import "github.com/rs/zerolog"

// logger is package-private and defaults to zerolog's no-op logger so a
// library consumer who never calls SetLogger pays nothing for logging --
// zerolog's disabled Logger short-circuits every call before it touches the
// underlying writer, keeping the hot evaluation loop free of I/O.
var logger = zerolog.Nop()

// SetLogger installs the logger used for diagnostic output about malformed
// Spline programs (see splineCompute's default case). vm.Validate reports
// its findings as returned errors, not through this logger. It is never
// consulted by the per-frame dispatch loop itself.
func SetLogger(l zerolog.Logger) {
	logger = l
}
