// Package logger holds the single structured logger shared by this module's
// bounded-retry search loops (crypto/dh, crypto/rsa, crypto/primes), which
// call Logger().Warn(...) when a retry budget is exhausted. Discarded by default; callers embedding this module wire in a
// real sink via SetLogger.
package logger

import "github.com/getamis/sirius/log"

var current = log.Discard()

// Logger returns the active logger. Defaults to a no-op sink until
// SetLogger is called.
func Logger() log.Logger {
	return current
}

// SetLogger replaces the active logger, e.g. with one built via
// log.NewLogger for production use.
func SetLogger(l log.Logger) {
	current = l
}
