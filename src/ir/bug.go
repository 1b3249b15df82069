package ir

import (
	"fmt"
	"os"
)

// bugf reports a fatal IR invariant violation to stderr, in the "[BUG] ..."
// form an internal invariant failure is reported in throughout this
// library, and panics. Nothing inside this package recovers from its own
// bugf, and the CLI driver does not recover either, so a violation there
// ends the process with the panic.
func bugf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, "[BUG] "+msg)
	panic(msg)
}
