package backend

// Lib is the process-wide native library. Its methods mutate shared native
// state without synchronization.
type Lib struct {
	_ [0]func() // not comparable
}

var lib Lib

// Load returns the native library singleton.
func Load() *Lib { return &lib }
