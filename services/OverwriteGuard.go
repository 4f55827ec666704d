package services

import "os"

// OverwriteGuard asks for a second request before an existing output file is
// replaced. The zero value is ready to use.
type OverwriteGuard struct {
	pending string
}

// Allow reports whether path may be written now. A path that does not exist
// is always allowed; an existing one is allowed on the second consecutive
// call for the same path.
func (guard *OverwriteGuard) Allow(path string) bool {
	if _, err := os.Stat(path); err != nil {
		guard.pending = ""
		return true
	}
	if guard.pending == path {
		guard.pending = ""
		return true
	}
	guard.pending = path
	return false
}
