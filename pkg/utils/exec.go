package utils

// LookPathFunc resolves an executable name to an absolute path. Presence
// checks take it as a parameter so tests can substitute a fake resolver.
type LookPathFunc func(name string) (string, error)

// FirstAvailable returns the first name from the list that the resolver
// accepts, or an empty string when none do
func FirstAvailable(lookPath LookPathFunc, names ...string) string {
	for _, name := range names {
		if _, err := lookPath(name); err == nil {
			return name
		}
	}
	return ""
}

// TruncateString shortens a string for table cells, appending an ellipsis
func TruncateString(s string, max int) string {
	if max <= 3 || len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
