package common

// UnknownStr is returned by String methods for out-of-range enum values.
const UnknownStr = "unknown"

// NonEmpty returns s, or fallback when s is empty.
func NonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}

	return s
}
