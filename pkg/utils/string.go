package utils

// Truncate shortens s to at most maxLen runes, appending "..." when it
// cuts. Used for session ids and history previews in CLI output, which
// may contain multi-byte narration text.
func Truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
