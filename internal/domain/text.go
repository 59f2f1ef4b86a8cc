package domain

import "unicode/utf8"

// MaxRevokeReason is the longest revocation reason kept on a record, in runes
const MaxRevokeReason = 64

// TruncateRunes shortens s to at most n runes without splitting a character
func TruncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
