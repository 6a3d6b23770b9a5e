package session

import "strings"

// ClassifyVerification maps a free-text verifier response to a verdict by
// case-insensitive substring search. "insufficient" is checked first, and
// unrecognized responses default to INSUFFICIENT so ambiguous verifier
// output can never end the run.
func ClassifyVerification(response string) Verdict {
	normalized := strings.ToLower(response)
	if strings.Contains(normalized, "insufficient") {
		return VerdictInsufficient
	}
	if strings.Contains(normalized, "sufficient") {
		return VerdictSufficient
	}
	return VerdictInsufficient
}
