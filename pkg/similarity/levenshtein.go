package similarity

import "strings"

// Distance computes the Levenshtein edit distance between two strings.
// Comparison is rune-based so multi-byte characters count as one edit.
func Distance(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)

	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	// Single-row DP: prev holds the previous row of the edit matrix
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)

	for j := 0; j <= len(rb); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}

			deletion := prev[j] + 1
			insertion := curr[j-1] + 1
			substitution := prev[j-1] + cost

			min := deletion
			if insertion < min {
				min = insertion
			}
			if substitution < min {
				min = substitution
			}
			curr[j] = min
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}

// Ratio returns a similarity score in [0, 1] where 1 means identical.
// Defined as 1 - distance/maxLen; two empty strings are identical.
func Ratio(a, b string) float64 {
	la := len([]rune(a))
	lb := len([]rune(b))

	maxLen := la
	if lb > maxLen {
		maxLen = lb
	}
	if maxLen == 0 {
		return 1.0
	}

	return 1.0 - float64(Distance(a, b))/float64(maxLen)
}

// FoldRatio compares case-insensitively after trimming whitespace.
// Serial numbers come back from OCR with inconsistent casing, so this is
// the comparison the import review actually uses.
func FoldRatio(a, b string) float64 {
	return Ratio(normalize(a), normalize(b))
}

func normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
