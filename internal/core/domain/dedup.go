package domain

import (
	"github.com/handreceipt/hr-cli/pkg/similarity"
)

// FindDuplicates flags scan items whose serials collide with existing
// property serials or with earlier items in the same batch. An exact match
// (after normalization) is always flagged; near matches are flagged when
// the similarity ratio exceeds the threshold.
func FindDuplicates(items []ScanItem, existing []string, threshold float64) []DuplicateFlag {
	var flags []DuplicateFlag

	normalized := make([]string, len(existing))
	for i, s := range existing {
		normalized[i] = NormalizeSerial(s)
	}

	seen := make([]string, 0, len(items))

	for idx, item := range items {
		serial := NormalizeSerial(item.SerialNumber)
		if serial == "" {
			seen = append(seen, serial)
			continue
		}

		if flag, ok := bestMatch(idx, serial, normalized, threshold, false); ok {
			flags = append(flags, flag)
		} else if flag, ok := bestMatch(idx, serial, seen, threshold, true); ok {
			flags = append(flags, flag)
		}

		seen = append(seen, serial)
	}

	return flags
}

// bestMatch returns the strongest collision of serial against candidates.
// Exact matches win over near matches regardless of ratio.
func bestMatch(idx int, serial string, candidates []string, threshold float64, inBatch bool) (DuplicateFlag, bool) {
	best := DuplicateFlag{ItemIndex: idx, Serial: serial, InBatch: inBatch}
	found := false

	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}

		if candidate == serial {
			return DuplicateFlag{
				ItemIndex:  idx,
				Serial:     serial,
				MatchedTo:  candidate,
				Similarity: 1.0,
				Exact:      true,
				InBatch:    inBatch,
			}, true
		}

		ratio := similarity.Ratio(serial, candidate)
		if ratio > threshold && ratio > best.Similarity {
			best.MatchedTo = candidate
			best.Similarity = ratio
			found = true
		}
	}

	return best, found
}
