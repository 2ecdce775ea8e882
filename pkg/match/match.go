package match

import (
	"sort"

	"github.com/hbollon/go-edlib"
)

// Confidence represents the confidence level of a title match.
type Confidence int

const (
	ConfidenceNone   Confidence = iota // Score < 0.70
	ConfidenceLow                      // Score >= 0.70
	ConfidenceMedium                   // Score >= 0.85
	ConfidenceHigh                     // Score >= 0.95
)

func (c Confidence) String() string {
	switch c {
	case ConfidenceHigh:
		return "high"
	case ConfidenceMedium:
		return "medium"
	case ConfidenceLow:
		return "low"
	default:
		return "none"
	}
}

// Result represents one scored candidate title.
type Result struct {
	Title      string     // The candidate title as given
	Score      float64    // Jaro-Winkler similarity score (0.0-1.0)
	Confidence Confidence // Confidence level based on score
}

func confidenceFor(score float64) Confidence {
	switch {
	case score >= 0.95:
		return ConfidenceHigh
	case score >= 0.85:
		return ConfidenceMedium
	case score >= 0.70:
		return ConfidenceLow
	default:
		return ConfidenceNone
	}
}

// Rank scores every candidate against the query and returns them ordered
// best first. Candidates below the low-confidence threshold are dropped.
// Jaro-Winkler favors shared prefixes, which suits series titles.
func Rank(query string, candidates []string) []Result {
	normalizedQuery := Normalize(query)
	if normalizedQuery == "" {
		return nil
	}

	var results []Result
	for _, candidate := range candidates {
		score := float64(edlib.JaroWinklerSimilarity(normalizedQuery, Normalize(candidate)))
		if score < 0.70 {
			continue
		}
		results = append(results, Result{
			Title:      candidate,
			Score:      score,
			Confidence: confidenceFor(score),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

// Best returns the single best match for the query, or a zero Result with
// ConfidenceNone when nothing clears the threshold.
func Best(query string, candidates []string) Result {
	ranked := Rank(query, candidates)
	if len(ranked) == 0 {
		return Result{Confidence: ConfidenceNone}
	}
	return ranked[0]
}
