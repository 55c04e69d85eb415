package usecase

import (
	"context"
	"log"
	"regexp"
	"sort"
	"strings"

	"github.com/kalorikoll/backend/internal/domain"
)

var punctuationRegex = regexp.MustCompile(`[^\p{L}\p{N}\s]`)

const (
	substringMatchBonus = 10.0
	fuzzyWeightFactor   = 0.8 // Fuzzy matches count 80% of an exact one
)

// stopWords are packaging and quantity words that say nothing about the food
var stopWords = map[string]bool{
	"och": true, "med": true, "and": true, "with": true, "the": true, "of": true,
	"g": true, "kg": true, "ml": true, "cl": true, "dl": true, "l": true,
	"st": true, "pack": true, "pkt": true, "burk": true, "flaska": true,
}

// MatchConfig holds configuration for the catalog matcher
type MatchConfig struct {
	MinConfidenceThreshold float64
	FuzzyEditDistance      int
	EnableDebugLogging     bool
}

// CatalogMatch is a catalog item with its match score (0-100)
type CatalogMatch struct {
	Record        domain.NutrientRecord `json:"record"`
	Score         float64               `json:"score"`
	MatchedTokens []string              `json:"matchedTokens,omitempty"`
}

// CatalogMatcher ranks saved catalog items against a free-text query
type CatalogMatcher struct {
	minConfidenceThreshold float64
	fuzzyEditDistance      int
	enableDebugLogging     bool
}

// NewCatalogMatcher creates a new matcher with the given configuration
func NewCatalogMatcher(config MatchConfig) *CatalogMatcher {
	threshold := config.MinConfidenceThreshold
	if threshold <= 0 {
		threshold = 40.0
	}

	fuzzyDist := config.FuzzyEditDistance
	if fuzzyDist <= 0 {
		fuzzyDist = 1
	}

	return &CatalogMatcher{
		minConfidenceThreshold: threshold,
		fuzzyEditDistance:      fuzzyDist,
		enableDebugLogging:     config.EnableDebugLogging,
	}
}

// Match returns catalog items scoring at or above the threshold, best first.
// Items sharing a name keep only their latest version, since the catalog is
// append-only and a re-saved item supersedes the older row.
func (m *CatalogMatcher) Match(ctx context.Context, query string, catalog []domain.NutrientRecord) ([]CatalogMatch, error) {
	queryTokens := tokenize(query)
	if len(queryTokens) == 0 {
		return nil, domain.ErrInvalidRequest
	}

	latest := make(map[string]int)
	for i, rec := range catalog {
		latest[strings.ToLower(strings.TrimSpace(rec.Name))] = i
	}

	var matches []CatalogMatch
	for i, rec := range catalog {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if latest[strings.ToLower(strings.TrimSpace(rec.Name))] != i {
			continue
		}

		score, matched := m.score(query, queryTokens, rec.Name)
		if m.enableDebugLogging {
			log.Printf("[MATCH] %q vs %q: %.1f %v", query, rec.Name, score, matched)
		}
		if score >= m.minConfidenceThreshold {
			matches = append(matches, CatalogMatch{Record: rec, Score: score, MatchedTokens: matched})
		}
	}

	if len(matches) == 0 {
		return nil, domain.ErrNoMatch
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches, nil
}

// score combines query coverage (60%), name coverage (20%) and Jaccard
// similarity (20%), plus a bonus when one string contains the other.
func (m *CatalogMatcher) score(query string, queryTokens []string, name string) (float64, []string) {
	nameTokens := tokenize(name)
	if len(nameTokens) == 0 {
		return 0, nil
	}

	queryHits, matched := m.intersect(queryTokens, nameTokens)
	nameHits, _ := m.intersect(nameTokens, queryTokens)

	queryCoverage := queryHits / float64(len(queryTokens))
	nameCoverage := nameHits / float64(len(nameTokens))
	jaccard := queryHits / float64(union(queryTokens, nameTokens))
	if jaccard > 1 {
		jaccard = 1
	}

	score := (queryCoverage*0.60 + nameCoverage*0.20 + jaccard*0.20) * 100

	q := strings.ToLower(strings.TrimSpace(query))
	n := strings.ToLower(name)
	if len([]rune(q)) > 3 && (strings.Contains(n, q) || strings.Contains(q, n)) {
		score += substringMatchBonus
	}

	if score > 100 {
		score = 100
	}
	return score, matched
}

// intersect counts tokens of a found in b, exact matches weighing 1 and
// fuzzy matches fuzzyWeightFactor
func (m *CatalogMatcher) intersect(a, b []string) (float64, []string) {
	exact := make(map[string]bool, len(b))
	for _, t := range b {
		exact[t] = true
	}

	var hits float64
	var matched []string
	for _, t := range a {
		if exact[t] {
			hits++
			matched = append(matched, t)
			continue
		}
		for _, u := range b {
			if fuzzyTokenMatch(t, u, m.fuzzyEditDistance) {
				hits += fuzzyWeightFactor
				matched = append(matched, t+"~"+u)
				break
			}
		}
	}
	return hits, matched
}

// tokenize splits a string into lowercase tokens without punctuation,
// stop words or pure numbers. Tokens are deduplicated.
func tokenize(s string) []string {
	cleaned := punctuationRegex.ReplaceAllString(strings.ToLower(s), " ")

	seen := make(map[string]bool)
	var tokens []string
	for _, word := range strings.Fields(cleaned) {
		if len([]rune(word)) <= 1 || stopWords[word] || isNumeric(word) || seen[word] {
			continue
		}
		seen[word] = true
		tokens = append(tokens, word)
	}
	return tokens
}

func union(a, b []string) int {
	set := make(map[string]bool, len(a)+len(b))
	for _, t := range a {
		set[t] = true
	}
	for _, t := range b {
		set[t] = true
	}
	return len(set)
}

// fuzzyTokenMatch checks if two tokens are within the edit distance threshold
func fuzzyTokenMatch(token1, token2 string, threshold int) bool {
	if token1 == token2 {
		return true
	}

	r1, r2 := []rune(token1), []rune(token2)
	// Short tokens give too many false positives
	if len(r1) < 4 || len(r2) < 4 {
		return false
	}

	lenDiff := len(r1) - len(r2)
	if lenDiff < 0 {
		lenDiff = -lenDiff
	}
	if lenDiff > threshold {
		return false
	}

	return levenshteinDistance(r1, r2) <= threshold
}

// levenshteinDistance calculates the edit distance between two rune slices
func levenshteinDistance(r1, r2 []rune) int {
	m, n := len(r1), len(r2)
	if m == 0 {
		return n
	}
	if n == 0 {
		return m
	}

	prev := make([]int, n+1)
	curr := make([]int, n+1)
	for j := 0; j <= n; j++ {
		prev[j] = j
	}

	for i := 1; i <= m; i++ {
		curr[0] = i
		for j := 1; j <= n; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[n]
}
