// Package summarizer produces bullet-point summaries by scoring and
// selecting existing sentences. It is a deterministic heuristic, not a
// language model: sentences are segmented, scored on length, position and
// content signals, and the best ones are emitted back in document order.
package summarizer

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/starling/noteboard/internal/apperr"
)

const (
	// Inputs shorter than this are returned unchanged.
	conciseThreshold = 200
	// Fragments at or below this length are discarded during segmentation.
	minFragmentLen = 15
	// A summary may not exceed this share of the input length.
	maxSummaryRatio = 0.9
	// Truncation target when the guard trips.
	truncateRatio = 0.6

	bulletPrefix = "• "
)

// Config supplies the word lists driving sentence scoring and segmentation.
// Zero-value fields fall back to the package defaults.
type Config struct {
	// Keywords mark a sentence as important (+2, first match only).
	Keywords []string
	// Boilerplate phrases are penalized as filler (-3).
	Boilerplate []string
	// Junk markers disqualify a sentence almost entirely (-10).
	Junk []string
	// Abbreviations whose periods must not terminate a sentence.
	Abbreviations []string
}

// DefaultConfig returns the built-in scoring lists.
func DefaultConfig() Config {
	return Config{
		Keywords: []string{
			"important", "key", "significant", "essential", "critical",
			"main", "conclusion", "summary", "result", "therefore",
			"must", "exam", "deadline",
		},
		Boilerplate: []string{
			"in this article", "as mentioned above", "as we all know",
			"it goes without saying", "needless to say",
			"at the end of the day",
		},
		Junk: []string{
			"copyright", "all rights reserved", "login", "sign up",
			"click here", "subscribe",
		},
		Abbreviations: []string{
			"Dr.", "Mr.", "Mrs.", "Ms.", "Prof.",
			"etc.", "vs.", "i.e.", "e.g.",
		},
	}
}

// Summarizer scores and selects sentences according to its Config.
type Summarizer struct {
	cfg Config
}

// New creates a Summarizer, filling empty Config fields with defaults.
func New(cfg Config) *Summarizer {
	def := DefaultConfig()
	if len(cfg.Keywords) == 0 {
		cfg.Keywords = def.Keywords
	}
	if len(cfg.Boilerplate) == 0 {
		cfg.Boilerplate = def.Boilerplate
	}
	if len(cfg.Junk) == 0 {
		cfg.Junk = def.Junk
	}
	if len(cfg.Abbreviations) == 0 {
		cfg.Abbreviations = def.Abbreviations
	}
	return &Summarizer{cfg: cfg}
}

// protectedDot stands in for periods that are not sentence boundaries.
const protectedDot = "\x00"

var (
	decimalRe  = regexp.MustCompile(`(\d)\.(\d)`)
	boundaryRe = regexp.MustCompile(`([.!?]+)\s+`)
	numericRe  = regexp.MustCompile(`[$€£]\d|\d+(\.\d+)?%|\b\d`)
)

// Summarize reduces text to a bullet list of its highest-scoring sentences.
// The only failure is apperr.ErrEmptyInput for blank or unsegmentable text.
func (s *Summarizer) Summarize(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", apperr.ErrEmptyInput
	}

	sentences := s.segment(text)
	if len(sentences) == 0 {
		return "", apperr.ErrEmptyInput
	}
	if len(text) < conciseThreshold {
		return text, nil
	}

	scores := s.score(sentences)
	selected := selectIndices(scores, len(sentences))

	lines := make([]string, 0, len(selected))
	for _, i := range selected {
		lines = append(lines, bulletPrefix+ensureTerminated(sentences[i]))
	}
	summary := strings.Join(lines, "\n")

	if float64(len(summary)) > maxSummaryRatio*float64(len(text)) {
		summary = truncate(summary, int(truncateRatio*float64(len(text))))
	}
	return summary, nil
}

// segment splits text into trimmed sentences, shielding decimal points and
// known abbreviations from the boundary match, and drops short fragments.
func (s *Summarizer) segment(text string) []string {
	protected := decimalRe.ReplaceAllString(text, "${1}"+protectedDot+"${2}")
	// Decimal chains like "1.2.3" leave an unprotected middle dot; run twice.
	protected = decimalRe.ReplaceAllString(protected, "${1}"+protectedDot+"${2}")
	for _, abbr := range s.cfg.Abbreviations {
		shielded := strings.ReplaceAll(abbr, ".", protectedDot)
		protected = strings.ReplaceAll(protected, abbr, shielded)
	}

	var out []string
	prev := 0
	for _, ix := range boundaryRe.FindAllStringSubmatchIndex(protected, -1) {
		out = appendSentence(out, protected[prev:ix[3]])
		prev = ix[1]
	}
	if prev < len(protected) {
		out = appendSentence(out, protected[prev:])
	}
	return out
}

func appendSentence(out []string, raw string) []string {
	restored := strings.ReplaceAll(raw, protectedDot, ".")
	trimmed := strings.TrimSpace(restored)
	if len(trimmed) <= minFragmentLen {
		return out
	}
	return append(out, trimmed)
}

// score rates each sentence independently. Higher is better.
func (s *Summarizer) score(sentences []string) []int {
	scores := make([]int, len(sentences))
	seenPrefixes := make(map[string]struct{})

	for i, sent := range sentences {
		lowered := strings.ToLower(sent)
		words := strings.Fields(sent)
		wc := len(words)

		score := 0
		switch {
		case wc >= 15 && wc <= 35:
			score += 3
		case wc >= 10 && wc <= 50:
			score += 2
		case wc > 50:
			score += 1
		}
		if i < 3 {
			score += 4
		}
		if i == len(sentences)-1 {
			score += 2
		}
		if numericRe.MatchString(sent) {
			score += 4
		}
		for _, kw := range s.cfg.Keywords {
			if strings.Contains(lowered, kw) {
				score += 2
				break
			}
		}
		for _, bp := range s.cfg.Boilerplate {
			if strings.Contains(lowered, bp) {
				score -= 3
				break
			}
		}
		if wc < 8 || containsAny(lowered, s.cfg.Junk) {
			score -= 10
		}

		if wc >= 5 {
			prefix := strings.ToLower(strings.Join(words[:5], " "))
			if _, dup := seenPrefixes[prefix]; dup {
				score -= 4
			}
			seenPrefixes[prefix] = struct{}{}
		}

		scores[i] = score
	}
	return scores
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// selectIndices picks the target number of sentence indices by score and
// returns them in original document order.
func selectIndices(scores []int, n int) []int {
	target := selectionCount(n)

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	picked := order[:target]
	sort.Ints(picked)
	return picked
}

// selectionCount scales the summary size with the input size.
func selectionCount(n int) int {
	var target int
	switch {
	case n <= 5:
		target = n - 2
		if target < 2 {
			target = 2
		}
	case n <= 15:
		target = (n * 30) / 100
		if target < 3 {
			target = 3
		}
	default:
		target = n / 4
		if target > 8 {
			target = 8
		}
		if target < 4 {
			target = 4
		}
	}
	if target > n {
		target = n
	}
	return target
}

func ensureTerminated(sent string) string {
	if strings.HasSuffix(sent, ".") || strings.HasSuffix(sent, "!") || strings.HasSuffix(sent, "?") {
		return sent
	}
	return sent + "."
}

// truncate cuts summary down to at most target characters, preferring the
// last sentence boundary past the halfway point and falling back to a hard
// cut with an ellipsis.
func truncate(summary string, target int) string {
	if target >= len(summary) {
		return summary
	}
	if target < 1 {
		target = 1
	}
	boundary := -1
	for i := 0; i < target; i++ {
		switch summary[i] {
		case '.', '!', '?':
			boundary = i
		}
	}
	if boundary > target/2 {
		return summary[:boundary+1]
	}
	// Hard cut: back up to a rune boundary so the ellipsis never follows a
	// split multi-byte character.
	for target > 0 && !utf8.RuneStart(summary[target]) {
		target--
	}
	return summary[:target] + "..."
}
