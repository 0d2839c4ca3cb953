package interview

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
)

// QuestionCache tracks questions already shown for a role/level pair,
// so regeneration can avoid repeats. Implementations live in the cache
// package.
type QuestionCache interface {
	Seen(ctx context.Context, key, question string) (bool, error)
	Remember(ctx context.Context, key string, questions ...string) error
}

// difficultyTier is one (difficulty label, question count) step of a mix.
type difficultyTier struct {
	Label string
	Count int
}

// difficultyMixes maps a normalized experience level to its tiers.
// Totals: entry 7, mid 10, senior 12.
var difficultyMixes = map[string][]difficultyTier{
	"entry level": {
		{Label: "easy", Count: 3},
		{Label: "medium", Count: 2},
		{Label: "hard", Count: 2},
	},
	"mid level": {
		{Label: "medium", Count: 6},
		{Label: "hard", Count: 4},
	},
	"senior level": {
		{Label: "hard", Count: 6},
		{Label: "very hard", Count: 6},
	},
}

// defaultMix is substituted for unrecognized experience levels.
var defaultMix = []difficultyTier{
	{Label: "medium", Count: 5},
	{Label: "hard", Count: 3},
}

// maxTierAttempts bounds regeneration of a tier when duplicates or
// short responses leave it under count.
const maxTierAttempts = 3

var (
	numberingRe = regexp.MustCompile(`^\d+[.)\-]\s*`)
	bulletRe    = regexp.MustCompile(`^[-*]\s*`)
)

// QuestionGenerator produces interview question sets through a
// Completer, following a per-experience-level difficulty mix.
type QuestionGenerator struct {
	completer Completer
	cache     QuestionCache
	logger    *slog.Logger
}

// NewQuestionGenerator creates a generator over the given completer.
func NewQuestionGenerator(completer Completer) *QuestionGenerator {
	return &QuestionGenerator{
		completer: completer,
		logger:    slog.Default(),
	}
}

// WithCache configures duplicate avoidance across generations.
func (g *QuestionGenerator) WithCache(cache QuestionCache) *QuestionGenerator {
	g.cache = cache
	return g
}

// WithLogger replaces the default logger.
func (g *QuestionGenerator) WithLogger(logger *slog.Logger) *QuestionGenerator {
	g.logger = logger
	return g
}

// Generate returns the full question set for a role and experience
// level. Unrecognized levels fall back to the default mix. A tier that
// yields nothing usable fails the whole generation with ErrNoQuestions;
// a tier that comes up short contributes what it has.
func (g *QuestionGenerator) Generate(ctx context.Context, role, experienceLevel string) ([]string, error) {
	level := strings.ToLower(strings.TrimSpace(experienceLevel))

	mix, ok := difficultyMixes[level]
	if !ok {
		g.logger.Warn("unknown experience level, using default mix", "level", experienceLevel)
		mix = defaultMix
	}

	cacheKey := role + "|" + level
	seen := make(map[string]bool)

	var questions []string
	for _, tier := range mix {
		tierQuestions, err := g.generateTier(ctx, role, tier, cacheKey, seen)
		if err != nil {
			return nil, err
		}
		questions = append(questions, tierQuestions...)
	}

	return questions, nil
}

// GenerateCount returns exactly up to count mixed-difficulty questions
// in a single gateway call. Used by the standalone generate-questions
// operation, which always asks for a fixed count.
func (g *QuestionGenerator) GenerateCount(ctx context.Context, role string, count int) ([]string, error) {
	tier := difficultyTier{Label: "mixed (easy to hard)", Count: count}
	return g.generateTier(ctx, role, tier, role+"|mixed", make(map[string]bool))
}

// generateTier collects up to tier.Count questions for one difficulty,
// regenerating to skip duplicates. Returns ErrNoQuestions when the
// gateway yields nothing usable for the tier.
func (g *QuestionGenerator) generateTier(ctx context.Context, role string, tier difficultyTier, cacheKey string, seen map[string]bool) ([]string, error) {
	var collected []string
	var lastErr string

	for attempt := 1; attempt <= maxTierAttempts && len(collected) < tier.Count; attempt++ {
		res := g.completer.Complete(ctx, UserMessage(tierPrompt(role, tier)))
		if !res.OK {
			lastErr = res.ErrMessage
			continue
		}

		for _, q := range extractQuestions(res.Text) {
			if len(collected) >= tier.Count {
				break
			}
			if seen[q] {
				continue
			}
			if g.cache != nil {
				if dup, err := g.cache.Seen(ctx, cacheKey, q); err == nil && dup {
					// Only skip cached duplicates while regeneration
					// attempts remain; a duplicate beats an empty tier.
					if attempt < maxTierAttempts {
						continue
					}
				}
			}
			seen[q] = true
			collected = append(collected, q)
		}
	}

	if len(collected) == 0 {
		return nil, fmt.Errorf("%w: difficulty %q: %s", ErrNoQuestions, tier.Label, lastErr)
	}

	if len(collected) < tier.Count {
		g.logger.Warn("short question tier",
			"difficulty", tier.Label, "want", tier.Count, "got", len(collected))
	}

	if g.cache != nil {
		if err := g.cache.Remember(ctx, cacheKey, collected...); err != nil {
			g.logger.Warn("question cache write failed", "error", err)
		}
	}

	return collected, nil
}

func tierPrompt(role string, tier difficultyTier) string {
	return fmt.Sprintf(`Generate %d unique technical interview questions.

Role: %s
Difficulty: %s

Rules:
- Output ONLY the questions
- One per line
- No numbering
- No formatting
- No paragraphs`, tier.Count, role, tier.Label)
}

// extractQuestions pulls question lines out of free-form model output:
// splits on line breaks, strips numbering and bullet markers, trims,
// and drops lines too short to be questions.
func extractQuestions(raw string) []string {
	var questions []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		line = numberingRe.ReplaceAllString(line, "")
		line = bulletRe.ReplaceAllString(line, "")
		line = strings.TrimSpace(line)
		if len(line) > 5 {
			questions = append(questions, line)
		}
	}
	return questions
}
