package matching

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/resume-fit/internal/analyzer"
	"github.com/spigell/resume-fit/internal/logger"
	"github.com/spigell/resume-fit/internal/scoring"
	"github.com/spigell/resume-fit/internal/suggest"
)

// Result is everything one analysis produces. It is built once and never modified.
type Result struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Candidate   analyzer.SignalBundle `json:"candidate"`
	Requirement analyzer.SignalBundle `json:"requirement"`
	Breakdown   scoring.Breakdown     `json:"breakdown"`
	Suggestions []suggest.Suggestion  `json:"suggestions"`

	// TextSimilarity is informational and does not feed any score.
	TextSimilarity float64 `json:"text_similarity"`
	// MatchedByCategory groups matched skills by vocabulary category; skills found outside
	// the vocabulary land under "other".
	MatchedByCategory map[string][]string `json:"matched_by_category"`
	// CategoryOrder lists the keys of MatchedByCategory in vocabulary order, "other" last.
	CategoryOrder []string `json:"category_order"`
}

// Pipeline runs analyzer, scorer and suggestion rules for one pair of texts. A Pipeline holds
// no per-analysis state and may be shared between goroutines as long as its rules are not
// disabled concurrently.
type Pipeline struct {
	analyzer *analyzer.Analyzer
	scorer   *scoring.Scorer
	rules    []suggest.Rule
	logger   *zap.Logger

	newID func() string
	now   func() time.Time
}

func New(a *analyzer.Analyzer, s *scoring.Scorer, rules []suggest.Rule, log *zap.Logger) *Pipeline {
	if rules == nil {
		rules = suggest.Default()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		analyzer: a,
		scorer:   s,
		rules:    rules,
		logger:   log,
		newID:    uuid.NewString,
		now:      time.Now,
	}
}

// Rules returns the rule list so callers can report its status.
func (p *Pipeline) Rules() []suggest.Rule {
	return p.rules
}

// Run analyzes both texts and scores the candidate against the requirement.
func (p *Pipeline) Run(candidateText, requirementText string) *Result {
	id := p.newID()
	log := logger.WithFields(p.logger, logger.AnalysisFields(id)...)

	candidate := p.analyzer.Analyze(candidateText, analyzer.RoleCandidate)
	requirement := p.analyzer.Analyze(requirementText, analyzer.RoleRequirement)
	breakdown := p.scorer.Score(candidate, requirement)
	suggestions := suggest.Run(p.rules, suggest.Input{
		Candidate:   candidate,
		Requirement: requirement,
		Breakdown:   breakdown,
	}, log)

	result := &Result{
		ID:                id,
		CreatedAt:         p.now().UTC(),
		Candidate:         candidate,
		Requirement:       requirement,
		Breakdown:         breakdown,
		Suggestions:       suggestions,
		TextSimilarity:    p.analyzer.Similarity(candidateText, requirementText),
	}
	result.MatchedByCategory, result.CategoryOrder = p.groupByCategory(breakdown.MatchedSkills)

	log.Info("analysis finished",
		zap.Int("overall_score", breakdown.OverallScore),
		zap.Int("suggestions", len(suggestions)),
		zap.Float64("text_similarity", result.TextSimilarity),
	)

	return result
}

const otherCategory = "other"

func (p *Pipeline) groupByCategory(skills []string) (map[string][]string, []string) {
	groups := make(map[string][]string)
	vocabulary := p.analyzer.Vocabulary()
	for _, skill := range skills {
		category := vocabulary.Category(skill)
		if category == "" {
			category = otherCategory
		}
		groups[category] = append(groups[category], skill)
	}

	order := make([]string, 0, len(groups))
	for _, c := range vocabulary.Categories() {
		if _, ok := groups[c.Name]; ok {
			order = append(order, c.Name)
		}
	}
	if _, ok := groups[otherCategory]; ok && !slices.Contains(order, otherCategory) {
		order = append(order, otherCategory)
	}
	return groups, order
}
