package scoring

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/spigell/resume-fit/internal/analyzer"
)

// Weights of the sub-scores in the overall score. Keyword overlap is reported but never
// weighted.
type Weights struct {
	Skills     float64 `mapstructure:"skills" json:"skills" validate:"gte=0,lte=1"`
	Role       float64 `mapstructure:"role" json:"role" validate:"gte=0,lte=1"`
	Experience float64 `mapstructure:"experience" json:"experience" validate:"gte=0,lte=1"`
}

type Config struct {
	Weights Weights `mapstructure:"weights" json:"weights"`
	// SkillBoost multiplies the skill overlap ratio so that a two-thirds match already
	// reaches 100.
	SkillBoost  float64 `mapstructure:"skill-boost" json:"skill_boost" validate:"gt=0"`
	KeywordTopN int     `mapstructure:"keyword-top-n" json:"keyword_top_n" validate:"gte=1"`
}

func DefaultConfig() Config {
	return Config{
		Weights:     Weights{Skills: 0.5, Role: 0.3, Experience: 0.2},
		SkillBoost:  1.5,
		KeywordTopN: 20,
	}
}

var errWeightsSum = errors.New("score weights must sum to 1")

// Breakdown is the outcome of comparing a candidate bundle against a requirement bundle.
type Breakdown struct {
	OverallScore    int `json:"overall_score"`
	SkillScore      int `json:"skill_score"`
	RoleScore       int `json:"role_score"`
	ExperienceScore int `json:"experience_score"`
	KeywordScore    int `json:"keyword_score"`

	MatchedSkills []string `json:"matched_skills"`
	MissingSkills []string `json:"missing_skills"`
	// MatchedKeywords and MissingKeywords combine skill and general keyword results.
	MatchedKeywords []string `json:"matched_keywords"`
	MissingKeywords []string `json:"missing_keywords"`
}

// Scorer is stateless after construction and safe for concurrent use.
type Scorer struct {
	cfg    Config
	logger *zap.Logger
}

func New(cfg Config, logger *zap.Logger) (*Scorer, error) {
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid scoring config: %w", err)
	}
	w := cfg.Weights
	if math.Abs(w.Skills+w.Role+w.Experience-1) > 1e-6 {
		return nil, fmt.Errorf("%w, got %.2f", errWeightsSum, w.Skills+w.Role+w.Experience)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scorer{cfg: cfg, logger: logger}, nil
}

// Score compares the candidate against the requirement. It never fails; empty inputs map
// to the documented default scores.
func (s *Scorer) Score(candidate, requirement analyzer.SignalBundle) Breakdown {
	skill, matchedSkills, missingSkills := s.skillScore(candidate.Skills, requirement.Skills)
	role := roleScore(candidate.JobRoles, requirement.JobRoles)
	experience := experienceScore(
		candidate.ExperienceYears, requirement.ExperienceYears,
		int(candidate.EducationLevel), int(requirement.EducationLevel),
	)
	keyword, matchedKeywords, missingKeywords := s.keywordScore(candidate.Keywords, requirement.Keywords)

	w := s.cfg.Weights
	overall := skill*w.Skills + role*w.Role + experience*w.Experience

	b := Breakdown{
		OverallScore:    round(overall),
		SkillScore:      round(skill),
		RoleScore:       round(role),
		ExperienceScore: round(experience),
		KeywordScore:    round(keyword),
		MatchedSkills:   matchedSkills,
		MissingSkills:   missingSkills,
		MatchedKeywords: union(matchedSkills, matchedKeywords),
		MissingKeywords: union(missingSkills, missingKeywords),
	}

	s.logger.Debug("score breakdown",
		zap.Float64("skills", skill),
		zap.Float64("role", role),
		zap.Float64("experience", experience),
		zap.Float64("keywords", keyword),
		zap.Int("overall", b.OverallScore),
	)

	return b
}

// round matches half-to-even rounding of the scores the thresholds were tuned on.
func round(v float64) int {
	return int(math.RoundToEven(v))
}

func (s *Scorer) skillScore(candidate, requirement []string) (float64, []string, []string) {
	required := toSet(requirement)
	if len(required) == 0 {
		return 0, []string{}, []string{}
	}

	matched, missing := compare(toSet(candidate), required)
	ratio := float64(len(matched)) / float64(len(required))
	return math.Min(100, ratio*(100*s.cfg.SkillBoost)), matched, missing
}

func roleScore(candidate, requirement []string) float64 {
	required := toSet(requirement)
	if len(required) == 0 {
		return 50
	}

	have := toSet(candidate)
	for role := range have {
		if _, ok := required[role]; ok {
			return 100
		}
	}

	partial := 0
	for _, c := range sortedKeys(have) {
		for _, r := range sortedKeys(required) {
			if sharesWord(c, r) || sharesWord(r, c) {
				partial++
				break
			}
		}
	}
	if partial > 0 {
		return math.Min(80, float64(partial*30))
	}
	if len(candidate) > 0 {
		return 30
	}
	return 0
}

// sharesWord reports whether any whitespace-separated word of a is a substring of b.
func sharesWord(a, b string) bool {
	for _, word := range strings.Fields(a) {
		if strings.Contains(b, word) {
			return true
		}
	}
	return false
}

func experienceScore(candidateYears, requiredYears, candidateEdu, requiredEdu int) float64 {
	var years float64
	if requiredYears > 0 {
		c, r := float64(candidateYears), float64(requiredYears)
		switch {
		case c >= r:
			years = 100
		case c >= r*0.7:
			years = 80
		case c >= r*0.5:
			years = 60
		default:
			years = math.Max(20, c/r*40)
		}
	} else if candidateYears > 0 {
		years = 70
	} else {
		years = 50
	}

	var edu float64
	if requiredEdu > 0 {
		c, r := float64(candidateEdu), float64(requiredEdu)
		switch {
		case c >= r:
			edu = 100
		case c >= r-1:
			edu = 70
		default:
			edu = math.Max(30, c/r*50)
		}
	} else if candidateEdu > 0 {
		edu = 70
	} else {
		edu = 50
	}

	return (years + edu) / 2
}

func (s *Scorer) keywordScore(candidate, requirement []string) (float64, []string, []string) {
	required := toSet(top(requirement, s.cfg.KeywordTopN))
	if len(required) == 0 {
		return 0, []string{}, []string{}
	}

	matched, missing := compare(toSet(top(candidate, s.cfg.KeywordTopN)), required)
	return float64(len(matched)) / float64(len(required)) * 100, matched, missing
}

func top(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[strings.ToLower(item)] = struct{}{}
	}
	return set
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// compare returns required ∩ have and required − have, both sorted.
func compare(have, required map[string]struct{}) ([]string, []string) {
	matched, missing := []string{}, []string{}
	for _, item := range sortedKeys(required) {
		if _, ok := have[item]; ok {
			matched = append(matched, item)
		} else {
			missing = append(missing, item)
		}
	}
	return matched, missing
}

func union(a, b []string) []string {
	out := slices.Concat(a, b)
	slices.Sort(out)
	out = slices.Compact(out)
	if out == nil {
		out = []string{}
	}
	return out
}
