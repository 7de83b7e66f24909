package gemini

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/resume-fit/internal/ai"
	"github.com/spigell/resume-fit/internal/logger"
	"github.com/spigell/resume-fit/internal/matching"
	"github.com/spigell/resume-fit/internal/utils"
)

//go:embed prompt.md
var promptTemplate string

const (
	defaultMaxLogLength     = 200
	maxUserInstructionRunes = 500
	maxTips                 = 5
	maxPromptKeywords       = 15
	templateMarker          = "[Template]"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
	Model() string
}

// PromptOverrides lets the user steer the review without touching the prompt.
type PromptOverrides struct {
	Tone             string
	Focus            string
	UserInstructions string
}

type Reviewer struct {
	generator contentGenerator
	overrides PromptOverrides
	logger    *zap.Logger
	maxLogLen int
}

func NewReviewer(generator contentGenerator, maxLogLength int, logger *zap.Logger) *Reviewer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Reviewer{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (r *Reviewer) SetPromptOverrides(o PromptOverrides) {
	r.overrides = o
}

// analysisPayload is the part of a result the model gets to see.
type analysisPayload struct {
	OverallScore        int      `json:"overall_score"`
	SkillScore          int      `json:"skill_score"`
	RoleScore           int      `json:"role_score"`
	ExperienceScore     int      `json:"experience_score"`
	KeywordScore        int      `json:"keyword_score"`
	MatchedSkills       []string `json:"matched_skills"`
	MissingSkills       []string `json:"missing_skills"`
	MissingKeywords     []string `json:"missing_keywords"`
	CandidateRoles      []string `json:"candidate_roles"`
	RequiredRoles       []string `json:"required_roles"`
	CandidateYears      int      `json:"candidate_experience_years"`
	RequiredYears       int      `json:"required_experience_years"`
	RequirementKeywords []string `json:"requirement_keywords"`
	Suggestions         []string `json:"suggestions"`
}

func (r *Reviewer) Review(ctx context.Context, result *matching.Result) (*ai.Review, error) {
	if result == nil {
		return nil, errors.New("analysis result is required")
	}

	b := result.Breakdown
	payload := analysisPayload{
		OverallScore:        b.OverallScore,
		SkillScore:          b.SkillScore,
		RoleScore:           b.RoleScore,
		ExperienceScore:     b.ExperienceScore,
		KeywordScore:        b.KeywordScore,
		MatchedSkills:       b.MatchedSkills,
		MissingSkills:       b.MissingSkills,
		MissingKeywords:     b.MissingKeywords,
		CandidateRoles:      result.Candidate.JobRoles,
		RequiredRoles:       result.Requirement.JobRoles,
		CandidateYears:      result.Candidate.ExperienceYears,
		RequiredYears:       result.Requirement.ExperienceYears,
		RequirementKeywords: first(result.Requirement.Keywords, maxPromptKeywords),
	}
	for _, s := range result.Suggestions {
		payload.Suggestions = append(payload.Suggestions, s.Suggestion)
	}

	analysisJSON, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal analysis payload: %w", err)
	}

	system, message := r.buildPrompt(string(analysisJSON))

	log := logger.ForReview(r.logger, result.ID, "gemini", r.generator.Model())
	log.Debug("gemini review request",
		zap.Int("prompt_length", utf8.RuneCountInString(message)),
		zap.String("prompt_preview", utils.TruncateForLog(message, r.maxLogLen)),
	)

	raw, err := r.generator.GenerateContent(ctx, system, message)
	if err != nil {
		return nil, err
	}

	log.Debug("gemini review response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, r.maxLogLen)),
	)

	review, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}
	review.Raw = raw
	return review, nil
}

// buildPrompt splits the template into the system instruction and the user message.
func (r *Reviewer) buildPrompt(analysisJSON string) (string, string) {
	template := promptTemplate
	system, message := "", template
	if idx := strings.Index(template, templateMarker); idx != -1 {
		system = strings.TrimSpace(strings.TrimPrefix(template[:idx], "[System]"))
		message = template[idx:]
	}

	message = strings.NewReplacer(
		"{{TONE}}", orDefault(sanitizeLine(r.overrides.Tone), "Friendly"),
		"{{FOCUS}}", orDefault(sanitizeLine(r.overrides.Focus), "none"),
		"{{USER_INSTRUCTIONS}}", sanitizeInstructions(r.overrides.UserInstructions),
		"{{ANALYSIS_JSON}}", analysisJSON,
	).Replace(message)

	return system, strings.TrimSpace(message)
}

// neutralizeBrackets keeps user text from opening prompt sections of its own.
var neutralizeBrackets = strings.NewReplacer("[", "(", "]", ")")

func sanitizeLine(s string) string {
	return strings.Join(strings.Fields(neutralizeBrackets.Replace(s)), " ")
}

func sanitizeInstructions(s string) string {
	s = strings.TrimSpace(neutralizeBrackets.Replace(s))
	if runes := []rune(s); len(runes) > maxUserInstructionRunes {
		s = string(runes[:maxUserInstructionRunes])
	}

	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, "  - "+line)
		}
	}
	if len(lines) == 0 {
		return "  - none"
	}
	return strings.Join(lines, "\n")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func first(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func parseResponse(raw string) (*ai.Review, error) {
	var data struct {
		Summary string `json:"summary"`
		Tips    []any  `json:"tips"`
	}
	if err := json.Unmarshal([]byte(extractJSON(raw)), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	review := &ai.Review{Summary: strings.TrimSpace(data.Summary), Tips: []string{}}
	for _, tip := range data.Tips {
		text := coerceString(tip)
		if text == "" {
			continue
		}
		review.Tips = append(review.Tips, text)
		if len(review.Tips) == maxTips {
			break
		}
	}
	if review.Summary == "" && len(review.Tips) == 0 {
		return nil, errors.New("gemini response has neither summary nor tips")
	}
	return review, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case nil:
		return ""
	default:
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}
