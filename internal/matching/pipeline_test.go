package matching

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/resume-fit/internal/analyzer"
	"github.com/spigell/resume-fit/internal/logger"
	"github.com/spigell/resume-fit/internal/scoring"
	"github.com/spigell/resume-fit/internal/suggest"
)

type wordTagger struct{}

func (wordTagger) Annotate(text string) (analyzer.Annotation, error) {
	var ann analyzer.Annotation
	for _, w := range strings.Fields(text) {
		ann.Tokens = append(ann.Tokens, analyzer.Token{Text: strings.Trim(w, ".,"), Tag: "NN"})
	}
	ann.Sentences = []string{text}
	return ann, nil
}

type identityLemmatizer struct{}

func (identityLemmatizer) Lemma(word string) string { return word }

func newTestPipeline(t *testing.T, log *zap.Logger) *Pipeline {
	t.Helper()

	a, err := analyzer.New(analyzer.DefaultConfig(),
		analyzer.WithTagger(wordTagger{}),
		analyzer.WithLemmatizer(identityLemmatizer{}),
	)
	require.NoError(t, err)

	s, err := scoring.New(scoring.DefaultConfig(), nil)
	require.NoError(t, err)

	p := New(a, s, nil, log)
	p.newID = func() string { return "analysis-1" }
	p.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return p
}

const sampleResume = `Python developer with 2 years of experience building Flask services.
Worked with PostgreSQL and Git. Bachelor of Science in Computer Science.`

const sampleJob = `We are looking for a Python developer with 3+ years of experience.
Flask or Django, PostgreSQL, Docker and AWS. Master degree preferred.`

func TestPipelineRun(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	p := newTestPipeline(t, zap.New(core))

	result := p.Run(sampleResume, sampleJob)

	assert.Equal(t, "analysis-1", result.ID)
	assert.Equal(t, analyzer.RoleCandidate, result.Candidate.Role)
	assert.Equal(t, analyzer.RoleRequirement, result.Requirement.Role)
	assert.Equal(t, 2, result.Candidate.ExperienceYears)
	assert.Equal(t, 3, result.Requirement.ExperienceYears)
	assert.Equal(t, analyzer.EducationBachelor, result.Candidate.EducationLevel)
	assert.Equal(t, analyzer.EducationMaster, result.Requirement.EducationLevel)

	assert.Contains(t, result.Breakdown.MatchedSkills, "python")
	assert.Contains(t, result.Breakdown.MissingSkills, "docker")
	assert.Contains(t, result.MatchedByCategory["programming"], "python")
	assert.Contains(t, result.MatchedByCategory["database"], "postgresql")
	assert.Equal(t, []string{"programming", "web", "database"}, result.CategoryOrder)
	assert.Greater(t, result.TextSimilarity, 0.0)

	require.NotEmpty(t, result.Suggestions)
	experience := categoryIndex(result.Suggestions, "Experience")
	education := categoryIndex(result.Suggestions, "Education")
	require.NotEqual(t, -1, experience)
	require.NotEqual(t, -1, education)
	assert.Less(t, experience, education)

	entries := logs.FilterMessage("analysis finished").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "analysis-1", entries[0].ContextMap()[logger.FieldAnalysisID])
}

func TestPipelineRunEmptyCandidate(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(t, nil)
	result := p.Run("   ", sampleJob)

	assert.True(t, result.Candidate.IsZero())
	assert.Empty(t, result.Breakdown.MatchedSkills)
	assert.NotEmpty(t, result.Breakdown.MissingSkills)
	assert.Zero(t, result.TextSimilarity)
}

func TestPipelineRunIsRepeatable(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(t, nil)
	first := p.Run(sampleResume, sampleJob)
	second := p.Run(sampleResume, sampleJob)

	assert.Equal(t, first, second)
	assert.Len(t, suggest.Describe(p.Rules()), 7)
}

func TestGroupByCategoryFollowsVocabularyOrder(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(t, nil)
	groups, order := p.groupByCategory([]string{"grpc", "python", "sql", "terraform"})

	assert.Equal(t, map[string][]string{
		"programming": {"python"},
		"database":    {"sql"},
		"cloud":       {"terraform"},
		"other":       {"grpc"},
	}, groups)
	assert.Equal(t, []string{"programming", "database", "cloud", "other"}, order)

	groups, order = p.groupByCategory(nil)
	assert.Empty(t, groups)
	assert.Empty(t, order)
}

func categoryIndex(suggestions []suggest.Suggestion, category string) int {
	for i, s := range suggestions {
		if s.Category == category {
			return i
		}
	}
	return -1
}
