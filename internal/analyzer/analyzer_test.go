package analyzer

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// fakeTagger splits on whitespace, tags fully uppercase words as proper nouns and
// everything else as common nouns, and returns the configured entities.
type fakeTagger struct {
	entities []Entity
	err      error
}

func (f *fakeTagger) Annotate(text string) (Annotation, error) {
	if f.err != nil {
		return Annotation{}, f.err
	}

	var ann Annotation
	for _, word := range strings.Fields(text) {
		word = strings.TrimRight(word, ",;:.")
		tag := "NN"
		if isUpper(word) {
			tag = "NNP"
		}
		ann.Tokens = append(ann.Tokens, Token{Text: word, Tag: tag})
	}
	for _, sent := range strings.Split(text, ".") {
		if strings.TrimSpace(sent) != "" {
			ann.Sentences = append(ann.Sentences, strings.TrimSpace(sent))
		}
	}
	ann.Entities = f.entities
	return ann, nil
}

type suffixLemmatizer struct{}

func (suffixLemmatizer) Lemma(word string) string {
	return strings.TrimSuffix(word, "s")
}

func newTestAnalyzer(t *testing.T, cfg Config, tagger Tagger, opts ...Option) *Analyzer {
	t.Helper()
	if tagger == nil {
		tagger = &fakeTagger{}
	}
	opts = append([]Option{WithTagger(tagger), WithLemmatizer(suffixLemmatizer{})}, opts...)
	a, err := New(cfg, opts...)
	require.NoError(t, err)
	return a
}

func TestAnalyzeEmptyText(t *testing.T) {
	t.Parallel()

	a := newTestAnalyzer(t, Config{}, nil)
	for _, text := range []string{"", "   ", "\n\t \r\n"} {
		bundle := a.Analyze(text, RoleCandidate)
		assert.True(t, bundle.IsZero(), "text %q", text)
		assert.Equal(t, RoleCandidate, bundle.Role)
		assert.NotNil(t, bundle.Skills)
		assert.NotNil(t, bundle.JobRoles)
		assert.NotNil(t, bundle.Keywords)
	}
}

func TestAnalyzeExtractsSignals(t *testing.T) {
	t.Parallel()

	tagger := &fakeTagger{entities: []Entity{
		{Text: "Acme Engineering Manager", Label: "ORGANIZATION"},
		{Text: "John Smith", Label: "PERSON"},
		{Text: "Berlin Developer Hub", Label: "GPE"},
	}}
	a := newTestAnalyzer(t, Config{}, tagger)

	text := "We hire a Senior Backend Engineer. Python and SQL on AWS. 3-5 years experience, 2+ years experience. PhD or bachelor degree."
	bundle := a.Analyze(text, RoleRequirement)

	assert.Equal(t, RoleRequirement, bundle.Role)
	// "r" comes from the naive substring scan hitting "hire".
	assert.Equal(t, []string{"aws", "python", "r", "sql"}, bundle.Skills)
	assert.Equal(t, 5, bundle.ExperienceYears)
	assert.Equal(t, EducationDoctorate, bundle.EducationLevel)
	assert.Equal(t, []string{"acme engineering manager", "senior backend engineer"}, bundle.JobRoles)
	assert.Equal(t, len(strings.Fields(text)), bundle.WordCount)
	assert.Equal(t, 4, bundle.SentenceCount)
	assert.NotEmpty(t, bundle.Keywords)
}

func TestAnalyzeIsIdempotent(t *testing.T) {
	t.Parallel()

	a := newTestAnalyzer(t, Config{}, nil)
	text := "Lead data analyst with 7 years of experience in Tableau, Power BI and SQL. Master of Science."

	first := a.Analyze(text, RoleCandidate)
	second := a.Analyze(text, RoleCandidate)
	assert.Equal(t, first, second)
}

func TestAnalyzeDegradesWhenTaggerFails(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.WarnLevel)
	a := newTestAnalyzer(t, Config{}, &fakeTagger{err: errors.New("model unavailable")}, WithLogger(zap.New(core)))

	bundle := a.Analyze("Senior software engineer, Docker and Kubernetes, 4 yrs", RoleCandidate)

	assert.Equal(t, []string{"docker", "kubernetes", "r"}, bundle.Skills)
	assert.Equal(t, 4, bundle.ExperienceYears)
	assert.Contains(t, bundle.JobRoles, "senior software engineer")
	assert.Equal(t, 8, bundle.WordCount)
	assert.Zero(t, bundle.SentenceCount)
	assert.Equal(t, 1, logs.FilterMessage("tagger failed, continuing with pattern matching only").Len())
}

func TestKeywordsRankedByWeight(t *testing.T) {
	t.Parallel()

	a := newTestAnalyzer(t, Config{}, nil)
	keywords := a.Analyze("Kubernetes operator, kubernetes controller", RoleRequirement).Keywords

	require.NotEmpty(t, keywords)
	assert.Equal(t, "kubernetes", keywords[0])
	assert.Contains(t, keywords, "kubernetes operator")
	assert.NotContains(t, keywords, "the")

	seen := make(map[string]struct{})
	for _, k := range keywords {
		_, dup := seen[k]
		assert.False(t, dup, "duplicate keyword %q", k)
		seen[k] = struct{}{}
	}
}

func TestKeywordsTieOrderIsAlphabetical(t *testing.T) {
	t.Parallel()

	a := newTestAnalyzer(t, Config{}, nil)
	keywords := a.Analyze("developer builds services", RoleCandidate).Keywords

	assert.Equal(t, []string{"builds", "builds services", "developer", "developer builds", "services"}, keywords)
}

func TestKeywordLimit(t *testing.T) {
	t.Parallel()

	a := newTestAnalyzer(t, Config{KeywordLimit: 3}, nil)
	keywords := a.Analyze("alpha beta gamma delta epsilon zeta eta theta", RoleCandidate).Keywords
	assert.Len(t, keywords, 3)
}

func TestKeywordsFallback(t *testing.T) {
	t.Parallel()

	a := newTestAnalyzer(t, Config{}, nil)

	assert.Equal(t, []string{"c++"}, a.Analyze("c++ c# the", RoleCandidate).Keywords)
	assert.Empty(t, a.Analyze("the and of", RoleCandidate).Keywords)
}

func TestSimilarity(t *testing.T) {
	t.Parallel()

	a := newTestAnalyzer(t, Config{}, nil)

	assert.InDelta(t, 1.0, a.Similarity("python flask developer", "Python  Flask developer"), 1e-9)
	assert.Zero(t, a.Similarity("python developer", "graphic designer"))
	assert.Zero(t, a.Similarity("", "the"))

	partial := a.Similarity("python flask developer", "python django developer")
	assert.Greater(t, partial, 0.0)
	assert.Less(t, partial, 1.0)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	_, err := New(Config{MaxDF: 1.5}, WithTagger(&fakeTagger{}), WithLemmatizer(suffixLemmatizer{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid analyzer config")
}

func TestNewMergesExtraSkills(t *testing.T) {
	t.Parallel()

	a := newTestAnalyzer(t, Config{ExtraSkills: map[string][]string{"tools": {"grafana"}}}, nil)

	assert.Equal(t, "tools", a.Vocabulary().Category("grafana"))
	assert.Contains(t, a.Analyze("dashboards in grafana", RoleCandidate).Skills, "grafana")
}
