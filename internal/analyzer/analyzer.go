package analyzer

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

//go:embed stopwords.txt
var stopWordsData string

// Config tunes keyword extraction and extends the skill vocabulary.
type Config struct {
	// KeywordLimit caps the number of keyword terms kept from one text.
	KeywordLimit int `mapstructure:"keyword-limit" json:"keyword_limit" validate:"gte=1"`
	// MinDF and MaxDF bound document frequency. They only prune when a corpus has more than
	// one document.
	MinDF int     `mapstructure:"min-df" json:"min_df" validate:"gte=1"`
	MaxDF float64 `mapstructure:"max-df" json:"max_df" validate:"gt=0,lte=1"`

	ExtraSkills map[string][]string `mapstructure:"extra-skills" json:"extra_skills,omitempty"`
}

// DefaultConfig returns the settings the scoring thresholds were tuned with.
func DefaultConfig() Config {
	return Config{
		KeywordLimit: 50,
		MinDF:        1,
		MaxDF:        0.95,
	}
}

// Option customizes an Analyzer.
type Option func(*Analyzer)

// WithTagger replaces the default prose tagger.
func WithTagger(t Tagger) Option {
	return func(a *Analyzer) { a.tagger = t }
}

// WithLemmatizer replaces the default golem lemmatizer.
func WithLemmatizer(l Lemmatizer) Option {
	return func(a *Analyzer) { a.lemmatizer = l }
}

// WithLogger sets the logger used for debug and degradation messages.
func WithLogger(l *zap.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.logger = l
		}
	}
}

// Analyzer turns raw text into a SignalBundle. All of its state is read-only after New
// returns, so a single Analyzer can serve any number of goroutines.
type Analyzer struct {
	cfg        Config
	vocabulary *Vocabulary
	stopWords  map[string]struct{}
	tagger     Tagger
	lemmatizer Lemmatizer
	logger     *zap.Logger
}

// New loads the reference data. Any failure here must stop the process: every score depends
// on the vocabulary and the linguistic models being present.
func New(cfg Config, opts ...Option) (*Analyzer, error) {
	cfg = withDefaults(cfg)
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid analyzer config: %w", err)
	}

	stopWords, err := parseStopWords(stopWordsData)
	if err != nil {
		return nil, err
	}

	a := &Analyzer{
		cfg:        cfg,
		vocabulary: DefaultVocabulary().Merge(cfg.ExtraSkills),
		stopWords:  stopWords,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.tagger == nil {
		if a.tagger, err = NewProseTagger(); err != nil {
			return nil, err
		}
	}
	if a.lemmatizer == nil {
		if a.lemmatizer, err = NewGolemLemmatizer(); err != nil {
			return nil, err
		}
	}

	a.logger.Debug("analyzer initialized",
		zap.Int("vocabulary_terms", a.vocabulary.Len()),
		zap.Int("stop_words", len(a.stopWords)),
		zap.Int("keyword_limit", cfg.KeywordLimit),
	)

	return a, nil
}

func withDefaults(cfg Config) Config {
	def := DefaultConfig()
	if cfg.KeywordLimit == 0 {
		cfg.KeywordLimit = def.KeywordLimit
	}
	if cfg.MinDF == 0 {
		cfg.MinDF = def.MinDF
	}
	if cfg.MaxDF == 0 {
		cfg.MaxDF = def.MaxDF
	}
	return cfg
}

func parseStopWords(data string) (map[string]struct{}, error) {
	words := make(map[string]struct{})
	scanner := bufio.NewScanner(strings.NewReader(data))
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word == "" || strings.HasPrefix(word, "#") {
			continue
		}
		words[strings.ToLower(word)] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading stop words: %w", err)
	}
	if len(words) == 0 {
		return nil, errors.New("stop word list is empty")
	}
	return words, nil
}

// Vocabulary returns the skill vocabulary in use.
func (a *Analyzer) Vocabulary() *Vocabulary {
	return a.vocabulary
}

// Analyze extracts the signal bundle of text. It never fails: sparse or odd input degrades
// to smaller results, and empty or whitespace-only input yields the zero bundle.
func (a *Analyzer) Analyze(text string, role Role) SignalBundle {
	if strings.TrimSpace(text) == "" {
		return emptyBundle(role)
	}

	ann, err := a.tagger.Annotate(text)
	if err != nil {
		a.logger.Warn("tagger failed, continuing with pattern matching only",
			zap.String("role", string(role)),
			zap.Error(err),
		)
		ann = Annotation{}
	}

	lower := strings.ToLower(text)
	bundle := SignalBundle{
		Role:            role,
		Skills:          a.extractSkills(lower, ann.Tokens),
		ExperienceYears: extractExperienceYears(lower),
		EducationLevel:  extractEducationLevel(lower),
		JobRoles:        extractJobRoles(lower, ann.Entities),
		Keywords:        a.extractKeywords(text),
		WordCount:       wordCount(text, ann),
		SentenceCount:   len(ann.Sentences),
	}

	a.logger.Debug("text analyzed",
		zap.String("role", string(role)),
		zap.Int("skills", len(bundle.Skills)),
		zap.Int("experience_years", bundle.ExperienceYears),
		zap.Stringer("education", bundle.EducationLevel),
		zap.Int("roles", len(bundle.JobRoles)),
		zap.Int("keywords", len(bundle.Keywords)),
	)

	return bundle
}

func wordCount(text string, ann Annotation) int {
	if ann.Tokens == nil {
		return len(strings.Fields(text))
	}
	n := 0
	for _, tok := range ann.Tokens {
		if strings.TrimSpace(tok.Text) != "" {
			n++
		}
	}
	return n
}

// uniqueSorted returns a sorted, duplicate-free copy that is never nil.
func uniqueSorted(items []string) []string {
	out := slices.Clone(items)
	slices.Sort(out)
	out = slices.Compact(out)
	if out == nil {
		out = []string{}
	}
	return out
}
