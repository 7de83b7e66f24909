package analyzer

import (
	"fmt"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
	"github.com/jdkato/prose/v2"
)

// Token is a single word or punctuation token with its part-of-speech tag
// (Penn Treebank tag set).
type Token struct {
	Text string
	Tag  string
}

// Entity is a named-entity span.
type Entity struct {
	Text  string
	Label string
}

// Annotation is the linguistic view of a text.
type Annotation struct {
	Tokens    []Token
	Entities  []Entity
	Sentences []string
}

// Tagger tokenizes, tags and segments text.
type Tagger interface {
	Annotate(text string) (Annotation, error)
}

// Lemmatizer maps a word to its dictionary form.
type Lemmatizer interface {
	Lemma(word string) string
}

const warmupText = "Jane Doe joined Acme Corp as a senior software engineer in 2019."

type proseTagger struct {
	model *prose.Model
}

// NewProseTagger loads the prose English model once and reuses it for every document.
func NewProseTagger() (Tagger, error) {
	doc, err := prose.NewDocument(warmupText)
	if err != nil {
		return nil, fmt.Errorf("loading prose model: %w", err)
	}
	if doc.Model == nil {
		return nil, fmt.Errorf("loading prose model: no model attached to document")
	}
	return &proseTagger{model: doc.Model}, nil
}

func (t *proseTagger) Annotate(text string) (Annotation, error) {
	doc, err := prose.NewDocument(text, prose.UsingModel(t.model))
	if err != nil {
		return Annotation{}, fmt.Errorf("annotating text: %w", err)
	}

	tokens := doc.Tokens()
	ann := Annotation{
		Tokens: make([]Token, 0, len(tokens)),
	}
	for _, tok := range tokens {
		ann.Tokens = append(ann.Tokens, Token{Text: tok.Text, Tag: tok.Tag})
	}
	for _, ent := range doc.Entities() {
		ann.Entities = append(ann.Entities, Entity{Text: ent.Text, Label: ent.Label})
	}
	for _, sent := range doc.Sentences() {
		ann.Sentences = append(ann.Sentences, sent.Text)
	}
	return ann, nil
}

// NewGolemLemmatizer loads the English lemma dictionary.
func NewGolemLemmatizer() (Lemmatizer, error) {
	lemmatizer, err := golem.New(en.New())
	if err != nil {
		return nil, fmt.Errorf("loading english lemma dictionary: %w", err)
	}
	return lemmatizer, nil
}
