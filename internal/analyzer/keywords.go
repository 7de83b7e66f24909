package analyzer

import (
	"math"
	"regexp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	whitespacePattern = regexp.MustCompile(`\s+`)
	// Runs of two or more word characters.
	termPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)
)

// cleanText collapses whitespace and lowercases.
func cleanText(text string) string {
	return strings.ToLower(strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " ")))
}

// vectorizer weighs unigrams and bigrams by TF-IDF with smoothed idf and L2 normalization.
type vectorizer struct {
	stopWords   map[string]struct{}
	maxFeatures int
	minDF       int
	maxDF       float64
}

type weightedTerm struct {
	term   string
	weight float64
}

// terms returns the n-grams of one cleaned document. Stop words are dropped before bigrams
// are built, so a bigram may join words that were not adjacent in the text.
func (v vectorizer) terms(doc string) []string {
	var words []string
	for _, w := range termPattern.FindAllString(doc, -1) {
		if _, stop := v.stopWords[w]; stop {
			continue
		}
		words = append(words, w)
	}

	out := slices.Clone(words)
	for i := 1; i < len(words); i++ {
		out = append(out, words[i-1]+" "+words[i])
	}
	return out
}

// fit returns one normalized weight vector per document. An empty vocabulary yields nil.
func (v vectorizer) fit(docs []string) []map[string]float64 {
	counts := make([]map[string]int, len(docs))
	df := make(map[string]int)
	total := make(map[string]int)
	for i, doc := range docs {
		counts[i] = make(map[string]int)
		for _, term := range v.terms(doc) {
			counts[i][term]++
			total[term]++
		}
		for term := range counts[i] {
			df[term]++
		}
	}

	vocab := make([]string, 0, len(df))
	n := len(docs)
	for term, d := range df {
		// Document-frequency bounds are inert for a single document.
		if n > 1 && (d < v.minDF || float64(d) > v.maxDF*float64(n)) {
			continue
		}
		vocab = append(vocab, term)
	}
	if len(vocab) == 0 {
		return nil
	}

	slices.SortFunc(vocab, func(a, b string) int {
		if total[a] != total[b] {
			return total[b] - total[a]
		}
		return strings.Compare(a, b)
	})
	if v.maxFeatures > 0 && len(vocab) > v.maxFeatures {
		vocab = vocab[:v.maxFeatures]
	}

	vectors := make([]map[string]float64, len(docs))
	for i := range docs {
		vec := make(map[string]float64)
		var norm float64
		for _, term := range vocab {
			c := counts[i][term]
			if c == 0 {
				continue
			}
			idf := math.Log(float64(1+n)/float64(1+df[term])) + 1
			w := float64(c) * idf
			vec[term] = w
			norm += w * w
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for term := range vec {
				vec[term] /= norm
			}
		}
		vectors[i] = vec
	}
	return vectors
}

func (a *Analyzer) vectorizer(maxFeatures int) vectorizer {
	return vectorizer{
		stopWords:   a.stopWords,
		maxFeatures: maxFeatures,
		minDF:       a.cfg.MinDF,
		maxDF:       a.cfg.MaxDF,
	}
}

// extractKeywords ranks terms of text by weight, highest first, ties alphabetical. When no
// term survives, it falls back to lemmatized content tokens in text order.
func (a *Analyzer) extractKeywords(text string) []string {
	cleaned := cleanText(text)

	vectors := a.vectorizer(a.cfg.KeywordLimit).fit([]string{cleaned})
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return a.fallbackKeywords(cleaned)
	}

	ranked := make([]weightedTerm, 0, len(vectors[0]))
	for term, w := range vectors[0] {
		if w > 0 {
			ranked = append(ranked, weightedTerm{term: term, weight: w})
		}
	}
	slices.SortFunc(ranked, func(x, y weightedTerm) int {
		switch {
		case x.weight > y.weight:
			return -1
		case x.weight < y.weight:
			return 1
		}
		return strings.Compare(x.term, y.term)
	})

	keywords := make([]string, 0, len(ranked))
	for _, t := range ranked {
		keywords = append(keywords, t.term)
	}
	return keywords
}

func (a *Analyzer) fallbackKeywords(cleaned string) []string {
	var words []string
	ann, err := a.tagger.Annotate(cleaned)
	if err == nil && ann.Tokens != nil {
		for _, tok := range ann.Tokens {
			words = append(words, tok.Text)
		}
	} else {
		words = strings.Fields(cleaned)
	}

	keywords := []string{}
	seen := make(map[string]struct{})
	for _, w := range words {
		if utf8.RuneCountInString(w) <= 2 || isPunct(w) {
			continue
		}
		if _, stop := a.stopWords[strings.ToLower(w)]; stop {
			continue
		}
		lemma := strings.ToLower(a.lemmatizer.Lemma(w))
		if lemma == "" {
			lemma = strings.ToLower(w)
		}
		if _, ok := seen[lemma]; ok {
			continue
		}
		seen[lemma] = struct{}{}
		keywords = append(keywords, lemma)
	}
	return keywords
}

func isPunct(s string) bool {
	for _, r := range s {
		if !unicode.IsPunct(r) && !unicode.IsSymbol(r) {
			return false
		}
	}
	return true
}

// Similarity is the cosine similarity of the TF-IDF vectors of a and b, fitted together as a
// two-document corpus. Degenerate input scores 0.
func (a *Analyzer) Similarity(x, y string) float64 {
	v := vectorizer{stopWords: a.stopWords, minDF: 1, maxDF: 1}
	vectors := v.fit([]string{cleanText(x), cleanText(y)})
	if len(vectors) != 2 {
		return 0
	}

	var dot float64
	for term, w := range vectors[0] {
		dot += w * vectors[1][term]
	}
	return math.Min(1, math.Max(0, dot))
}
