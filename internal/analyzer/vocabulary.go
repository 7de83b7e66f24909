package analyzer

import (
	"slices"
	"strings"
)

// Category is a named group of skill terms.
type Category struct {
	Name  string
	Terms []string
}

// Vocabulary is the categorized list of known skill terms. It is never mutated after
// construction; Merge returns a new value.
type Vocabulary struct {
	categories []Category
	index      map[string]string
}

var defaultCategories = []Category{
	{Name: "programming", Terms: []string{"python", "java", "javascript", "c++", "c#", "php", "ruby", "go", "swift", "kotlin", "scala", "r"}},
	{Name: "web", Terms: []string{"html", "css", "react", "angular", "vue", "node.js", "express", "django", "flask", "spring"}},
	{Name: "database", Terms: []string{"sql", "mysql", "postgresql", "mongodb", "oracle", "sqlite", "redis", "elasticsearch"}},
	{Name: "cloud", Terms: []string{"aws", "azure", "gcp", "docker", "kubernetes", "terraform", "jenkins"}},
	{Name: "data", Terms: []string{"pandas", "numpy", "scikit-learn", "tensorflow", "pytorch", "tableau", "power bi"}},
	{Name: "tools", Terms: []string{"git", "jira", "confluence", "slack", "trello", "notion"}},
}

// DefaultVocabulary returns the built-in skill vocabulary.
func DefaultVocabulary() *Vocabulary {
	return newVocabulary(defaultCategories)
}

func newVocabulary(categories []Category) *Vocabulary {
	v := &Vocabulary{
		categories: make([]Category, 0, len(categories)),
		index:      make(map[string]string),
	}
	for _, c := range categories {
		terms := make([]string, 0, len(c.Terms))
		for _, term := range c.Terms {
			term = strings.ToLower(strings.TrimSpace(term))
			if term == "" {
				continue
			}
			if _, ok := v.index[term]; ok {
				continue
			}
			v.index[term] = c.Name
			terms = append(terms, term)
		}
		v.categories = append(v.categories, Category{Name: c.Name, Terms: terms})
	}
	return v
}

// Merge returns a vocabulary extended with extra terms. Terms for an existing category are
// appended to it; unknown categories are added after the built-in ones in name order.
func (v *Vocabulary) Merge(extra map[string][]string) *Vocabulary {
	if len(extra) == 0 {
		return v
	}

	categories := make([]Category, 0, len(v.categories)+len(extra))
	for _, c := range v.categories {
		categories = append(categories, Category{Name: c.Name, Terms: slices.Clone(c.Terms)})
	}

	names := make([]string, 0, len(extra))
	for name := range extra {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		idx := slices.IndexFunc(categories, func(c Category) bool { return c.Name == key })
		if idx == -1 {
			categories = append(categories, Category{Name: key})
			idx = len(categories) - 1
		}
		categories[idx].Terms = append(categories[idx].Terms, extra[name]...)
	}

	return newVocabulary(categories)
}

// Match returns every vocabulary term found as a substring of lower. The text must already be
// lowercased. Containment is deliberately naive: short terms such as "r" or "go" hit inside
// unrelated words.
func (v *Vocabulary) Match(lower string) []string {
	var found []string
	for _, c := range v.categories {
		for _, term := range c.Terms {
			if strings.Contains(lower, term) {
				found = append(found, term)
			}
		}
	}
	return found
}

// Category returns the category of a known term or an empty string.
func (v *Vocabulary) Category(term string) string {
	return v.index[strings.ToLower(strings.TrimSpace(term))]
}

// Categories returns a copy of the categories in evaluation order.
func (v *Vocabulary) Categories() []Category {
	out := make([]Category, 0, len(v.categories))
	for _, c := range v.categories {
		out = append(out, Category{Name: c.Name, Terms: slices.Clone(c.Terms)})
	}
	return out
}

// Len returns the number of distinct terms.
func (v *Vocabulary) Len() int {
	return len(v.index)
}
