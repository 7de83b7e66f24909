package analyzer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

var nounTags = map[string]struct{}{
	"NN":   {},
	"NNS":  {},
	"NNP":  {},
	"NNPS": {},
}

var codeFileSuffixes = []string{".js", ".py"}

var urlPrefixes = []string{"http://", "https://", "www.", "ftp://"}

var topLevelDomains = map[string]struct{}{
	"com": {}, "org": {}, "net": {}, "io": {}, "dev": {}, "ai": {}, "co": {},
	"edu": {}, "gov": {}, "app": {}, "me": {}, "info": {}, "tech": {}, "us": {}, "uk": {},
}

func (a *Analyzer) extractSkills(lower string, tokens []Token) []string {
	found := a.vocabulary.Match(lower)
	for _, tok := range tokens {
		if isSkillToken(tok) {
			found = append(found, strings.ToLower(tok.Text))
		}
	}
	return uniqueSorted(found)
}

// isSkillToken flags acronyms used as nouns (AWS, GCP), links and code file names.
func isSkillToken(tok Token) bool {
	if _, noun := nounTags[tok.Tag]; noun && isUpper(tok.Text) && utf8.RuneCountInString(tok.Text) > 2 {
		return true
	}
	if looksLikeURL(tok.Text) {
		return true
	}
	for _, suffix := range codeFileSuffixes {
		if strings.HasSuffix(tok.Text, suffix) {
			return true
		}
	}
	return false
}

// isUpper reports whether s has at least one cased letter and no lowercase ones.
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			cased = true
		}
	}
	return cased
}

func looksLikeURL(s string) bool {
	lower := strings.ToLower(s)
	for _, prefix := range urlPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	if strings.Contains(lower, "://") {
		return true
	}
	if strings.Contains(lower, "@") {
		return false
	}

	host := strings.TrimRight(lower, "/")
	if idx := strings.Index(host, "/"); idx != -1 {
		host = host[:idx]
	}
	dot := strings.LastIndex(host, ".")
	if dot <= 0 || dot == len(host)-1 {
		return false
	}
	_, ok := topLevelDomains[host[dot+1:]]
	return ok
}
