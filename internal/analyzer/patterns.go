package analyzer

import (
	"regexp"
	"strconv"
	"strings"
)

// Overlapping matches are expected; only the maximum survives.
var experiencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+)[\+\-\s]*(?:to|\-|–)?\s*(\d+)?\s*(?:years?|yrs?)\s*(?:of\s*)?(?:experience|exp)`),
	regexp.MustCompile(`(\d+)[\+\-\s]*(?:years?|yrs?)\s*(?:of\s*)?(?:experience|exp)`),
	regexp.MustCompile(`(\d+)[\+\-\s]*(?:to|\-|–)?\s*(\d+)?\s*(?:years?|yrs?)`),
}

type educationRule struct {
	terms []string
	level EducationLevel
}

// Evaluated top-down, first match wins.
var educationLadder = []educationRule{
	{terms: []string{"phd", "doctorate"}, level: EducationDoctorate},
	{terms: []string{"master", "mba"}, level: EducationMaster},
	{terms: []string{"bachelor"}, level: EducationBachelor},
	{terms: []string{"degree", "university", "college"}, level: EducationMention},
}

var rolePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:senior|junior|lead|principal|staff)?\s*(?:software|web|data|machine learning|ai|backend|frontend|full[\-\s]?stack)?\s*(?:engineer|developer|analyst|scientist|architect|manager|director)`),
	regexp.MustCompile(`(?:product|project|program)\s*manager`),
	regexp.MustCompile(`(?:data|business|financial|marketing)\s*analyst`),
	regexp.MustCompile(`(?:ui|ux|graphic)\s*designer`),
}

var roleEntityKeywords = []string{"engineer", "developer", "manager", "analyst"}

// Labels as emitted by the prose English model.
var roleEntityLabels = map[string]struct{}{
	"PERSON":       {},
	"ORGANIZATION": {},
}

// extractExperienceYears returns the largest number captured by any experience pattern.
func extractExperienceYears(lower string) int {
	years := 0
	for _, pattern := range experiencePatterns {
		for _, match := range pattern.FindAllStringSubmatch(lower, -1) {
			for _, group := range match[1:] {
				if group == "" {
					continue
				}
				n, err := strconv.Atoi(group)
				if err != nil {
					continue
				}
				years = max(years, n)
			}
		}
	}
	return years
}

func extractEducationLevel(lower string) EducationLevel {
	for _, rule := range educationLadder {
		for _, term := range rule.terms {
			if strings.Contains(lower, term) {
				return rule.level
			}
		}
	}
	return EducationNone
}

// extractJobRoles combines the title templates with entities the tagger mislabelled as
// people or organizations but that read like job titles.
func extractJobRoles(lower string, entities []Entity) []string {
	var roles []string
	for _, pattern := range rolePatterns {
		roles = append(roles, pattern.FindAllString(lower, -1)...)
	}

	for _, ent := range entities {
		if _, ok := roleEntityLabels[ent.Label]; !ok {
			continue
		}
		text := strings.ToLower(ent.Text)
		for _, keyword := range roleEntityKeywords {
			if strings.Contains(text, keyword) {
				roles = append(roles, text)
				break
			}
		}
	}

	normalized := make([]string, 0, len(roles))
	for _, role := range roles {
		if role = normalizeRole(role); role != "" {
			normalized = append(normalized, role)
		}
	}
	return uniqueSorted(normalized)
}

func normalizeRole(role string) string {
	return strings.Join(strings.Fields(strings.ToLower(role)), " ")
}
