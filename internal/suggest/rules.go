package suggest

import (
	"fmt"
	"strings"
)

const (
	RuleSkills     = "skills"
	RuleRole       = "role_alignment"
	RuleExperience = "experience"
	RuleKeywords   = "keywords"
	RuleEducation  = "education"
	RuleGeneral    = "general"
	RuleExcellence = "excellence"
)

const (
	maxListedSkills   = 5
	maxListedKeywords = 3
)

type rule struct {
	name     string
	enabled  bool
	reason   string
	evaluate func(Input) (Suggestion, bool)
}

func (r *rule) Name() string { return r.name }

func (r *rule) Disable(reason string) {
	r.enabled = false
	r.reason = reason
}

func (r *rule) IsEnabled() bool { return r.enabled }

func (r *rule) DisabledReason() string { return r.reason }

func (r *rule) Evaluate(in Input) (Suggestion, bool) { return r.evaluate(in) }

func newRule(name string, evaluate func(Input) (Suggestion, bool)) Rule {
	return &rule{name: name, enabled: true, evaluate: evaluate}
}

// Default returns a fresh copy of the built-in rules in evaluation order.
func Default() []Rule {
	return []Rule{
		newRule(RuleSkills, missingSkills),
		newRule(RuleRole, roleAlignment),
		newRule(RuleExperience, experienceGap),
		newRule(RuleKeywords, missingKeywords),
		newRule(RuleEducation, educationGap),
		newRule(RuleGeneral, generalTailoring),
		newRule(RuleExcellence, excellentMatch),
	}
}

func missingSkills(in Input) (Suggestion, bool) {
	b := in.Breakdown
	if b.SkillScore >= 70 || len(b.MissingSkills) == 0 {
		return Suggestion{}, false
	}
	return Suggestion{
		Category:    "Skills",
		Priority:    PriorityHigh,
		Suggestion:  "Add these key skills to your resume: " + strings.Join(first(b.MissingSkills, maxListedSkills), ", "),
		Description: "These skills are specifically mentioned in the job description but missing from your resume.",
	}, true
}

func roleAlignment(in Input) (Suggestion, bool) {
	if in.Breakdown.RoleScore >= 60 {
		return Suggestion{}, false
	}
	return Suggestion{
		Category:    "Role Alignment",
		Priority:    PriorityHigh,
		Suggestion:  "Better align your job titles and role descriptions with the target position",
		Description: "Use similar terminology and highlight relevant role responsibilities that match the job description.",
	}, true
}

func experienceGap(in Input) (Suggestion, bool) {
	required := in.Requirement.ExperienceYears
	if in.Breakdown.ExperienceScore >= 70 || required <= in.Candidate.ExperienceYears {
		return Suggestion{}, false
	}
	return Suggestion{
		Category:    "Experience",
		Priority:    PriorityMedium,
		Suggestion:  fmt.Sprintf("Highlight relevant projects or internships to demonstrate %d+ years equivalent experience", required),
		Description: "Include freelance work, personal projects, or volunteer experience that showcases relevant skills.",
	}, true
}

func missingKeywords(in Input) (Suggestion, bool) {
	b := in.Breakdown
	if b.KeywordScore >= 50 || len(b.MissingKeywords) == 0 {
		return Suggestion{}, false
	}
	return Suggestion{
		Category:    "Keywords",
		Priority:    PriorityMedium,
		Suggestion:  "Incorporate these keywords naturally: " + strings.Join(first(b.MissingKeywords, maxListedKeywords), ", "),
		Description: "These terms appear frequently in the job description and should be included in your resume.",
	}, true
}

func educationGap(in Input) (Suggestion, bool) {
	if in.Requirement.EducationLevel <= in.Candidate.EducationLevel {
		return Suggestion{}, false
	}
	return Suggestion{
		Category:    "Education",
		Priority:    PriorityLow,
		Suggestion:  "Consider highlighting relevant certifications or continuing education",
		Description: "If you lack the preferred degree level, emphasize professional certifications and training.",
	}, true
}

func generalTailoring(in Input) (Suggestion, bool) {
	if in.Breakdown.OverallScore >= 80 {
		return Suggestion{}, false
	}
	return Suggestion{
		Category:    "General",
		Priority:    PriorityMedium,
		Suggestion:  "Tailor your resume more specifically to this job description",
		Description: "Use similar language and emphasize experiences that directly relate to the job requirements.",
	}, true
}

func excellentMatch(in Input) (Suggestion, bool) {
	if in.Breakdown.OverallScore < 85 {
		return Suggestion{}, false
	}
	return Suggestion{
		Category:    "Excellent Match",
		Priority:    PriorityLow,
		Suggestion:  "Your resume shows strong alignment with this position!",
		Description: "Consider fine-tuning minor details and ensuring your cover letter reinforces key matching points.",
	}, true
}

func first(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
