package analyzer

// Role tags a text with the side of the comparison it belongs to.
type Role string

const (
	RoleCandidate   Role = "candidate"
	RoleRequirement Role = "requirement"
)

// EducationLevel is the highest education signal found in a text.
type EducationLevel int

const (
	EducationNone EducationLevel = iota
	EducationMention
	EducationBachelor
	EducationMaster
	EducationDoctorate
)

func (l EducationLevel) String() string {
	switch l {
	case EducationMention:
		return "mention"
	case EducationBachelor:
		return "bachelor"
	case EducationMaster:
		return "master"
	case EducationDoctorate:
		return "doctorate"
	default:
		return "none"
	}
}

// SignalBundle holds everything extracted from a single text.
type SignalBundle struct {
	Role            Role           `json:"role"`
	Skills          []string       `json:"skills"`
	ExperienceYears int            `json:"experience_years"`
	EducationLevel  EducationLevel `json:"education_level"`
	JobRoles        []string       `json:"job_roles"`
	// Keywords are ordered by relevance, most relevant first.
	Keywords      []string `json:"keywords"`
	WordCount     int      `json:"word_count"`
	SentenceCount int      `json:"sentence_count"`
}

// IsZero reports whether nothing was extracted.
func (b SignalBundle) IsZero() bool {
	return len(b.Skills) == 0 &&
		b.ExperienceYears == 0 &&
		b.EducationLevel == EducationNone &&
		len(b.JobRoles) == 0 &&
		len(b.Keywords) == 0 &&
		b.WordCount == 0 &&
		b.SentenceCount == 0
}

func emptyBundle(role Role) SignalBundle {
	return SignalBundle{
		Role:     role,
		Skills:   []string{},
		JobRoles: []string{},
		Keywords: []string{},
	}
}
