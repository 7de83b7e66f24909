package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spigell/resume-fit/internal/ai"
	"github.com/spigell/resume-fit/internal/matching"
)

// Format selects how a report is rendered.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

const maxListedKeywords = 20

// Report is the presentation view of one analysis.
type Report struct {
	*matching.Result
	Review *ai.Review `json:"review,omitempty"`
}

func New(result *matching.Result, review *ai.Review) *Report {
	return &Report{Result: result, Review: review}
}

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown report format %q", s)
	}
}

// Write renders the report in the given format.
func (r *Report) Write(w io.Writer, format Format) error {
	if format == FormatJSON {
		return r.WriteJSON(w)
	}
	return r.WriteText(w)
}

func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func (r *Report) WriteText(w io.Writer) error {
	b := r.Breakdown

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Analysis\t%s\n", r.ID)
	fmt.Fprintf(tw, "Overall fit\t%d/100\n", b.OverallScore)
	fmt.Fprintf(tw, "  Skills\t%d\n", b.SkillScore)
	fmt.Fprintf(tw, "  Role\t%d\n", b.RoleScore)
	fmt.Fprintf(tw, "  Experience & education\t%d\n", b.ExperienceScore)
	fmt.Fprintf(tw, "  Keywords\t%d\n", b.KeywordScore)
	fmt.Fprintf(tw, "Text similarity\t%.2f\n", r.TextSimilarity)
	if err := tw.Flush(); err != nil {
		return err
	}

	if err := writeSection(w, "Matched keywords", b.MatchedKeywords); err != nil {
		return err
	}
	if err := writeSection(w, "Missing keywords", b.MissingKeywords); err != nil {
		return err
	}
	if err := r.writeCategories(w); err != nil {
		return err
	}
	if err := r.WriteSuggestions(w); err != nil {
		return err
	}
	return r.writeReview(w)
}

// WriteSuggestions renders suggestions in generation order.
func (r *Report) WriteSuggestions(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "\nSuggestions (%d)\n", len(r.Suggestions)); err != nil {
		return err
	}
	for i, s := range r.Suggestions {
		if _, err := fmt.Fprintf(w, "%d. [%s] %s: %s\n   %s\n", i+1, s.Priority, s.Category, s.Suggestion, s.Description); err != nil {
			return err
		}
	}
	return nil
}

// WriteKeywords renders the top keywords of both texts side by side.
func (r *Report) WriteKeywords(w io.Writer) error {
	if err := writeSection(w, "Resume keywords", first(r.Candidate.Keywords, maxListedKeywords)); err != nil {
		return err
	}
	return writeSection(w, "Job description keywords", first(r.Requirement.Keywords, maxListedKeywords))
}

func (r *Report) writeCategories(w io.Writer) error {
	if len(r.MatchedByCategory) == 0 {
		return nil
	}
	names := r.CategoryOrder
	if len(names) != len(r.MatchedByCategory) {
		names = make([]string, 0, len(r.MatchedByCategory))
		for name := range r.MatchedByCategory {
			names = append(names, name)
		}
		slices.Sort(names)
	}

	if _, err := fmt.Fprintln(w, "\nMatched skills by category"); err != nil {
		return err
	}
	for _, name := range names {
		if _, err := fmt.Fprintf(w, "  %s: %s\n", name, strings.Join(r.MatchedByCategory[name], ", ")); err != nil {
			return err
		}
	}
	return nil
}

func (r *Report) writeReview(w io.Writer) error {
	if r.Review == nil {
		return nil
	}
	if _, err := fmt.Fprintf(w, "\nAI review\n  %s\n", r.Review.Summary); err != nil {
		return err
	}
	for _, tip := range r.Review.Tips {
		if _, err := fmt.Fprintf(w, "  - %s\n", tip); err != nil {
			return err
		}
	}
	return nil
}

func writeSection(w io.Writer, title string, items []string) error {
	value := "none"
	if len(items) > 0 {
		value = strings.Join(items, ", ")
	}
	_, err := fmt.Fprintf(w, "\n%s (%d)\n  %s\n", title, len(items), value)
	return err
}

func first(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

// DumpToTmpFile writes the JSON report to a new temporary file and returns its name.
func (r *Report) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "resume-fit_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	if err := r.WriteJSON(file); err != nil {
		return "", err
	}
	return file.Name(), nil
}
