package document

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// MaxSize is the largest document accepted.
const MaxSize = 16 << 20

var (
	ErrNoText           = errors.New("no text found in document")
	ErrUnsupported      = errors.New("unsupported document kind")
	ErrTooLarge         = errors.New("document is too large")
	ErrEmpty            = errors.New("document is empty")
	ErrEmptyRequirement = errors.New("job description is required")
	ErrShortRequirement = errors.New("job description is too short")
)

type Kind string

const (
	KindPDF  Kind = "pdf"
	KindDOCX Kind = "docx"
	KindText Kind = "text"
)

// KindOf detects the document kind from the file extension.
func KindOf(path string) (Kind, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return KindPDF, nil
	case ".docx":
		return KindDOCX, nil
	case ".txt", ".md", ".text":
		return KindText, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupported, filepath.Ext(path))
	}
}

// ReadFile validates and extracts the text of the document at path.
func ReadFile(path string) (string, error) {
	kind, err := KindOf(path)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() > MaxSize {
		return "", fmt.Errorf("%w: %d bytes, limit is %d", ErrTooLarge, info.Size(), MaxSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	return Extract(kind, data)
}

// Extract returns the plain text of data. A document without any selectable text, such as a
// scanned PDF, yields ErrNoText.
func Extract(kind Kind, data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmpty
	}
	if len(data) > MaxSize {
		return "", ErrTooLarge
	}

	var (
		text string
		err  error
	)
	switch kind {
	case KindPDF:
		text, err = extractPDF(data)
	case KindDOCX:
		text, err = extractDOCX(data)
	case KindText:
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%w: text is not valid utf-8", ErrUnsupported)
		}
		text = string(data)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupported, kind)
	}
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to read pdf page %d: %w", i, err)
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String(), nil
}

var (
	docxParagraphEnd = regexp.MustCompile(`</w:p>|<w:br/>|<w:tab/>`)
	xmlTag           = regexp.MustCompile(`<[^>]+>`)
)

func extractDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	return xmlToText(doc.Editable().GetContent()), nil
}

func xmlToText(content string) string {
	content = docxParagraphEnd.ReplaceAllString(content, "\n")
	content = xmlTag.ReplaceAllString(content, "")
	return html.UnescapeString(content)
}

// ValidateRequirement trims the job description and rejects it when it is empty or shorter
// than minRunes.
func ValidateRequirement(text string, minRunes int) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyRequirement
	}
	if n := utf8.RuneCountInString(text); n < minRunes {
		return "", fmt.Errorf("%w: %d characters, need at least %d", ErrShortRequirement, n, minRunes)
	}
	return text, nil
}
