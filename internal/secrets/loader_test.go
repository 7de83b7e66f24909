package secrets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	keyFile := filepath.Join(dir, "key")
	if err := os.WriteFile(keyFile, []byte("  from-file\n"), 0o600); err != nil {
		t.Fatalf("writing key file: %v", err)
	}
	emptyFile := filepath.Join(dir, "empty")
	if err := os.WriteFile(emptyFile, []byte("\n"), 0o600); err != nil {
		t.Fatalf("writing empty file: %v", err)
	}

	t.Setenv("RESUME_FIT_TEST_KEY", " from-env ")

	tests := []struct {
		name    string
		src     Source
		expect  string
		errPart string
	}{
		{name: "file wins", src: Source{File: keyFile, Value: "inline", Env: "RESUME_FIT_TEST_KEY"}, expect: "from-file"},
		{name: "inline before env", src: Source{Value: " inline ", Env: "RESUME_FIT_TEST_KEY"}, expect: "inline"},
		{name: "env", src: Source{Env: "RESUME_FIT_TEST_KEY"}, expect: "from-env"},
		{name: "empty env", src: Source{Name: "gemini api key", Env: "RESUME_FIT_TEST_UNSET"}, errPart: "gemini api key is not configured (RESUME_FIT_TEST_UNSET is empty)"},
		{name: "empty file", src: Source{File: emptyFile}, errPart: "is empty"},
		{name: "missing file", src: Source{File: filepath.Join(dir, "missing")}, errPart: "reading secret from file"},
		{name: "nothing", src: Source{}, errPart: "secret is not configured"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.src)
			if tt.errPart != "" {
				if err == nil || !strings.Contains(err.Error(), tt.errPart) {
					t.Fatalf("expected error containing %q, got %v", tt.errPart, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}
