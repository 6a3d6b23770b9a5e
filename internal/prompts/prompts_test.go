package prompts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultPopulatesAllSlots(t *testing.T) {
	lib := Default()
	for _, key := range Keys() {
		if strings.TrimSpace(lib.Get(key)) == "" {
			t.Errorf("expected embedded default for slot %q", key)
		}
	}
}

func TestSet(t *testing.T) {
	lib := Default()

	if err := lib.Set(KeyVerifier, "custom"); err != nil {
		t.Fatalf("expected known slot to be settable, got %v", err)
	}
	if got := lib.Get(KeyVerifier); got != "custom" {
		t.Errorf("expected override to stick, got %q", got)
	}

	err := lib.Set("made_up", "text")
	if err == nil {
		t.Fatal("expected unknown slot to be rejected")
	}
	if !strings.Contains(err.Error(), "made_up") {
		t.Errorf("expected error to name the bad slot, got %v", err)
	}
}

func TestGetUnknownSlotIsEmpty(t *testing.T) {
	if got := Default().Get("made_up"); got != "" {
		t.Errorf("expected empty text for unknown slot, got %q", got)
	}
}

func TestLoadOverlaysDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "verifier.txt"), []byte("overlaid verifier"), 0644); err != nil {
		t.Fatal(err)
	}
	// Unrecognized names are ignored, not errors.
	if err := os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("noise"), 0644); err != nil {
		t.Fatal(err)
	}

	lib, err := Load(dir)
	if err != nil {
		t.Fatalf("Load returned unexpected error: %v", err)
	}
	if got := lib.Get(KeyVerifier); got != "overlaid verifier" {
		t.Errorf("expected overlay to win, got %q", got)
	}
	if strings.TrimSpace(lib.Get(KeyRouter)) == "" {
		t.Error("expected untouched slots to keep their embedded defaults")
	}
}

func TestLoadMissingDirectory(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected an error for a missing prompts directory")
	}
}

func TestRender(t *testing.T) {
	testCases := []struct {
		name     string
		template string
		fields   map[string]string
		want     string
	}{
		{
			name:     "Simple substitution",
			template: "Analyze {data_file} for {query}.",
			fields:   map[string]string{"data_file": "sales.csv", "query": "totals"},
			want:     "Analyze sales.csv for totals.",
		},
		{
			name:     "Unknown placeholder left untouched",
			template: "Use {known} and {unknown}.",
			fields:   map[string]string{"known": "x"},
			want:     "Use x and {unknown}.",
		},
		{
			name:     "No fields is identity",
			template: "Plain {text}.",
			fields:   nil,
			want:     "Plain {text}.",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Render(tc.template, tc.fields); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestExtractCode(t *testing.T) {
	testCases := []struct {
		name string
		text string
		want string
	}{
		{
			name: "Python fence preferred",
			text: "Here you go:\n```python\nprint('hi')\n```\nDone.",
			want: "print('hi')",
		},
		{
			name: "Python fence wins over an earlier plain fence",
			text: "```\nnot this\n```\n```python\nprint('hi')\n```",
			want: "print('hi')",
		},
		{
			name: "Plain fence fallback",
			text: "```\nprint('plain')\n```",
			want: "print('plain')",
		},
		{
			name: "Upper-case language tag",
			text: "```PYTHON\nprint('hi')\n```",
			want: "print('hi')",
		},
		{
			name: "No fence returns trimmed text",
			text: "  print('raw')  \n",
			want: "print('raw')",
		},
		{
			name: "Empty input",
			text: "",
			want: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractCode(tc.text); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
