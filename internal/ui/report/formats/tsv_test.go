package formats

import (
	"strings"
	"testing"
)

func TestTSVGenerator(t *testing.T) {
	out, err := NewTSVGenerator("/project").Generate(sampleReport())
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected header plus 4 rows, got %d:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "File\tLine\tColumn\tRule") {
		t.Errorf("unexpected header %q", lines[0])
	}
	for _, line := range lines {
		if n := strings.Count(line, "\t"); n != 11 {
			t.Errorf("row has %d tabs, want 11: %q", n, line)
		}
	}
	if !strings.HasPrefix(lines[1], "src/Header.tsx\t4\t9\tcheckJsxText\thardcoded-string\thigh\tfalse\tWelcome back\theader.welcomeBack") {
		t.Errorf("unexpected first row %q", lines[1])
	}
}
