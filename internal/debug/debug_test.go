package debug

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
)

// capture switches the debug output to a buffer at the given level
// and restores stderr/off when the test ends.
func capture(t *testing.T, lvl int) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	Init(lvl)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		Init(LevelOff)
	})
	return &buf
}

func TestInit_OffPrintsNothing(t *testing.T) {
	buf := capture(t, LevelOff)
	Info("hello %d", 1)
	Value("x", 2)
	Verbose("v")
	Trace("t")
	Error(errors.New("boom"))
	if buf.Len() != 0 {
		t.Errorf("expected no output at level 0, got %q", buf.String())
	}
	if IsEnabled(LevelInfo) {
		t.Error("IsEnabled(LevelInfo) should be false when debug is off")
	}
}

func TestLevels_Filtering(t *testing.T) {
	cases := []struct {
		name  string
		level int
		want  []string
		skip  []string
	}{
		{"info", LevelInfo, []string{"[INFO] i", "[ERROR] e"}, []string{"[LIVE]", "[VERBOSE]", "[TRACE]", "[TAG]"}},
		{"live", LevelLive, []string{"[INFO] i", "[LIVE] l"}, []string{"[VERBOSE]", "[TRACE]"}},
		{"verbose", LevelVerbose, []string{"[LIVE] l", "[VERBOSE] v", "Step 1: s"}, []string{"[TRACE]", "[TAG]"}},
		{"trace", LevelTrace, []string{"[VERBOSE] v", "[TRACE] t", "[TAG] (0028,0010) Rows value=512"}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			buf := capture(t, tc.level)
			Info("i")
			Live("l")
			Verbose("v")
			Step(1, "s")
			Trace("t")
			Tag("Rows", "(0028,0010)", 512)
			Error(errors.New("e"))

			got := buf.String()
			for _, w := range tc.want {
				if !strings.Contains(got, w) {
					t.Errorf("output missing %q:\n%s", w, got)
				}
			}
			for _, s := range tc.skip {
				if strings.Contains(got, s) {
					t.Errorf("output should not contain %q at level %d:\n%s", s, tc.level, got)
				}
			}
		})
	}
}

func TestPrefixAndEnabled(t *testing.T) {
	buf := capture(t, LevelVerbose)
	PrintStruct("cfg", struct{ A int }{A: 4})
	if !strings.Contains(buf.String(), "[RadFOV] ") {
		t.Errorf("missing prefix in %q", buf.String())
	}
	if !strings.Contains(buf.String(), "cfg: {A:4}") {
		t.Errorf("missing struct dump in %q", buf.String())
	}
	if !IsEnabled(LevelLive) || IsEnabled(LevelTrace) {
		t.Error("IsEnabled disagrees with level 3")
	}
}
