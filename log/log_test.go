package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setupLogDir(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	SetDir(tmp)
	t.Cleanup(func() { Close(); SetDir("") })
	return tmp
}

func TestResolveDir(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		flag string
		env  string
		want string
	}{
		{"absolute flag", "/tmp/mylog", "", "/tmp/mylog"},
		{"relative flag", "logs", "", filepath.Join(wd, "logs")},
		{"env fallback", "", "/tmp/stt-env-log", "/tmp/stt-env-log"},
		{"flag beats env", "/tmp/flagged", "/tmp/from-env", "/tmp/flagged"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("STT_LOG_PATH", tt.env)
			got, err := ResolveDir(tt.flag)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("ResolveDir(%q) = %q, want %q", tt.flag, got, tt.want)
			}
		})
	}
}

func TestResolveDirDefault(t *testing.T) {
	t.Setenv("STT_LOG_PATH", "")
	got, err := ResolveDir("")
	if err != nil {
		t.Fatal(err)
	}
	if got == "" {
		t.Error("expected a platform default directory")
	}
	if !strings.Contains(got, "stt") {
		t.Errorf("default dir %q should live under an stt directory", got)
	}
}

func TestInitCreatesFiles(t *testing.T) {
	tmp := setupLogDir(t)

	if err := Init(); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"diagnostics_log.txt", "transcribe_log.txt"} {
		if _, err := os.Stat(filepath.Join(tmp, name)); err != nil {
			t.Errorf("%s not created: %v", name, err)
		}
	}
}

func TestTranscriptionText(t *testing.T) {
	tmp := setupLogDir(t)
	if err := Init(); err != nil {
		t.Fatal(err)
	}

	TranscriptionText("hello world")

	data, err := os.ReadFile(filepath.Join(tmp, "transcribe_log.txt"))
	if err != nil {
		t.Fatal(err)
	}
	line := string(data)
	if !strings.Contains(line, "hello world") {
		t.Errorf("transcript line missing text: %q", line)
	}
	if !strings.Contains(line, "\t") {
		t.Errorf("transcript line not tab-separated: %q", line)
	}
}

func TestCloseIdempotent(t *testing.T) {
	setupLogDir(t)
	if err := Init(); err != nil {
		t.Fatal(err)
	}
	Close()
	Close() // must not panic
}
