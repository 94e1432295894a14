package loader

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestTOMLLoader(t *testing.T) {
	path := writeFile(t, t.TempDir(), "gradebook.toml", `
watch = true

[logging]
level = "debug"

[display]
recentLimit = 25
`)

	cfg, err := NewTOMLLoader(path).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if v, _ := GetByPath(cfg, "logging.level"); v != "debug" {
		t.Errorf("logging.level = %v, want debug", v)
	}
	if v, _ := GetByPath(cfg, "display.recentLimit"); v != int64(25) {
		t.Errorf("display.recentLimit = %#v, want int64(25)", v)
	}
	if v, _ := GetByPath(cfg, "watch"); v != true {
		t.Errorf("watch = %v, want true", v)
	}
}

func TestTOMLLoaderParseError(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.toml", "[logging\nlevel = 1\n")

	_, err := NewTOMLLoader(path).Load()
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Load() error = %v, want *ParseError", err)
	}
	if perr.Path != path {
		t.Errorf("ParseError.Path = %q, want %q", perr.Path, path)
	}
	if perr.Unwrap() == nil {
		t.Error("ParseError should wrap the decoder error")
	}
}

func TestYAMLLoader(t *testing.T) {
	path := writeFile(t, t.TempDir(), "gradebook.yaml", `
logging:
  level: warn
  format: json
script:
  timeout: 2s
`)

	cfg, err := NewYAMLLoader(path).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if v, _ := GetByPath(cfg, "logging.format"); v != "json" {
		t.Errorf("logging.format = %v, want json", v)
	}
	if v, _ := GetByPath(cfg, "script.timeout"); v != "2s" {
		t.Errorf("script.timeout = %v, want 2s", v)
	}
}

func TestYAMLLoaderFromReader(t *testing.T) {
	cfg, err := NewYAMLLoader("").LoadFromReader(strings.NewReader("watch: false\n"))
	if err != nil {
		t.Fatalf("LoadFromReader() error = %v", err)
	}
	if v, _ := GetByPath(cfg, "watch"); v != false {
		t.Errorf("watch = %v, want false", v)
	}
}

func TestMissingFileIsNotAnError(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"none.toml", "none.yaml"} {
		l, err := ForPath(DefaultFS(), filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("ForPath(%s) error = %v", name, err)
		}
		cfg, err := l.Load()
		if err != nil || cfg != nil {
			t.Errorf("Load(%s) = %v, %v; want nil, nil", name, cfg, err)
		}
	}
}

func TestForPathUnsupported(t *testing.T) {
	if _, err := ForPath(DefaultFS(), "settings.ini"); err == nil {
		t.Error("ForPath(.ini) should fail")
	}
}

func TestEnvLoader(t *testing.T) {
	t.Setenv("GRADEBOOK_LOG_LEVEL", "error")
	t.Setenv("GRADEBOOK_RECENT_LIMIT", "7")
	t.Setenv("GRADEBOOK_SCRIPT_TIMEOUT", "750ms")
	t.Setenv("GRADEBOOK_DISPLAY_PRECISION", "3")
	t.Setenv("GRADEBOOK_WATCH", "yes")
	t.Setenv("OTHER_RECENT_LIMIT", "99")

	cfg, err := NewEnvLoader(DefaultEnvPrefix).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	tests := []struct {
		path string
		want any
	}{
		{"logging.level", "error"},
		{"display.recentLimit", int64(7)},
		{"script.timeout", 750 * time.Millisecond},
		{"display.precision", int64(3)},
		{"watch", true},
	}
	for _, tt := range tests {
		got, ok := GetByPath(cfg, tt.path)
		if !ok || !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s = %#v, want %#v", tt.path, got, tt.want)
		}
	}
}

func TestEnvLoaderDotEnv(t *testing.T) {
	path := writeFile(t, t.TempDir(), ".env", "GRADEBOOK_LOG_LEVEL=debug\nGRADEBOOK_LOG_FORMAT=json\n")
	t.Setenv("GRADEBOOK_LOG_LEVEL", "warn")

	cfg, err := NewEnvLoader(DefaultEnvPrefix).WithDotEnv(path).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if v, _ := GetByPath(cfg, "logging.level"); v != "warn" {
		t.Errorf("logging.level = %v, want warn (process env wins)", v)
	}
	if v, _ := GetByPath(cfg, "logging.format"); v != "json" {
		t.Errorf("logging.format = %v, want json", v)
	}
}

func TestEnvLoaderMissingDotEnv(t *testing.T) {
	l := NewEnvLoader(DefaultEnvPrefix).WithDotEnv(filepath.Join(t.TempDir(), ".env"))
	if _, err := l.Load(); err != nil {
		t.Errorf("Load() error = %v, want nil for missing .env", err)
	}
}

func TestEnvToPath(t *testing.T) {
	l := NewEnvLoader("GRADEBOOK_")
	tests := []struct {
		env  string
		want string
	}{
		{"GRADEBOOK_WATCH", "watch"},
		{"GRADEBOOK_DISPLAY_RECENT_LIMIT", "display.recentLimit"},
		{"GRADEBOOK_SCRIPT_INSTRUCTION_LIMIT", "script.instructionLimit"},
	}
	for _, tt := range tests {
		if got := l.envToPath(tt.env); got != tt.want {
			t.Errorf("envToPath(%q) = %q, want %q", tt.env, got, tt.want)
		}
	}
}

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{
		"logging": map[string]any{"level": "info", "format": "console"},
		"watch":   false,
	}
	src := map[string]any{
		"logging": map[string]any{"level": "debug"},
		"watch":   true,
	}

	got := DeepMerge(dst, src)
	want := map[string]any{
		"logging": map[string]any{"level": "debug", "format": "console"},
		"watch":   true,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DeepMerge() = %v, want %v", got, want)
	}
}
