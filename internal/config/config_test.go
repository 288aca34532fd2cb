package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
)

func TestExpandEnv(t *testing.T) {
	t.Setenv("GREP_JOBS", "3")
	src := "jobs: ${GREP_JOBS}\nlog_level: ${GREP_LEVEL_UNSET:-debug}\n"
	got, err := expandEnv(src)
	if err != nil {
		t.Fatalf("expand env failed: %v", err)
	}
	if got != "jobs: 3\nlog_level: debug\n" {
		t.Fatalf("unexpected expansion: %q", got)
	}
	if _, err := expandEnv("jobs: ${GREP_SURELY_NOT_SET_VAR}\n"); err == nil {
		t.Fatalf("expected missing env error")
	}
}

func TestLoadKnownFields(t *testing.T) {
	tmp := t.TempDir()
	p := filepath.Join(tmp, "c.yaml")
	body := "search:\n  ignore_case: true\ninput:\n  encoding: gbk\n  exclude: [\"*.log\"]\noutput:\n  format: ndjson\n  max_columns: 80\njobs: 2\n"
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Search.IgnoreCase == nil || !*cfg.Search.IgnoreCase {
		t.Fatalf("unexpected ignore_case: %#v", cfg.Search.IgnoreCase)
	}
	if cfg.Search.WholeWord != nil {
		t.Fatalf("whole_word should stay unset")
	}
	if cfg.Input.Encoding != "gbk" || len(cfg.Input.Exclude) != 1 {
		t.Fatalf("unexpected input: %#v", cfg.Input)
	}
	if cfg.Output.Format != "ndjson" || cfg.Output.MaxColumns == nil || *cfg.Output.MaxColumns != 80 {
		t.Fatalf("unexpected output: %#v", cfg.Output)
	}
	if cfg.Jobs != 2 {
		t.Fatalf("unexpected jobs: %d", cfg.Jobs)
	}
}

func TestLoadRejectsUnknownField(t *testing.T) {
	p := filepath.Join(t.TempDir(), "c.yaml")
	if err := os.WriteFile(p, []byte("search:\n  regex: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(p)
	if err == nil || !strings.Contains(err.Error(), "解析配置文件失败") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(p, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(p); err != nil {
		t.Fatalf("empty config should load: %v", err)
	}
}

func TestLoadMissingFileKeepsCause(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil || !strings.Contains(err.Error(), "读取配置文件失败") {
		t.Fatalf("unexpected err: %v", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("cause lost: %v", err)
	}
}
