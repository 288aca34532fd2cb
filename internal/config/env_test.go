package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestApplyEnv(t *testing.T) {
	t.Setenv("SYL_GREP_IGNORE_CASE", "yes")
	t.Setenv("SYL_GREP_MAX_COLUMNS", "120")
	t.Setenv("SYL_GREP_JOBS", "4")
	t.Setenv("SYL_GREP_EXCLUDE", "*.log, ,*.tmp")
	t.Setenv("SYL_GREP_FORMAT", " json ")
	cfg := Config{}
	has, err := ApplyEnv(&cfg, EnvPrefix)
	if err != nil {
		t.Fatalf("apply env failed: %v", err)
	}
	if !has {
		t.Fatalf("expected env values present")
	}
	if cfg.Search.IgnoreCase == nil || !*cfg.Search.IgnoreCase {
		t.Fatalf("bad ignore_case: %#v", cfg.Search.IgnoreCase)
	}
	if cfg.Output.MaxColumns == nil || *cfg.Output.MaxColumns != 120 {
		t.Fatalf("bad max_columns: %#v", cfg.Output.MaxColumns)
	}
	if cfg.Jobs != 4 {
		t.Fatalf("bad jobs: %d", cfg.Jobs)
	}
	if len(cfg.Input.Exclude) != 2 {
		t.Fatalf("bad exclude: %#v", cfg.Input.Exclude)
	}
	if cfg.Output.Format != "json" {
		t.Fatalf("bad format: %q", cfg.Output.Format)
	}
}

func TestApplyEnvInvalidValue(t *testing.T) {
	t.Setenv("TGR_JOBS", "abc")
	if _, err := ApplyEnv(&Config{}, "TGR_"); err == nil {
		t.Fatalf("expected invalid int error")
	}
	t.Setenv("TGR2_WHOLE_WORD", "maybe")
	if _, err := ApplyEnv(&Config{}, "TGR2_"); err == nil {
		t.Fatalf("expected invalid bool error")
	}
}

func TestResolveEnvOverridesFile(t *testing.T) {
	for _, e := range os.Environ() {
		if strings.HasPrefix(e, EnvPrefix) {
			t.Skip("当前环境已存在 SYL_GREP_* 变量，跳过")
		}
	}
	p := filepath.Join(t.TempDir(), "c.yaml")
	if err := os.WriteFile(p, []byte("input:\n  encoding: gbk\nlog_level: info\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, src, err := Resolve(p)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if src != p || cfg.Input.Encoding != "gbk" {
		t.Fatalf("unexpected resolve: %s %#v", src, cfg)
	}

	t.Setenv("SYL_GREP_ENCODING", "latin1")
	cfg, src, err = Resolve(p)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if cfg.Input.Encoding != "latin1" || cfg.LogLevel != "info" {
		t.Fatalf("env should override file only where set: %#v", cfg)
	}
	if !strings.HasSuffix(src, "env://SYL_GREP_*") {
		t.Fatalf("unexpected source: %s", src)
	}
}

func TestResolveWithoutFile(t *testing.T) {
	for _, e := range os.Environ() {
		if strings.HasPrefix(e, EnvPrefix) {
			t.Skip("当前环境已存在 SYL_GREP_* 变量，跳过")
		}
	}
	cfg, src, err := Resolve("")
	if err != nil || src != "default" {
		t.Fatalf("unexpected resolve: %#v %s %v", cfg, src, err)
	}
	if _, _, err := Resolve(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected missing config error")
	}
}
