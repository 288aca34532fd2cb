package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func parseNDJSON(t *testing.T, s string) []map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(s), "\n")
	out := make([]map[string]any, 0, len(lines))
	for _, ln := range lines {
		if strings.TrimSpace(ln) == "" {
			continue
		}
		m := map[string]any{}
		if err := json.Unmarshal([]byte(ln), &m); err != nil {
			t.Fatalf("invalid json line %q: %v", ln, err)
		}
		out = append(out, m)
	}
	return out
}

// workspace 在临时目录里准备 a.txt / b.txt 并切换进去，让输出前缀是相对文件名。
func workspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("foo\nbar\nfoobar\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "b.txt"), []byte("baz\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(prev) })
	return dir
}

func runCLI(t *testing.T, stdin io.Reader, args ...string) (int, string, string) {
	t.Helper()
	if stdin == nil {
		stdin = strings.NewReader("")
	}
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	code := run(args, stdin, stdout, stderr)
	return code, stdout.String(), stderr.String()
}

func TestSearchModes(t *testing.T) {
	workspace(t)
	cases := []struct {
		name string
		args []string
		out  string
		code int
	}{
		{"default multi file", []string{"foo", "a.txt", "b.txt"}, "a.txt:foo\na.txt:foobar\n", ExitOK},
		{"count no match", []string{"-c", "qux", "a.txt", "b.txt"}, "a.txt:0\nb.txt:0\n", ExitNoMatch},
		{"line numbers single file", []string{"-n", "bar", "a.txt"}, "2:bar\n3:foobar\n", ExitOK},
		{"combined short flags", []string{"-ic", "FOO", "a.txt", "b.txt"}, "a.txt:2\nb.txt:0\n", ExitOK},
		{"files with inverted matches", []string{"-lv", "foo", "a.txt", "b.txt"}, "a.txt\nb.txt\n", ExitOK},
		{"whole word", []string{"-w", "foo", "a.txt"}, "foo\n", ExitOK},
		{"invert with line numbers", []string{"-vn", "foo", "a.txt", "b.txt"}, "a.txt:2:bar\nb.txt:1:baz\n", ExitOK},
		{"no match", []string{"qux", "a.txt"}, "", ExitNoMatch},
		{"long flags", []string{"--ignore-case", "--line-number", "BAZ", "b.txt"}, "1:baz\n", ExitOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, out, errOut := runCLI(t, nil, tc.args...)
			if code != tc.code {
				t.Fatalf("exit code %d want %d (stderr=%q)", code, tc.code, errOut)
			}
			if out != tc.out {
				t.Fatalf("stdout %q want %q", out, tc.out)
			}
		})
	}
}

func TestStdinDash(t *testing.T) {
	workspace(t)
	code, out, _ := runCLI(t, strings.NewReader("x\nbar\n"), "bar", "-")
	if code != ExitOK || out != "bar\n" {
		t.Fatalf("unexpected: %d %q", code, out)
	}
	code, out, _ = runCLI(t, strings.NewReader("bar\n"), "bar", "-", "b.txt")
	if code != ExitOK || out != "(standard input):bar\n" {
		t.Fatalf("unexpected: %d %q", code, out)
	}
}

func TestFileErrorsDoNotAbort(t *testing.T) {
	workspace(t)
	code, out, errOut := runCLI(t, nil, "foo", "missing.txt", "a.txt")
	if code != ExitOK {
		t.Fatalf("exit code %d", code)
	}
	if out != "a.txt:foo\na.txt:foobar\n" {
		t.Fatalf("stdout %q", out)
	}
	if !strings.Contains(errOut, "missing.txt: 文件不存在") {
		t.Fatalf("stderr %q", errOut)
	}
}

func TestAllFilesFailed(t *testing.T) {
	workspace(t)
	code, out, errOut := runCLI(t, nil, "foo", "missing.txt", "gone.txt")
	if code != ExitFailure {
		t.Fatalf("exit code %d", code)
	}
	if out != "" || !strings.Contains(errOut, "gone.txt: 文件不存在") {
		t.Fatalf("unexpected: %q %q", out, errOut)
	}
}

func TestArgumentErrors(t *testing.T) {
	workspace(t)
	cases := []struct {
		name string
		args []string
		code int
	}{
		{"no args", nil, ExitArg},
		{"missing files", []string{"foo"}, ExitArg},
		{"unknown flag", []string{"--nope", "foo", "a.txt"}, ExitArg},
		{"empty pattern", []string{"", "a.txt"}, ExitConfig},
		{"empty pattern with every input excluded", []string{"", "a.txt", "--exclude", "a.txt"}, ExitConfig},
		{"bad format", []string{"--format", "xml", "foo", "a.txt"}, ExitArg},
		{"bad encoding", []string{"--encoding", "ebcdic", "foo", "a.txt"}, ExitArg},
		{"bad size", []string{"--max-file-size", "huge", "foo", "a.txt"}, ExitArg},
		{"bad jobs", []string{"--jobs", "0", "foo", "a.txt"}, ExitArg},
		{"bad log level", []string{"--log-level", "loud", "foo", "a.txt"}, ExitArg},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, _, errOut := runCLI(t, nil, tc.args...)
			if code != tc.code {
				t.Fatalf("exit code %d want %d", code, tc.code)
			}
			if !strings.Contains(errOut, "syl-grep: ") {
				t.Fatalf("missing diagnostic: %q", errOut)
			}
		})
	}
}

func TestVersionFlag(t *testing.T) {
	code, out, _ := runCLI(t, nil, "--version")
	if code != ExitOK || !strings.Contains(out, "syl-grep 版本：") {
		t.Fatalf("unexpected: %d %q", code, out)
	}
}

func TestNDJSONOutput(t *testing.T) {
	workspace(t)
	code, out, _ := runCLI(t, nil, "--format", "ndjson", "-n", "foo", "a.txt", "missing.txt")
	if code != ExitOK {
		t.Fatalf("exit code %d", code)
	}
	events := parseNDJSON(t, out)
	var types []string
	for _, e := range events {
		types = append(types, e["type"].(string))
	}
	if strings.Join(types, ",") != "meta,match,match,error,summary" {
		t.Fatalf("unexpected events: %v", types)
	}
	if events[1]["line"] != float64(1) || events[2]["text"] != "foobar" {
		t.Fatalf("unexpected match events: %#v", events[1:3])
	}
	sum := events[len(events)-1]
	if sum["exit_code"] != float64(0) || sum["failed_files"] != float64(1) {
		t.Fatalf("unexpected summary: %#v", sum)
	}
}

func TestCLIErrorAsNDJSON(t *testing.T) {
	code, out, errOut := runCLI(t, nil, "--format=ndjson", "")
	if code != ExitArg {
		t.Fatalf("exit code %d", code)
	}
	if errOut != "" {
		t.Fatalf("structured error should not go to stderr: %q", errOut)
	}
	events := parseNDJSON(t, out)
	var errEvent map[string]any
	for _, e := range events {
		if e["type"] == "error" {
			errEvent = e
		}
	}
	if errEvent == nil || errEvent["code"] != "arg_missing_files" || errEvent["category"] != "arg" {
		t.Fatalf("unexpected events: %#v", events)
	}
}

func TestStdinReadOnceWithJobs(t *testing.T) {
	workspace(t)
	body := strings.Repeat("bar\n", 20000)
	code, out, _ := runCLI(t, strings.NewReader(body), "-c", "bar", "-", "-", "--jobs", "4")
	if code != ExitOK {
		t.Fatalf("exit code %d", code)
	}
	if out != "(standard input):20000\n(standard input):0\n" {
		t.Fatalf("stdout %q", out)
	}
}

func TestFilesWithMatchesNoDuplicates(t *testing.T) {
	workspace(t)
	code, out, _ := runCLI(t, nil, "-l", "ba", "a.txt", "*.txt", "a.txt")
	if code != ExitOK || out != "a.txt\nb.txt\n" {
		t.Fatalf("unexpected: %d %q", code, out)
	}
}
