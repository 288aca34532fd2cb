package scan

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cockroachdb/errors"

	"syl-grep/internal/source"
)

var (
	ErrNoGlobMatch = errors.New("通配符没有匹配到任何文件")
	ErrBadPattern  = errors.New("通配符语法错误")
)

type Options struct {
	Paths   []string
	CWD     string
	Exclude []string
}

// Target 一个待搜索的文件；Err 非空表示在打开之前就已失败。
type Target struct {
	ID  string
	Err error
}

// Collect 按输入顺序展开路径，不去重、不递归目录。
func Collect(opts Options) []Target {
	out := make([]Target, 0, len(opts.Paths))
	for _, in := range opts.Paths {
		if in == source.Stdin {
			out = append(out, Target{ID: in})
			continue
		}
		if !hasMeta(in) || exists(in) {
			if !isExcluded(in, opts) {
				out = append(out, Target{ID: in})
			}
			continue
		}
		matches, err := doublestar.FilepathGlob(in, doublestar.WithFilesOnly())
		if err != nil {
			out = append(out, Target{ID: in, Err: errors.Mark(errors.Wrapf(err, "%s", in), ErrBadPattern)})
			continue
		}
		if len(matches) == 0 {
			out = append(out, Target{ID: in, Err: ErrNoGlobMatch})
			continue
		}
		sort.Strings(matches)
		for _, m := range matches {
			if isExcluded(m, opts) {
				continue
			}
			out = append(out, Target{ID: m})
		}
	}
	return out
}

// IDs 只取标识，顺序不变。
func IDs(targets []Target) []string {
	ids := make([]string, 0, len(targets))
	for _, t := range targets {
		ids = append(ids, t.ID)
	}
	return ids
}

// ValidatePatterns 提前发现 --exclude 里的语法错误。
func ValidatePatterns(patterns []string) error {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return errors.Newf("--exclude 通配符无效：%s", p)
		}
	}
	return nil
}

func hasMeta(p string) bool {
	return strings.ContainsAny(p, "*?[{")
}

func exists(p string) bool {
	_, err := os.Lstat(p)
	return err == nil
}

func isExcluded(path string, opts Options) bool {
	slashed := filepath.ToSlash(path)
	rel := ""
	if opts.CWD != "" {
		abs, err := filepath.Abs(path)
		if err == nil {
			if r, rerr := filepath.Rel(opts.CWD, abs); rerr == nil && !strings.HasPrefix(r, "..") {
				rel = filepath.ToSlash(r)
			}
		}
	}
	base := filepath.Base(path)
	for _, p := range opts.Exclude {
		if ok, err := doublestar.Match(p, slashed); err == nil && ok {
			return true
		}
		if rel != "" {
			if ok, err := doublestar.Match(p, rel); err == nil && ok {
				return true
			}
		}
		if !strings.Contains(p, "/") {
			if ok, err := doublestar.Match(p, base); err == nil && ok {
				return true
			}
		}
	}
	return false
}
