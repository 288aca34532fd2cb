package output

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"syl-grep/internal/app"
	"syl-grep/internal/search"
	"syl-grep/internal/source"
	"syl-grep/internal/textutil"
)

type Options struct {
	Search     search.Config
	MaxColumns int
	// Partial 读失败的文件也输出失败前的结果
	Partial bool
}

// Line 一行输出；Diagnostic 为 true 时写到 stderr。
type Line struct {
	Text       string
	Diagnostic bool
}

// Render 模式优先级：-l 高于 -c 高于逐行输出。多文件时才加文件名前缀。
func Render(rep app.Report, opts Options) []Line {
	multi := len(rep.Entries) > 1
	listed := listedFiles{}
	out := make([]Line, 0, len(rep.Entries))
	for _, e := range rep.Entries {
		if e.Failed() {
			if opts.Partial && e.Partial() && listed.first(opts, e.FileID) {
				out = append(out, renderResult(e.Result, opts, multi)...)
			}
			out = append(out, Line{Text: source.Label(e.FileID) + ": " + app.ErrorDetail(e.Err), Diagnostic: true})
			continue
		}
		if e.Result.HasMatch() && !listed.first(opts, e.FileID) {
			continue
		}
		out = append(out, renderResult(e.Result, opts, multi)...)
	}
	return out
}

// listedFiles -l 下同一个文件（重复参数、通配符与字面路径重叠）只列一次。
type listedFiles map[string]bool

// first 非 -l 模式恒为 true；-l 模式下只有第一次见到该文件时为 true。
func (l listedFiles) first(opts Options, id string) bool {
	if !opts.Search.FilenamesOnly {
		return true
	}
	key := id
	if id != source.Stdin {
		key = filepath.Clean(id)
	}
	if l[key] {
		return false
	}
	l[key] = true
	return true
}

func renderResult(r search.FileResult, opts Options, multi bool) []Line {
	label := source.Label(r.FileID)
	switch {
	case opts.Search.FilenamesOnly:
		if r.HasMatch() {
			return []Line{{Text: label}}
		}
		return nil
	case opts.Search.CountOnly:
		if multi {
			return []Line{{Text: label + ":" + strconv.Itoa(r.Count)}}
		}
		return []Line{{Text: strconv.Itoa(r.Count)}}
	}
	lines := make([]Line, 0, len(r.Lines))
	for _, rec := range r.Lines {
		prefix := ""
		if multi {
			prefix = label + ":"
		}
		if opts.Search.ShowLineNumbers {
			prefix += strconv.Itoa(rec.Number) + ":"
		}
		lines = append(lines, Line{Text: prefix + textutil.TruncateWidth(rec.Content, opts.MaxColumns)})
	}
	return lines
}

// WriteText 按顺序写出，诊断行写 stderr。
func WriteText(stdout, stderr io.Writer, lines []Line) error {
	for _, ln := range lines {
		w := stdout
		if ln.Diagnostic {
			w = stderr
		}
		if _, err := fmt.Fprintln(w, ln.Text); err != nil {
			return err
		}
	}
	return nil
}
