package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/cockroachdb/errors"

	"syl-grep/internal/app"
	"syl-grep/internal/source"
)

const (
	FormatText   = "text"
	FormatNDJSON = "ndjson"
	FormatJSON   = "json"
)

func ValidateFormat(v string) error {
	switch v {
	case FormatText, FormatNDJSON, FormatJSON:
		return nil
	}
	return errors.Newf("不支持的输出格式：%s（仅支持 text/ndjson/json）", v)
}

type Meta struct {
	Version string
	Args    []string
	Config  string
}

// Events 与 Render 相同的模式优先级，输出结构化事件：meta、逐文件事件、summary。
func Events(rep app.Report, opts Options, meta Meta) []map[string]any {
	s := opts.Search
	events := []map[string]any{{
		"type":        "meta",
		"tool":        "syl-grep",
		"version":     meta.Version,
		"args":        meta.Args,
		"config_path": meta.Config,
		"pattern":     s.Pattern,
		"flags": map[string]bool{
			"ignore_case":        s.CaseInsensitive,
			"invert_match":       s.Invert,
			"word_regexp":        s.WholeWord,
			"count":              s.CountOnly,
			"files_with_matches": s.FilenamesOnly,
			"line_number":        s.ShowLineNumbers,
		},
		"exit_code_policy": map[string]int{"match": 0, "no_match": 1, "failure": 2, "arg_error": 3, "config_error": 4, "internal_error": 5},
	}}

	total, partial := 0, 0
	listed := listedFiles{}
	for _, e := range rep.Entries {
		r := e.Result
		emit := !e.Failed() || (opts.Partial && e.Partial())
		if emit {
			if e.Failed() {
				partial += r.Count
			} else {
				total += r.Count
			}
			path := source.Label(e.FileID)
			switch {
			case s.FilenamesOnly:
				if r.HasMatch() && listed.first(opts, e.FileID) {
					events = append(events, map[string]any{"type": "file", "path": path, "count": r.Count})
				}
			case s.CountOnly:
				events = append(events, map[string]any{"type": "count", "path": path, "count": r.Count})
			default:
				for _, rec := range r.Lines {
					events = append(events, map[string]any{
						"type": "match",
						"path": path,
						"line": rec.Number,
						"text": rec.Content,
					})
				}
			}
		}
		if e.Failed() {
			events = append(events, app.ErrorEvent(e))
		}
	}

	status := rep.Status()
	events = append(events, map[string]any{
		"type":                "summary",
		"total_files":         len(rep.Entries),
		"files_with_matches":  rep.FilesWithMatches,
		"failed_files":        rep.FailedFiles,
		"match_count":         total,
		"partial_match_count": partial,
		"status":              status.String(),
		"exit_code":           int(status),
	})
	return events
}

func Write(w io.Writer, format string, events []map[string]any) error {
	switch format {
	case FormatNDJSON:
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		for _, e := range events {
			if err := enc.Encode(e); err != nil {
				return err
			}
		}
		return nil
	case FormatJSON:
		obj := map[string]any{"events": events}
		b, err := json.MarshalIndent(obj, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	default:
		return errors.Newf("不支持的输出格式：%s", format)
	}
}
