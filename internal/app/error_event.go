package app

import (
	"github.com/cockroachdb/errors"

	"syl-grep/internal/scan"
	"syl-grep/internal/search"
	"syl-grep/internal/source"
)

type errorHint struct {
	NextAction  string
	FixExample  string
	DocKey      string
	Recoverable bool
}

// ErrorCode 把单文件错误归到稳定的错误码。
func ErrorCode(err error) string {
	var de *source.DecodeError
	var rf *search.ReadFailure
	switch {
	case errors.Is(err, source.ErrNotFound):
		return "file_not_found"
	case errors.Is(err, source.ErrPermission):
		return "permission_denied"
	case errors.Is(err, source.ErrIsDir):
		return "is_directory"
	case errors.Is(err, source.ErrTooLarge):
		return "skipped_large_file"
	case errors.Is(err, source.ErrOpen):
		return "file_open_failed"
	case errors.Is(err, scan.ErrNoGlobMatch):
		return "glob_no_match"
	case errors.Is(err, scan.ErrBadPattern):
		return "glob_invalid"
	case errors.As(err, &de):
		return "decode_failed"
	case errors.As(err, &rf):
		return "file_read_failed"
	default:
		return "file_error"
	}
}

// ErrorDetail 诊断行里文件名之后的部分。
func ErrorDetail(err error) string {
	var rf *search.ReadFailure
	if errors.As(err, &rf) {
		return "读取中断：" + rf.Err.Error()
	}
	return err.Error()
}

func ErrorEvent(e Entry) map[string]any {
	code := ErrorCode(e.Err)
	h := hintByCode(code)
	return map[string]any{
		"type":          "error",
		"code":          code,
		"category":      "input",
		"path":          source.Label(e.FileID),
		"detail":        ErrorDetail(e.Err),
		"partial_count": e.Result.Count,
		"next_action":   h.NextAction,
		"fix_example":   h.FixExample,
		"doc_key":       h.DocKey,
		"recoverable":   h.Recoverable,
	}
}

func hintByCode(code string) errorHint {
	switch code {
	case "file_not_found", "glob_no_match":
		return errorHint{
			NextAction:  "确认路径存在且拼写正确，再重试",
			FixExample:  "syl-grep pattern /path/to/file.txt",
			DocKey:      "input.path_not_found",
			Recoverable: true,
		}
	case "glob_invalid":
		return errorHint{
			NextAction:  "修正通配符语法（doublestar 语法，如 **/*.log）",
			FixExample:  "syl-grep pattern 'logs/*.log'",
			DocKey:      "input.glob_invalid",
			Recoverable: true,
		}
	case "permission_denied", "file_open_failed", "file_read_failed":
		return errorHint{
			NextAction:  "检查文件权限和可读性",
			FixExample:  "chmod +r /path/to/file.txt && syl-grep pattern /path/to/file.txt",
			DocKey:      "input.path_access",
			Recoverable: true,
		}
	case "is_directory":
		return errorHint{
			NextAction:  "不支持递归目录，请传入具体文件或使用通配符",
			FixExample:  "syl-grep pattern 'dir/*.txt'",
			DocKey:      "input.is_directory",
			Recoverable: true,
		}
	case "skipped_large_file":
		return errorHint{
			NextAction:  "增大 --max-file-size，或排除该大文件",
			FixExample:  "syl-grep pattern /path/to/file.log --max-file-size 1GB",
			DocKey:      "input.max_file_size",
			Recoverable: true,
		}
	case "decode_failed":
		return errorHint{
			NextAction:  "用 --encoding 指定正确编码（utf-8/gbk/gb18030/latin1），或先转码",
			FixExample:  "syl-grep pattern input.txt --encoding gbk",
			DocKey:      "input.decode_failed",
			Recoverable: true,
		}
	default:
		return errorHint{
			NextAction:  "根据 detail 修正输入后重试",
			FixExample:  "syl-grep --help",
			DocKey:      "general.error",
			Recoverable: true,
		}
	}
}
