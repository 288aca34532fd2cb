package cmd

import (
	"io"
	"strings"

	"syl-grep/internal/config"
	"syl-grep/internal/output"
)

type cliErrorHint struct {
	NextAction  string
	FixExample  string
	DocKey      string
	Recoverable bool
}

func writeCLIError(w io.Writer, format string, args []string, code, detail string, exitCode int) {
	h := cliHintByCode(code)
	events := []map[string]any{
		{
			"type":    "meta",
			"tool":    "syl-grep",
			"version": Version,
			"args":    args,
		},
		{
			"type":        "error",
			"code":        code,
			"category":    cliCategory(exitCode),
			"path":        "",
			"detail":      detail,
			"next_action": h.NextAction,
			"fix_example": h.FixExample,
			"doc_key":     h.DocKey,
			"recoverable": h.Recoverable,
		},
		{
			"type":               "summary",
			"total_files":        0,
			"files_with_matches": 0,
			"failed_files":       0,
			"match_count":        0,
			"status":             "error",
			"exit_code":          exitCode,
		},
	}
	_ = output.Write(w, format, events)
}

func cliCategory(exitCode int) string {
	switch exitCode {
	case ExitArg:
		return "arg"
	case ExitConfig:
		return "config"
	default:
		return "internal"
	}
}

// detectFormatFromArgs 参数解析失败时也要知道用哪种格式报错。
// 命令行没给 --format 时退回到配置文件和 SYL_GREP_FORMAT。
func detectFormatFromArgs(args []string) string {
	if v, ok := flagValue(args, "format"); ok {
		return normalizeFormat(v)
	}
	path, _ := flagValue(args, "config")
	cfg, _, err := config.Resolve(path)
	if err != nil {
		return output.FormatText
	}
	return normalizeFormat(cfg.Output.Format)
}

// flagValue 取最后一次出现的 --name X 或 --name=X，遇到 -- 停止。
func flagValue(args []string, name string) (string, bool) {
	long := "--" + name
	val, found := "", false
	for i := 0; i < len(args); i++ {
		a := strings.TrimSpace(args[i])
		if a == "--" {
			break
		}
		if a == long {
			if i+1 < len(args) {
				val, found = args[i+1], true
				i++
			}
			continue
		}
		if strings.HasPrefix(a, long+"=") {
			val, found = strings.TrimPrefix(a, long+"="), true
		}
	}
	return val, found
}

func normalizeFormat(format string) string {
	switch format {
	case output.FormatJSON, output.FormatNDJSON:
		return format
	}
	return output.FormatText
}

func cliHintByCode(code string) cliErrorHint {
	switch code {
	case "arg_missing_pattern", "arg_missing_files":
		return cliErrorHint{
			NextAction:  "先传搜索模式，再传至少一个文件（标准输入用 -）",
			FixExample:  "syl-grep foo a.txt b.txt",
			DocKey:      "arg.missing_positional",
			Recoverable: true,
		}
	case "empty_pattern":
		return cliErrorHint{
			NextAction:  "搜索模式不能为空，传一个非空字符串",
			FixExample:  "syl-grep 'foo' a.txt",
			DocKey:      "config.empty_pattern",
			Recoverable: true,
		}
	case "invalid_output_format":
		return cliErrorHint{
			NextAction:  "把 --format 改为 text、ndjson 或 json",
			FixExample:  "syl-grep foo a.txt --format ndjson",
			DocKey:      "arg.invalid_output_format",
			Recoverable: true,
		}
	case "invalid_max_file_size":
		return cliErrorHint{
			NextAction:  "把 --max-file-size 改成合法大小（如 100MB）",
			FixExample:  "syl-grep foo big.log --max-file-size 1GB",
			DocKey:      "arg.invalid_max_file_size",
			Recoverable: true,
		}
	case "invalid_encoding":
		return cliErrorHint{
			NextAction:  "把 --encoding 改为 utf-8、gbk、gb18030 或 latin1",
			FixExample:  "syl-grep foo legacy.txt --encoding gbk",
			DocKey:      "arg.invalid_encoding",
			Recoverable: true,
		}
	case "invalid_exclude":
		return cliErrorHint{
			NextAction:  "修正 --exclude 的通配符语法",
			FixExample:  "syl-grep foo 'logs/*' --exclude '*.gz'",
			DocKey:      "arg.invalid_exclude",
			Recoverable: true,
		}
	case "invalid_jobs":
		return cliErrorHint{
			NextAction:  "把 --jobs 设为正整数",
			FixExample:  "syl-grep foo a.txt --jobs 4",
			DocKey:      "arg.invalid_jobs",
			Recoverable: true,
		}
	case "invalid_log_level":
		return cliErrorHint{
			NextAction:  "把 --log-level 改为 debug/info/warn/error/off",
			FixExample:  "syl-grep foo a.txt --log-level debug",
			DocKey:      "arg.invalid_log_level",
			Recoverable: true,
		}
	case "config_invalid":
		return cliErrorHint{
			NextAction:  "修正配置文件或 SYL_GREP_* 环境变量后重试",
			FixExample:  "syl-grep foo a.txt --config /path/to/syl-grep.yaml",
			DocKey:      "config.invalid",
			Recoverable: true,
		}
	case "cwd_failed":
		return cliErrorHint{
			NextAction:  "确认当前工作目录可访问，或切换到可访问目录",
			FixExample:  "cd /path/to/workspace && syl-grep foo a.txt",
			DocKey:      "runtime.cwd_failed",
			Recoverable: true,
		}
	case "output_write_failed":
		return cliErrorHint{
			NextAction:  "检查输出管道或重定向目标是否可写",
			FixExample:  "syl-grep foo a.txt > result.txt",
			DocKey:      "runtime.output_write_failed",
			Recoverable: true,
		}
	case "unknown_flag":
		return cliErrorHint{
			NextAction:  "确认参数拼写，或查看帮助",
			FixExample:  "syl-grep --help",
			DocKey:      "arg.unknown_flag",
			Recoverable: true,
		}
	default:
		return cliErrorHint{
			NextAction:  "根据 detail 修正参数或配置后重试",
			FixExample:  "syl-grep --help",
			DocKey:      "general.error",
			Recoverable: true,
		}
	}
}
