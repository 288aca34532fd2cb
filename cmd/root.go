package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"syl-grep/internal/app"
	"syl-grep/internal/config"
	"syl-grep/internal/logger"
	"syl-grep/internal/match"
	"syl-grep/internal/output"
	"syl-grep/internal/scan"
	"syl-grep/internal/search"
	"syl-grep/internal/source"
)

type searchFlags struct {
	IgnoreCase       bool
	LineNumber       bool
	Invert           bool
	Count            bool
	FilesWithMatches bool
	WholeWord        bool
}

type commonFlags struct {
	Config      string
	Format      string
	Jobs        int
	MaxFileSize string
	Encoding    string
	Exclude     []string
	MaxColumns  int
	NoPartial   bool
	LogLevel    string
	ShowVersion bool
}

func Execute() int {
	return run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := NewRootCmd(stdout, stderr)
	root.SetIn(stdin)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		var ee *ExitError
		if !errors.As(err, &ee) {
			ee = &ExitError{Code: ExitInternal, Key: "internal_error", Msg: err.Error()}
		}
		if ee.Msg != "" {
			if format := detectFormatFromArgs(args); format != output.FormatText && ee.Key != "" {
				writeCLIError(stdout, format, args, ee.Key, ee.Msg, ee.Code)
			} else {
				fmt.Fprintln(stderr, "syl-grep: "+ee.Msg)
			}
		}
		return ee.Code
	}
	return ExitOK
}

func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	sf := &searchFlags{}
	flags := &commonFlags{}
	root := &cobra.Command{
		Use:           "syl-grep [flags] PATTERN FILE...",
		Short:         "在文件中按字面量搜索行",
		Long:          rootLongHelp(),
		Example:       rootExampleHelp(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.ShowVersion {
				printVersion(stdout)
				return nil
			}
			if len(args) == 0 {
				_ = cmd.Help()
				return &ExitError{Code: ExitArg, Key: "arg_missing_pattern", Msg: "还没传搜索模式"}
			}
			if len(args) == 1 {
				return &ExitError{Code: ExitArg, Key: "arg_missing_files", Msg: "还没传输入文件，至少要给一个文件（标准输入用 -）"}
			}
			return runSearch(cmd, stdout, stderr, sf, flags, args[0], args[1:])
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: ExitArg, Key: "unknown_flag", Msg: err.Error()}
	})

	f := root.Flags()
	f.BoolVarP(&sf.IgnoreCase, "ignore-case", "i", false, "忽略大小写（仅 ASCII 字母）")
	f.BoolVarP(&sf.LineNumber, "line-number", "n", false, "输出行号")
	f.BoolVarP(&sf.Invert, "invert-match", "v", false, "反选：输出不匹配的行")
	f.BoolVarP(&sf.Count, "count", "c", false, "只输出每个文件的匹配行数")
	f.BoolVarP(&sf.FilesWithMatches, "files-with-matches", "l", false, "只输出有匹配的文件名")
	f.BoolVarP(&sf.WholeWord, "word-regexp", "w", false, "整词匹配（两侧须为非单词字符或行首尾）")

	f.StringVar(&flags.Config, "config", "", "YAML 配置文件路径（可选）")
	f.StringVar(&flags.Format, "format", output.FormatText, "输出格式：text/ndjson/json")
	f.IntVar(&flags.Jobs, "jobs", app.DefaultJobs(), "并发处理的文件数（默认 min(8, CPU核数)）")
	f.StringVar(&flags.MaxFileSize, "max-file-size", config.DefaultMaxFileSize, "单文件最大大小，超出则报错跳过（如 100MB，0 表示不限）")
	f.StringVar(&flags.Encoding, "encoding", source.DefaultEncoding, "输入编码：utf-8/gbk/gb18030/latin1")
	f.StringArrayVar(&flags.Exclude, "exclude", nil, "排除匹配该通配符的输入文件（可重复）")
	f.IntVar(&flags.MaxColumns, "max-columns", 0, "text 格式下超过该显示宽度的行会被截断（0 表示不截断）")
	f.BoolVar(&flags.NoPartial, "no-partial", false, "文件读到一半失败时，不输出失败前的结果")
	f.StringVar(&flags.LogLevel, "log-level", logger.DefaultLevel, "日志级别：debug/info/warn/error/off（写到 stderr）")
	f.BoolVar(&flags.ShowVersion, "version", false, "显示版本信息")
	return root
}

func runSearch(cmd *cobra.Command, stdout, stderr io.Writer, sf *searchFlags, flags *commonFlags, pattern string, files []string) error {
	cfg, cfgSource, err := config.Resolve(flags.Config)
	if err != nil {
		return &ExitError{Code: ExitConfig, Key: "config_invalid", Msg: err.Error()}
	}
	changed := cmd.Flags().Changed
	pickBool := func(name string, flagVal bool, cfgVal *bool) bool {
		if changed(name) || cfgVal == nil {
			return flagVal
		}
		return *cfgVal
	}
	pickString := func(name, flagVal, cfgVal string) string {
		if changed(name) || cfgVal == "" {
			return flagVal
		}
		return cfgVal
	}

	sc := search.Config{
		Pattern:         pattern,
		CaseInsensitive: pickBool("ignore-case", sf.IgnoreCase, cfg.Search.IgnoreCase),
		Invert:          sf.Invert,
		WholeWord:       pickBool("word-regexp", sf.WholeWord, cfg.Search.WholeWord),
		CountOnly:       sf.Count,
		FilenamesOnly:   sf.FilesWithMatches,
		ShowLineNumbers: pickBool("line-number", sf.LineNumber, cfg.Search.LineNumber),
	}

	format := pickString("format", flags.Format, cfg.Output.Format)
	if err := output.ValidateFormat(format); err != nil {
		return &ExitError{Code: ExitArg, Key: "invalid_output_format", Msg: err.Error()}
	}
	encoding := pickString("encoding", flags.Encoding, cfg.Input.Encoding)
	if err := source.ValidateEncoding(encoding); err != nil {
		return &ExitError{Code: ExitArg, Key: "invalid_encoding", Msg: err.Error()}
	}
	maxBytes, err := config.ParseSizeToBytes(pickString("max-file-size", flags.MaxFileSize, cfg.Input.MaxFileSize))
	if err != nil {
		return &ExitError{Code: ExitArg, Key: "invalid_max_file_size", Msg: "--max-file-size 参数无效：" + err.Error()}
	}
	exclude := append(append([]string{}, cfg.Input.Exclude...), flags.Exclude...)
	if err := scan.ValidatePatterns(exclude); err != nil {
		return &ExitError{Code: ExitArg, Key: "invalid_exclude", Msg: err.Error()}
	}
	jobs := flags.Jobs
	if !changed("jobs") && cfg.Jobs > 0 {
		jobs = cfg.Jobs
	}
	if jobs < 1 {
		return &ExitError{Code: ExitArg, Key: "invalid_jobs", Msg: fmt.Sprintf("--jobs 必须大于 0：%d", jobs)}
	}
	maxColumns := flags.MaxColumns
	if !changed("max-columns") && cfg.Output.MaxColumns != nil {
		maxColumns = *cfg.Output.MaxColumns
	}
	partial := !flags.NoPartial
	if !changed("no-partial") && cfg.Output.Partial != nil {
		partial = *cfg.Output.Partial
	}
	lg, err := logger.New(stderr, pickString("log-level", flags.LogLevel, cfg.LogLevel))
	if err != nil {
		return &ExitError{Code: ExitArg, Key: "invalid_log_level", Msg: err.Error()}
	}
	lg.Debug("配置已加载", "source", cfgSource, "format", format, "encoding", encoding, "jobs", jobs)

	// 模式无效时不展开、不触碰任何输入
	if _, err := match.New(sc.Pattern, sc.CaseInsensitive, sc.WholeWord); err != nil {
		return &ExitError{Code: ExitConfig, Key: "empty_pattern", Msg: err.Error()}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return &ExitError{Code: ExitInternal, Key: "cwd_failed", Msg: "读取当前目录失败"}
	}
	targets := scan.Collect(scan.Options{Paths: files, CWD: cwd, Exclude: exclude})
	if len(targets) == 0 {
		lg.Debug("所有输入都被排除")
		return &ExitError{Code: ExitNoMatch}
	}

	rep, err := app.Run(app.Options{
		Search:  sc,
		Targets: targets,
		Opener:  source.Opener{MaxFileSize: maxBytes, Encoding: encoding, Stdin: cmd.InOrStdin()},
		Jobs:    jobs,
		Logger:  lg,
	})
	if err != nil {
		var ae *app.ArgErr
		var ce *app.ConfigErr
		switch {
		case errors.As(err, &ae):
			return &ExitError{Code: ExitArg, Key: "arg_missing_files", Msg: err.Error()}
		case errors.As(err, &ce):
			return &ExitError{Code: ExitConfig, Key: "empty_pattern", Msg: err.Error()}
		default:
			return &ExitError{Code: ExitInternal, Key: "internal_error", Msg: err.Error()}
		}
	}

	opts := output.Options{Search: sc, MaxColumns: maxColumns, Partial: partial}
	var werr error
	if format == output.FormatText {
		werr = output.WriteText(stdout, stderr, output.Render(rep, opts))
	} else {
		werr = output.Write(stdout, format, output.Events(rep, opts, output.Meta{Version: Version, Args: cmd.Flags().Args(), Config: cfgSource}))
	}
	if werr != nil {
		return &ExitError{Code: ExitInternal, Key: "output_write_failed", Msg: fmt.Sprintf("输出结果失败：%v", werr)}
	}

	switch rep.Status() {
	case app.StatusMatch:
		return nil
	case app.StatusNoMatch:
		return &ExitError{Code: ExitNoMatch}
	default:
		return &ExitError{Code: ExitFailure}
	}
}
