package app

import (
	"runtime"
	"sync"

	"github.com/cockroachdb/errors"

	"syl-grep/internal/logger"
	"syl-grep/internal/match"
	"syl-grep/internal/scan"
	"syl-grep/internal/search"
	"syl-grep/internal/source"
)

func DefaultJobs() int {
	n := runtime.NumCPU()
	if n > 8 {
		return 8
	}
	if n < 1 {
		return 1
	}
	return n
}

// Run 构造匹配谓词后按输入顺序搜索所有文件。只有配置错误会让它返回 error。
func Run(opts Options) (Report, error) {
	lg := opts.Logger
	if lg == nil {
		lg = logger.Discard()
	}
	if len(opts.Targets) == 0 {
		return Report{}, &ArgErr{Msg: "还没传输入文件，至少要给一个文件（或用 - 表示标准输入）"}
	}
	pred, err := match.New(opts.Search.Pattern, opts.Search.CaseInsensitive, opts.Search.WholeWord)
	if err != nil {
		return Report{}, &ConfigErr{Msg: err.Error(), Err: err}
	}

	// 只有第一个 - 读真正的标准输入，与并发调度无关
	firstStdin := -1
	for i, t := range opts.Targets {
		if t.ID == source.Stdin {
			firstStdin = i
			break
		}
	}
	drained := opts.Opener.WithoutStdin()

	run := func(idx int, id string) (search.FileResult, error) {
		if err := opts.Targets[idx].Err; err != nil {
			return search.FileResult{}, err
		}
		op := opts.Opener
		if id == source.Stdin && idx != firstStdin {
			op = drained
		}
		src, err := op.Open(id)
		if err != nil {
			return search.FileResult{}, err
		}
		defer func() {
			if cerr := src.Close(); cerr != nil {
				lg.Warn("关闭文件失败", "file", id, "err", cerr)
			}
		}()
		return search.Process(id, src, pred, opts.Search)
	}

	lg.Debug("开始搜索", "pattern", opts.Search.Pattern, "files", len(opts.Targets), "jobs", opts.Jobs)
	report := Aggregate(scan.IDs(opts.Targets), opts.Jobs, func(idx int, id string) (search.FileResult, error) {
		res, err := run(idx, id)
		if err != nil {
			lg.Warn("文件处理失败", "file", id, "code", ErrorCode(err))
		} else {
			lg.Debug("文件处理完成", "file", id, "matches", res.Count)
		}
		return res, err
	})
	lg.Debug("搜索结束", "files_with_matches", report.FilesWithMatches, "failed", report.FailedFiles)
	return report, nil
}

// Aggregate 逐个文件调用 run，失败不会中断后续文件。jobs > 1 时并发执行，
// 但结果仍按 ids 的顺序排列。
func Aggregate(ids []string, jobs int, run RunFunc) Report {
	entries := make([]Entry, len(ids))
	if jobs > len(ids) {
		jobs = len(ids)
	}
	if jobs <= 1 {
		for i, id := range ids {
			entries[i] = runOne(i, id, run)
		}
		return buildReport(entries)
	}

	type job struct {
		idx int
		id  string
	}
	in := make(chan job)
	wg := sync.WaitGroup{}
	for i := 0; i < jobs; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range in {
				entries[j.idx] = runOne(j.idx, j.id, run)
			}
		}()
	}
	for i, id := range ids {
		in <- job{idx: i, id: id}
	}
	close(in)
	wg.Wait()
	return buildReport(entries)
}

func runOne(idx int, id string, run RunFunc) Entry {
	res, err := run(idx, id)
	if err == nil {
		res.FileID = id
		return Entry{FileID: id, Result: res}
	}
	e := Entry{FileID: id, Err: err}
	var rf *search.ReadFailure
	if errors.As(err, &rf) {
		e.Result = rf.Partial
		e.Result.FileID = id
	}
	return e
}

func buildReport(entries []Entry) Report {
	r := Report{Entries: entries}
	for _, e := range entries {
		if e.Failed() {
			r.FailedFiles++
			continue
		}
		if e.Result.HasMatch() {
			r.FilesWithMatches++
			r.AnyMatch = true
		}
	}
	return r
}

// Status 全部文件失败时为 StatusFailure，优先于“无匹配”。
// 计数模式不改变判定：计数全为 0 仍是 StatusNoMatch。
func (r Report) Status() Status {
	if len(r.Entries) > 0 && r.FailedFiles == len(r.Entries) {
		return StatusFailure
	}
	if r.AnyMatch {
		return StatusMatch
	}
	return StatusNoMatch
}

type ConfigErr struct {
	Msg string
	Err error
}

func (e *ConfigErr) Error() string { return e.Msg }

func (e *ConfigErr) Unwrap() error { return e.Err }

type ArgErr struct{ Msg string }

func (e *ArgErr) Error() string { return e.Msg }
