package app

import (
	"github.com/charmbracelet/log"

	"syl-grep/internal/scan"
	"syl-grep/internal/search"
	"syl-grep/internal/source"
)

type Options struct {
	Search  search.Config
	Targets []scan.Target
	Opener  source.Opener
	Jobs    int
	Logger  *log.Logger
}

// Entry 每个输入文件一条，顺序与输入一致。
// Err 非空时 Result 只可能是读失败前的部分结果。
type Entry struct {
	FileID string
	Result search.FileResult
	Err    error
}

func (e Entry) Failed() bool { return e.Err != nil }

// Partial 读到一半失败、且失败前已有结果。
func (e Entry) Partial() bool { return e.Err != nil && e.Result.Count > 0 }

type Report struct {
	Entries          []Entry
	FilesWithMatches int
	AnyMatch         bool
	FailedFiles      int
}

type Status int

const (
	StatusMatch   Status = 0
	StatusNoMatch Status = 1
	StatusFailure Status = 2
)

func (s Status) String() string {
	switch s {
	case StatusMatch:
		return "match"
	case StatusNoMatch:
		return "no_match"
	default:
		return "failure"
	}
}

// RunFunc idx 是文件在输入中的位置，同名输入（如多个 -）靠它区分。
type RunFunc func(idx int, fileID string) (search.FileResult, error)
