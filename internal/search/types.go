package search

import "fmt"

// Config 由参数解析得到，整个运行期间只读。六个开关互不排斥。
type Config struct {
	Pattern         string
	CaseInsensitive bool
	Invert          bool
	WholeWord       bool
	CountOnly       bool
	FilenamesOnly   bool
	ShowLineNumbers bool
}

// LineRecord 一条物理行；Content 不含行尾换行。
type LineRecord struct {
	FileID  string
	Number  int
	Content string
}

// FileResult 恒有 Count == len(Lines)。
type FileResult struct {
	FileID string
	Lines  []LineRecord
	Count  int
}

func (r FileResult) HasMatch() bool { return r.Count > 0 }

func (r *FileResult) add(rec LineRecord) {
	r.Lines = append(r.Lines, rec)
	r.Count++
}

// ReadFailure 读到一半失败，Partial 保存失败点之前的结果。
type ReadFailure struct {
	FileID  string
	Partial FileResult
	Err     error
}

func (e *ReadFailure) Error() string {
	return fmt.Sprintf("%s: 读取失败：%v", e.FileID, e.Err)
}

func (e *ReadFailure) Unwrap() error { return e.Err }
