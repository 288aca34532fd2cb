// Package search 逐行判定并汇总单个文件的结果。
package search

import (
	"io"

	"github.com/cockroachdb/errors"
)

type Matcher interface {
	Matches(line string) bool
}

// LineSource 逐行产出记录，结束时返回 io.EOF。
type LineSource interface {
	Next() (LineRecord, error)
}

// Evaluate 反选只翻转判定结果，其他模式都以返回值为准。
func Evaluate(m Matcher, invert bool, rec LineRecord) bool {
	return invert != m.Matches(rec.Content)
}

// Process 按源顺序扫描一个文件；读失败时返回 *ReadFailure，携带已收集的部分结果。
func Process(fileID string, src LineSource, m Matcher, cfg Config) (FileResult, error) {
	res := FileResult{FileID: fileID}
	for {
		rec, err := src.Next()
		if errors.Is(err, io.EOF) {
			return res, nil
		}
		if err != nil {
			return FileResult{}, &ReadFailure{FileID: fileID, Partial: res, Err: err}
		}
		if Evaluate(m, cfg.Invert, rec) {
			res.add(rec)
		}
	}
}
