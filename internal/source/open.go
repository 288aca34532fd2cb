// Package source 把文件标识变成逐行读取的来源。
package source

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/cockroachdb/errors"
)

const (
	Stdin      = "-"
	StdinLabel = "(standard input)"
)

var (
	ErrNotFound   = errors.New("文件不存在")
	ErrPermission = errors.New("没有读取权限")
	ErrIsDir      = errors.New("是目录，不会递归搜索")
	ErrTooLarge   = errors.New("文件超过大小上限")
	ErrOpen       = errors.New("打开文件失败")
)

// OpenError 文件完全打不开；Kind 是上面的哨兵错误之一。
type OpenError struct {
	FileID string
	Kind   error
	Detail string
}

func (e *OpenError) Error() string {
	if e.Detail == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s（%s）", e.Kind.Error(), e.Detail)
}

func (e *OpenError) Unwrap() error { return e.Kind }

// Label 输出里展示用的文件名。
func Label(id string) string {
	if id == Stdin {
		return StdinLabel
	}
	return id
}

type Opener struct {
	MaxFileSize int64
	Encoding    string
	Stdin       io.Reader
}

// WithoutStdin 标准输入只能读一次，同一次运行里后出现的 - 用它打开，读到空输入。
func (o Opener) WithoutStdin() Opener {
	o.Stdin = bytes.NewReader(nil)
	return o
}

func (o Opener) Open(id string) (*Reader, error) {
	enc, err := lookupEncoding(o.Encoding)
	if err != nil {
		return nil, err
	}
	if id == Stdin {
		in := o.Stdin
		if in == nil {
			in = os.Stdin
		}
		return newReader(id, in, nil, enc), nil
	}

	f, err := os.Open(id)
	if err != nil {
		return nil, classifyOpenErr(id, err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, classifyOpenErr(id, err)
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, &OpenError{FileID: id, Kind: ErrIsDir}
	}
	if o.MaxFileSize > 0 && info.Size() > o.MaxFileSize {
		_ = f.Close()
		return nil, &OpenError{FileID: id, Kind: ErrTooLarge, Detail: fmt.Sprintf("大小 %d 超过上限 %d", info.Size(), o.MaxFileSize)}
	}
	return newReader(id, f, f, enc), nil
}

func classifyOpenErr(id string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return &OpenError{FileID: id, Kind: ErrNotFound}
	case errors.Is(err, fs.ErrPermission):
		return &OpenError{FileID: id, Kind: ErrPermission}
	default:
		return &OpenError{FileID: id, Kind: ErrOpen, Detail: err.Error()}
	}
}
