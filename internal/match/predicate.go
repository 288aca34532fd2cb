// Package match 实现字面量子串匹配（大小写折叠只处理 ASCII，整词边界按相邻字符类判断）。
package match

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrEmptyPattern 空模式不会被当作“匹配一切”。
var ErrEmptyPattern = errors.New("搜索模式不能为空")

// Predicate 构造后只读，可在多个 goroutine 间共享。
type Predicate struct {
	pattern   string
	fold      bool
	wholeWord bool
}

func New(pattern string, caseInsensitive, wholeWord bool) (*Predicate, error) {
	if pattern == "" {
		return nil, ErrEmptyPattern
	}
	if caseInsensitive {
		pattern = FoldASCII(pattern)
	}
	return &Predicate{pattern: pattern, fold: caseInsensitive, wholeWord: wholeWord}, nil
}

func (p *Predicate) Pattern() string { return p.pattern }

func (p *Predicate) Matches(line string) bool {
	if p.fold {
		line = FoldASCII(line)
	}
	if !p.wholeWord {
		return strings.Contains(line, p.pattern)
	}
	// 逐个候选位置检查，重叠出现也要看
	for from := 0; from <= len(line)-len(p.pattern); {
		i := strings.Index(line[from:], p.pattern)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(p.pattern)
		if atBoundary(line, start, end) {
			return true
		}
		from = start + 1
	}
	return false
}

func atBoundary(line string, start, end int) bool {
	if start > 0 && IsWordByte(line[start-1]) {
		return false
	}
	if end < len(line) && IsWordByte(line[end]) {
		return false
	}
	return true
}

// IsWordByte 单词字符：ASCII 字母数字或下划线。
func IsWordByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}

// FoldASCII 只把 A-Z 转成小写，其余字节原样保留。
func FoldASCII(s string) string {
	i := 0
	for i < len(s) && !(s[i] >= 'A' && s[i] <= 'Z') {
		i++
	}
	if i == len(s) {
		return s
	}
	b := []byte(s)
	for ; i < len(b); i++ {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}
