package textutil

import (
	"github.com/mattn/go-runewidth"
)

const (
	TabWidth = 4
	Ellipsis = "..."
)

// DisplayWidth 终端显示宽度；制表符按 TabWidth 对齐。
func DisplayWidth(s string) int {
	col := 0
	for _, r := range s {
		if r == '\t' {
			col += TabWidth - (col % TabWidth)
			continue
		}
		w := runewidth.RuneWidth(r)
		if w <= 0 {
			w = 1
		}
		col += w
	}
	return col
}

// TruncateWidth 超过 max 列时截断并补省略号，结果宽度不超过 max。max <= 0 表示不截断。
func TruncateWidth(s string, max int) string {
	if max <= 0 || DisplayWidth(s) <= max {
		return s
	}
	limit := max - len(Ellipsis)
	if limit <= 0 {
		return Ellipsis[:max]
	}
	col := 0
	for i, r := range s {
		w := TabWidth - (col % TabWidth)
		if r != '\t' {
			w = runewidth.RuneWidth(r)
			if w <= 0 {
				w = 1
			}
		}
		if col+w > limit {
			return s[:i] + Ellipsis
		}
		col += w
	}
	return s
}
