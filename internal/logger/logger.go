package logger

import (
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
)

const DefaultLevel = "warn"

// LevelOff 高于任何实际级别，等同于关闭日志。
const LevelOff = log.Level(math.MaxInt32)

var ErrInvalidLogLevel = errors.New("无效的日志级别（可选 debug/info/warn/error/off）")

func ParseLevel(s string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return log.WarnLevel, nil
	case "off", "none":
		return LevelOff, nil
	case "warning":
		return log.WarnLevel, nil
	}
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || lvl == log.FatalLevel {
		return 0, errors.WithDetailf(ErrInvalidLogLevel, "got %q", s)
	}
	return lvl, nil
}

// New 日志只写 w（通常是 stderr），不与匹配输出混在一起。
func New(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return log.NewWithOptions(w, log.Options{
		Level:  lvl,
		Prefix: "syl-grep",
	}), nil
}

func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: LevelOff})
}
