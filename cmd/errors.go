package cmd

import "fmt"

const (
	ExitOK       = 0
	ExitNoMatch  = 1
	ExitFailure  = 2
	ExitArg      = 3
	ExitConfig   = 4
	ExitInternal = 5
)

// ExitError Key 是稳定的错误码，结构化输出时用来查提示。
type ExitError struct {
	Code int
	Key  string
	Msg  string
}

func (e *ExitError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Msg
}
