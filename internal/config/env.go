package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

const EnvPrefix = "SYL_GREP_"

// ApplyEnv 把环境变量叠加到 cfg 上，返回是否读到了任何变量。
// 例如：SYL_GREP_IGNORE_CASE=true, SYL_GREP_EXCLUDE=*.log,*.tmp
func ApplyEnv(cfg *Config, prefix string) (bool, error) {
	has := false

	setBoolPtr := func(key string, dst **bool) error {
		v, ok := os.LookupEnv(prefix + key)
		if !ok {
			return nil
		}
		has = true
		b, err := parseBool(v)
		if err != nil {
			return errors.Newf("环境变量 %s%s 不是有效布尔值", prefix, key)
		}
		*dst = &b
		return nil
	}
	setIntPtr := func(key string, dst **int) error {
		v, ok := os.LookupEnv(prefix + key)
		if !ok {
			return nil
		}
		has = true
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return errors.Newf("环境变量 %s%s 不是有效整数", prefix, key)
		}
		*dst = &n
		return nil
	}
	setInt := func(key string, dst *int) error {
		var p *int
		if err := setIntPtr(key, &p); err != nil {
			return err
		}
		if p != nil {
			*dst = *p
		}
		return nil
	}
	setString := func(key string, dst *string) {
		v, ok := os.LookupEnv(prefix + key)
		if !ok {
			return
		}
		has = true
		*dst = strings.TrimSpace(v)
	}
	setList := func(key string, dst *[]string) {
		v, ok := os.LookupEnv(prefix + key)
		if !ok {
			return
		}
		has = true
		*dst = splitCSV(v)
	}

	if err := setBoolPtr("IGNORE_CASE", &cfg.Search.IgnoreCase); err != nil {
		return false, err
	}
	if err := setBoolPtr("WHOLE_WORD", &cfg.Search.WholeWord); err != nil {
		return false, err
	}
	if err := setBoolPtr("LINE_NUMBER", &cfg.Search.LineNumber); err != nil {
		return false, err
	}
	if err := setBoolPtr("PARTIAL", &cfg.Output.Partial); err != nil {
		return false, err
	}
	if err := setIntPtr("MAX_COLUMNS", &cfg.Output.MaxColumns); err != nil {
		return false, err
	}
	if err := setInt("JOBS", &cfg.Jobs); err != nil {
		return false, err
	}

	setString("ENCODING", &cfg.Input.Encoding)
	setString("MAX_FILE_SIZE", &cfg.Input.MaxFileSize)
	setString("FORMAT", &cfg.Output.Format)
	setString("LOG_LEVEL", &cfg.LogLevel)
	setList("EXCLUDE", &cfg.Input.Exclude)

	return has, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		s := strings.TrimSpace(p)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

func parseBool(v string) (bool, error) {
	s := strings.ToLower(strings.TrimSpace(v))
	switch s {
	case "1", "true", "yes", "y", "on":
		return true, nil
	case "0", "false", "no", "n", "off":
		return false, nil
	default:
		return false, errors.New("invalid bool")
	}
}
