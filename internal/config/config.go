package config

import (
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

const DefaultMaxFileSize = "100MB"

// Search 可由配置文件给出默认值的匹配开关；nil 表示未设置。
type Search struct {
	IgnoreCase *bool `yaml:"ignore_case"`
	WholeWord  *bool `yaml:"whole_word"`
	LineNumber *bool `yaml:"line_number"`
}

type Input struct {
	Encoding    string   `yaml:"encoding"`
	MaxFileSize string   `yaml:"max_file_size"`
	Exclude     []string `yaml:"exclude"`
}

type Output struct {
	Format     string `yaml:"format"`
	MaxColumns *int   `yaml:"max_columns"`
	Partial    *bool  `yaml:"partial"`
}

type Config struct {
	Search   Search `yaml:"search"`
	Input    Input  `yaml:"input"`
	Output   Output `yaml:"output"`
	Jobs     int    `yaml:"jobs"`
	LogLevel string `yaml:"log_level"`
}

func Load(path string) (Config, error) {
	var cfg Config
	if strings.TrimSpace(path) == "" {
		return cfg, errors.New("配置文件路径为空")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "读取配置文件失败")
	}
	expanded, err := expandEnv(string(b))
	if err != nil {
		return cfg, err
	}
	if strings.TrimSpace(expanded) == "" {
		return cfg, nil
	}
	dec := yaml.NewDecoder(strings.NewReader(expanded))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, errors.Wrap(err, "解析配置文件失败")
	}
	return cfg, nil
}

// Resolve 先读配置文件（可选），再叠加 SYL_GREP_* 环境变量。
func Resolve(path string) (Config, string, error) {
	cfg := Config{}
	source := "default"
	if strings.TrimSpace(path) != "" {
		loaded, err := Load(path)
		if err != nil {
			return Config{}, "", err
		}
		cfg = loaded
		source = path
	}
	has, err := ApplyEnv(&cfg, EnvPrefix)
	if err != nil {
		return Config{}, "", err
	}
	if has {
		source += "+env://" + EnvPrefix + "*"
	}
	return cfg, source, nil
}

var envExpr = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-([^}]*))?\}`)

func expandEnv(src string) (string, error) {
	var out strings.Builder
	last := 0
	for _, idx := range envExpr.FindAllStringSubmatchIndex(src, -1) {
		out.WriteString(src[last:idx[0]])
		name := src[idx[2]:idx[3]]
		hasDefault := idx[4] >= 0 && idx[5] >= 0
		defVal := ""
		if hasDefault && idx[6] >= 0 && idx[7] >= 0 {
			defVal = src[idx[6]:idx[7]]
		}
		if v, ok := os.LookupEnv(name); ok {
			out.WriteString(v)
		} else if hasDefault {
			out.WriteString(defVal)
		} else {
			return "", errors.Newf("配置中引用了未设置的环境变量：%s", name)
		}
		last = idx[1]
	}
	out.WriteString(src[last:])
	return out.String(), nil
}

func ParseSizeToBytes(s string) (int64, error) {
	v := strings.TrimSpace(strings.ToUpper(s))
	if v == "" {
		return 0, nil
	}
	units := []struct {
		U string
		M int64
	}{
		{"GB", 1024 * 1024 * 1024},
		{"MB", 1024 * 1024},
		{"KB", 1024},
		{"B", 1},
	}
	for _, unit := range units {
		if strings.HasSuffix(v, unit.U) {
			n := strings.TrimSpace(strings.TrimSuffix(v, unit.U))
			f, err := strconv.ParseFloat(n, 64)
			if err != nil || f < 0 {
				return 0, errors.Newf("无效大小值：%s", s)
			}
			return int64(f * float64(unit.M)), nil
		}
	}
	// 纯数字按字节
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		return 0, errors.Newf("无效大小值：%s", s)
	}
	return n, nil
}
