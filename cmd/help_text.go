package cmd

import "strings"

func rootLongHelp() string {
	return strings.TrimSpace(`
按字面量子串在文件中逐行搜索（不支持正则）。

用法：syl-grep [flags] PATTERN FILE...
- PATTERN 为空会直接报配置错误（不会当作“匹配一切”）
- FILE 可以是多个文件；- 表示标准输入；带通配符的参数会按 doublestar 语法展开
- 不递归目录：传目录会报 is_directory

匹配开关（可任意组合）：
- -i 忽略大小写（只折叠 ASCII 字母）
- -w 整词：命中两侧须为非单词字符或行首/行尾（单词字符 = ASCII 字母、数字、下划线）
- -v 反选：输出不匹配的行；-c / -l / -n 都以反选后的结果为准

输出模式（优先级从高到低）：
1. -l 只输出有匹配的文件名（按输入顺序，不重复）
2. -c 每个文件一行计数；多文件为 file:count，单文件只有数字；计数为 0 也会输出
3. 默认逐行输出 [file:][line:]content；多文件才带文件名，-n 才带行号

出错的文件：
- 在该文件的位置向 stderr 输出一行诊断，其他文件照常处理
- 读到一半失败时默认先输出失败前的结果（--no-partial 关闭）

结构化输出（--format ndjson/json）：
- meta / match / count / file / error / summary

配置来源（优先级从高到低）：
1. 命令行参数
2. SYL_GREP_* 环境变量（IGNORE_CASE / WHOLE_WORD / LINE_NUMBER / ENCODING /
   MAX_FILE_SIZE / EXCLUDE / FORMAT / MAX_COLUMNS / PARTIAL / JOBS / LOG_LEVEL）
3. --config 指定的 YAML 文件

退出码：
- 0 有匹配
- 1 没有匹配（包括 -c 下计数全为 0）
- 2 所有文件都失败
- 3 参数错误
- 4 配置错误（含空模式）
- 5 内部错误
`)
}

func rootExampleHelp() string {
	return strings.TrimSpace(`
  # 多文件搜索
  syl-grep foo a.txt b.txt

  # 忽略大小写 + 整词 + 行号
  syl-grep -iwn cat notes.md

  # 统计每个文件不包含 TODO 的行数
  syl-grep -vc TODO src/*.go

  # 只列出文件名，排除日志
  syl-grep -l password 'conf/**/*' --exclude '*.log'

  # 读取 GBK 文件，输出 NDJSON
  syl-grep 中文 legacy.txt --encoding gbk --format ndjson

  # 从标准输入读取
  cat app.log | syl-grep error -
`)
}
