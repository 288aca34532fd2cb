package source

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"

	"syl-grep/internal/search"
)

const DefaultEncoding = "utf-8"

// DecodeError 某一行无法按指定编码解码。
type DecodeError struct {
	Line     int
	Encoding string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("第 %d 行无法按 %s 解码", e.Line, e.Encoding)
}

type textEncoding struct {
	name string
	enc  encoding.Encoding // utf-8 时为 nil，只做校验
}

// ValidateEncoding 支持 utf-8/gbk/gb18030/latin1。
func ValidateEncoding(name string) error {
	_, err := lookupEncoding(name)
	return err
}

func lookupEncoding(name string) (textEncoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return textEncoding{name: DefaultEncoding}, nil
	case "gbk":
		return textEncoding{name: "gbk", enc: simplifiedchinese.GBK}, nil
	case "gb18030":
		return textEncoding{name: "gb18030", enc: simplifiedchinese.GB18030}, nil
	case "latin1", "iso-8859-1":
		return textEncoding{name: "latin1", enc: charmap.ISO8859_1}, nil
	default:
		return textEncoding{}, errors.Newf("不支持的编码：%s（仅支持 utf-8/gbk/gb18030/latin1）", name)
	}
}

// Reader 惰性、只进的行来源，实现 search.LineSource。
type Reader struct {
	id     string
	br     *bufio.Reader
	closer io.Closer
	enc    textEncoding
	dec    *encoding.Decoder
	n      int
	done   bool
}

func newReader(id string, r io.Reader, closer io.Closer, enc textEncoding) *Reader {
	rd := &Reader{id: id, br: bufio.NewReaderSize(r, 64*1024), closer: closer, enc: enc}
	if enc.enc != nil {
		rd.dec = enc.enc.NewDecoder()
	}
	return rd
}

func (r *Reader) Next() (search.LineRecord, error) {
	if r.done {
		return search.LineRecord{}, io.EOF
	}
	raw, err := r.br.ReadBytes('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return search.LineRecord{}, errors.Wrapf(err, "读取第 %d 行失败", r.n+1)
		}
		r.done = true
		if len(raw) == 0 {
			return search.LineRecord{}, io.EOF
		}
	}
	r.n++
	raw = bytes.TrimSuffix(raw, []byte("\n"))
	raw = bytes.TrimSuffix(raw, []byte("\r"))
	text, ok := r.decode(raw)
	if !ok {
		r.done = true
		return search.LineRecord{}, &DecodeError{Line: r.n, Encoding: r.enc.name}
	}
	return search.LineRecord{FileID: r.id, Number: r.n, Content: text}, nil
}

func (r *Reader) decode(raw []byte) (string, bool) {
	if r.dec == nil {
		return string(raw), utf8.Valid(raw)
	}
	out, err := r.dec.Bytes(raw)
	if err != nil || bytes.ContainsRune(out, utf8.RuneError) {
		return "", false
	}
	return string(out), true
}

func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}
