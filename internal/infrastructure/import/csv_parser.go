// Package csvimport reads delimited extracts of the SAP purchase-order ledger
// and turns them into mirror rows.
package csvimport

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// CSVParser reads a header row followed by data rows. Input that is not
// valid UTF-8 is decoded as Windows-1252, the usual SAP GUI export charset.
type CSVParser struct {
	delimiter  rune
	aliases    map[string]string
	headerMap  map[string]int
	headers    []string
	currentRow int
	totalRows  int
	latin1     bool
	reader     *csv.Reader
}

// ParserOption configures a CSVParser
type ParserOption func(*CSVParser)

// WithDelimiter sets the field delimiter (default is ';')
func WithDelimiter(d rune) ParserOption {
	return func(p *CSVParser) {
		p.delimiter = d
	}
}

// WithHeaderAliases renames header columns after lower-casing them
func WithHeaderAliases(aliases map[string]string) ParserOption {
	return func(p *CSVParser) {
		p.aliases = aliases
	}
}

// NewCSVParser wraps r, strips a UTF-8 BOM and picks the decoding
func NewCSVParser(r io.Reader, opts ...ParserOption) (*CSVParser, error) {
	parser := &CSVParser{
		delimiter: ';',
		headerMap: make(map[string]int),
	}
	for _, opt := range opts {
		opt(parser)
	}

	buf := bufio.NewReader(r)
	head, err := buf.Peek(4096)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(head) == 0 {
		return nil, ErrEmptyFile
	}

	var src io.Reader = buf
	switch {
	case len(head) >= 3 && head[0] == 0xEF && head[1] == 0xBB && head[2] == 0xBF:
		_, _ = buf.Discard(3)
	case !utf8.Valid(trimPartialRune(head)):
		parser.latin1 = true
		src = charmap.Windows1252.NewDecoder().Reader(buf)
	}

	parser.reader = csv.NewReader(src)
	parser.reader.Comma = parser.delimiter
	parser.reader.LazyQuotes = true
	parser.reader.TrimLeadingSpace = true
	parser.reader.FieldsPerRecord = -1
	return parser, nil
}

// trimPartialRune drops a multi-byte sequence cut by the peek window
func trimPartialRune(b []byte) []byte {
	for i := 0; i < utf8.UTFMax && len(b) > 0; i++ {
		if r, _ := utf8.DecodeLastRune(b); r != utf8.RuneError {
			return b
		}
		b = b[:len(b)-1]
	}
	return b
}

// Latin1 reports whether the input was decoded as Windows-1252
func (p *CSVParser) Latin1() bool {
	return p.latin1
}

// ParseHeader reads the header row. Names are trimmed and lower-cased.
func (p *CSVParser) ParseHeader() error {
	record, err := p.reader.Read()
	if err == io.EOF {
		return ErrMissingHeader
	}
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}

	p.headers = make([]string, 0, len(record))
	for i, h := range record {
		name := strings.ToLower(strings.TrimSpace(h))
		if name == "" {
			continue
		}
		if alias, ok := p.aliases[name]; ok {
			name = alias
		}
		p.headers = append(p.headers, name)
		p.headerMap[name] = i
	}
	if len(p.headers) == 0 {
		return ErrMissingHeader
	}
	p.currentRow = 1
	return nil
}

// Headers returns the parsed header names
func (p *CSVParser) Headers() []string {
	return p.headers
}

// HasHeader reports whether a column is present
func (p *CSVParser) HasHeader(name string) bool {
	_, ok := p.headerMap[name]
	return ok
}

// Row is one data row keyed by header name
type Row struct {
	LineNumber int
	Data       map[string]string
}

// Get returns the value of a column
func (r *Row) Get(header string) string {
	return r.Data[header]
}

// IsEmpty reports whether every value is blank
func (r *Row) IsEmpty() bool {
	for _, v := range r.Data {
		if v != "" {
			return false
		}
	}
	return true
}

// ReadRow reads the next data row. It returns io.EOF at the end of input.
func (p *CSVParser) ReadRow() (*Row, error) {
	record, err := p.reader.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	p.currentRow++
	if err != nil {
		return nil, fmt.Errorf("error reading row %d: %w", p.currentRow, err)
	}
	p.totalRows++

	row := &Row{LineNumber: p.currentRow, Data: make(map[string]string, len(p.headers))}
	for name, i := range p.headerMap {
		if i < len(record) {
			row.Data[name] = strings.TrimSpace(record[i])
		} else {
			row.Data[name] = ""
		}
	}
	return row, nil
}

// TotalRows returns the number of data rows read so far
func (p *CSVParser) TotalRows() int {
	return p.totalRows
}

// MissingHeaders returns the required columns absent from the header row
func (p *CSVParser) MissingHeaders(required []string) []string {
	var missing []string
	for _, h := range required {
		if !p.HasHeader(h) {
			missing = append(missing, h)
		}
	}
	return missing
}
