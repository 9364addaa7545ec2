package service

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"oven_dashboard/internal/config"
	"oven_dashboard/internal/logger"
	"oven_dashboard/internal/models"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// ErrUnreadableInput means no (encoding, delimiter) pair produced a table.
var ErrUnreadableInput = errors.New("unreadable input: no encoding/delimiter combination produced a table")

var (
	errInvalidUTF8      = errors.New("invalid UTF-8")
	errUndefinedCP1252  = errors.New("byte undefined in Windows-1252")
	errNoHeader         = errors.New("no header row")
	errTooFewColumns    = errors.New("too few columns")
	errRowWiderThanHead = errors.New("row has more fields than the header")
)

// decoder turns raw bytes into text, failing when the bytes are not valid
// in that encoding.
type decoder func(raw []byte) (string, error)

var decoders = map[string]decoder{
	"utf-8-sig": decodeUTF8Sig,
	"cp1252":    decodeCP1252,
	"latin1":    decodeLatin1,
}

// decodeUTF8Sig decodes UTF-8 with an optional byte order mark.
func decodeUTF8Sig(raw []byte) (string, error) {
	if !utf8.Valid(raw) {
		return "", errInvalidUTF8
	}
	out, err := unicode.UTF8BOM.NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// decodeCP1252 rejects the five byte values Windows-1252 leaves undefined.
func decodeCP1252(raw []byte) (string, error) {
	for i, b := range raw {
		switch b {
		case 0x81, 0x8d, 0x8f, 0x90, 0x9d:
			return "", fmt.Errorf("%w: 0x%02x at offset %d", errUndefinedCP1252, b, i)
		}
	}
	out, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// decodeLatin1 maps every byte to the code point of the same value.
func decodeLatin1(raw []byte) (string, error) {
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// DialectDetector finds the first encoding/delimiter pair that parses a file.
type DialectDetector struct {
	encodings  []string
	delimiters []rune
	minColumns int
	log        *logger.Logger
}

func NewDialectDetector(cfg config.Dialect, log *logger.Logger) *DialectDetector {
	return &DialectDetector{
		encodings:  cfg.Encodings,
		delimiters: cfg.DelimiterRunes(),
		minColumns: cfg.MinColumns,
		log:        log,
	}
}

// Detect tries encodings in priority order, and within each encoding the
// delimiters in priority order. The first pair yielding a header with at
// least minColumns columns and no row wider than the header wins.
func (d *DialectDetector) Detect(raw []byte) (models.RawTable, error) {
	for _, enc := range d.encodings {
		decode, ok := decoders[enc]
		if !ok {
			d.log.Warnw("dialect_unknown_encoding", "encoding", enc)
			continue
		}
		text, err := decode(raw)
		if err != nil {
			d.log.Debugw("dialect_decode_failed", "encoding", enc, "err", err)
			continue
		}
		for _, delim := range d.delimiters {
			header, rows, err := tabulate(text, delim, d.minColumns)
			if err != nil {
				d.log.Debugw("dialect_tabulate_failed", "encoding", enc, "delimiter", string(delim), "err", err)
				continue
			}
			dialect := models.Dialect{Encoding: enc, Delimiter: delim}
			d.log.Infow("dialect_detected",
				"encoding", enc,
				"delimiter", dialect.DelimiterName(),
				"columns", len(header),
				"rows", len(rows),
			)
			return models.RawTable{Dialect: dialect, Header: header, Rows: rows}, nil
		}
	}
	return models.RawTable{}, ErrUnreadableInput
}

// tabulate splits text into a header and padded data rows.
func tabulate(text string, delim rune, minColumns int) ([]string, [][]string, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = delim
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, errNoHeader
	}
	if err != nil {
		return nil, nil, err
	}
	if len(header) < minColumns {
		return nil, nil, fmt.Errorf("%w: %d < %d", errTooFewColumns, len(header), minColumns)
	}

	var rows [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		if len(rec) > len(header) {
			line, _ := r.FieldPos(0)
			return nil, nil, fmt.Errorf("%w: line %d has %d fields, header %d", errRowWiderThanHead, line, len(rec), len(header))
		}
		for len(rec) < len(header) {
			rec = append(rec, "")
		}
		rows = append(rows, rec)
	}
	return header, rows, nil
}
