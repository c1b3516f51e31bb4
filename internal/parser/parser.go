package parser

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/avollmer/sceneslice/internal/errors"
	"github.com/avollmer/sceneslice/internal/models"
)

// DefaultMaxDepth bounds the nesting of parsed documents. Scene documents
// from real tools stay in the tens; the limit exists so a pathological
// input cannot exhaust the stack.
const DefaultMaxDepth = 200

// Parse reads one JSON value from the reader and returns it as a value
// tree. The parser is deliberately lenient: content trailing the first
// complete top-level value is ignored, since exporting tools are known to
// append junk after the document.
func Parse(reader io.Reader) (*models.Value, error) {
	return ParseWithDepth(reader, DefaultMaxDepth)
}

// ParseWithDepth is Parse with an explicit nesting limit.
func ParseWithDepth(reader io.Reader, maxDepth int) (*models.Value, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.NewInputError("failed to read input", err)
	}
	return parseBytes(data, maxDepth)
}

// ParseString parses a scene document held in a string.
func ParseString(text string) (*models.Value, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.NewInputError("input string is empty or consists only of whitespace", errors.ErrEmptyInput)
	}
	return parseBytes([]byte(text), DefaultMaxDepth)
}

// ParseFile parses a scene document from a file path.
func ParseFile(filePath string) (*models.Value, error) {
	if strings.TrimSpace(filePath) == "" {
		return nil, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return nil, errors.NewInputError(
			fmt.Sprintf("failed to read file '%s'", filePath),
			err,
		)
	}
	if len(data) == 0 {
		return nil, errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}
	return parseBytes(data, DefaultMaxDepth)
}

func parseBytes(data []byte, maxDepth int) (*models.Value, error) {
	s := &scanner{data: data, maxDepth: maxDepth}
	s.skipSpace()
	if s.eof() {
		return nil, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
	}
	v, err := s.parseValue(0)
	if err != nil {
		return nil, err
	}
	// Anything after the first complete value is ignored on purpose.
	return v, nil
}

// scanner is a single-pass cursor over the raw document bytes.
type scanner struct {
	data     []byte
	pos      int
	maxDepth int
}

func (s *scanner) eof() bool {
	return s.pos >= len(s.data)
}

func (s *scanner) peek() byte {
	return s.data[s.pos]
}

func (s *scanner) skipSpace() {
	for !s.eof() {
		switch s.data[s.pos] {
		case ' ', '\t', '\n', '\r':
			s.pos++
		default:
			return
		}
	}
}

func (s *scanner) syntaxError(format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	return errors.NewParsingError(
		fmt.Sprintf("%s at offset %d", msg, s.pos),
		errors.ErrInvalidJSON,
	)
}

func (s *scanner) parseValue(depth int) (*models.Value, error) {
	if depth > s.maxDepth {
		return nil, errors.NewParsingError(
			fmt.Sprintf("nesting deeper than %d levels", s.maxDepth),
			errors.ErrDepthExceeded,
		)
	}
	s.skipSpace()
	if s.eof() {
		return nil, s.syntaxError("unexpected end of input")
	}
	switch c := s.peek(); {
	case c == '{':
		return s.parseObject(depth)
	case c == '[':
		return s.parseArray(depth)
	case c == '"':
		str, err := s.parseStringToken()
		if err != nil {
			return nil, err
		}
		return models.NewString(str), nil
	case c == 't':
		if err := s.expectLiteral("true"); err != nil {
			return nil, err
		}
		return models.NewBool(true), nil
	case c == 'f':
		if err := s.expectLiteral("false"); err != nil {
			return nil, err
		}
		return models.NewBool(false), nil
	case c == 'n':
		if err := s.expectLiteral("null"); err != nil {
			return nil, err
		}
		return models.NewNull(), nil
	case c == '-' || ('0' <= c && c <= '9'):
		return s.parseNumber()
	default:
		return nil, s.syntaxError("unexpected character %q", c)
	}
}

func (s *scanner) expectLiteral(lit string) error {
	if s.pos+len(lit) > len(s.data) || string(s.data[s.pos:s.pos+len(lit)]) != lit {
		return s.syntaxError("invalid literal, expected %q", lit)
	}
	s.pos += len(lit)
	return nil
}

func (s *scanner) parseObject(depth int) (*models.Value, error) {
	s.pos++ // consume '{'
	obj := models.NewObject()
	s.skipSpace()
	if s.eof() {
		return nil, s.syntaxError("unterminated object")
	}
	if s.peek() == '}' {
		s.pos++
		return obj, nil
	}
	for {
		s.skipSpace()
		if s.eof() || s.peek() != '"' {
			return nil, s.syntaxError("expected object key")
		}
		key, err := s.parseStringToken()
		if err != nil {
			return nil, err
		}
		s.skipSpace()
		if s.eof() || s.peek() != ':' {
			return nil, s.syntaxError("expected ':' after object key %q", key)
		}
		s.pos++
		val, err := s.parseValue(depth + 1)
		if err != nil {
			return nil, err
		}
		// Duplicate keys keep their first position; the last value wins.
		obj.Set(key, val)

		s.skipSpace()
		if s.eof() {
			return nil, s.syntaxError("unterminated object")
		}
		switch s.peek() {
		case ',':
			s.pos++
		case '}':
			s.pos++
			return obj, nil
		default:
			return nil, s.syntaxError("expected ',' or '}' in object")
		}
	}
}

func (s *scanner) parseArray(depth int) (*models.Value, error) {
	s.pos++ // consume '['
	arr := models.NewArray()
	s.skipSpace()
	if s.eof() {
		return nil, s.syntaxError("unterminated array")
	}
	if s.peek() == ']' {
		s.pos++
		return arr, nil
	}
	for {
		item, err := s.parseValue(depth + 1)
		if err != nil {
			return nil, err
		}
		arr.Items = append(arr.Items, item)

		s.skipSpace()
		if s.eof() {
			return nil, s.syntaxError("unterminated array")
		}
		switch s.peek() {
		case ',':
			s.pos++
		case ']':
			s.pos++
			return arr, nil
		default:
			return nil, s.syntaxError("expected ',' or ']' in array")
		}
	}
}

func (s *scanner) parseStringToken() (string, error) {
	s.pos++ // consume opening quote
	var sb strings.Builder
	for {
		if s.eof() {
			return "", s.syntaxError("unterminated string")
		}
		c := s.data[s.pos]
		switch {
		case c == '"':
			s.pos++
			return sb.String(), nil
		case c == '\\':
			s.pos++
			if s.eof() {
				return "", s.syntaxError("unterminated escape sequence")
			}
			esc := s.data[s.pos]
			s.pos++
			switch esc {
			case '"':
				sb.WriteByte('"')
			case '\\':
				sb.WriteByte('\\')
			case '/':
				sb.WriteByte('/')
			case 'b':
				sb.WriteByte('\b')
			case 'f':
				sb.WriteByte('\f')
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			case 'u':
				r, err := s.parseUnicodeEscape()
				if err != nil {
					return "", err
				}
				sb.WriteRune(r)
			default:
				return "", s.syntaxError("invalid escape character %q", esc)
			}
		case c < 0x20:
			return "", s.syntaxError("unescaped control character in string")
		default:
			// Copy raw UTF-8 bytes through unchanged.
			sb.WriteByte(c)
			s.pos++
		}
	}
}

// parseUnicodeEscape decodes a \uXXXX sequence whose leading \u has
// already been consumed. Surrogate pairs are combined when the second
// half follows; a lone surrogate falls back to the replacement rune.
func (s *scanner) parseUnicodeEscape() (rune, error) {
	hi, err := s.readHex4()
	if err != nil {
		return 0, err
	}
	if utf16.IsSurrogate(rune(hi)) {
		if s.pos+1 < len(s.data) && s.data[s.pos] == '\\' && s.data[s.pos+1] == 'u' {
			save := s.pos
			s.pos += 2
			lo, err := s.readHex4()
			if err != nil {
				return 0, err
			}
			if r := utf16.DecodeRune(rune(hi), rune(lo)); r != utf8.RuneError {
				return r, nil
			}
			s.pos = save
		}
		return utf8.RuneError, nil
	}
	return rune(hi), nil
}

func (s *scanner) readHex4() (uint32, error) {
	if s.pos+4 > len(s.data) {
		return 0, s.syntaxError("truncated unicode escape")
	}
	var v uint32
	for i := 0; i < 4; i++ {
		c := s.data[s.pos]
		switch {
		case '0' <= c && c <= '9':
			v = v<<4 | uint32(c-'0')
		case 'a' <= c && c <= 'f':
			v = v<<4 | uint32(c-'a'+10)
		case 'A' <= c && c <= 'F':
			v = v<<4 | uint32(c-'A'+10)
		default:
			return 0, s.syntaxError("invalid hex digit %q in unicode escape", c)
		}
		s.pos++
	}
	return v, nil
}

func (s *scanner) parseNumber() (*models.Value, error) {
	start := s.pos
	if !s.eof() && s.peek() == '-' {
		s.pos++
	}
	digits := 0
	for !s.eof() && '0' <= s.peek() && s.peek() <= '9' {
		s.pos++
		digits++
	}
	if digits == 0 {
		return nil, s.syntaxError("invalid number")
	}
	if !s.eof() && s.peek() == '.' {
		s.pos++
		fracDigits := 0
		for !s.eof() && '0' <= s.peek() && s.peek() <= '9' {
			s.pos++
			fracDigits++
		}
		if fracDigits == 0 {
			return nil, s.syntaxError("missing digits after decimal point")
		}
	}
	if !s.eof() && (s.peek() == 'e' || s.peek() == 'E') {
		s.pos++
		if !s.eof() && (s.peek() == '+' || s.peek() == '-') {
			s.pos++
		}
		expDigits := 0
		for !s.eof() && '0' <= s.peek() && s.peek() <= '9' {
			s.pos++
			expDigits++
		}
		if expDigits == 0 {
			return nil, s.syntaxError("missing digits in exponent")
		}
	}
	num, err := strconv.ParseFloat(string(s.data[start:s.pos]), 64)
	if err != nil {
		return nil, errors.NewParsingError(
			fmt.Sprintf("number %q out of range", string(s.data[start:s.pos])),
			errors.ErrInvalidJSON,
		)
	}
	return models.NewNumber(num), nil
}
