package textfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encoding names accepted by Decode.
const (
	EncodingAuto     = "auto"
	EncodingUTF8     = "utf-8"
	EncodingUTF16    = "utf-16"
	EncodingShiftJIS = "shift-jis"
	EncodingGBK      = "gbk"
)

// ErrUndecodable is returned when no candidate encoding produces clean text.
var ErrUndecodable = errors.New("textfile: text is not valid in any supported encoding")

var (
	utf8BOM    = []byte{0xEF, 0xBB, 0xBF}
	utf16LEBOM = []byte{0xFF, 0xFE}
	utf16BEBOM = []byte{0xFE, 0xFF}
)

// autoFallbacks are tried in order when auto-detected text is not UTF-8.
// PlayStation titles are overwhelmingly Japanese, so Shift-JIS goes first.
var autoFallbacks = []struct {
	name string
	enc  encoding.Encoding
}{
	{EncodingShiftJIS, japanese.ShiftJIS},
	{EncodingGBK, simplifiedchinese.GBK},
}

// Decode converts data to UTF-8 and reports the encoding that was used.
func Decode(data []byte, enc string) (string, string, error) {
	if bytes.HasPrefix(data, utf16LEBOM) || bytes.HasPrefix(data, utf16BEBOM) {
		text, err := decodeWith(unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), data)
		return text, EncodingUTF16, err
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	switch strings.ToLower(strings.TrimSpace(enc)) {
	case EncodingUTF8:
		if !utf8.Valid(data) {
			return "", EncodingUTF8, fmt.Errorf("%w: invalid UTF-8", ErrUndecodable)
		}
		return string(data), EncodingUTF8, nil
	case EncodingShiftJIS:
		text, err := decodeWith(japanese.ShiftJIS, data)
		return text, EncodingShiftJIS, err
	case EncodingGBK:
		text, err := decodeWith(simplifiedchinese.GBK, data)
		return text, EncodingGBK, err
	case EncodingAuto, "":
	default:
		return "", "", fmt.Errorf("textfile: unsupported encoding %q", enc)
	}

	if utf8.Valid(data) {
		return string(data), EncodingUTF8, nil
	}
	for _, candidate := range autoFallbacks {
		text, err := decodeWith(candidate.enc, data)
		if err == nil && !strings.ContainsRune(text, utf8.RuneError) {
			return text, candidate.name, nil
		}
	}
	return "", "", ErrUndecodable
}

func decodeWith(enc encoding.Encoding, data []byte) (string, error) {
	decoded, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), enc.NewDecoder()))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	return string(decoded), nil
}
