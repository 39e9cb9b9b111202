// Package number converts OCR text fragments into numeric values.
//
// Screenshots render numbers with thousands separators ("1,234") and
// magnitude suffixes ("2K", "1.5M", "3B"). OCR also misreads a literal zero
// glyph as a letter in some fonts, so callers may pass zero substitutes: text
// fragments that stand for the value 0.
package number

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// precision is the mantissa size used for intermediate arithmetic.
const precision = 128

// ErrNotNumber is wrapped by every *FormatError.
var ErrNotNumber = errors.New("not a number")

// FormatError reports a text fragment that could not be read as a number.
type FormatError struct {
	Text string
	Err  error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v: %q: %v", ErrNotNumber, e.Text, e.Err)
	}
	return fmt.Sprintf("%v: %q", ErrNotNumber, e.Text)
}

func (e *FormatError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrNotNumber}
	}
	return []error{ErrNotNumber, e.Err}
}

var suffixes = []struct {
	suffix     string
	multiplier int64
}{
	{"K", 1_000},
	{"M", 1_000_000},
	{"B", 1_000_000_000},
}

// Parse converts s to a float64.
//
// Rules are applied in order:
//  1. s equal to one of zeroSubstitutes is 0
//  2. s containing a comma has all commas removed
//  3. s ending with K, M or B (upper case) has the suffix removed and the rest
//     multiplied by one thousand, million or billion
//  4. otherwise s is parsed as a decimal number
//
// NaN and infinities are rejected.
func Parse(s string, zeroSubstitutes ...string) (float64, error) {
	if slices.Contains(zeroSubstitutes, s) {
		return 0, nil
	}

	if strings.Contains(s, ",") {
		return scaled(s, strings.ReplaceAll(s, ",", ""), 1)
	}

	for _, sfx := range suffixes {
		if strings.HasSuffix(s, sfx.suffix) {
			return scaled(s, strings.TrimSuffix(s, sfx.suffix), sfx.multiplier)
		}
	}

	return scaled(s, s, 1)
}

// ParseInt parses s like Parse and truncates the result toward zero.
func ParseInt(s string, zeroSubstitutes ...string) (int64, error) {
	f, err := Parse(s, zeroSubstitutes...)
	if err != nil {
		return 0, err
	}
	return Truncate(s, f)
}

// IsNumber reports whether Parse would succeed.
func IsNumber(s string, zeroSubstitutes ...string) bool {
	_, err := Parse(s, zeroSubstitutes...)
	return err == nil
}

// IsInteger reports whether ParseInt would succeed.
func IsInteger(s string, zeroSubstitutes ...string) bool {
	_, err := ParseInt(s, zeroSubstitutes...)
	return err == nil
}

// SuffixMultiplier maps a magnitude word or letter to its multiplier using
// the first rune, case-insensitively: k is one thousand, m one million and b
// one billion. Anything else is 1.
func SuffixMultiplier(suffix string) int64 {
	r, _ := utf8.DecodeRuneInString(suffix)
	switch unicode.ToLower(r) {
	case 'k':
		return 1_000
	case 'm':
		return 1_000_000
	case 'b':
		return 1_000_000_000
	}
	return 1
}

// Multiply returns value*multiplier computed at 128-bit precision.
func Multiply(value float64, multiplier int64) float64 {
	v := new(big.Float).SetPrec(precision).SetFloat64(value)
	m := new(big.Float).SetPrec(precision).SetInt64(multiplier)
	out, _ := v.Mul(v, m).Float64()
	return out
}

// Truncate converts f to an int64 by truncating toward zero. text is only
// used for the error message.
func Truncate(text string, f float64) (int64, error) {
	t := math.Trunc(f)
	if math.IsNaN(t) || t < math.MinInt64 || t >= math.MaxInt64 {
		return 0, &FormatError{Text: text, Err: errors.New("out of integer range")}
	}
	return int64(t), nil
}

func scaled(original, digits string, multiplier int64) (float64, error) {
	if strings.ContainsAny(digits, "xXpP_") {
		return 0, &FormatError{Text: original}
	}
	v, _, err := big.ParseFloat(strings.TrimSpace(digits), 10, precision, big.ToNearestEven)
	if err != nil {
		return 0, &FormatError{Text: original, Err: err}
	}
	if v.IsInf() {
		return 0, &FormatError{Text: original, Err: errors.New("infinite value")}
	}
	if multiplier != 1 {
		v.Mul(v, new(big.Float).SetPrec(precision).SetInt64(multiplier))
	}
	out, _ := v.Float64()
	if math.IsInf(out, 0) {
		return 0, &FormatError{Text: original, Err: errors.New("out of float range")}
	}
	return out, nil
}
