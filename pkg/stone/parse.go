package stone

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/blink/pkg/domain"
)

// ParseError describes a token that is not a valid stone.
type ParseError struct {
	Token string // Offending token
	Index int    // Zero-based position of the token in the input
	Err   error  // Underlying strconv error, if any
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: token %d %q is not a non-negative integer", domain.ErrInvalidInput, e.Index, e.Token)
}

// Unwrap lets errors.Is match domain.ErrInvalidInput.
func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{domain.ErrInvalidInput}
	}
	return []error{domain.ErrInvalidInput, e.Err}
}

// Parse reads whitespace separated decimal integers. Blank input yields an
// empty, non-nil slice.
func Parse(input string) ([]uint64, error) {
	fields := strings.Fields(input)
	values := make([]uint64, 0, len(fields))
	for i, f := range fields {
		v, err := parseToken(f)
		if err != nil {
			return nil, &ParseError{Token: f, Index: i, Err: err}
		}
		values = append(values, v)
	}
	return values, nil
}

// parseToken is strict: base 10 only, no sign, no underscores.
func parseToken(tok string) (uint64, error) {
	return strconv.ParseUint(tok, 10, 64)
}

// Format renders stones the way Parse reads them.
func Format(values []uint64) string {
	var sb strings.Builder
	for i, v := range values {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.FormatUint(v, 10))
	}
	return sb.String()
}
