package obo

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrInvalidDefinition   = errors.New("invalid definition format")
	ErrInvalidSynonymScope = errors.New("invalid synonym scope")
	ErrMissingIsASeparator = errors.New("missing required ! separator in is_a")
)

// ParseError is returned for a recognised field line that violates its
// grammar. Any ParseError aborts the whole parse.
type ParseError struct {
	Line  int
	Field string
	Text  string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v in %s line: %s", e.Line, e.Err, e.Field, e.Text)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
