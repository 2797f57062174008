package diagnostics

import (
	"fmt"

	"github.com/matrixlang/matrixlang/internal/token"
)

// Error codes. The first letter identifies the stage: L lexer, P parser,
// T type checker, R runtime.
const (
	ErrL001 = "L001" // unterminated string
	ErrL002 = "L002" // invalid character

	ErrP001 = "P001" // unexpected token
	ErrP002 = "P002" // unterminated construct

	ErrT001 = "T001" // type mismatch
	ErrT002 = "T002" // infinite type
	ErrT003 = "T003" // unknown identifier
	ErrT004 = "T004" // arity mismatch

	ErrR001 = "R001" // division by zero
	ErrR002 = "R002" // undefined variable
	ErrR003 = "R003" // argument mismatch
	ErrR004 = "R004" // index out of bounds
	ErrR005 = "R005" // recursion limit exceeded
)

var kinds = map[string]string{
	ErrL001: "LexError::UnterminatedString",
	ErrL002: "LexError::InvalidCharacter",
	ErrP001: "ParseError::UnexpectedToken",
	ErrP002: "ParseError::UnterminatedConstruct",
	ErrT001: "TypeError::Mismatch",
	ErrT002: "TypeError::InfiniteType",
	ErrT003: "TypeError::UnknownIdentifier",
	ErrT004: "TypeError::ArityMismatch",
	ErrR001: "RuntimeError::DivisionByZero",
	ErrR002: "RuntimeError::UndefinedVariable",
	ErrR003: "RuntimeError::ArgumentMismatch",
	ErrR004: "RuntimeError::IndexOutOfBounds",
	ErrR005: "RuntimeError::RecursionLimit",
}

// Error is a positioned diagnostic produced by any pipeline stage.
type Error struct {
	Code    string
	Message string
	Line    int
	Column  int
	File    string
}

// Error formats as "<ErrorKind>: <message> at line L, column C".
func (e *Error) Error() string {
	kind := kinds[e.Code]
	if kind == "" {
		kind = e.Code
	}
	return fmt.Sprintf("%s: %s at line %d, column %d", kind, e.Message, e.Line, e.Column)
}

// Kind returns the taxonomy name for the error code, e.g.
// "TypeError::Mismatch".
func (e *Error) Kind() string {
	if kind, ok := kinds[e.Code]; ok {
		return kind
	}
	return e.Code
}

func NewError(code string, tok token.Token, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Line:    tok.Line,
		Column:  tok.Column,
	}
}

func NewErrorAt(code string, line, column int, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Line:    line,
		Column:  column,
	}
}
