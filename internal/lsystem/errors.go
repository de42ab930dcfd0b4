package lsystem

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes construction errors.
type ErrorCode string

const (
	// ErrCodeInvalidProduction indicates a production references a symbol outside the alphabet.
	ErrCodeInvalidProduction ErrorCode = "INVALID_PRODUCTION"

	// ErrCodeDuplicatePredecessor indicates two productions share a predecessor.
	ErrCodeDuplicatePredecessor ErrorCode = "DUPLICATE_PREDECESSOR"

	// ErrCodeUnknownSymbol indicates an axiom symbol outside the alphabet (strict mode only).
	ErrCodeUnknownSymbol ErrorCode = "UNKNOWN_SYMBOL"
)

// ConfigError is implemented by every error New can return.
type ConfigError interface {
	error
	Code() ErrorCode
}

// InvalidProductionError is returned by New when a production's predecessor or
// one of its successor symbols is not a member of the alphabet.
//
// Symbols are carried as any so callers can match with errors.As without
// knowing the engine's symbol type.
type InvalidProductionError struct {
	// Predecessor is the offending production's predecessor.
	Predecessor any

	// Symbol is the first symbol found outside the alphabet.
	Symbol any

	// Position is the offending symbol's index within the successor, or -1
	// when the predecessor itself is outside the alphabet.
	Position int

	// Index is the production's position in the input collection.
	Index int
}

// Error implements the error interface.
func (e *InvalidProductionError) Error() string {
	if e.Position < 0 {
		return fmt.Sprintf("%s: production %d: predecessor %v is not in the alphabet",
			ErrCodeInvalidProduction, e.Index, e.Predecessor)
	}
	return fmt.Sprintf("%s: production %d (%v): successor symbol %v at position %d is not in the alphabet",
		ErrCodeInvalidProduction, e.Index, e.Predecessor, e.Symbol, e.Position)
}

// Code returns ErrCodeInvalidProduction.
func (e *InvalidProductionError) Code() ErrorCode { return ErrCodeInvalidProduction }

// DuplicatePredecessorError is returned by New when two productions declare the
// same predecessor. Successors are not compared: equal predecessors always conflict.
type DuplicatePredecessorError struct {
	Predecessor any
	First       int // index of the first production with this predecessor
	Second      int // index of the conflicting production
}

// Error implements the error interface.
func (e *DuplicatePredecessorError) Error() string {
	return fmt.Sprintf("%s: predecessor %v declared by productions %d and %d",
		ErrCodeDuplicatePredecessor, e.Predecessor, e.First, e.Second)
}

// Code returns ErrCodeDuplicatePredecessor.
func (e *DuplicatePredecessorError) Code() ErrorCode { return ErrCodeDuplicatePredecessor }

// UnknownSymbolError is returned by New in strict mode when the axiom contains
// a symbol outside the alphabet.
type UnknownSymbolError struct {
	Symbol   any
	Position int // index within the axiom
}

// Error implements the error interface.
func (e *UnknownSymbolError) Error() string {
	return fmt.Sprintf("%s: axiom symbol %v at position %d is not in the alphabet",
		ErrCodeUnknownSymbol, e.Symbol, e.Position)
}

// Code returns ErrCodeUnknownSymbol.
func (e *UnknownSymbolError) Code() ErrorCode { return ErrCodeUnknownSymbol }

// IsInvalidProduction reports whether err is or wraps an InvalidProductionError.
func IsInvalidProduction(err error) bool {
	var ip *InvalidProductionError
	return errors.As(err, &ip)
}

// IsDuplicatePredecessor reports whether err is or wraps a DuplicatePredecessorError.
func IsDuplicatePredecessor(err error) bool {
	var dp *DuplicatePredecessorError
	return errors.As(err, &dp)
}

// IsUnknownSymbol reports whether err is or wraps an UnknownSymbolError.
func IsUnknownSymbol(err error) bool {
	var us *UnknownSymbolError
	return errors.As(err, &us)
}

// CodeOf returns the ErrorCode carried by err, or "" if err is not a ConfigError.
func CodeOf(err error) ErrorCode {
	var ce ConfigError
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}
