package lsystem

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorHelpers_Wrapped(t *testing.T) {
	ip := fmt.Errorf("build koch: %w", &InvalidProductionError{Predecessor: "F", Symbol: "G", Position: 2})
	dp := fmt.Errorf("build koch: %w", &DuplicatePredecessorError{Predecessor: "F", First: 0, Second: 3})
	us := fmt.Errorf("build koch: %w", &UnknownSymbolError{Symbol: "?", Position: 4})

	assert.True(t, IsInvalidProduction(ip))
	assert.True(t, IsDuplicatePredecessor(dp))
	assert.True(t, IsUnknownSymbol(us))

	assert.False(t, IsInvalidProduction(dp))
	assert.False(t, IsDuplicatePredecessor(us))
	assert.False(t, IsUnknownSymbol(ip))

	assert.Equal(t, ErrCodeInvalidProduction, CodeOf(ip))
	assert.Equal(t, ErrCodeDuplicatePredecessor, CodeOf(dp))
	assert.Equal(t, ErrCodeUnknownSymbol, CodeOf(us))
	assert.Equal(t, ErrorCode(""), CodeOf(errors.New("plain")))
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t,
		"DUPLICATE_PREDECESSOR: predecessor a declared by productions 0 and 2",
		(&DuplicatePredecessorError{Predecessor: "a", First: 0, Second: 2}).Error())
	assert.Equal(t,
		"UNKNOWN_SYMBOL: axiom symbol x at position 1 is not in the alphabet",
		(&UnknownSymbolError{Symbol: "x", Position: 1}).Error())
	assert.Equal(t,
		"INVALID_PRODUCTION: production 3: predecessor n is not in the alphabet",
		(&InvalidProductionError{Predecessor: "n", Symbol: "n", Position: -1, Index: 3}).Error())
}
