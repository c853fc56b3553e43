// Package orderid allocates identifiers for new orders.
package orderid

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/schoolsupply/orderdesk/internal/enum"
)

// maxRandomAttempts bounds how many random tokens are tried before giving up.
const maxRandomAttempts = 16

// ErrExhausted is returned when no unused random id could be found.
var ErrExhausted = errors.New("orderid: no free id after max attempts")

// Allocator picks the next id given the ids already in use.
type Allocator interface {
	Next(existing []string) (string, error)
}

// New returns the allocator for strategy. Empty means sequential.
func New(strategy string) (Allocator, error) {
	switch strategy {
	case "", enum.OrderIDSequential:
		return Sequential{}, nil
	case enum.OrderIDRandom:
		return Random{}, nil
	default:
		return nil, fmt.Errorf("orderid: unknown strategy %q", strategy)
	}
}

// Sequential allocates max(numeric ids)+1 padded to four digits.
// Non-digit characters are stripped before comparing; ids with no digits
// are ignored.
type Sequential struct{}

// Next implements Allocator.
func (Sequential) Next(existing []string) (string, error) {
	var max uint64
	for _, id := range existing {
		digits := strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' {
				return r
			}
			return -1
		}, id)
		if digits == "" {
			continue
		}
		n, err := strconv.ParseUint(digits, 10, 64)
		if err != nil {
			return "", fmt.Errorf("orderid: parse %q: %w", id, err)
		}
		if n > max {
			max = n
		}
	}
	return fmt.Sprintf("%04d", max+1), nil
}

// Random allocates 8 lowercase hex characters not present in existing.
type Random struct {
	// Source overrides the token generator. Tests only.
	Source func() string
}

// Next implements Allocator.
func (r Random) Next(existing []string) (string, error) {
	used := make(map[string]bool, len(existing))
	for _, id := range existing {
		used[strings.ToLower(id)] = true
	}
	gen := r.Source
	if gen == nil {
		gen = token
	}
	for range maxRandomAttempts {
		id := gen()
		if !used[id] {
			return id, nil
		}
	}
	return "", ErrExhausted
}

func token() string {
	u := uuid.New()
	return hex.EncodeToString(u[:4])
}
