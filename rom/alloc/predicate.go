package alloc

import (
	"fmt"

	"github.com/joshuapare/romkit/rom/addr"
)

// Predicate restricts which flat offsets an allocation may occupy.
type Predicate interface {
	// Allow reports whether offset f may hold allocated data.
	Allow(f addr.Flat) bool
	// String names the predicate in errors and logs.
	String() string
}

// skipper is implemented by predicates that can jump over disallowed
// stretches instead of being checked byte by byte.
type skipper interface {
	// Next returns the first offset >= f that may be allowed.
	Next(f addr.Flat) addr.Flat
}

type anyPred struct{}

func (anyPred) Allow(addr.Flat) bool { return true }
func (anyPred) String() string       { return "any" }

// Any allows every offset. A nil Predicate means Any.
func Any() Predicate { return anyPred{} }

type bankPred struct {
	bank int
	in   bool
}

// InBank allows only offsets inside the given flat bank.
func InBank(bank int) Predicate { return bankPred{bank: bank, in: true} }

// NotInBank allows every offset outside the given flat bank.
func NotInBank(bank int) Predicate { return bankPred{bank: bank} }

func (p bankPred) Allow(f addr.Flat) bool {
	return (addr.FlatBank(f) == p.bank) == p.in
}

func (p bankPred) Next(f addr.Flat) addr.Flat {
	b := addr.FlatBank(f)
	start := addr.Flat(p.bank * addr.BankSize)
	switch {
	case p.in && b < p.bank:
		return start
	case p.in && b > p.bank:
		return addr.Flat(int(^uint(0) >> 1))
	case !p.in && b == p.bank:
		return start + addr.BankSize
	}
	return f
}

func (p bankPred) String() string {
	if p.in {
		return fmt.Sprintf("in bank 0x%02X", p.bank)
	}
	return fmt.Sprintf("not in bank 0x%02X", p.bank)
}

type funcPred struct {
	name string
	fn   func(addr.Flat) bool
}

func (p funcPred) Allow(f addr.Flat) bool { return p.fn(f) }
func (p funcPred) String() string         { return p.name }

// Func wraps fn as a named Predicate.
func Func(name string, fn func(addr.Flat) bool) Predicate {
	return funcPred{name: name, fn: fn}
}
