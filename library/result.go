package library

import "fmt"

// Result is the outcome of a circulation operation. Every rejection is an
// ordinary value; nothing in the core returns an error.
type Result int

const (
	Success Result = iota
	PatronNotFound
	ItemNotFound
	AlreadyCheckedOut
	HeldByOther
	NotCheckedOut
	AlreadyOnHold
)

func (r Result) String() string {
	switch r {
	case Success:
		return "success"
	case PatronNotFound:
		return "patron not found"
	case ItemNotFound:
		return "item not found"
	case AlreadyCheckedOut:
		return "item already checked out"
	case HeldByOther:
		return "item on hold by other patron"
	case NotCheckedOut:
		return "item already in library"
	case AlreadyOnHold:
		return "item already on hold"
	default:
		return fmt.Sprintf("Result(%d)", int(r))
	}
}

// OK reports whether the operation applied.
func (r Result) OK() bool { return r == Success }

// Operation names a mutating library call.
type Operation string

const (
	OpCheckOut Operation = "checkout"
	OpReturn   Operation = "return"
	OpRequest  Operation = "request"
	OpPayFine  Operation = "pay"
	OpAdvance  Operation = "advance"
	OpFine     Operation = "fine"
)

// Describe renders r the way the circulation desk reports it for op.
func Describe(op Operation, r Result) string {
	if r != Success {
		return r.String()
	}
	switch op {
	case OpCheckOut:
		return "check out successful"
	case OpReturn:
		return "return successful"
	case OpRequest:
		return "request successful"
	case OpPayFine:
		return "payment successful"
	case OpAdvance:
		return "date advanced"
	case OpFine:
		return "fine posted"
	default:
		return r.String()
	}
}
