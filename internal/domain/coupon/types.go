package coupon

import "coupon-engine/internal/pkg/errs"

type Type string

const (
	TypeCartWise    Type = "CART_WISE"
	TypeProductWise Type = "PRODUCT_WISE"
	TypeBxGy        Type = "BXGY"
)

func (t Type) String() string {
	return string(t)
}

func (t Type) IsValid() bool {
	switch t {
	case TypeCartWise, TypeProductWise, TypeBxGy:
		return true
	default:
		return false
	}
}

func ParseType(s string) (Type, error) {
	t := Type(s)
	if !t.IsValid() {
		return "", errs.Wrapf(ErrInvalidType, "unknown coupon type %q", s)
	}
	return t, nil
}

type Status string

const (
	StatusActive  Status = "ACTIVE"
	StatusUsed    Status = "USED"
	StatusExpired Status = "EXPIRED"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusUsed, StatusExpired:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == StatusUsed || s == StatusExpired
}

// CanTransitionTo allows staying put and leaving ACTIVE; terminal states never change.
func (s Status) CanTransitionTo(next Status) bool {
	if s == next {
		return true
	}
	return s == StatusActive && next.IsTerminal()
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", errs.Wrapf(ErrInvalidStatus, "unknown coupon status %q", s)
	}
	return st, nil
}
