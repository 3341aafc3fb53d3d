package auth

import "coupon-engine/internal/pkg/errs"

var (
	ErrInvalidRole    = errs.New("invalid role")
	ErrNotOperator    = errs.New("operator role required")
	ErrMissingSubject = errs.New("token subject is required")
)

type Role string

const (
	RoleViewer   Role = "viewer"
	RoleOperator Role = "operator"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleViewer, RoleOperator:
		return true
	default:
		return false
	}
}

func NewRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", ErrInvalidRole
	}
	return role, nil
}

// Principal is the caller a verified token speaks for.
type Principal struct {
	subject string
	role    Role
}

func NewPrincipal(subject string, role Role) (Principal, error) {
	if subject == "" {
		return Principal{}, ErrMissingSubject
	}
	if !role.IsValid() {
		return Principal{}, ErrInvalidRole
	}
	return Principal{subject: subject, role: role}, nil
}

func (p Principal) Subject() string { return p.subject }
func (p Principal) Role() Role      { return p.role }

// CanManageCoupons gates the catalog write endpoints.
func (p Principal) CanManageCoupons() bool {
	return p.role == RoleOperator
}
