// Package access decides whether a caller may perform an operation on a
// resource. Each operation declares the roles it needs and whether the caller
// must own the resource; both checks go through Requires.
package access

import (
	"errors"
	"strings"

	"github.com/harentsoaR/pharmaca-api/internal/models"
)

var ErrDenied = errors.New("forbidden access")

type Operation string

const (
	ListUsers      Operation = "users:list"
	ReadOwnRole    Operation = "users:role:read"
	ChangeRole     Operation = "users:role:write"
	SubmitProduct  Operation = "products:submit"
	ListOwnProduct Operation = "products:own"
	ManageCart     Operation = "cart:manage"
	ManageCategory Operation = "categories:manage"
	Checkout       Operation = "payments:create"
	ReadOwnPayment Operation = "payments:own"
	ListPayments   Operation = "payments:list"
	ConfirmPayment Operation = "payments:confirm"
	SubmitBanner   Operation = "banners:submit"
	ListOwnBanner  Operation = "banners:own"
	ManageBanner   Operation = "banners:manage"
	AdminStats     Operation = "stats:admin"
	SellerStats    Operation = "stats:seller"
)

// Rule is what an operation requires of the caller.
type Rule struct {
	Roles []models.Role // empty: any authenticated caller
	Owner bool          // caller's email must equal the resource owner
}

// Identity is the verified caller. Role is only filled in when the
// operation's rule names roles.
type Identity struct {
	Email string
	Role  models.Role
}

// Resource carries the owning email of the thing being acted upon.
type Resource struct {
	OwnerEmail string
}

type Decision struct {
	Allowed bool
	Reason  string
}

type Policy struct {
	rules map[Operation]Rule
}

func NewPolicy(rules map[Operation]Rule) *Policy {
	return &Policy{rules: rules}
}

// DefaultPolicy is the storefront's rule table.
func DefaultPolicy() *Policy {
	admin := []models.Role{models.RoleAdmin}
	seller := []models.Role{models.RoleSeller}
	return NewPolicy(map[Operation]Rule{
		ListUsers:      {Roles: admin},
		ReadOwnRole:    {Owner: true},
		ChangeRole:     {Roles: admin},
		SubmitProduct:  {Roles: seller},
		ListOwnProduct: {Roles: seller, Owner: true},
		ManageCart:     {Owner: true},
		ManageCategory: {Roles: admin},
		Checkout:       {Owner: true},
		ReadOwnPayment: {Owner: true},
		ListPayments:   {Roles: admin},
		ConfirmPayment: {Roles: admin},
		SubmitBanner:   {Roles: seller},
		ListOwnBanner:  {Roles: seller, Owner: true},
		ManageBanner:   {Roles: admin},
		AdminStats:     {Roles: admin},
		SellerStats:    {Roles: seller, Owner: true},
	})
}

// Rule reports the rule for op. Unknown operations are denied.
func (p *Policy) Rule(op Operation) (Rule, bool) {
	r, ok := p.rules[op]
	return r, ok
}

// NeedsRole reports whether evaluating op requires the caller's role.
func (p *Policy) NeedsRole(op Operation) bool {
	r, ok := p.rules[op]
	return ok && len(r.Roles) > 0
}

func (p *Policy) Requires(id Identity, op Operation, res Resource) Decision {
	rule, ok := p.rules[op]
	if !ok {
		return Decision{Reason: "unknown operation"}
	}
	if id.Email == "" {
		return Decision{Reason: "unauthenticated"}
	}
	if len(rule.Roles) > 0 && !hasRole(id.Role, rule.Roles) {
		return Decision{Reason: "insufficient role"}
	}
	if rule.Owner && !strings.EqualFold(id.Email, res.OwnerEmail) {
		return Decision{Reason: "not the owner"}
	}
	return Decision{Allowed: true}
}

func hasRole(role models.Role, allowed []models.Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
