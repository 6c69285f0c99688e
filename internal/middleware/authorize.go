package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/pharmaca-api/internal/access"
	"github.com/harentsoaR/pharmaca-api/internal/models"
	"github.com/harentsoaR/pharmaca-api/internal/store"
)

// RoleLookup resolves a caller's stored role. *services.UserService satisfies it.
type RoleLookup interface {
	Role(ctx context.Context, email string) (models.Role, error)
}

// ResourceFunc extracts the resource an operation acts on from the request.
type ResourceFunc func(c *gin.Context) access.Resource

// OwnerParam reads the owning email from a path parameter.
func OwnerParam(name string) ResourceFunc {
	return func(c *gin.Context) access.Resource {
		return access.Resource{OwnerEmail: c.Param(name)}
	}
}

// Gate evaluates the access policy for authenticated requests.
type Gate struct {
	Policy *access.Policy
	Roles  RoleLookup
}

func NewGate(policy *access.Policy, roles RoleLookup) *Gate {
	return &Gate{Policy: policy, Roles: roles}
}

// Require is route middleware for operations whose resource can be read from
// the path. Pass nil for operations without an owner.
func (g *Gate) Require(op access.Operation, resource ResourceFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		var res access.Resource
		if resource != nil {
			res = resource(c)
		}
		if !g.Allow(c, op, res) {
			return
		}
		c.Next()
	}
}

// Allow checks op against res and aborts the request when denied. Handlers
// call it directly when the owner is only known after reading the body or a
// stored document.
func (g *Gate) Allow(c *gin.Context, op access.Operation, res access.Resource) bool {
	id := access.Identity{Email: Email(c)}
	if id.Email != "" && g.Policy.NeedsRole(op) {
		role, err := g.Roles.Role(c.Request.Context(), id.Email)
		switch {
		case errors.Is(err, store.ErrNotFound):
		case err != nil:
			log.Printf("[%s] role lookup for %s: %v", RequestID(c), id.Email, err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
			return false
		default:
			id.Role = role
		}
	}

	if d := g.Policy.Requires(id, op, res); !d.Allowed {
		log.Printf("[%s] %s denied for %q: %s", RequestID(c), op, id.Email, d.Reason)
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": access.ErrDenied.Error()})
		return false
	}
	return true
}
