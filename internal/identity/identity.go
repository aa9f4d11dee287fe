package identity

import (
	"os"
	"strconv"

	"go-foresthr/internal/transition"
)

// Actor is the pre-resolved caller of a state-changing operation. This
// core never authenticates; it only authorizes the role handed to it.
type Actor struct {
	ID   string
	Role transition.Role
}

// SystemActor is used by background jobs (deadline sweeper) when a ledger
// entry needs an actor.
var SystemActor = Actor{ID: "00000000-0000-0000-0000-000000000000", Role: transition.RoleAdministrator}

// RolePolicy maps a raw role claim to the effective role an actor acts as.
type RolePolicy interface {
	Resolve(raw string) transition.Role
}

// PassthroughPolicy keeps the claimed role, falling back to Operator for
// unknown values so a malformed claim never grants extra rights.
type PassthroughPolicy struct{}

func (PassthroughPolicy) Resolve(raw string) transition.Role {
	role := transition.Role(raw)
	if !role.Valid() {
		return transition.RoleOperator
	}
	return role
}

// ElevateAllPolicy maps every caller to Administrator. The legacy system
// ran with roles disabled; this keeps that behavior behind one explicit,
// isolated switch instead of bypass checks scattered through the engines.
type ElevateAllPolicy struct{}

func (ElevateAllPolicy) Resolve(string) transition.Role {
	return transition.RoleAdministrator
}

// PolicyFromEnv selects the role policy. IDENTITY_ELEVATE_ALL=true enables
// the legacy everyone-is-administrator mode; anything else is passthrough.
func PolicyFromEnv() RolePolicy {
	if on, _ := strconv.ParseBool(os.Getenv("IDENTITY_ELEVATE_ALL")); on {
		return ElevateAllPolicy{}
	}
	return PassthroughPolicy{}
}
