package transition_test

import (
	"testing"

	"go-foresthr/internal/transition"

	"github.com/stretchr/testify/assert"
)

func TestIsTerminal(t *testing.T) {
	assert.True(t, transition.IsTerminal(transition.EmployeeRetired))
	assert.True(t, transition.IsTerminal(transition.EmployeeRejected))
	assert.False(t, transition.IsTerminal(transition.EmployeeActive))
	assert.False(t, transition.IsTerminal(transition.EmployeeSuspended))
	assert.False(t, transition.IsTerminal(transition.EmployeePendingApproval))
}

func TestTerminalStatesRejectEveryRequest(t *testing.T) {
	roles := []transition.Role{
		transition.RoleOperator,
		transition.RoleApprover,
		transition.RoleAdministrator,
	}
	targets := []transition.EmployeeState{
		transition.EmployeeActive,
		transition.EmployeeOnVacation,
		transition.EmployeeOnLeave,
		transition.EmployeeOnSickLeave,
		transition.EmployeeSuspended,
		transition.EmployeeRetired,
		transition.EmployeeRejected,
		transition.EmployeePendingApproval,
	}

	for _, from := range []transition.EmployeeState{transition.EmployeeRetired, transition.EmployeeRejected} {
		for _, role := range roles {
			assert.Empty(t, transition.AllowedTargets(from, role))
			for _, target := range targets {
				assert.Equal(t, transition.OutcomeInvalid, transition.Check(from, target, role),
					"from=%s target=%s role=%s", from, target, role)
			}
		}
	}
}

func TestSuspendedReactivationIsAdministratorOnly(t *testing.T) {
	assert.NotContains(t,
		transition.AllowedTargets(transition.EmployeeSuspended, transition.RoleApprover),
		transition.EmployeeActive)
	assert.Contains(t,
		transition.AllowedTargets(transition.EmployeeSuspended, transition.RoleAdministrator),
		transition.EmployeeActive)

	assert.Equal(t, transition.OutcomeDeniedForRole,
		transition.Check(transition.EmployeeSuspended, transition.EmployeeActive, transition.RoleApprover))
	assert.Equal(t, transition.OutcomeAllowed,
		transition.Check(transition.EmployeeSuspended, transition.EmployeeActive, transition.RoleAdministrator))
}

func TestOperatorAbsenceRoundTrip(t *testing.T) {
	for _, absence := range transition.AbsenceStates {
		assert.Equal(t, transition.OutcomeAllowed,
			transition.Check(transition.EmployeeActive, absence, transition.RoleOperator))
		assert.Equal(t, transition.OutcomeAllowed,
			transition.Check(absence, transition.EmployeeActive, transition.RoleOperator))
	}
}

func TestOperatorCannotSuspendOrRetire(t *testing.T) {
	assert.Equal(t, transition.OutcomeDeniedForRole,
		transition.Check(transition.EmployeeActive, transition.EmployeeSuspended, transition.RoleOperator))
	assert.Equal(t, transition.OutcomeDeniedForRole,
		transition.Check(transition.EmployeeActive, transition.EmployeeRetired, transition.RoleOperator))
}

func TestOnboardingDecisionNeedsApprover(t *testing.T) {
	assert.Equal(t, transition.OutcomeDeniedForRole,
		transition.Check(transition.EmployeePendingApproval, transition.EmployeeActive, transition.RoleOperator))
	assert.Equal(t, transition.OutcomeAllowed,
		transition.Check(transition.EmployeePendingApproval, transition.EmployeeActive, transition.RoleApprover))
	assert.Equal(t, transition.OutcomeAllowed,
		transition.Check(transition.EmployeePendingApproval, transition.EmployeeRejected, transition.RoleAdministrator))
}

func TestUnreachableTargetIsInvalid(t *testing.T) {
	// No role may move an active employee back to pending approval.
	for _, role := range []transition.Role{
		transition.RoleOperator,
		transition.RoleApprover,
		transition.RoleAdministrator,
	} {
		assert.Equal(t, transition.OutcomeInvalid,
			transition.Check(transition.EmployeeActive, transition.EmployeePendingApproval, role))
	}
}
