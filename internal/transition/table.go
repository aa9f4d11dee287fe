package transition

// Role is the pre-resolved role of the caller. Authentication happens
// upstream; this package only decides what a role may do.
type Role string

const (
	RoleOperator      Role = "OPERATOR"
	RoleApprover      Role = "APPROVER"
	RoleAdministrator Role = "ADMINISTRATOR"
)

func (r Role) Valid() bool {
	switch r {
	case RoleOperator, RoleApprover, RoleAdministrator:
		return true
	}
	return false
}

// CanApprove reports whether the role may approve, reject or re-resolve
// leave requests and onboarding.
func (r Role) CanApprove() bool {
	return r == RoleApprover || r == RoleAdministrator
}

// EmployeeState is the coarse availability status of a worker.
type EmployeeState string

const (
	EmployeePendingApproval EmployeeState = "PENDING_APPROVAL"
	EmployeeActive          EmployeeState = "ACTIVE"
	EmployeeOnVacation      EmployeeState = "ON_VACATION"
	EmployeeOnLeave         EmployeeState = "ON_LEAVE"
	EmployeeOnSickLeave     EmployeeState = "ON_SICK_LEAVE"
	EmployeeSuspended       EmployeeState = "SUSPENDED"
	EmployeeRetired         EmployeeState = "RETIRED"
	EmployeeRejected        EmployeeState = "REJECTED"
)

// AbsenceStates are the statuses an employee holds only while an open,
// approved leave or sick-leave record covers the current date.
var AbsenceStates = []EmployeeState{
	EmployeeOnVacation,
	EmployeeOnLeave,
	EmployeeOnSickLeave,
}

func IsAbsence(s EmployeeState) bool {
	for _, a := range AbsenceStates {
		if s == a {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is permitted from s,
// for any role.
func IsTerminal(s EmployeeState) bool {
	return s == EmployeeRetired || s == EmployeeRejected
}

// employeeTable holds the fixed, role-gated employee transition rules.
// This is domain reference data, not runtime configuration.
var employeeTable = map[EmployeeState]map[Role][]EmployeeState{
	EmployeeActive: {
		RoleOperator: {EmployeeOnVacation, EmployeeOnLeave, EmployeeOnSickLeave},
		RoleApprover: {EmployeeOnVacation, EmployeeOnLeave, EmployeeOnSickLeave,
			EmployeeSuspended, EmployeeRetired},
		RoleAdministrator: {EmployeeOnVacation, EmployeeOnLeave, EmployeeOnSickLeave,
			EmployeeSuspended, EmployeeRetired},
	},
	EmployeeOnVacation: {
		RoleOperator:      {EmployeeActive},
		RoleApprover:      {EmployeeActive},
		RoleAdministrator: {EmployeeActive},
	},
	EmployeeOnLeave: {
		RoleOperator:      {EmployeeActive},
		RoleApprover:      {EmployeeActive},
		RoleAdministrator: {EmployeeActive},
	},
	EmployeeOnSickLeave: {
		RoleOperator:      {EmployeeActive},
		RoleApprover:      {EmployeeActive},
		RoleAdministrator: {EmployeeActive},
	},
	EmployeeSuspended: {
		RoleOperator: {},
		RoleApprover: {EmployeeRetired},
		// Only an administrator can reactivate a suspended employee.
		RoleAdministrator: {EmployeeActive, EmployeeRetired},
	},
	EmployeePendingApproval: {
		RoleOperator:      {},
		RoleApprover:      {EmployeeActive, EmployeeRejected},
		RoleAdministrator: {EmployeeActive, EmployeeRejected},
	},
	EmployeeRetired:  {},
	EmployeeRejected: {},
}

// AllowedTargets returns the target states reachable from `from` by `role`.
// Terminal states have no targets for any role.
func AllowedTargets(from EmployeeState, role Role) []EmployeeState {
	byRole, ok := employeeTable[from]
	if !ok {
		return nil
	}
	targets := byRole[role]
	out := make([]EmployeeState, len(targets))
	copy(out, targets)
	return out
}

// Outcome classifies a requested transition.
type Outcome int

const (
	// OutcomeAllowed: the role may perform the transition.
	OutcomeAllowed Outcome = iota
	// OutcomeDeniedForRole: some role may reach the target, but not this one.
	OutcomeDeniedForRole
	// OutcomeInvalid: the target is unreachable for every role, or the
	// current state is terminal.
	OutcomeInvalid
)

// Check validates a requested employee transition against the table.
func Check(from, target EmployeeState, role Role) Outcome {
	if IsTerminal(from) {
		return OutcomeInvalid
	}
	byRole, ok := employeeTable[from]
	if !ok {
		return OutcomeInvalid
	}
	for _, t := range byRole[role] {
		if t == target {
			return OutcomeAllowed
		}
	}
	for _, targets := range byRole {
		for _, t := range targets {
			if t == target {
				return OutcomeDeniedForRole
			}
		}
	}
	return OutcomeInvalid
}
