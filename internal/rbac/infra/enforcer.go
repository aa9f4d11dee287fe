package infra

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// rolePolicies grant each role its resource actions; the grouping rules
// below make Administrator inherit Approver, and Approver inherit
// Operator.
var rolePolicies = [][]string{
	{"OPERATOR", "employee", "read"},
	{"OPERATOR", "employee", "transition"},
	{"OPERATOR", "leave", "read"},
	{"OPERATOR", "leave", "create"},
	{"OPERATOR", "leave", "cancel"},
	{"OPERATOR", "leave", "update"},
	{"OPERATOR", "sick_leave", "read"},
	{"OPERATOR", "leave_type", "read"},
	{"OPERATOR", "tracking", "read"},

	{"APPROVER", "employee", "create"},
	{"APPROVER", "leave", "decide"},
	{"APPROVER", "leave", "convert"},
	{"APPROVER", "sick_leave", "create"},
	{"APPROVER", "sick_leave", "update"},

	{"ADMINISTRATOR", "sick_leave", "cancel"},
	{"ADMINISTRATOR", "leave_type", "manage"},
}

var roleHierarchy = [][]string{
	{"APPROVER", "OPERATOR"},
	{"ADMINISTRATOR", "APPROVER"},
}

// NewEnforcer builds the in-memory enforcer with the fixed role model.
// Policies are reference data, not runtime configuration, so no adapter
// or policy file is involved.
func NewEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, err
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	for _, p := range rolePolicies {
		if _, err := e.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, err
		}
	}
	for _, g := range roleHierarchy {
		if _, err := e.AddGroupingPolicy(g[0], g[1]); err != nil {
			return nil, err
		}
	}

	return e, nil
}
