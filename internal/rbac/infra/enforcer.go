package infra

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

// Role subjects only; company scoping is checked by the services against
// the principal, so the model has no domain.
const modelText = `[request_definition]
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

// DefaultPolicies is the built-in permission table.
var DefaultPolicies = [][]string{
	{"employee", "payslip", "read"},
	{"employee", "company", "read"},

	{"manager", "employee", "create"},
	{"manager", "employee", "read"},
	{"manager", "employee", "update"},
	{"manager", "transaction", "create"},
	{"manager", "transaction", "read"},
	{"manager", "transaction", "update"},
	{"manager", "transaction", "delete"},
	{"manager", "stream", "read"},

	{"admin", "employee", "delete"},
	{"admin", "company", "update"},
}

// DefaultRoleInheritance: admin inherits manager, manager inherits employee.
var DefaultRoleInheritance = [][]string{
	{"admin", "manager"},
	{"manager", "employee"},
}

func NewEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	if _, err := e.AddPolicies(DefaultPolicies); err != nil {
		return nil, err
	}
	if _, err := e.AddGroupingPolicies(DefaultRoleInheritance); err != nil {
		return nil, err
	}
	return e, nil
}
