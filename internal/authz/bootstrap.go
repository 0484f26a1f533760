package authz

import (
	"fmt"

	"github.com/taxepay/internal/constants"
)

// RoleSeed declares a built-in role with its default policies
type RoleSeed struct {
	Role     string
	Inherits []string
	Policies []Policy
	// Immutable roles are always re-seeded on startup
	Immutable bool
}

// BuiltinRoleSeeds default roles created on startup
var BuiltinRoleSeeds = []RoleSeed{
	{
		Role:      constants.RoleAdmin,
		Immutable: true,
		Policies: []Policy{
			{Object: constants.AuthzObjectPayments, Action: constants.AuthzActionView},
			{Object: constants.AuthzObjectPayments, Action: constants.AuthzActionCreate},
			{Object: constants.AuthzObjectPayments, Action: constants.AuthzActionSendReceipt},
			{Object: constants.AuthzObjectOperators, Action: constants.AuthzActionView},
			{Object: constants.AuthzObjectAudit, Action: constants.AuthzActionView},
		},
	},
	{
		Role: constants.RoleAgent,
		Policies: []Policy{
			{Object: constants.AuthzObjectPayments, Action: constants.AuthzActionView},
			{Object: constants.AuthzObjectPayments, Action: constants.AuthzActionCreate},
			{Object: constants.AuthzObjectPayments, Action: constants.AuthzActionSendReceipt},
			{Object: constants.AuthzObjectOperators, Action: constants.AuthzActionView},
		},
	},
	{
		Role: constants.RoleOperator,
		Policies: []Policy{
			{Object: constants.AuthzObjectPayments, Action: constants.AuthzActionView},
		},
	},
}

// BootstrapBuiltinRoles seeds the built-in roles and their policies.
// Existing custom policies of mutable roles are preserved.
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}

	for _, seed := range BuiltinRoleSeeds {
		role, err := s.EnsureRole(seed.Role)
		if err != nil {
			return fmt.Errorf("seed role %s failed: %w", seed.Role, err)
		}

		for _, parent := range seed.Inherits {
			parentRole, err := s.EnsureRole(parent)
			if err != nil {
				return fmt.Errorf("seed parent role %s failed: %w", parent, err)
			}
			if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, parentRole); err != nil {
				return fmt.Errorf("seed role inheritance %s -> %s failed: %w", role, parentRole, err)
			}
		}

		for _, policy := range seed.Policies {
			if err := s.GrantRolePolicy(role, policy.Object, policy.Action); err != nil {
				return fmt.Errorf("seed role policy %s failed: %w", role, err)
			}
		}
	}

	return s.saveAndReload()
}
