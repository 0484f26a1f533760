package authz

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/taxepay/internal/constants"
)

func setupAuthzServiceTest(t *testing.T) *Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	svc, err := NewService(db)
	if err != nil {
		t.Fatalf("new authz service: %v", err)
	}
	return svc
}

func TestEnforceUserWithGrantedRole(t *testing.T) {
	svc := setupAuthzServiceTest(t)

	if err := svc.GrantRolePolicy("agent", "payments", "create"); err != nil {
		t.Fatalf("grant policy: %v", err)
	}
	if err := svc.SetUserRoles(42, []string{"agent"}); err != nil {
		t.Fatalf("set user roles: %v", err)
	}

	allowed, err := svc.EnforceUser(42, "payments", "create")
	if err != nil {
		t.Fatalf("enforce: %v", err)
	}
	if !allowed {
		t.Fatalf("expected agent to create payments")
	}

	denied, err := svc.EnforceUser(42, "payments", "send_receipt")
	if err != nil {
		t.Fatalf("enforce: %v", err)
	}
	if denied {
		t.Fatalf("expected send_receipt to be denied")
	}
}

func TestEnforceUserWithoutRoles(t *testing.T) {
	svc := setupAuthzServiceTest(t)

	if err := svc.GrantRolePolicy("agent", "payments", "view"); err != nil {
		t.Fatalf("grant policy: %v", err)
	}

	allowed, err := svc.EnforceUser(7, "payments", "view")
	if err != nil {
		t.Fatalf("enforce: %v", err)
	}
	if allowed {
		t.Fatalf("user without roles should be denied")
	}
}

func TestBootstrapBuiltinRoles(t *testing.T) {
	svc := setupAuthzServiceTest(t)

	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	if err := svc.SetUserRoles(1, []string{constants.RoleAdmin}); err != nil {
		t.Fatalf("set admin roles: %v", err)
	}
	if err := svc.SetUserRoles(2, []string{constants.RoleOperator}); err != nil {
		t.Fatalf("set operator roles: %v", err)
	}

	allowed, err := svc.EnforceUser(1, constants.AuthzObjectPayments, constants.AuthzActionSendReceipt)
	if err != nil {
		t.Fatalf("enforce admin: %v", err)
	}
	if !allowed {
		t.Fatalf("admin should send receipts")
	}

	allowed, err = svc.EnforceUser(2, constants.AuthzObjectPayments, constants.AuthzActionView)
	if err != nil {
		t.Fatalf("enforce operator view: %v", err)
	}
	if !allowed {
		t.Fatalf("operator should view payments")
	}

	allowed, err = svc.EnforceUser(2, constants.AuthzObjectPayments, constants.AuthzActionCreate)
	if err != nil {
		t.Fatalf("enforce operator create: %v", err)
	}
	if allowed {
		t.Fatalf("operator should not create payments")
	}

	roles, err := svc.ListRoles()
	if err != nil {
		t.Fatalf("list roles: %v", err)
	}
	if len(roles) != 3 {
		t.Fatalf("expected 3 built-in roles, got %v", roles)
	}
}

func TestSetUserRolesReplacesExisting(t *testing.T) {
	svc := setupAuthzServiceTest(t)

	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	if err := svc.SetUserRoles(9, []string{constants.RoleAgent}); err != nil {
		t.Fatalf("set roles: %v", err)
	}
	if err := svc.SetUserRoles(9, []string{constants.RoleOperator}); err != nil {
		t.Fatalf("replace roles: %v", err)
	}

	roles, err := svc.GetUserRoles(9)
	if err != nil {
		t.Fatalf("get roles: %v", err)
	}
	if len(roles) != 1 || roles[0] != rolePrefix+constants.RoleOperator {
		t.Fatalf("expected only operator role, got %v", roles)
	}

	allowed, err := svc.EnforceUser(9, constants.AuthzObjectPayments, constants.AuthzActionCreate)
	if err != nil {
		t.Fatalf("enforce: %v", err)
	}
	if allowed {
		t.Fatalf("agent permission should be gone after role change")
	}
}

func TestNormalizeRole(t *testing.T) {
	if _, err := NormalizeRole("  "); err == nil {
		t.Fatalf("blank role should fail")
	}
	role, err := NormalizeRole("agent")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if role != "role:agent" {
		t.Fatalf("unexpected role %q", role)
	}
	role, err = NormalizeRole("role:agent")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if role != "role:agent" {
		t.Fatalf("role prefix should not be doubled, got %q", role)
	}
}
