// Copyright 2025 CRE Studio Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package service

import (
	"testing"

	"github.com/ibrahim77gh/cre-studio-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanViewManagementConsole(t *testing.T) {
	st := newStore()
	p := st.addProperty("P", nil)

	super := st.addUser("root@x.com", true)
	padmin := st.addUser("padmin@x.com", false)
	st.addMembership(padmin.ID, model.RolePropertyAdmin, &p.ID, nil)
	tenant := st.addUser("tenant@x.com", false)
	st.addMembership(tenant.ID, model.RoleTenant, &p.ID, nil)
	loner := st.addUser("loner@x.com", false)

	_, perm, _, _, _, _ := newServices(st)

	for _, tc := range []struct {
		name string
		user *model.User
		want bool
	}{
		{"superuser", super, true},
		{"property admin", padmin, true},
		{"tenant", tenant, false},
		{"no memberships", loner, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := perm.CanViewManagementConsole(tc.user)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCanManageUserSuperuserManagesEveryone(t *testing.T) {
	st := newStore()
	super := st.addUser("root@x.com", true)
	other := st.addUser("other@x.com", false)
	otherSuper := st.addUser("root2@x.com", true)

	_, perm, _, _, _, _ := newServices(st)

	ok, err := perm.CanManageUser(super, other)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = perm.CanManageUser(super, otherSuper)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCanManageUserNeverSelf(t *testing.T) {
	st := newStore()
	super := st.addUser("root@x.com", true)

	_, perm, _, _, _, _ := newServices(st)

	ok, err := perm.CanManageUser(super, super)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCanManageUserNonSuperCannotTouchSuper(t *testing.T) {
	st := newStore()
	g := st.addGroup("G")
	admin := st.addUser("admin@x.com", false)
	st.addMembership(admin.ID, model.RoleGroupAdmin, nil, &g.ID)
	super := st.addUser("root@x.com", true)

	_, perm, _, _, _, _ := newServices(st)

	ok, err := perm.CanManageUser(admin, super)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCanManageUserWithinScope(t *testing.T) {
	st := newStore()
	g := st.addGroup("G")
	p := st.addProperty("P", &g.ID)
	other := st.addProperty("Other", nil)

	admin := st.addUser("admin@x.com", false)
	st.addMembership(admin.ID, model.RoleGroupAdmin, nil, &g.ID)

	inside := st.addUser("inside@x.com", false)
	st.addMembership(inside.ID, model.RoleTenant, &p.ID, nil)
	outside := st.addUser("outside@x.com", false)
	st.addMembership(outside.ID, model.RoleTenant, &other.ID, nil)

	_, perm, _, _, _, _ := newServices(st)

	ok, err := perm.CanManageUser(admin, inside)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = perm.CanManageUser(admin, outside)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestValidateRoleScopeStructuralRules(t *testing.T) {
	st := newStore()
	_, perm, _, _, _, _ := newServices(st)

	pid := ptr(uint64(1))
	gid := ptr(uint64(2))

	for _, tc := range []struct {
		name    string
		role    model.Role
		prop    *uint64
		group   *uint64
		wantErr bool
	}{
		{"group admin with group", model.RoleGroupAdmin, nil, gid, false},
		{"group admin without group", model.RoleGroupAdmin, nil, nil, true},
		{"group admin with property", model.RoleGroupAdmin, pid, gid, true},
		{"tenant with property", model.RoleTenant, pid, nil, false},
		{"tenant with group", model.RoleTenant, nil, gid, true},
		{"property admin without property", model.RolePropertyAdmin, nil, nil, true},
		{"property admin with group", model.RolePropertyAdmin, pid, gid, true},
		{"super user unscoped", model.RoleSuperUser, nil, nil, false},
		{"super user with property", model.RoleSuperUser, pid, nil, true},
		{"super user with group", model.RoleSuperUser, nil, gid, true},
		{"unknown role", model.Role("owner"), nil, nil, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := perm.ValidateRoleScope(tc.role, tc.prop, tc.group)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, IsValidationError(err), "structural failures are validation errors")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCanAssignRoleSuperuser(t *testing.T) {
	st := newStore()
	p := st.addProperty("P", nil)
	super := st.addUser("root@x.com", true)

	_, perm, _, _, _, _ := newServices(st)

	for _, role := range []model.Role{model.RoleSuperUser, model.RoleGroupAdmin, model.RolePropertyAdmin, model.RoleTenant} {
		ok, err := perm.CanAssignRole(super, role, &p.ID, nil)
		require.NoError(t, err)
		assert.True(t, ok, "superusers assign any role, role=%s", role)
	}
}

func TestCanAssignRoleGroupAdmin(t *testing.T) {
	st := newStore()
	g := st.addGroup("G")
	inG := st.addProperty("InG", &g.ID)
	outside := st.addProperty("Outside", nil)

	admin := st.addUser("admin@x.com", false)
	st.addMembership(admin.ID, model.RoleGroupAdmin, nil, &g.ID)

	_, perm, _, _, _, _ := newServices(st)

	ok, err := perm.CanAssignRole(admin, model.RoleTenant, &inG.ID, nil)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = perm.CanAssignRole(admin, model.RolePropertyAdmin, &inG.ID, nil)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = perm.CanAssignRole(admin, model.RoleTenant, &outside.ID, nil)
	require.NoError(t, err)
	assert.False(t, ok, "property outside the managed group")

	ok, err = perm.CanAssignRole(admin, model.RoleGroupAdmin, nil, &g.ID)
	require.NoError(t, err)
	assert.False(t, ok, "group admins cannot mint group admins")

	ok, err = perm.CanAssignRole(admin, model.RoleSuperUser, nil, nil)
	require.NoError(t, err)
	assert.False(t, ok, "group admins cannot mint superusers")
}

func TestCanAssignRolePropertyAdmin(t *testing.T) {
	st := newStore()
	g := st.addGroup("G")
	own := st.addProperty("Own", &g.ID)
	sibling := st.addProperty("Sibling", &g.ID)

	admin := st.addUser("padmin@x.com", false)
	st.addMembership(admin.ID, model.RolePropertyAdmin, &own.ID, nil)

	_, perm, _, _, _, _ := newServices(st)

	ok, err := perm.CanAssignRole(admin, model.RoleTenant, &own.ID, nil)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = perm.CanAssignRole(admin, model.RoleTenant, &sibling.ID, nil)
	require.NoError(t, err)
	assert.False(t, ok, "sibling property in the same group is out of scope")

	ok, err = perm.CanAssignRole(admin, model.RolePropertyAdmin, &own.ID, nil)
	require.NoError(t, err)
	assert.False(t, ok, "property admins may only assign tenant")
}

func TestCanAssignRoleTenantNever(t *testing.T) {
	st := newStore()
	p := st.addProperty("P", nil)
	tenant := st.addUser("tenant@x.com", false)
	st.addMembership(tenant.ID, model.RoleTenant, &p.ID, nil)

	_, perm, _, _, _, _ := newServices(st)

	ok, err := perm.CanAssignRole(tenant, model.RoleTenant, &p.ID, nil)
	require.NoError(t, err)
	assert.False(t, ok)
}
