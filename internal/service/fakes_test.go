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
	"strings"
	"time"

	"github.com/ibrahim77gh/cre-studio-backend/internal/model"
	"github.com/ibrahim77gh/cre-studio-backend/internal/notify"
)

// store is a shared in-memory backing for the fake repositories. Scope
// pointers on memberships are resolved on every read, so graph edits
// between calls behave like the real database.
type store struct {
	users       map[uint64]*model.User
	memberships []*model.Membership
	properties  map[uint64]*model.Property
	groups      map[uint64]*model.PropertyGroup
	campaigns   []model.Campaign
	apps        map[uint64]*model.App
	appAccess   map[uint64]map[uint64]bool
	nextID      uint64
}

func newStore() *store {
	return &store{
		users:      make(map[uint64]*model.User),
		properties: make(map[uint64]*model.Property),
		groups:     make(map[uint64]*model.PropertyGroup),
		apps:       make(map[uint64]*model.App),
		appAccess:  make(map[uint64]map[uint64]bool),
	}
}

func (st *store) id() uint64 {
	st.nextID++
	return st.nextID
}

func (st *store) addGroup(name string) *model.PropertyGroup {
	g := &model.PropertyGroup{BaseModel: model.BaseModel{ID: st.id()}, Name: name}
	st.groups[g.ID] = g
	return g
}

func (st *store) addProperty(name string, groupID *uint64) *model.Property {
	p := &model.Property{BaseModel: model.BaseModel{ID: st.id()}, Name: name, PropertyGroupID: groupID}
	st.properties[p.ID] = p
	return p
}

func (st *store) addUser(email string, superuser bool) *model.User {
	u := &model.User{
		BaseModel:   model.BaseModel{ID: st.id()},
		Email:       email,
		IsSuperuser: superuser,
		IsActive:    true,
	}
	st.users[u.ID] = u
	return u
}

func (st *store) addMembership(userID uint64, role model.Role, propertyID, groupID *uint64) *model.Membership {
	m := &model.Membership{
		BaseModel:       model.BaseModel{ID: st.id()},
		UserID:          userID,
		Role:            role,
		PropertyID:      propertyID,
		PropertyGroupID: groupID,
	}
	st.memberships = append(st.memberships, m)
	return m
}

func (st *store) addCampaign(name string, propertyID uint64) *model.Campaign {
	c := model.Campaign{BaseModel: model.BaseModel{ID: st.id()}, Name: name, PropertyID: propertyID}
	st.campaigns = append(st.campaigns, c)
	return &st.campaigns[len(st.campaigns)-1]
}

// resolve returns a copy of the membership with its scope pointers filled
// from the current graph, mirroring the repository preloads.
func (st *store) resolve(m *model.Membership) model.Membership {
	out := *m
	if m.PropertyID != nil {
		if p, ok := st.properties[*m.PropertyID]; ok {
			cp := *p
			if cp.PropertyGroupID != nil {
				if g, ok := st.groups[*cp.PropertyGroupID]; ok {
					gc := *g
					cp.PropertyGroup = &gc
				}
			}
			out.Property = &cp
		}
	}
	if m.PropertyGroupID != nil {
		if g, ok := st.groups[*m.PropertyGroupID]; ok {
			gc := *g
			out.PropertyGroup = &gc
		}
	}
	return out
}

type fakeUserRepo struct{ st *store }

func (f *fakeUserRepo) GetByID(id uint64) (*model.User, error) {
	u, ok := f.st.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	cp.Memberships = nil
	for _, m := range f.st.memberships {
		if m.UserID == id {
			cp.Memberships = append(cp.Memberships, f.st.resolve(m))
		}
	}
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(email string) (*model.User, error) {
	for id, u := range f.st.users {
		if strings.EqualFold(u.Email, email) {
			return f.GetByID(id)
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByInvitationToken(token string) (*model.User, error) {
	for id, u := range f.st.users {
		if u.InvitationToken != nil && *u.InvitationToken == token {
			return f.GetByID(id)
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) CreateWithMembership(u *model.User, membership *model.Membership) error {
	u.ID = f.st.id()
	cp := *u
	f.st.users[u.ID] = &cp
	if membership != nil {
		membership.UserID = u.ID
		f.st.addMembership(u.ID, membership.Role, membership.PropertyID, membership.PropertyGroupID)
	}
	return nil
}

func (f *fakeUserRepo) Save(u *model.User) error {
	cp := *u
	cp.Memberships = nil
	f.st.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) Delete(id uint64) error {
	delete(f.st.users, id)
	kept := f.st.memberships[:0]
	for _, m := range f.st.memberships {
		if m.UserID != id {
			kept = append(kept, m)
		}
	}
	f.st.memberships = kept
	return nil
}

func (f *fakeUserRepo) ListByIDs(ids []uint64) ([]model.User, error) {
	var out []model.User
	for _, id := range ids {
		if u, err := f.GetByID(id); err == nil && u != nil {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) ListAll() ([]model.User, error) {
	var out []model.User
	for id := range f.st.users {
		u, _ := f.GetByID(id)
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUserRepo) SetLastLogin(id uint64, at time.Time) error {
	if u, ok := f.st.users[id]; ok {
		u.LastLoginAt = &at
	}
	return nil
}

func (f *fakeUserRepo) Stats() (*model.UserStats, error) {
	stats := &model.UserStats{}
	admins := make(map[uint64]bool)
	tenants := make(map[uint64]bool)
	for _, m := range f.st.memberships {
		switch m.Role {
		case model.RoleGroupAdmin, model.RolePropertyAdmin:
			admins[m.UserID] = true
		case model.RoleTenant:
			tenants[m.UserID] = true
		}
	}
	for id, u := range f.st.users {
		stats.TotalUsers++
		if u.IsActive {
			stats.ActiveUsers++
		}
		if u.IsSuperuser {
			admins[id] = true
		}
	}
	stats.AdminUsers = int64(len(admins))
	stats.Tenants = int64(len(tenants))
	return stats, nil
}

func (f *fakeUserRepo) CountExpiredInvitations(cutoff time.Time) (int64, error) {
	var n int64
	for _, u := range f.st.users {
		if u.InvitationSent && !u.InvitationAccepted && u.InvitationSentAt != nil && u.InvitationSentAt.Before(cutoff) {
			n++
		}
	}
	return n, nil
}

type fakeMembershipRepo struct{ st *store }

func (f *fakeMembershipRepo) ListByUser(userID uint64) ([]model.Membership, error) {
	var out []model.Membership
	for _, m := range f.st.memberships {
		if m.UserID == userID {
			out = append(out, f.st.resolve(m))
		}
	}
	return out, nil
}

func (f *fakeMembershipRepo) UserIDsOnProperties(propertyIDs []uint64, roles []model.Role) ([]uint64, error) {
	props := make(map[uint64]bool, len(propertyIDs))
	for _, id := range propertyIDs {
		props[id] = true
	}
	want := make(map[model.Role]bool, len(roles))
	for _, r := range roles {
		want[r] = true
	}
	seen := make(map[uint64]bool)
	var out []uint64
	for _, m := range f.st.memberships {
		if m.PropertyID != nil && props[*m.PropertyID] && want[m.Role] && !seen[m.UserID] {
			seen[m.UserID] = true
			out = append(out, m.UserID)
		}
	}
	return out, nil
}

func (f *fakeMembershipRepo) UserIDsOnGroup(groupID uint64, roles []model.Role) ([]uint64, error) {
	want := make(map[model.Role]bool, len(roles))
	for _, r := range roles {
		want[r] = true
	}
	seen := make(map[uint64]bool)
	var out []uint64
	for _, m := range f.st.memberships {
		if m.PropertyGroupID != nil && *m.PropertyGroupID == groupID && want[m.Role] && !seen[m.UserID] {
			seen[m.UserID] = true
			out = append(out, m.UserID)
		}
	}
	return out, nil
}

func (f *fakeMembershipRepo) Create(m *model.Membership) error {
	if err := m.Validate(); err != nil {
		return err
	}
	f.st.addMembership(m.UserID, m.Role, m.PropertyID, m.PropertyGroupID)
	return nil
}

func (f *fakeMembershipRepo) ReplaceForUser(userID uint64, m *model.Membership) error {
	if err := m.Validate(); err != nil {
		return err
	}
	_ = f.DeleteByUser(userID)
	f.st.addMembership(userID, m.Role, m.PropertyID, m.PropertyGroupID)
	return nil
}

func (f *fakeMembershipRepo) DeleteByUser(userID uint64) error {
	kept := f.st.memberships[:0]
	for _, m := range f.st.memberships {
		if m.UserID != userID {
			kept = append(kept, m)
		}
	}
	f.st.memberships = kept
	return nil
}

type fakePropertyRepo struct{ st *store }

func (f *fakePropertyRepo) GetProperty(id uint64) (*model.Property, error) {
	p, ok := f.st.properties[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	if cp.PropertyGroupID != nil {
		if g, ok := f.st.groups[*cp.PropertyGroupID]; ok {
			gc := *g
			cp.PropertyGroup = &gc
		}
	}
	return &cp, nil
}

func (f *fakePropertyRepo) GetGroup(id uint64) (*model.PropertyGroup, error) {
	g, ok := f.st.groups[id]
	if !ok {
		return nil, nil
	}
	cp := *g
	return &cp, nil
}

func (f *fakePropertyRepo) ListProperties() ([]model.Property, error) {
	var out []model.Property
	for id := range f.st.properties {
		p, _ := f.GetProperty(id)
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakePropertyRepo) ListGroups() ([]model.PropertyGroup, error) {
	var out []model.PropertyGroup
	for _, g := range f.st.groups {
		out = append(out, *g)
	}
	return out, nil
}

func (f *fakePropertyRepo) PropertiesInGroup(groupID uint64) ([]model.Property, error) {
	var out []model.Property
	for id, p := range f.st.properties {
		if p.PropertyGroupID != nil && *p.PropertyGroupID == groupID {
			cp, _ := f.GetProperty(id)
			out = append(out, *cp)
		}
	}
	return out, nil
}

func (f *fakePropertyRepo) GroupOfProperty(propertyID uint64) (*model.PropertyGroup, error) {
	p, ok := f.st.properties[propertyID]
	if !ok || p.PropertyGroupID == nil {
		return nil, nil
	}
	return f.GetGroup(*p.PropertyGroupID)
}

type fakeCampaignRepo struct{ st *store }

func (f *fakeCampaignRepo) ListIDs() ([]uint64, error) {
	var out []uint64
	for _, c := range f.st.campaigns {
		out = append(out, c.ID)
	}
	return out, nil
}

func (f *fakeCampaignRepo) ListIDsByProperties(propertyIDs []uint64) ([]uint64, error) {
	props := make(map[uint64]bool, len(propertyIDs))
	for _, id := range propertyIDs {
		props[id] = true
	}
	var out []uint64
	for _, c := range f.st.campaigns {
		if props[c.PropertyID] {
			out = append(out, c.ID)
		}
	}
	return out, nil
}

type fakeAppRepo struct{ st *store }

func (f *fakeAppRepo) GetActiveByID(id uint64) (*model.App, error) {
	a, ok := f.st.apps[id]
	if !ok || !a.IsActive {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAppRepo) GetActiveBySlug(slug string) (*model.App, error) {
	for _, a := range f.st.apps {
		if a.Slug == slug && a.IsActive {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeAppRepo) HasAccess(userID, appID uint64) (bool, error) {
	return f.st.appAccess[userID][appID], nil
}

// fakeNotifier records dispatched invitations.
type fakeNotifier struct {
	sent []notify.Invitation
	err  error
}

func (f *fakeNotifier) SendInvitation(inv *notify.Invitation) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, *inv)
	return nil
}

// newServices wires the full service graph over one shared store.
func newServices(st *store) (*ScopeService, *PermissionService, *InvitationService, *UserService, *SSOService, *fakeNotifier) {
	userRepo := &fakeUserRepo{st: st}
	membershipRepo := &fakeMembershipRepo{st: st}
	propertyRepo := &fakePropertyRepo{st: st}
	campaignRepo := &fakeCampaignRepo{st: st}

	notifier := &fakeNotifier{}
	scope := NewScopeService(membershipRepo, propertyRepo, userRepo, campaignRepo)
	perm := NewPermissionService(membershipRepo, propertyRepo, scope)
	inv := NewInvitationService(userRepo, notifier)
	users := NewUserService(userRepo, membershipRepo, propertyRepo, scope, perm, inv)
	sso := NewSSOService(membershipRepo)
	return scope, perm, inv, users, sso, notifier
}

func ptr[T any](v T) *T { return &v }
