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
	"context"
	"testing"
	"time"

	"github.com/ibrahim77gh/cre-studio-backend/internal/model"
	httpx "github.com/ibrahim77gh/cre-studio-backend/pkg/http"
	"github.com/ibrahim77gh/cre-studio-backend/pkg/http/jwt"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// fakeCache is an in-memory ICache built on the go-redis cmd constructors.
type fakeCache struct {
	data map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (f *fakeCache) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx)
	if v, ok := f.data[key]; ok {
		cmd.SetVal(string(v))
	} else {
		cmd.SetErr(redis.Nil)
	}
	return cmd
}

func (f *fakeCache) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		f.data[key] = v
	case string:
		f.data[key] = []byte(v)
	}
	cmd := redis.NewStatusCmd(ctx)
	cmd.SetVal("OK")
	return cmd
}

func (f *fakeCache) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(n)
	return cmd
}

func (f *fakeCache) Exists(ctx context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			n++
		}
	}
	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(n)
	return cmd
}

func (f *fakeCache) TTL(ctx context.Context, key string) *redis.DurationCmd {
	cmd := redis.NewDurationCmd(ctx, time.Second)
	cmd.SetVal(time.Hour)
	return cmd
}

func (f *fakeCache) Pipeline() redis.Pipeliner { return nil }

func testAuth() httpx.Auth {
	return httpx.Auth{
		SecretKey:     "unit-test-secret",
		AccessExpire:  30,
		RefreshExpire: 60,
	}
}

func newAuthService(st *store) (*AuthService, *fakeCache) {
	userRepo := &fakeUserRepo{st: st}
	membershipRepo := &fakeMembershipRepo{st: st}
	appRepo := &fakeAppRepo{st: st}
	cache := newFakeCache()
	sso := NewSSOService(membershipRepo)
	return NewAuthService(cache, userRepo, appRepo, sso), cache
}

func withPassword(st *store, u *model.User, password string) {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	st.users[u.ID].Password = string(hash)
}

func TestLoginIssuesPairAndSession(t *testing.T) {
	st := newStore()
	p := st.addProperty("P", nil)
	user := st.addUser("user@x.com", false)
	st.addMembership(user.ID, model.RoleTenant, &p.ID, nil)
	withPassword(st, user, "correct-horse")

	auth, cache := newAuthService(st)

	pair, claims, err := auth.Login(&model.Login{Email: "user@x.com", Password: "correct-horse"}, testAuth())
	require.NoError(t, err)
	assert.NotEmpty(t, pair.Access)
	assert.NotEmpty(t, pair.Refresh)
	require.NotNil(t, claims.Role)
	assert.Equal(t, model.RoleTenant, *claims.Role)

	// session recorded under the user id
	assert.Len(t, cache.data, 1)

	// the access token round-trips through the parser
	parsed, err := jwt.ParseToken(pair.Access, "unit-test-secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, parsed.TokenClaims.UserID)
	assert.Equal(t, jwt.Issuer, parsed.Issuer)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	st := newStore()
	user := st.addUser("user@x.com", false)
	withPassword(st, user, "correct-horse")

	auth, _ := newAuthService(st)

	_, _, err := auth.Login(&model.Login{Email: "user@x.com", Password: "wrong"}, testAuth())
	assert.Error(t, err)

	_, _, err = auth.Login(&model.Login{Email: "nobody@x.com", Password: "whatever"}, testAuth())
	assert.Error(t, err)
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	st := newStore()
	user := st.addUser("user@x.com", false)
	user.IsActive = false
	withPassword(st, user, "correct-horse")

	auth, _ := newAuthService(st)

	_, _, err := auth.Login(&model.Login{Email: "user@x.com", Password: "correct-horse"}, testAuth())
	require.Error(t, err)
	assert.True(t, IsPermissionError(err))
}

func TestObtainTokenAppChecks(t *testing.T) {
	st := newStore()
	user := st.addUser("user@x.com", false)
	withPassword(st, user, "pw-123456")

	app := &model.App{BaseModel: model.BaseModel{ID: st.id()}, Name: "Planner", Slug: "planner", IsActive: true}
	st.apps[app.ID] = app
	inactive := &model.App{BaseModel: model.BaseModel{ID: st.id()}, Name: "Old", Slug: "old", IsActive: false}
	st.apps[inactive.ID] = inactive

	auth, _ := newAuthService(st)
	login := &model.Login{Email: "user@x.com", Password: "pw-123456"}

	_, _, err := auth.ObtainToken(login, nil, "planner", testAuth())
	assert.ErrorIs(t, err, ErrAppAccessDenied, "no grant yet")

	st.appAccess[user.ID] = map[uint64]bool{app.ID: true}
	_, claims, err := auth.ObtainToken(login, nil, "planner", testAuth())
	require.NoError(t, err)
	require.NotNil(t, claims.AppID)
	assert.Equal(t, app.ID, *claims.AppID)
	assert.Equal(t, "planner", claims.AppSlug)

	_, _, err = auth.ObtainToken(login, nil, "old", testAuth())
	assert.ErrorIs(t, err, ErrAppNotFound, "inactive apps are invisible")

	_, _, err = auth.ObtainToken(login, nil, "missing", testAuth())
	assert.ErrorIs(t, err, ErrAppNotFound)

	_, _, err = auth.ObtainToken(login, nil, "", testAuth())
	require.Error(t, err)
	assert.True(t, IsValidationError(err), "an app reference is required")
}

func TestObtainTokenSuperuserBypassesGrant(t *testing.T) {
	st := newStore()
	super := st.addUser("root@x.com", true)
	withPassword(st, super, "pw-123456")

	app := &model.App{BaseModel: model.BaseModel{ID: st.id()}, Name: "Planner", Slug: "planner", IsActive: true}
	st.apps[app.ID] = app

	auth, _ := newAuthService(st)

	_, claims, err := auth.ObtainToken(&model.Login{Email: "root@x.com", Password: "pw-123456"}, nil, "planner", testAuth())
	require.NoError(t, err)
	assert.Equal(t, "planner", claims.AppSlug)
}

func TestRefreshRecomputesClaims(t *testing.T) {
	st := newStore()
	p := st.addProperty("P", nil)
	user := st.addUser("user@x.com", false)
	st.addMembership(user.ID, model.RoleTenant, &p.ID, nil)
	withPassword(st, user, "pw-123456")

	auth, _ := newAuthService(st)

	pair, _, err := auth.Login(&model.Login{Email: "user@x.com", Password: "pw-123456"}, testAuth())
	require.NoError(t, err)

	// promote the user between login and refresh
	membershipRepo := &fakeMembershipRepo{st: st}
	require.NoError(t, membershipRepo.ReplaceForUser(user.ID, &model.Membership{
		Role:       model.RolePropertyAdmin,
		PropertyID: &p.ID,
	}))

	_, claims, err := auth.Refresh(pair.Refresh, testAuth())
	require.NoError(t, err)
	require.NotNil(t, claims.Role)
	assert.Equal(t, model.RolePropertyAdmin, *claims.Role, "claims are rebuilt from the store")
}

func TestRefreshRejectedAfterLogout(t *testing.T) {
	st := newStore()
	user := st.addUser("user@x.com", false)
	withPassword(st, user, "pw-123456")

	auth, _ := newAuthService(st)

	pair, _, err := auth.Login(&model.Login{Email: "user@x.com", Password: "pw-123456"}, testAuth())
	require.NoError(t, err)

	require.NoError(t, auth.Logout(user.ID))

	_, _, err = auth.Refresh(pair.Refresh, testAuth())
	assert.Error(t, err)
}

func TestIntrospectDegradesMissingApp(t *testing.T) {
	st := newStore()
	p := st.addProperty("P", nil)
	user := st.addUser("user@x.com", false)
	st.addMembership(user.ID, model.RoleTenant, &p.ID, nil)

	auth, _ := newAuthService(st)

	gone := uint64(999)
	claims, err := auth.Introspect(user.ID, &gone)
	require.NoError(t, err, "stale app reference degrades to null fields")
	assert.Nil(t, claims.AppID)
	assert.Len(t, claims.Memberships, 1)

	_, err = auth.Introspect(12345, nil)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
