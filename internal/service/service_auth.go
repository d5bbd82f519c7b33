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
	"errors"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/ibrahim77gh/cre-studio-backend/internal/consts"
	"github.com/ibrahim77gh/cre-studio-backend/internal/model"
	"github.com/ibrahim77gh/cre-studio-backend/internal/repo"
	"github.com/ibrahim77gh/cre-studio-backend/pkg/cache"
	"github.com/ibrahim77gh/cre-studio-backend/pkg/http"
	"github.com/ibrahim77gh/cre-studio-backend/pkg/http/jwt"
	"github.com/ibrahim77gh/cre-studio-backend/pkg/log"
	"golang.org/x/crypto/bcrypt"
)

// AuthService issues and refreshes SSO token pairs and backs the
// introspection read path.
type AuthService struct {
	cache      cache.ICache
	userRepo   repo.IUserRepository
	appRepo    repo.IAppRepository
	ssoService *SSOService
}

func NewAuthService(
	cache cache.ICache,
	userRepo repo.IUserRepository,
	appRepo repo.IAppRepository,
	ssoService *SSOService,
) *AuthService {
	return &AuthService{
		cache:      cache,
		userRepo:   userRepo,
		appRepo:    appRepo,
		ssoService: ssoService,
	}
}

// Login authenticates credentials and issues a token pair with no app
// context.
func (as *AuthService) Login(login *model.Login, auth http.Auth) (*model.TokenPair, *model.TokenClaims, error) {
	user, err := as.authenticate(login)
	if err != nil {
		return nil, nil, err
	}
	return as.issue(user, nil, auth)
}

// ObtainToken authenticates credentials against an app reference: the app
// must exist and be active, and the user must have been granted access to
// it. Superusers bypass the per-app grant.
func (as *AuthService) ObtainToken(login *model.Login, appID *uint64, appSlug string, auth http.Auth) (*model.TokenPair, *model.TokenClaims, error) {
	user, err := as.authenticate(login)
	if err != nil {
		return nil, nil, err
	}

	var app *model.App
	switch {
	case appID != nil:
		app, err = as.appRepo.GetActiveByID(*appID)
	case appSlug != "":
		app, err = as.appRepo.GetActiveBySlug(appSlug)
	default:
		return nil, nil, NewValidationError("app", "app_id or app_slug is required")
	}
	if err != nil {
		return nil, nil, err
	}
	if app == nil {
		return nil, nil, ErrAppNotFound
	}

	if !user.IsSuperuser {
		ok, err := as.appRepo.HasAccess(user.ID, app.ID)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			return nil, nil, ErrAppAccessDenied
		}
	}
	return as.issue(user, app, auth)
}

// Refresh exchanges a valid refresh token for a new pair. Claims are
// recomputed from the store, so role changes since login take effect here.
func (as *AuthService) Refresh(refreshToken string, auth http.Auth) (*model.TokenPair, *model.TokenClaims, error) {
	userID, err := jwt.ParseRefreshToken(refreshToken, auth.SecretKey)
	if err != nil {
		return nil, nil, errors.New(http.InvalidToken.Msg)
	}

	n, err := as.cache.Exists(context.Background(), sessionKey(userID)).Result()
	if err != nil {
		return nil, nil, err
	}
	if n == 0 {
		return nil, nil, errors.New(http.TokenExpired.Msg)
	}

	user, err := as.userRepo.GetByID(userID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil || !user.IsActive {
		return nil, nil, errors.New(http.UserNotExist.Msg)
	}
	return as.issue(user, nil, auth)
}

// Introspect recomputes the claim shape fresh from the database for the
// authenticated user. A stale or missing app reference degrades to null
// app fields rather than failing.
func (as *AuthService) Introspect(userID uint64, appID *uint64) (*model.TokenClaims, error) {
	user, err := as.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	var app *model.App
	if appID != nil {
		app, err = as.appRepo.GetActiveByID(*appID)
		if err != nil {
			return nil, err
		}
	}
	return as.ssoService.BuildClaims(user, app)
}

// Logout drops the server-side session; outstanding tokens stop passing
// the authorization middleware immediately.
func (as *AuthService) Logout(userID uint64) error {
	return as.cache.Del(context.Background(), sessionKey(userID)).Err()
}

func (as *AuthService) authenticate(login *model.Login) (*model.User, error) {
	user, err := as.userRepo.GetByEmail(login.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New(http.UserNotExist.Msg)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(login.Password)); err != nil {
		return nil, errors.New(http.UserIncorrectPassword.Msg)
	}
	if !user.IsActive {
		return nil, NewPermissionError("account is not active; accept your invitation first")
	}
	return user, nil
}

// issue builds claims, signs the pair and records the session in Redis
// keyed by user id, TTL matching the refresh window.
func (as *AuthService) issue(user *model.User, app *model.App, auth http.Auth) (*model.TokenPair, *model.TokenClaims, error) {
	claims, err := as.ssoService.BuildClaims(user, app)
	if err != nil {
		return nil, nil, err
	}

	aToken, rToken, err := jwt.GenToken(*claims, []byte(auth.SecretKey), auth.AccessExpire, auth.RefreshExpire)
	if err != nil {
		log.Errorw("failed to sign token pair", "userId", user.ID, "error", err)
		return nil, nil, err
	}

	blob, err := sonic.Marshal(claims)
	if err != nil {
		return nil, nil, err
	}
	ttl := auth.RefreshExpire * time.Minute
	if err := as.cache.Set(context.Background(), sessionKey(user.ID), blob, ttl).Err(); err != nil {
		return nil, nil, err
	}

	if err := as.userRepo.SetLastLogin(user.ID, time.Now()); err != nil {
		log.Warnw("failed to record last login", "userId", user.ID, "error", err)
	}
	return &model.TokenPair{Access: aToken, Refresh: rToken}, claims, nil
}

func sessionKey(userID uint64) string {
	return consts.UserTokenKey + strconv.FormatUint(userID, 10)
}
