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

package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ibrahim77gh/cre-studio-backend/internal/consts"
	"github.com/ibrahim77gh/cre-studio-backend/internal/model"
	httpx "github.com/ibrahim77gh/cre-studio-backend/pkg/http"
	"github.com/ibrahim77gh/cre-studio-backend/pkg/http/jwt"
)

func (rt *Router) authRouter(r fiber.Router, auth fiber.Handler) {
	authGroup := r.Group("/auth")
	{
		authGroup.Post("/login", rt.login)
		authGroup.Post("/token", rt.obtainToken)
		authGroup.Get("/refresh", rt.refresh)
		authGroup.Get("/accept-invitation/:token", rt.acceptInvitation)

		authGroup.Post("/introspect", auth, rt.introspect)
		authGroup.Post("/logout", auth, rt.logout)
	}
}

func (rt *Router) login(c *fiber.Ctx) error {
	var login model.Login
	if err := c.BodyParser(&login); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, err.Error(), c.Path())
	}

	pair, claims, err := rt.authService.Login(&login, rt.Http.Auth)
	if err != nil {
		return writeErr(c, err)
	}

	c.Locals(consts.DETAIL, fiber.Map{
		"access":  pair.Access,
		"refresh": pair.Refresh,
		"claims":  claims,
	})
	return nil
}

// obtainTokenReq carries credentials plus the target app reference.
type obtainTokenReq struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	AppID    *uint64 `json:"app_id"`
	AppSlug  string  `json:"app_slug"`
}

func (rt *Router) obtainToken(c *fiber.Ctx) error {
	var req obtainTokenReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, err.Error(), c.Path())
	}

	login := model.Login{Email: req.Email, Password: req.Password}
	pair, claims, err := rt.authService.ObtainToken(&login, req.AppID, req.AppSlug, rt.Http.Auth)
	if err != nil {
		return writeErr(c, err)
	}

	c.Locals(consts.DETAIL, fiber.Map{
		"access":  pair.Access,
		"refresh": pair.Refresh,
		"claims":  claims,
	})
	return nil
}

func (rt *Router) refresh(c *fiber.Ctx) error {
	refreshToken := c.Query("refreshToken")
	if refreshToken == "" {
		return httpx.WithRepErrMsg(c, httpx.TokenBeEmpty.Code, httpx.TokenBeEmpty.Msg, c.Path())
	}

	pair, _, err := rt.authService.Refresh(refreshToken, rt.Http.Auth)
	if err != nil {
		return writeErr(c, err)
	}

	c.Locals(consts.DETAIL, pair)
	return nil
}

func (rt *Router) introspect(c *fiber.Ctx) error {
	claims, ok := c.Locals(consts.CLAIMS).(*jwt.SSOClaims)
	if !ok || claims == nil {
		return httpx.WithRepErrMsg(c, httpx.Unauthorized.Code, httpx.Unauthorized.Msg, c.Path())
	}

	fresh, err := rt.authService.Introspect(claims.TokenClaims.UserID, claims.TokenClaims.AppID)
	if err != nil {
		return writeErr(c, err)
	}

	c.Locals(consts.DETAIL, fresh)
	return nil
}

func (rt *Router) logout(c *fiber.Ctx) error {
	claims, ok := c.Locals(consts.CLAIMS).(*jwt.SSOClaims)
	if !ok || claims == nil {
		return httpx.WithRepErrMsg(c, httpx.Unauthorized.Code, httpx.Unauthorized.Msg, c.Path())
	}

	if err := rt.authService.Logout(claims.TokenClaims.UserID); err != nil {
		return writeErr(c, err)
	}

	c.Locals(consts.OPERATION, "")
	return nil
}

// acceptInvitation is unauthenticated: the token in the path is the
// credential. Failures answer 400 with one of the three terminal messages.
func (rt *Router) acceptInvitation(c *fiber.Ctx) error {
	token := c.Params("token")

	user, err := rt.invitationService.Redeem(token)
	if err != nil {
		c.Status(fiber.StatusBadRequest)
		return httpx.WithRepErr(c, httpx.InvitationInvalid.Code, err.Error(), c.Path())
	}

	c.Locals(consts.DETAIL, fiber.Map{
		"message": "Invitation accepted successfully! Your account has been activated.",
		"user": model.UserInfo{
			ID:        user.ID,
			Email:     user.Email,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			IsActive:  user.IsActive,
		},
	})
	return nil
}
