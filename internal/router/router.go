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
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ibrahim77gh/cre-studio-backend/internal/consts"
	"github.com/ibrahim77gh/cre-studio-backend/internal/model"
	"github.com/ibrahim77gh/cre-studio-backend/internal/repo"
	"github.com/ibrahim77gh/cre-studio-backend/internal/service"
	"github.com/ibrahim77gh/cre-studio-backend/pkg/ctx"
	httpx "github.com/ibrahim77gh/cre-studio-backend/pkg/http"
	"github.com/ibrahim77gh/cre-studio-backend/pkg/http/jwt"
	"github.com/ibrahim77gh/cre-studio-backend/pkg/http/middleware"
	"github.com/ibrahim77gh/cre-studio-backend/pkg/version"
)

type Router struct {
	Http *httpx.Http
	Ctx  *ctx.Context

	userRepo          repo.IUserRepository
	propertyRepo      repo.IPropertyRepository
	scopeService      *service.ScopeService
	permissionService *service.PermissionService
	invitationService *service.InvitationService
	userService       *service.UserService
	authService       *service.AuthService
}

func NewRouter(
	httpConf *httpx.Http,
	c *ctx.Context,
	userRepo repo.IUserRepository,
	propertyRepo repo.IPropertyRepository,
	scopeService *service.ScopeService,
	permissionService *service.PermissionService,
	invitationService *service.InvitationService,
	userService *service.UserService,
	authService *service.AuthService,
) *Router {
	return &Router{
		Http:              httpConf,
		Ctx:               c,
		userRepo:          userRepo,
		propertyRepo:      propertyRepo,
		scopeService:      scopeService,
		permissionService: permissionService,
		invitationService: invitationService,
		userService:       userService,
		authService:       authService,
	}
}

func (rt *Router) Router() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "cre-studio",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(middleware.CorsMiddleware())
	app.Use(middleware.UnifiedResponseMiddleware())

	if rt.Http.ExposeMetrics {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	app.Get("/version", func(c *fiber.Ctx) error {
		return c.JSON(version.GetVersion())
	})

	auth := middleware.AuthorizationMiddleware(rt.Http.Auth.SecretKey, rt.Ctx.Redis)

	api := app.Group(rt.Http.ContextPath)
	rt.authRouter(api, auth)
	rt.userRouter(api, auth)
	rt.propertyRouter(api, auth)

	return app
}

// currentUser loads the acting user from the claims the auth middleware
// parsed.
func (rt *Router) currentUser(c *fiber.Ctx) (*model.User, error) {
	claims, ok := c.Locals(consts.CLAIMS).(*jwt.SSOClaims)
	if !ok || claims == nil {
		return nil, errors.New(httpx.Unauthorized.Msg)
	}
	user, err := rt.userRepo.GetByID(claims.TokenClaims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New(httpx.UserNotExist.Msg)
	}
	return user, nil
}

// writeErr maps service errors onto the response code registry: structural
// mistakes, denials and invitation failures each keep their own code.
func writeErr(c *fiber.Ctx, err error) error {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		return httpx.WithRepErrDetail(c, httpx.ValidationFailed.Code,
			map[string]string{ve.Field: ve.Reason}, c.Path())
	}
	var pe *service.PermissionError
	if errors.As(err, &pe) {
		return httpx.WithRepErrMsg(c, httpx.PermissionDenied.Code, pe.Reason, c.Path())
	}
	switch {
	case errors.Is(err, service.ErrInvitationInvalid),
		errors.Is(err, service.ErrInvitationExpired),
		errors.Is(err, service.ErrInvitationAccepted):
		return httpx.WithRepErrMsg(c, httpx.InvitationInvalid.Code, err.Error(), c.Path())
	case errors.Is(err, service.ErrUserNotFound):
		return httpx.WithRepErrMsg(c, httpx.UserNotExist.Code, httpx.UserNotExist.Msg, c.Path())
	case errors.Is(err, service.ErrAppNotFound):
		return httpx.WithRepErrMsg(c, httpx.AppNotFound.Code, httpx.AppNotFound.Msg, c.Path())
	case errors.Is(err, service.ErrAppAccessDenied):
		return httpx.WithRepErrMsg(c, httpx.AppAccessDenied.Code, httpx.AppAccessDenied.Msg, c.Path())
	}
	return httpx.WithRepErrMsg(c, httpx.Failed.Code, err.Error(), c.Path())
}
