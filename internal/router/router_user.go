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
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/ibrahim77gh/cre-studio-backend/internal/consts"
	"github.com/ibrahim77gh/cre-studio-backend/internal/model"
	httpx "github.com/ibrahim77gh/cre-studio-backend/pkg/http"
)

func (rt *Router) userRouter(r fiber.Router, auth fiber.Handler) {
	userGroup := r.Group("/users", auth)
	{
		userGroup.Get("/", rt.listUsers)
		userGroup.Post("/", rt.createUser)

		userGroup.Get("/stats", rt.userStats)
		userGroup.Get("/role-options", rt.roleOptions)
		userGroup.Get("/manageable-scopes", rt.manageableScopes)

		userGroup.Get("/:userId", rt.getUser)
		userGroup.Put("/:userId", rt.updateUser)
		userGroup.Delete("/:userId", rt.deleteUser)
		userGroup.Post("/:userId/activate", rt.activateUser)
		userGroup.Post("/:userId/deactivate", rt.deactivateUser)
		userGroup.Post("/:userId/resend-invitation", rt.resendInvitation)
	}
}

func userIDParam(c *fiber.Ctx) (uint64, error) {
	return strconv.ParseUint(c.Params("userId"), 10, 64)
}

func (rt *Router) listUsers(c *fiber.Ctx) error {
	actor, err := rt.currentUser(c)
	if err != nil {
		return httpx.WithRepErrMsg(c, httpx.Unauthorized.Code, err.Error(), c.Path())
	}

	users, err := rt.userService.ListUsers(actor)
	if err != nil {
		return writeErr(c, err)
	}
	if users == nil {
		users = []model.User{}
	}

	c.Locals(consts.DETAIL, users)
	return nil
}

func (rt *Router) createUser(c *fiber.Ctx) error {
	actor, err := rt.currentUser(c)
	if err != nil {
		return httpx.WithRepErrMsg(c, httpx.Unauthorized.Code, err.Error(), c.Path())
	}

	var req model.CreateUserReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, err.Error(), c.Path())
	}

	user, err := rt.userService.CreateUser(actor, &req)
	if err != nil {
		return writeErr(c, err)
	}

	c.Status(fiber.StatusCreated)
	c.Locals(consts.DETAIL, user)
	return nil
}

func (rt *Router) getUser(c *fiber.Ctx) error {
	actor, err := rt.currentUser(c)
	if err != nil {
		return httpx.WithRepErrMsg(c, httpx.Unauthorized.Code, err.Error(), c.Path())
	}
	targetID, err := userIDParam(c)
	if err != nil {
		return httpx.WithRepErrMsg(c, httpx.BadRequest.Code, "invalid user id", c.Path())
	}

	user, err := rt.userService.GetUser(actor, targetID)
	if err != nil {
		return writeErr(c, err)
	}

	c.Locals(consts.DETAIL, user)
	return nil
}

func (rt *Router) updateUser(c *fiber.Ctx) error {
	actor, err := rt.currentUser(c)
	if err != nil {
		return httpx.WithRepErrMsg(c, httpx.Unauthorized.Code, err.Error(), c.Path())
	}
	targetID, err := userIDParam(c)
	if err != nil {
		return httpx.WithRepErrMsg(c, httpx.BadRequest.Code, "invalid user id", c.Path())
	}

	var req model.UpdateUserReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, err.Error(), c.Path())
	}

	user, err := rt.userService.UpdateUser(actor, targetID, &req)
	if err != nil {
		return writeErr(c, err)
	}

	c.Locals(consts.DETAIL, user)
	return nil
}

func (rt *Router) deleteUser(c *fiber.Ctx) error {
	actor, err := rt.currentUser(c)
	if err != nil {
		return httpx.WithRepErrMsg(c, httpx.Unauthorized.Code, err.Error(), c.Path())
	}
	targetID, err := userIDParam(c)
	if err != nil {
		return httpx.WithRepErrMsg(c, httpx.BadRequest.Code, "invalid user id", c.Path())
	}

	if err := rt.userService.DeleteUser(actor, targetID); err != nil {
		return writeErr(c, err)
	}

	c.Locals(consts.OPERATION, "")
	return nil
}

func (rt *Router) activateUser(c *fiber.Ctx) error {
	actor, err := rt.currentUser(c)
	if err != nil {
		return httpx.WithRepErrMsg(c, httpx.Unauthorized.Code, err.Error(), c.Path())
	}
	targetID, err := userIDParam(c)
	if err != nil {
		return httpx.WithRepErrMsg(c, httpx.BadRequest.Code, "invalid user id", c.Path())
	}

	user, err := rt.userService.ActivateUser(actor, targetID)
	if err != nil {
		return writeErr(c, err)
	}

	c.Locals(consts.DETAIL, user)
	return nil
}

func (rt *Router) deactivateUser(c *fiber.Ctx) error {
	actor, err := rt.currentUser(c)
	if err != nil {
		return httpx.WithRepErrMsg(c, httpx.Unauthorized.Code, err.Error(), c.Path())
	}
	targetID, err := userIDParam(c)
	if err != nil {
		return httpx.WithRepErrMsg(c, httpx.BadRequest.Code, "invalid user id", c.Path())
	}

	user, err := rt.userService.DeactivateUser(actor, targetID)
	if err != nil {
		return writeErr(c, err)
	}

	c.Locals(consts.DETAIL, user)
	return nil
}

func (rt *Router) resendInvitation(c *fiber.Ctx) error {
	actor, err := rt.currentUser(c)
	if err != nil {
		return httpx.WithRepErrMsg(c, httpx.Unauthorized.Code, err.Error(), c.Path())
	}
	targetID, err := userIDParam(c)
	if err != nil {
		return httpx.WithRepErrMsg(c, httpx.BadRequest.Code, "invalid user id", c.Path())
	}

	if err := rt.userService.ResendInvitation(actor, targetID); err != nil {
		return writeErr(c, err)
	}

	c.Locals(consts.OPERATION, "")
	return nil
}

func (rt *Router) userStats(c *fiber.Ctx) error {
	actor, err := rt.currentUser(c)
	if err != nil {
		return httpx.WithRepErrMsg(c, httpx.Unauthorized.Code, err.Error(), c.Path())
	}

	stats, err := rt.userService.Stats(actor)
	if err != nil {
		return writeErr(c, err)
	}

	c.Locals(consts.DETAIL, stats)
	return nil
}

func (rt *Router) roleOptions(c *fiber.Ctx) error {
	actor, err := rt.currentUser(c)
	if err != nil {
		return httpx.WithRepErrMsg(c, httpx.Unauthorized.Code, err.Error(), c.Path())
	}

	c.Locals(consts.DETAIL, rt.userService.RoleOptions(actor))
	return nil
}

func (rt *Router) manageableScopes(c *fiber.Ctx) error {
	actor, err := rt.currentUser(c)
	if err != nil {
		return httpx.WithRepErrMsg(c, httpx.Unauthorized.Code, err.Error(), c.Path())
	}

	scopes, err := rt.scopeService.ManageableScopes(actor)
	if err != nil {
		return writeErr(c, err)
	}

	c.Locals(consts.DETAIL, scopes)
	return nil
}
