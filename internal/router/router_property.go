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
)

func (rt *Router) propertyRouter(r fiber.Router, auth fiber.Handler) {
	r.Get("/properties", auth, rt.listProperties)
	r.Get("/property-groups", auth, rt.listPropertyGroups)
	r.Get("/campaigns/visible-ids", auth, rt.visibleCampaignIDs)
}

// listProperties returns the properties the actor can see: everything for
// superusers, the membership-reachable set otherwise.
func (rt *Router) listProperties(c *fiber.Ctx) error {
	actor, err := rt.currentUser(c)
	if err != nil {
		return httpx.WithRepErrMsg(c, httpx.Unauthorized.Code, err.Error(), c.Path())
	}

	all, properties, err := rt.scopeService.VisibleProperties(actor)
	if err != nil {
		return writeErr(c, err)
	}
	if all {
		properties, err = rt.propertyRepo.ListProperties()
		if err != nil {
			return writeErr(c, err)
		}
	}
	if properties == nil {
		properties = []model.Property{}
	}

	c.Locals(consts.DETAIL, properties)
	return nil
}

func (rt *Router) listPropertyGroups(c *fiber.Ctx) error {
	actor, err := rt.currentUser(c)
	if err != nil {
		return httpx.WithRepErrMsg(c, httpx.Unauthorized.Code, err.Error(), c.Path())
	}

	all, groups, err := rt.scopeService.ManageablePropertyGroups(actor)
	if err != nil {
		return writeErr(c, err)
	}
	if all {
		groups, err = rt.propertyRepo.ListGroups()
		if err != nil {
			return writeErr(c, err)
		}
	}
	if groups == nil {
		groups = []model.PropertyGroup{}
	}

	c.Locals(consts.DETAIL, groups)
	return nil
}

func (rt *Router) visibleCampaignIDs(c *fiber.Ctx) error {
	actor, err := rt.currentUser(c)
	if err != nil {
		return httpx.WithRepErrMsg(c, httpx.Unauthorized.Code, err.Error(), c.Path())
	}

	ids, err := rt.scopeService.VisibleCampaignIDs(actor)
	if err != nil {
		return writeErr(c, err)
	}
	if ids == nil {
		ids = []uint64{}
	}

	c.Locals(consts.DETAIL, ids)
	return nil
}
