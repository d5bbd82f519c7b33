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

package notify

import (
	"github.com/ibrahim77gh/cre-studio-backend/internal/model"
)

// RoleInfo describes the invitee's role and scope for email rendering.
type RoleInfo struct {
	Role      model.Role `json:"role"`
	ScopeName string     `json:"scope_name"`
}

// Invitation is the outbound message produced by the invitation lifecycle.
// Token is embedded in the activation URL; Resend selects the wording.
type Invitation struct {
	Email     string   `json:"email"`
	FirstName string   `json:"first_name"`
	Token     string   `json:"token"`
	RoleInfo  RoleInfo `json:"role_info"`
	Resend    bool     `json:"resend"`
}

// Notifier is the outbound port the invitation lifecycle calls. Delivery is
// best effort: failures are logged by the caller, never rolled back into
// user state.
type Notifier interface {
	SendInvitation(inv *Invitation) error
}
