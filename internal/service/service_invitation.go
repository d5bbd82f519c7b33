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
	"time"

	"github.com/ibrahim77gh/cre-studio-backend/internal/consts"
	"github.com/ibrahim77gh/cre-studio-backend/internal/model"
	"github.com/ibrahim77gh/cre-studio-backend/internal/notify"
	"github.com/ibrahim77gh/cre-studio-backend/internal/repo"
	"github.com/ibrahim77gh/cre-studio-backend/pkg/id"
	"github.com/ibrahim77gh/cre-studio-backend/pkg/log"
)

// InvitationService drives the per-user activation state machine:
// UNSENT -> SENT -> ACCEPTED, with EXPIRED derived from invitation_sent_at.
type InvitationService struct {
	userRepo repo.IUserRepository
	notifier notify.Notifier
}

func NewInvitationService(userRepo repo.IUserRepository, notifier notify.Notifier) *InvitationService {
	return &InvitationService{userRepo: userRepo, notifier: notifier}
}

// Issue generates a fresh token for the user and dispatches the invitation
// email. On resend the previous token is overwritten and stops working;
// there is only ever one valid token per user. Email delivery is best
// effort and never rolls back the state change.
func (is *InvitationService) Issue(user *model.User, info notify.RoleInfo, resend bool) error {
	token, err := id.SecureToken(32)
	if err != nil {
		return err
	}
	now := time.Now()
	user.InvitationToken = &token
	user.InvitationSent = true
	user.InvitationSentAt = &now

	if err := is.userRepo.Save(user); err != nil {
		return err
	}

	if err := is.notifier.SendInvitation(&notify.Invitation{
		Email:     user.Email,
		FirstName: user.FirstName,
		Token:     token,
		RoleInfo:  info,
		Resend:    resend,
	}); err != nil {
		log.Errorw("failed to dispatch invitation email", "email", user.Email, "error", err)
	}
	return nil
}

// Redeem consumes an invitation token. Preconditions run in order: unknown
// token, already accepted, expired. Each failure is terminal for that token
// and leaves the user untouched. On success the account is activated; the
// token stays stored, replay is rejected by the accepted check.
func (is *InvitationService) Redeem(token string) (*model.User, error) {
	user, err := is.userRepo.GetByInvitationToken(token)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvitationInvalid
	}
	if user.InvitationAccepted {
		return nil, ErrInvitationAccepted
	}
	if user.InvitationSentAt == nil || time.Since(*user.InvitationSentAt) > consts.InvitationTTL {
		return nil, ErrInvitationExpired
	}

	now := time.Now()
	user.InvitationAccepted = true
	user.InvitationAcceptedAt = &now
	user.IsActive = true
	if err := is.userRepo.Save(user); err != nil {
		return nil, err
	}
	log.Infow("invitation accepted", "userId", user.ID, "email", user.Email)
	return user, nil
}

// Activate turns a user active outside the redeem path. When the invitee
// never accepted, only a superuser may force it, and the override also
// marks the invitation accepted so the record cannot land in an
// active-but-unaccepted state.
func (is *InvitationService) Activate(actor, target *model.User) error {
	if !target.InvitationAccepted {
		if !actor.IsSuperuser {
			return NewPermissionError("only superusers can activate a user who has not accepted their invitation")
		}
		now := time.Now()
		target.InvitationAccepted = true
		target.InvitationAcceptedAt = &now
	}
	target.IsActive = true
	return is.userRepo.Save(target)
}

// Deactivate flips is_active off, leaving invitation fields alone. Users
// cannot deactivate themselves.
func (is *InvitationService) Deactivate(actor, target *model.User) error {
	if actor.ID == target.ID {
		return NewValidationError("is_active", ErrSelfDeactivation.Error())
	}
	target.IsActive = false
	return is.userRepo.Save(target)
}
