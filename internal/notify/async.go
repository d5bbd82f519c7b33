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
	"context"

	"github.com/bytedance/sonic"
	"github.com/hibiken/asynq"
	"github.com/ibrahim77gh/cre-studio-backend/pkg/log"
	"github.com/ibrahim77gh/cre-studio-backend/pkg/queue"
)

const (
	TaskInvitationEmail = "email:invitation"
	TaskInvitationSweep = "invitation:sweep"
)

// AsyncNotifier pushes invitation emails through the task queue so the
// invitation lifecycle never blocks on SMTP.
type AsyncNotifier struct {
	client *queue.Client
}

func NewAsyncNotifier(client *queue.Client) *AsyncNotifier {
	return &AsyncNotifier{client: client}
}

func (n *AsyncNotifier) SendInvitation(inv *Invitation) error {
	payload, err := sonic.Marshal(inv)
	if err != nil {
		return err
	}
	return n.client.Enqueue(TaskInvitationEmail, payload, asynq.Queue(queue.Default), asynq.MaxRetry(3))
}

// RegisterHandlers binds the worker-side handlers: email delivery and the
// periodic expired-invitation sweep.
func RegisterHandlers(server *queue.Server, mailer *Mailer, countExpired func() (int64, error)) {
	server.HandleFunc(TaskInvitationEmail, func(ctx context.Context, t *asynq.Task) error {
		var inv Invitation
		if err := sonic.Unmarshal(t.Payload(), &inv); err != nil {
			log.Errorw("invalid invitation email payload", "error", err)
			return nil // malformed payload, retrying cannot help
		}
		if err := mailer.SendInvitation(&inv); err != nil {
			log.Errorw("invitation email delivery failed", "email", inv.Email, "error", err)
			return err
		}
		log.Infow("invitation email sent", "email", inv.Email, "resend", inv.Resend)
		return nil
	})

	server.HandleFunc(TaskInvitationSweep, func(ctx context.Context, t *asynq.Task) error {
		n, err := countExpired()
		if err != nil {
			log.Errorw("invitation sweep failed", "error", err)
			return err
		}
		expiredInvitations.Set(float64(n))
		if n > 0 {
			log.Infow("expired pending invitations", "count", n)
		}
		return nil
	})
}
