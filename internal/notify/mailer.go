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
	"fmt"
	"net/smtp"
	"strings"

	"github.com/pkg/errors"

	"github.com/ibrahim77gh/cre-studio-backend/pkg/id"
)

// Mail carries SMTP settings and the frontend base URL the activation link
// points at.
type Mail struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	BaseURL  string `mapstructure:"baseUrl"`
}

func (m *Mail) Validate() error {
	if m.Host == "" {
		return errors.New("mail host is required")
	}
	if m.Port <= 0 {
		return errors.New("mail port is required")
	}
	if m.From == "" {
		return errors.New("mail from address is required")
	}
	return nil
}

// Mailer delivers invitation emails over SMTP.
type Mailer struct {
	conf Mail
}

func NewMailer(conf Mail) *Mailer {
	return &Mailer{conf: conf}
}

// ActivationURL renders the link the invitee follows; the token is the
// credential, the endpoint is unauthenticated.
func (m *Mailer) ActivationURL(token string) string {
	return fmt.Sprintf("%s/accept-invitation/%s", strings.TrimRight(m.conf.BaseURL, "/"), token)
}

func (m *Mailer) SendInvitation(inv *Invitation) error {
	subject := "You're invited to CRE Studio"
	if inv.Resend {
		subject = "Your CRE Studio invitation (resent)"
	}

	var b strings.Builder
	if inv.FirstName != "" {
		fmt.Fprintf(&b, "Hi %s,\r\n\r\n", inv.FirstName)
	} else {
		b.WriteString("Hi,\r\n\r\n")
	}
	fmt.Fprintf(&b, "You have been invited to CRE Studio as %s", inv.RoleInfo.Role.Label())
	if inv.RoleInfo.ScopeName != "" {
		fmt.Fprintf(&b, " for %s", inv.RoleInfo.ScopeName)
	}
	b.WriteString(".\r\n\r\n")
	fmt.Fprintf(&b, "Activate your account within 7 days:\r\n%s\r\n", m.ActivationURL(inv.Token))

	msg := "From: " + m.conf.From + "\r\n" +
		"To: " + inv.Email + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"Message-ID: <" + id.GetUUIDWithoutDashes() + "@cre-studio>" + "\r\n" +
		"\r\n" + b.String()

	var auth smtp.Auth
	if m.conf.Username != "" {
		auth = smtp.PlainAuth("", m.conf.Username, m.conf.Password, m.conf.Host)
	}
	addr := fmt.Sprintf("%s:%d", m.conf.Host, m.conf.Port)
	if err := smtp.SendMail(addr, auth, m.conf.From, []string{inv.Email}, []byte(msg)); err != nil {
		return errors.Wrap(err, "failed to send invitation email")
	}
	return nil
}
