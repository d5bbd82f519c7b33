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

package http

var (
	Failed                        = failed(500, "Request failed")
	RequestParameterParsingFailed = failed(5001, "Request parameter parsing failed")
	InternalError                 = failed(5000, "Internal error, please contact the administrator")

	// Unauthorized 401
	Unauthorized         = failed(4401, "Unauthorized")
	AuthenticationFailed = failed(4402, "Authentication failed")
	AuthorizationEmpty   = failed(4404, "Authorization is empty")
	InvalidToken         = failed(4405, "Invalid token")
	TokenBeEmpty         = failed(4406, "Token cannot be empty")
	TokenExpired         = failed(4407, "Token is expired")
	TokenFormatIncorrect = failed(4408, "Token format is incorrect")

	// BadRequest 400
	BadRequest       = failed(4000, "Bad request")
	NotFound         = failed(4004, "Not found")
	ValidationFailed = failed(4220, "Validation failed")

	// Forbidden 403
	Forbidden        = failed(4030, "Forbidden")
	PermissionDenied = failed(4031, "Permission denied")

	UserNotExist          = failed(4041, "User does not exist")
	UserAlreadyExist      = failed(4042, "User already exists")
	UserIncorrectPassword = failed(4043, "User incorrect password")

	InvitationInvalid = failed(4100, "Invalid invitation token.")

	AppNotFound     = failed(4110, "Invalid app reference or app is not active.")
	AppAccessDenied = failed(4111, "You do not have access to this app.")
)

var (
	Success = success(200, "Request Success")
)

func failed(code int, msg string) *Response {
	return &Response{
		Code:   code,
		Msg:    msg,
		Detail: nil,
	}
}

func success(code int, msg string) *Response {
	return &Response{
		Code:   code,
		Msg:    msg,
		Detail: nil,
	}
}
