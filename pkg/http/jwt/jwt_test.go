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

package jwt

import (
	"testing"

	goJwt "github.com/golang-jwt/jwt/v5"
	"github.com/ibrahim77gh/cre-studio-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func testClaims() model.TokenClaims {
	role := model.RoleGroupAdmin
	gid := uint64(7)
	return model.TokenClaims{
		UserID:    42,
		Email:     "alice@x.com",
		FirstName: "Alice",
		IsActive:  true,
		Role:      &role,
		Memberships: []model.MembershipClaim{
			{Role: model.RoleGroupAdmin, PropertyGroupID: &gid, PropertyGroupName: "G"},
		},
	}
}

func TestGenAndParseToken(t *testing.T) {
	aToken, rToken, err := GenToken(testClaims(), []byte(testSecret), 30, 60)
	require.NoError(t, err)
	require.NotEmpty(t, aToken)
	require.NotEmpty(t, rToken)

	parsed, err := ParseToken(aToken, testSecret)
	require.NoError(t, err)

	assert.Equal(t, Issuer, parsed.Issuer)
	assert.Equal(t, "42", parsed.Subject)
	assert.Equal(t, uint64(42), parsed.TokenClaims.UserID)
	assert.Equal(t, "alice@x.com", parsed.TokenClaims.Email)
	require.NotNil(t, parsed.TokenClaims.Role)
	assert.Equal(t, model.RoleGroupAdmin, *parsed.TokenClaims.Role)
	require.Len(t, parsed.TokenClaims.Memberships, 1)
	assert.Equal(t, "G", parsed.TokenClaims.Memberships[0].PropertyGroupName)
}

func TestParseTokenWrongSecret(t *testing.T) {
	aToken, _, err := GenToken(testClaims(), []byte(testSecret), 30, 60)
	require.NoError(t, err)

	_, err = ParseToken(aToken, "other-secret")
	assert.Error(t, err)
}

func TestParseExpiredToken(t *testing.T) {
	aToken, _, err := GenToken(testClaims(), []byte(testSecret), -1, 60)
	require.NoError(t, err)

	_, err = ParseToken(aToken, testSecret)
	assert.ErrorIs(t, err, goJwt.ErrTokenExpired)
}

func TestParseRefreshToken(t *testing.T) {
	_, rToken, err := GenToken(testClaims(), []byte(testSecret), 30, 60)
	require.NoError(t, err)

	userID, err := ParseRefreshToken(rToken, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), userID)

	_, err = ParseRefreshToken(rToken, "other-secret")
	assert.Error(t, err)

	_, err = ParseRefreshToken("not-a-token", testSecret)
	assert.Error(t, err)
}

func TestRefreshTokenNotAcceptedAsAccessToken(t *testing.T) {
	_, rToken, err := GenToken(testClaims(), []byte(testSecret), 30, 60)
	require.NoError(t, err)

	// a refresh token parses structurally but carries no claim payload
	parsed, err := ParseToken(rToken, testSecret)
	require.NoError(t, err)
	assert.Zero(t, parsed.TokenClaims.Email)
}
