package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ibrahim77gh/cre-studio-backend/internal/model"
	"github.com/ibrahim77gh/cre-studio-backend/pkg/log"
)

// Issuer identifies tokens minted by this service; downstream verifiers
// (Retail Studio) check it to confirm token origin.
const Issuer = "campaign-planner"

// SSOClaims is the signed access-token payload: the full self-contained
// claim set plus the registered claims.
type SSOClaims struct {
	model.TokenClaims
	jwt.RegisteredClaims
}

// GenToken generates an access_token carrying the claim set and a
// refresh_token carrying only the user identity.
func GenToken(claims model.TokenClaims, secretKey []byte, accessExpired, refreshExpired time.Duration) (aToken, rToken string, err error) {

	now := time.Now()

	aClaims := &SSOClaims{
		TokenClaims: claims,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   strconv.FormatUint(claims.UserID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(accessExpired * time.Minute)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	aToken, aErr := jwt.NewWithClaims(jwt.SigningMethodHS256, aClaims).SignedString(secretKey)
	if aErr != nil {
		log.Errorw("jwt.NewWithClaims err", "error", aErr)
		return "", "", aErr
	}

	rClaims := jwt.RegisteredClaims{
		Issuer:    Issuer,
		Subject:   strconv.FormatUint(claims.UserID, 10),
		ExpiresAt: jwt.NewNumericDate(now.Add(refreshExpired * time.Minute)),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	rToken, rErr := jwt.NewWithClaims(jwt.SigningMethodHS256, rClaims).SignedString(secretKey)
	if rErr != nil {
		log.Debugw("jwt.NewWithClaims err", "error", rErr)
		return "", "", rErr
	}

	return aToken, rToken, nil
}

// ParseToken validates an access_token and returns its claims.
func ParseToken(aToken, secretKey string) (claims *SSOClaims, err error) {
	claims = new(SSOClaims)
	token, err := jwt.ParseWithClaims(aToken, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, jwt.ErrTokenExpired
		}
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

// ParseRefreshToken validates a refresh_token and returns the user id it
// was issued for.
func ParseRefreshToken(rToken, secretKey string) (uint64, error) {
	var refreshClaims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(rToken, &refreshClaims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	})
	if err != nil || !token.Valid {
		return 0, errors.New("invalid refresh token")
	}

	userID, err := strconv.ParseUint(refreshClaims.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid refresh token subject: %w", err)
	}
	return userID, nil
}
