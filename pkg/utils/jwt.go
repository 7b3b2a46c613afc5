package utils

import (
	"errors"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UploadClaims authorizes the upload-completion confirmation for a
// single media asset. The token is issued alongside the presigned URL
// and expires with it.
type UploadClaims struct {
	MediaID string `json:"mediaId"`
	jwt.RegisteredClaims
}

func GenerateUploadToken(secretKey, mediaID string, ttl time.Duration) (string, error) {
	claims := UploadClaims{
		MediaID: mediaID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "publora",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(secretKey))
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	return signedToken, nil
}

func ValidateUploadToken(secretKey, tokenString string) (*UploadClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UploadClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return []byte(secretKey), nil
	})
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	if claims, ok := token.Claims.(*UploadClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
