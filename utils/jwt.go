package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var jwtKey []byte

// Finalidades dos tokens emitidos
const (
	PurposeAuth    = "auth"
	PurposeConfirm = "confirm"
)

// Claims declarações do JWT
type Claims struct {
	UserID  string `json:"user_id"`
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// InitJWT define a chave de assinatura
func InitJWT(secret string) {
	jwtKey = []byte(secret)
}

// GenerateToken gera o token de sessão; nome e email ficam nas claims para
// permitir a reconstrução do perfil quando o registro some do banco
func GenerateToken(userID, name, email string) (string, error) {
	claims := &Claims{
		UserID:  userID,
		Name:    name,
		Email:   email,
		Purpose: PurposeAuth,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour * 30)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey)
}

// GenerateConfirmToken gera o token de confirmação de email
func GenerateConfirmToken(userID string) (string, error) {
	claims := &Claims{
		UserID:  userID,
		Purpose: PurposeConfirm,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(48 * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey)
}

// ParseToken valida e decodifica um token
func ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return jwtKey, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("token inválido")
}
