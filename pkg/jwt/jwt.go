package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims claims emitidos por el backend de FacturaPro: el subject es el email del usuario.
type Claims struct {
	jwt.RegisteredClaims
}

// Generate genera un token JWT firmado (HS256) con el email como subject.
// El cliente no firma tokens; lo usa el backend simulado de los tests.
func Generate(secret, subject, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida firma y expiración y devuelve el subject.
func Parse(secret, tokenString string) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("claims inválidos")
	}
	return claims.Subject, nil
}

// ExpiresAt lee el claim exp sin verificar la firma (el cliente no conoce el secret).
// ok es false si el token no trae exp; err si no es un JWT legible.
func ExpiresAt(tokenString string) (exp time.Time, ok bool, err error) {
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, &claims); err != nil {
		return time.Time{}, false, fmt.Errorf("jwt: token ilegible: %w", err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false, nil
	}
	return claims.ExpiresAt.Time, true, nil
}

// Expired indica si el token ya venció en now. Un token opaco (no JWT) o sin exp
// no se considera vencido: la última palabra la tiene el backend.
func Expired(tokenString string, now time.Time) bool {
	exp, ok, err := ExpiresAt(tokenString)
	if err != nil || !ok {
		return false
	}
	return !now.Before(exp)
}
