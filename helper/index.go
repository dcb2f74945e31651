package helper

import (
	"errors"
	"fmt"
	"opta/config"
	"opta/model"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const AccessTokenTTL = 30 * time.Minute

var ErrPasswordTooLong = errors.New("password exceeds 72 bytes")

func jwtSecret() []byte {
	return []byte(config.Config("JWT_SECRET"))
}

func HashPassword(password string) (string, error) {
	if len(password) > 72 {
		return "", ErrPasswordTooLong
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

func GenerateAccessToken(tokenClaim model.TokenClaim) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["sub"] = strconv.FormatUint(uint64(tokenClaim.UserId), 10)
	claims["userName"] = tokenClaim.UserName
	claims["exp"] = time.Now().Add(AccessTokenTTL).Unix()

	t, err := token.SignedString(jwtSecret())
	return t, err
}

func ParseToken(tokenString string) (*jwt.Token, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtSecret(), nil
	})

	return token, err
}

// ClaimFromToken reads the user id and name from a parsed token.
func ClaimFromToken(token *jwt.Token) (model.TokenClaim, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return model.TokenClaim{}, errors.New("invalid token claims")
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return model.TokenClaim{}, err
	}
	id, err := strconv.ParseUint(sub, 10, 32)
	if err != nil || id == 0 {
		return model.TokenClaim{}, fmt.Errorf("invalid subject %q", sub)
	}

	name, _ := claims["userName"].(string)
	return model.TokenClaim{UserId: uint(id), UserName: name}, nil
}
