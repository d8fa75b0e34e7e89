package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// Issuer は発行するトークンのiss。
	Issuer = "mailforward-devapi"
	// DefaultTokenTTL はトークンの既定の有効期間。
	DefaultTokenTTL = 24 * time.Hour
	// RoleAdmin は管理者を表すロール。
	RoleAdmin = "admin"

	// contextKeySubject はGinコンテキストに認証済み主体を格納するキー。
	contextKeySubject = "subject"
)

// JWTClaims は管理APIが発行するトークンのクレーム。
type JWTClaims struct {
	jwt.RegisteredClaims
	// Role は主体のロール。
	Role string `json:"role"`
}

// GenerateJWT はsubjectを主体とするHS256トークンを生成する。
// ttlが0以下の場合はDefaultTokenTTLを使う。
func GenerateJWT(secret, subject string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	now := time.Now()
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    Issuer,
		},
		Role: RoleAdmin,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("JWTトークンの署名に失敗: %w", err)
	}
	return signed, nil
}

// ParseJWT はトークンを検証してクレームを返す。HMAC以外の署名は拒否する。
func ParseJWT(secret, tokenString string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("想定外の署名方式: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(Issuer))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("トークンが無効です")
	}
	return claims, nil
}

// JWTAuth はBearerトークンを検証するGinミドルウェアを返す。
// 検証に成功した場合、コンテキストに主体を設定する。失敗時は401と {"error"} を返す。
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authorizationヘッダーが必要です",
			})
			return
		}

		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Bearer トークン形式が不正です",
			})
			return
		}

		claims, err := ParseJWT(secret, tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "トークンが無効です",
			})
			return
		}

		c.Set(contextKeySubject, claims.Subject)
		c.Next()
	}
}

// GetSubject はGinコンテキストから認証済み主体を取得する。
// JWTAuthミドルウェアが事前に適用されている必要がある。
func GetSubject(c *gin.Context) string {
	v, _ := c.Get(contextKeySubject)
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
