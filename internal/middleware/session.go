package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const SessionCookieName = "sessionid"

type sessionClaims struct {
	SID string `json:"sid"`
	jwt.RegisteredClaims
}

type SessionConfig struct {
	Secret []byte
	TTL    time.Duration
	Secure bool
	Now    func() time.Time
}

// Session はCookieのセッションキーを取り出してcontextに入れる。
// Cookieが無い・壊れている・期限切れなら新しいキーを発行する。
func Session(cfg SessionConfig) echo.MiddlewareFunc {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid := ""
			if ck, err := c.Cookie(SessionCookieName); err == nil {
				sid, _ = parseSessionCookie(ck.Value, cfg)
			}

			if sid == "" {
				sid = uuid.NewString()
				signed, err := signSessionCookie(sid, cfg)
				if err != nil {
					return errorJSON(c, err)
				}
				c.SetCookie(&http.Cookie{
					Name:     SessionCookieName,
					Value:    signed,
					Path:     "/",
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
					Expires:  cfg.Now().Add(cfg.TTL),
				})
			}

			c.Set(CtxSessionKeyKey, sid)
			return next(c)
		}
	}
}

func signSessionCookie(sid string, cfg SessionConfig) (string, error) {
	now := cfg.Now()
	claims := sessionClaims{
		SID: sid,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.TTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(cfg.Secret)
}

func parseSessionCookie(raw string, cfg SessionConfig) (string, error) {
	var claims sessionClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return cfg.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(cfg.Now),
	)
	if err != nil || !token.Valid {
		return "", errors.New("invalid session cookie")
	}
	if _, err := uuid.Parse(claims.SID); err != nil {
		return "", errors.New("invalid session id")
	}
	return claims.SID, nil
}
