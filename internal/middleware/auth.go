// Package middleware provides authentication, logging, metrics and rate
// limiting middleware for the application.
package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"unpolished/internal/config"
	"unpolished/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Token issuer and audience stamped into every access token.
const (
	TokenIssuer   = "unpolished-api"
	TokenAudience = "unpolished-client"
)

// Fiber locals populated by the auth middleware.
const (
	LocalIdentity = "user"
	LocalUserID   = "userID"
)

const blacklistPrefix = "blacklist:"

// ErrTokenRevoked is returned by Parse for a signed-out token.
var ErrTokenRevoked = errors.New("token has been revoked")

// Claims is the token payload: the caller's identity plus the registered
// claims (the embedded ID is the JTI).
type Claims struct {
	UserID   uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// Identity is the authenticated caller attached to a request.
type Identity struct {
	ID        uint
	Username  string
	Email     string
	TokenID   string
	ExpiresAt time.Time
}

// Authenticator issues, verifies and revokes access tokens.
type Authenticator struct {
	secret []byte
	ttl    time.Duration
	rdb    *redis.Client
	now    func() time.Time
}

// NewAuthenticator builds an Authenticator from config. rdb may be nil, in
// which case sign-out cannot revoke tokens.
func NewAuthenticator(cfg *config.Config, rdb *redis.Client) *Authenticator {
	ttl := time.Duration(cfg.JWTExpiryHours) * time.Hour
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Authenticator{
		secret: []byte(cfg.JWTSecret),
		ttl:    ttl,
		rdb:    rdb,
		now:    time.Now,
	}
}

// Issue signs a new token for the user.
func (a *Authenticator) Issue(userID uint, username, email string) (string, error) {
	if len(a.secret) == 0 {
		return "", fmt.Errorf("JWT secret not configured")
	}
	now := a.now()
	claims := Claims{
		UserID:   userID,
		Username: username,
		Email:    email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			Issuer:    TokenIssuer,
			Audience:  jwt.ClaimStrings{TokenAudience},
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// Parse verifies signature, issuer, audience and expiry, then checks the
// revocation list. Redis failures during the revocation check fail open.
func (a *Authenticator) Parse(ctx context.Context, tokenString string) (*Identity, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(TokenIssuer),
		jwt.WithAudience(TokenAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return nil, err
	}
	if claims.UserID == 0 {
		return nil, errors.New("token has no user id")
	}

	if claims.ID != "" && a.rdb != nil {
		n, err := a.rdb.Exists(ctx, blacklistPrefix+claims.ID).Result()
		if err == nil && n > 0 {
			return nil, ErrTokenRevoked
		}
	}

	id := &Identity{
		ID:       claims.UserID,
		Username: claims.Username,
		Email:    claims.Email,
		TokenID:  claims.ID,
	}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	return id, nil
}

// Revoke blacklists the identity's token until it would have expired.
func (a *Authenticator) Revoke(ctx context.Context, id *Identity) error {
	if id == nil || id.TokenID == "" {
		return nil
	}
	if a.rdb == nil {
		Logger.WarnContext(ctx, "Token revocation skipped: redis unavailable", slog.Uint64("user_id", uint64(id.ID)))
		return nil
	}
	ttl := id.ExpiresAt.Sub(a.now())
	if ttl <= 0 {
		return nil
	}
	return a.rdb.Set(ctx, blacklistPrefix+id.TokenID, id.ID, ttl).Err()
}

// Required rejects requests without a valid token with 401.
func (a *Authenticator) Required() fiber.Handler {
	return a.handler(false, false)
}

// RequiredWS is Required that also accepts ?token= for browser websocket
// clients, which cannot set headers on the upgrade request.
func (a *Authenticator) RequiredWS() fiber.Handler {
	return a.handler(false, true)
}

// Optional attaches the identity when a valid token is present and
// otherwise continues anonymously.
func (a *Authenticator) Optional() fiber.Handler {
	return a.handler(true, false)
}

func (a *Authenticator) handler(optional, allowQuery bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := bearerToken(c.Get(fiber.HeaderAuthorization))
		if tokenString == "" && allowQuery {
			tokenString = c.Query("token")
		}
		if tokenString == "" {
			if optional {
				return c.Next()
			}
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		id, err := a.Parse(c.UserContext(), tokenString)
		if err != nil {
			if optional {
				return c.Next()
			}
			msg := "Invalid or expired token"
			if errors.Is(err, ErrTokenRevoked) {
				msg = "Token has been revoked"
			}
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError(msg))
		}

		attachIdentity(c, id)
		return c.Next()
	}
}

// bearerToken accepts "Bearer <token>" as well as a bare token.
func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	if strings.ContainsRune(header, ' ') {
		return ""
	}
	return header
}

func attachIdentity(c *fiber.Ctx, id *Identity) {
	c.Locals(LocalIdentity, id)
	c.Locals(LocalUserID, id.ID)
	ctx := context.WithValue(c.UserContext(), UserIDKey, id.ID)
	c.SetUserContext(ctx)
}

// IdentityFrom returns the identity attached by the auth middleware.
func IdentityFrom(c *fiber.Ctx) (*Identity, bool) {
	id, ok := c.Locals(LocalIdentity).(*Identity)
	return id, ok && id != nil
}

// UserIDFrom returns the caller's id, or 0 for anonymous requests.
func UserIDFrom(c *fiber.Ctx) uint {
	if uid, ok := c.Locals(LocalUserID).(uint); ok {
		return uid
	}
	return 0
}
