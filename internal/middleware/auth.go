package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/nabburi/15MinClarity/internal/models"
)

type contextKey string

const participantKey contextKey = "participant"

// SignOutKeyPrefix namespaces denylisted token hashes in Redis.
const SignOutKeyPrefix = "signout:"

// JWTAuth validates bearer tokens issued by the external identity provider.
// It never mints tokens; it only verifies them and rejects ones that were
// signed out.
type JWTAuth struct {
	Secret   []byte
	denylist *redis.Client
}

func NewJWTAuth(secret string, denylist *redis.Client) *JWTAuth {
	return &JWTAuth{Secret: []byte(secret), denylist: denylist}
}

// Middleware validates the JWT and attaches the participant to the context.
func (j *JWTAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing authorization header", r)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid authorization format", r)
			return
		}

		tokenStr := parts[1]

		participant, err := j.ParseToken(tokenStr)
		if err != nil {
			if strings.Contains(err.Error(), "expired") {
				writeError(w, http.StatusUnauthorized, "TOKEN_EXPIRED", "Token has expired", r)
			} else {
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token", r)
			}
			return
		}

		if j.denylist != nil {
			n, err := j.denylist.Exists(r.Context(), SignOutKeyPrefix+TokenHash(tokenStr)).Result()
			if err == nil && n > 0 {
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Token has been signed out", r)
				return
			}
		}

		next.ServeHTTP(w, r.WithContext(WithParticipant(r.Context(), participant)))
	})
}

// ParseToken verifies the signature and extracts the participant identity
// from the sub and email claims.
func (j *JWTAuth) ParseToken(tokenStr string) (models.Participant, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return j.Secret, nil
	})
	if err != nil {
		return models.Participant{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return models.Participant{}, jwt.ErrTokenInvalidClaims
	}

	sub, _ := claims["sub"].(string)
	id, err := uuid.Parse(sub)
	if err != nil {
		return models.Participant{}, jwt.ErrTokenInvalidSubject
	}

	email, _ := claims["email"].(string)
	if email == "" {
		return models.Participant{}, jwt.ErrTokenInvalidClaims
	}

	return models.Participant{ID: id, Email: strings.ToLower(email)}, nil
}

// GetParticipant extracts the authenticated participant from the context.
func GetParticipant(ctx context.Context) models.Participant {
	p, _ := ctx.Value(participantKey).(models.Participant)
	return p
}

// WithParticipant attaches an already-verified identity to the context.
func WithParticipant(ctx context.Context, p models.Participant) context.Context {
	return context.WithValue(ctx, participantKey, p)
}

// TokenHash is the denylist key material for a raw token.
func TokenHash(tokenStr string) string {
	sum := sha256.Sum256([]byte(tokenStr))
	return hex.EncodeToString(sum[:])
}

func writeError(w http.ResponseWriter, status int, code, message string, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	})
}
