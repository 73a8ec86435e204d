package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"storefront/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type contextKey string

const (
	PrincipalKey contextKey = "principal"
)

var (
	ErrMissingToken  = errors.New("missing authorization header")
	ErrInvalidHeader = errors.New("invalid authorization header format")
	ErrInvalidToken  = errors.New("invalid token")
	ErrTokenExpired  = errors.New("token expired")
	ErrInvalidClaims = errors.New("invalid token claims")
)

// AuthMiddleware requires a valid bearer token and stores the caller's Principal in the context
func AuthMiddleware(jwtSecret string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := principalFromRequest(r, jwtSecret)
			if err != nil {
				logger.Debug("Authentication failed", zap.Error(err))
				RespondWithError(w, http.StatusUnauthorized, err.Error())
				return
			}

			logger.Debug("User authenticated",
				zap.Int64("user_id", principal.ID),
				zap.Stringer("role", principal.Role),
			)

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

// OptionalAuth resolves the caller when a usable token is present and lets
// everyone else through as an anonymous shopper
func OptionalAuth(jwtSecret string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := principalFromRequest(r, jwtSecret)
			if err != nil {
				if !errors.Is(err, ErrMissingToken) {
					logger.Debug("Ignoring unusable token", zap.Error(err))
				}
				principal = domain.Anonymous
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

func principalFromRequest(r *http.Request, jwtSecret string) (domain.Principal, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return domain.Anonymous, ErrMissingToken
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return domain.Anonymous, ErrInvalidHeader
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Anonymous, ErrTokenExpired
		}
		return domain.Anonymous, ErrInvalidToken
	}
	if !token.Valid {
		return domain.Anonymous, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return domain.Anonymous, ErrInvalidClaims
	}

	return principalFromClaims(claims)
}

// principalFromClaims reads the numeric user_id claim and the optional role claim
func principalFromClaims(claims jwt.MapClaims) (domain.Principal, error) {
	var id int64
	switch v := claims["user_id"].(type) {
	case float64:
		id = int64(v)
		if float64(id) != v {
			return domain.Anonymous, fmt.Errorf("%w: user_id is not an integer", ErrInvalidClaims)
		}
	case string:
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return domain.Anonymous, fmt.Errorf("%w: user_id is not numeric", ErrInvalidClaims)
		}
		id = parsed
	default:
		return domain.Anonymous, fmt.Errorf("%w: missing user_id", ErrInvalidClaims)
	}
	if id <= 0 {
		return domain.Anonymous, fmt.Errorf("%w: user_id must be positive", ErrInvalidClaims)
	}

	role, _ := claims["role"].(string)

	return domain.Principal{ID: id, Role: domain.ParseRole(role)}, nil
}

// WithPrincipal stores the caller in ctx
func WithPrincipal(ctx context.Context, p domain.Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey, p)
}

// GetPrincipal extracts the caller from ctx; requests without one are anonymous
func GetPrincipal(ctx context.Context) domain.Principal {
	p, ok := ctx.Value(PrincipalKey).(domain.Principal)
	if !ok {
		return domain.Anonymous
	}
	return p
}
