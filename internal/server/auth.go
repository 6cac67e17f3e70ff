package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"path"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/VNG-Realisatie/zaken-api-sub000/internal/engine"
	"github.com/VNG-Realisatie/zaken-api-sub000/internal/engine/auth"
	"github.com/VNG-Realisatie/zaken-api-sub000/internal/repo"
)

type AuthConfig struct {
	JWTSecret string
	Logger    *log.Logger
}

func (c AuthConfig) logger() *log.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return log.Default()
}

type principalKey struct{}

func withPrincipal(ctx context.Context, p auth.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func principalFromContext(ctx context.Context) (auth.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(auth.Principal)
	return p, ok
}

func clientIDFromContext(ctx context.Context) (string, huma.StatusError) {
	if p, ok := principalFromContext(ctx); ok && p.ClientID != "" {
		return p.ClientID, nil
	}
	return "", newAPIError(http.StatusUnauthorized, "unauthorized", "authentication required", nil)
}

type jwtClaims struct {
	jwt.RegisteredClaims
	ClientID string   `json:"client_id,omitempty"`
	Scopes   []string `json:"scopes,omitempty"`
}

func authenticateJWT(token string, secret string) (auth.Principal, error) {
	if strings.TrimSpace(secret) == "" {
		return auth.Principal{}, errors.New("jwt secret not configured")
	}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &jwtClaims{}
	parsed, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return auth.Principal{}, err
	}
	if !parsed.Valid {
		return auth.Principal{}, errors.New("invalid token")
	}
	clientID := claims.ClientID
	if clientID == "" {
		clientID = claims.Subject
	}
	if clientID == "" {
		return auth.Principal{}, errors.New("client_id claim required")
	}
	return auth.Principal{ClientID: clientID, Scopes: claims.Scopes}, nil
}

// authenticateAPIKey accepts "client_id:secret" and checks it against the
// registered applicaties.
func authenticateAPIKey(ctx context.Context, r repo.Repo, key string) (auth.Principal, error) {
	clientID, secret, ok := strings.Cut(strings.TrimSpace(key), ":")
	if !ok || clientID == "" || secret == "" {
		return auth.Principal{}, errors.New("api key must be client_id:secret")
	}
	app, err := r.GetApplicatie(ctx, clientID)
	if err != nil {
		return auth.Principal{}, err
	}
	if repo.HashSecret(secret) != app.SecretHash {
		return auth.Principal{}, errors.New("invalid secret")
	}
	return auth.Principal{ClientID: app.ClientID, Scopes: app.Scopes}, nil
}

func bearerToken(authz string) (string, bool) {
	parts := strings.Fields(authz)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

func newAuthMiddleware(basePath string, cfg AuthConfig, r repo.Repo) func(http.Handler) http.Handler {
	healthPath := path.Join(basePath, "health")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			// Only enforce for API base path.
			if basePath != "" && !strings.HasPrefix(req.URL.Path, basePath) {
				next.ServeHTTP(w, req)
				return
			}
			if req.URL.Path == healthPath {
				next.ServeHTTP(w, req)
				return
			}

			authz := strings.TrimSpace(req.Header.Get("Authorization"))
			apiKeyHeader := strings.TrimSpace(req.Header.Get("X-Api-Key"))

			if authz != "" {
				token, ok := bearerToken(authz)
				if !ok {
					respondStatusError(w, newAPIError(http.StatusUnauthorized, "invalid_credentials", "invalid credentials", nil))
					return
				}
				principal, err := authenticateJWT(token, cfg.JWTSecret)
				if err != nil {
					respondStatusError(w, newAPIError(http.StatusUnauthorized, "invalid_credentials", "invalid credentials", nil))
					return
				}
				next.ServeHTTP(w, req.WithContext(withPrincipal(req.Context(), principal)))
				return
			}

			if apiKeyHeader != "" {
				principal, err := authenticateAPIKey(req.Context(), r, apiKeyHeader)
				if err != nil {
					respondStatusError(w, newAPIError(http.StatusUnauthorized, "invalid_credentials", "invalid credentials", nil))
					return
				}
				next.ServeHTTP(w, req.WithContext(withPrincipal(req.Context(), principal)))
				return
			}

			respondStatusError(w, newAPIError(http.StatusUnauthorized, "unauthorized", "authentication required", nil))
		})
	}
}

// requireScope checks the claims first, then falls back to the scopes
// registered for the applicatie.
func requireScope(ctx context.Context, e engine.Engine, scope string) error {
	principal, ok := principalFromContext(ctx)
	if !ok || principal.ClientID == "" {
		return newAPIError(http.StatusUnauthorized, "unauthorized", "authentication required", nil)
	}
	if principal.Has(scope) {
		return nil
	}
	svc := auth.Service{DB: e.DB}
	granted, err := svc.ApplicatieHasScope(ctx, principal.ClientID, scope)
	if err != nil {
		return err
	}
	if !granted {
		return auth.ForbiddenError{Scope: scope}
	}
	return nil
}

// hasScope is requireScope without the error, for optional elevations.
func hasScope(ctx context.Context, e engine.Engine, scope string) bool {
	return requireScope(ctx, e, scope) == nil
}

func respondStatusError(w http.ResponseWriter, err huma.StatusError) {
	status := http.StatusInternalServerError
	if e, ok := err.(interface{ GetStatus() int }); ok {
		status = e.GetStatus()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(err)
}
