package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/biddergod/users-service/pkg/config"
	pkgerrors "github.com/biddergod/users-service/pkg/errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rakutentech/jwk-go/jwk"
)

// ClaimsVerifier checks a raw bearer token and returns its claims bag.
// Cryptographic validation happens here; everything downstream treats the
// claims as trusted.
type ClaimsVerifier interface {
	Verify(ctx context.Context, rawToken string) (jwt.MapClaims, error)
}

// NewVerifier picks the verifier implied by the Cognito configuration:
// the JWKS-backed verifier normally, the HMAC one when a dev secret is set.
func NewVerifier(cfg config.CognitoConfig) ClaimsVerifier {
	if cfg.DevSecret != "" {
		return &HMACVerifier{Secret: []byte(cfg.DevSecret)}
	}
	return NewCognitoVerifier(cfg)
}

// CognitoVerifier validates RS256 tokens against the user pool's published
// JWKS. Keys are cached and refreshed when an unknown kid shows up or the
// cache goes stale.
type CognitoVerifier struct {
	issuer     string
	jwksURL    string
	clientID   string
	refresh    time.Duration
	httpClient *http.Client

	mu        sync.RWMutex
	keys      map[string]any
	fetchedAt time.Time
}

// NewCognitoVerifier builds a verifier bound to the configured user pool.
func NewCognitoVerifier(cfg config.CognitoConfig) *CognitoVerifier {
	return &CognitoVerifier{
		issuer:     cfg.IssuerURL(),
		jwksURL:    cfg.JWKSURL(),
		clientID:   cfg.ClientID,
		refresh:    cfg.JWKSRefresh,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		keys:       map[string]any{},
	}
}

// Verify parses and validates the token, returning its claims.
func (v *CognitoVerifier) Verify(ctx context.Context, rawToken string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(
		rawToken,
		claims,
		func(token *jwt.Token) (any, error) {
			kid, _ := token.Header["kid"].(string)
			if kid == "" {
				return nil, fmt.Errorf("token missing kid header")
			}
			return v.keyFor(ctx, kid)
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(v.issuer),
	)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}

	if err := v.checkAudience(claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// checkAudience enforces the configured app client. Identity tokens carry it
// in aud, access tokens in client_id.
func (v *CognitoVerifier) checkAudience(claims jwt.MapClaims) error {
	if v.clientID == "" {
		return nil
	}
	if use, _ := claims["token_use"].(string); use == "id" {
		aud, _ := claims["aud"].(string)
		if aud != v.clientID {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "token audience mismatch")
		}
		return nil
	}
	clientID, _ := claims["client_id"].(string)
	if clientID != v.clientID {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "token client mismatch")
	}
	return nil
}

func (v *CognitoVerifier) keyFor(ctx context.Context, kid string) (any, error) {
	v.mu.RLock()
	key, ok := v.keys[kid]
	stale := v.refresh > 0 && time.Since(v.fetchedAt) > v.refresh
	v.mu.RUnlock()
	if ok && !stale {
		return key, nil
	}

	if err := v.fetchKeys(ctx); err != nil {
		if ok {
			// Serve the cached key if refresh fails; the pool rotates slowly.
			return key, nil
		}
		return nil, err
	}

	v.mu.RLock()
	defer v.mu.RUnlock()
	if key, ok := v.keys[kid]; ok {
		return key, nil
	}
	return nil, fmt.Errorf("no key for kid %q", kid)
}

func (v *CognitoVerifier) fetchKeys(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.jwksURL, nil)
	if err != nil {
		return fmt.Errorf("building jwks request: %w", err)
	}
	resp, err := v.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetching jwks: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetching jwks: unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading jwks response: %w", err)
	}

	var payload struct {
		Keys []json.RawMessage `json:"keys"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return fmt.Errorf("decoding jwks: %w", err)
	}

	keys := make(map[string]any, len(payload.Keys))
	for _, raw := range payload.Keys {
		spec, err := jwk.Parse(string(raw))
		if err != nil {
			return fmt.Errorf("parsing jwk: %w", err)
		}
		if spec.KeyID == "" {
			continue
		}
		keys[spec.KeyID] = spec.Key
	}

	v.mu.Lock()
	v.keys = keys
	v.fetchedAt = time.Now()
	v.mu.Unlock()
	return nil
}

// HMACVerifier validates HS256 tokens with a shared secret. Local
// development only; production always talks to a real user pool.
type HMACVerifier struct {
	Secret []byte
}

// Verify parses and validates the token, returning its claims.
func (v *HMACVerifier) Verify(_ context.Context, rawToken string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(
		rawToken,
		claims,
		func(token *jwt.Token) (any, error) {
			if token.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return v.Secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}
	return claims, nil
}
