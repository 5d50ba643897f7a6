package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/aretw0/silt/pkg/core"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// accountPayload is the wire shape of an identity record.
type accountPayload struct {
	ID    string `json:"$id"`
	Email string `json:"email"`
}

// sessionPayload is the wire shape of a created session.
type sessionPayload struct {
	Secret string `json:"secret"`
}

// CurrentIdentity implements core.AccountGateway. A session token whose exp
// claim has already passed fails locally without a round trip; the dead token
// is dropped so the next login starts clean.
func (c *Client) CurrentIdentity(ctx context.Context) (core.Identity, error) {
	token := c.sessionToken()
	if token == "" {
		return core.Identity{}, &core.RemoteError{Op: "get identity", Message: "no session"}
	}
	if expired(token) {
		c.logger.Debug("stored session token expired")
		c.setToken("")
		return core.Identity{}, &core.RemoteError{Op: "get identity", Message: "session expired"}
	}

	var acc accountPayload
	if _, err := c.do(ctx, "get identity", http.MethodGet, "/account", nil, &acc); err != nil {
		return core.Identity{}, err
	}
	return core.Identity{ID: acc.ID, Email: acc.Email}, nil
}

// CreateSession implements core.AccountGateway. The returned secret becomes
// the session credential for all subsequent requests.
func (c *Client) CreateSession(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	var sess sessionPayload
	if _, err := c.do(ctx, "create session", http.MethodPost, "/account/sessions/email", body, &sess); err != nil {
		return err
	}
	c.setToken(sess.Secret)
	return nil
}

// DeleteSession implements core.AccountGateway. The local credential is
// dropped regardless of the remote outcome: the caller is abandoning the
// session either way, and the server-side session expires on its own.
func (c *Client) DeleteSession(ctx context.Context) error {
	_, err := c.do(ctx, "delete session", http.MethodDelete, "/account/sessions/current", nil, nil)
	c.setToken("")
	return err
}

// CreateAccount implements core.AccountGateway. The account id is generated
// client-side, matching the store's create-with-unique-id convention.
func (c *Client) CreateAccount(ctx context.Context, email, password string) (core.Identity, error) {
	body := map[string]string{
		"userId":   uuid.NewString(),
		"email":    email,
		"password": password,
	}
	var acc accountPayload
	if _, err := c.do(ctx, "create account", http.MethodPost, "/account", body, &acc); err != nil {
		return core.Identity{}, err
	}
	return core.Identity{ID: acc.ID, Email: acc.Email}, nil
}

// expired reports whether the token is a JWT with an exp claim in the past.
// Opaque or claim-less tokens are never treated as expired; the server
// remains the authority for those.
func expired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
