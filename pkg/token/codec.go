// pkg/token/codec.go
package token

import (
	"errors"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// ErrInvalid covers every verification failure: bad structure, signature
// mismatch, expiry. Callers must not distinguish between them.
var ErrInvalid = errors.New("invalid token")

// Claims carried by a download credential. Self-contained; the gateway keeps
// no session record, so a secret rotation does not revoke tokens already out
// there. Exposure is bounded by the TTL.
type Claims struct {
	Tenant    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Codec mints and checks signed, time-bounded credentials for a tenant.
// Implementations must be pure (no I/O) so handlers stay stateless.
type Codec interface {
	Issue(tenant, secret string) (string, error)
	Verify(raw, secret string) (Claims, error)
}

// HS256Codec produces compact JWTs (header.payload.signature) signed with
// the tenant's shared secret. The clock is injected so tests can pin time.
type HS256Codec struct {
	TTL   time.Duration
	Clock jwt.Clock
}

func NewHS256(ttl time.Duration) *HS256Codec {
	return &HS256Codec{TTL: ttl, Clock: jwt.ClockFunc(time.Now)}
}

func (c *HS256Codec) now() time.Time {
	if c.Clock != nil {
		return c.Clock.Now()
	}
	return time.Now()
}

func (c *HS256Codec) Issue(tenant, secret string) (string, error) {
	now := c.now().Truncate(time.Second)
	tok, err := jwt.NewBuilder().
		Subject(tenant).
		IssuedAt(now).
		Expiration(now.Add(c.TTL)).
		Build()
	if err != nil {
		return "", err
	}
	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, []byte(secret)))
	if err != nil {
		return "", err
	}
	return string(signed), nil
}

// Verify checks the signature and expiry. The HMAC comparison inside jwx is
// constant-time, so timing does not leak where the token went wrong.
func (c *HS256Codec) Verify(raw, secret string) (Claims, error) {
	tok, err := jwt.Parse([]byte(raw),
		jwt.WithKey(jwa.HS256, []byte(secret)),
		jwt.WithValidate(true),
		jwt.WithClock(jwt.ClockFunc(c.now)),
	)
	if err != nil {
		return Claims{}, ErrInvalid
	}
	return Claims{
		Tenant:    tok.Subject(),
		IssuedAt:  tok.IssuedAt(),
		ExpiresAt: tok.Expiration(),
	}, nil
}
