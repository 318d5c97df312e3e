// Package auth decodes the bearer token on the client side. It only reads
// the payload to learn when the session ends; it never checks signatures,
// which remains the backend's job.
package auth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/petadopt/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// ExpiryPolicy decides how a token without an "exp" claim is treated.
type ExpiryPolicy int

const (
	// MissingExpiryInvalid treats a token without "exp" as already expired.
	MissingExpiryInvalid ExpiryPolicy = iota
	// MissingExpiryValid treats a token without "exp" as never expiring.
	MissingExpiryValid
)

// Claims is the part of the token payload the client cares about.
type Claims struct {
	Subject   string
	Role      string
	ExpiresAt *time.Time
	IssuedAt  *time.Time
}

type payload struct {
	jwt.RegisteredClaims
	Role string `json:"role,omitempty"`
}

var segmentParser = jwt.NewParser()

// Decode parses the payload of a three-segment base64url token. It fails
// with common.ErrDecode when any segment is not base64url or the payload is
// not a JSON object. Pure: no signature check, no clock, no network.
func Decode(token string) (Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return Claims{}, fmt.Errorf("%w: want 3 segments, got %d", common.ErrDecode, len(parts))
	}

	var raw []byte
	for i, name := range []string{"header", "payload", "signature"} {
		seg, err := segmentParser.DecodeSegment(parts[i])
		if err != nil {
			return Claims{}, fmt.Errorf("%w: %s: %w", common.ErrDecode, name, err)
		}
		if i == 1 {
			raw = seg
		}
	}
	if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")) {
		return Claims{}, fmt.Errorf("%w: payload is not an object", common.ErrDecode)
	}

	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return Claims{}, fmt.Errorf("%w: payload: %w", common.ErrDecode, err)
	}

	c := Claims{Subject: p.Subject, Role: p.Role}
	if p.ExpiresAt != nil {
		exp := p.ExpiresAt.Time
		c.ExpiresAt = &exp
	}
	if p.IssuedAt != nil {
		iat := p.IssuedAt.Time
		c.IssuedAt = &iat
	}
	return c, nil
}

// IsExpired reports exp*1000 < now in milliseconds. A missing exp is
// resolved by policy.
func IsExpired(c Claims, now time.Time, policy ExpiryPolicy) bool {
	if c.ExpiresAt == nil {
		return policy == MissingExpiryInvalid
	}
	return c.ExpiresAt.UnixMilli() < now.UnixMilli()
}

// Decoder binds a policy and a clock to Decode/IsExpired.
type Decoder struct {
	policy ExpiryPolicy
	now    func() time.Time
}

type Option func(*Decoder)

// WithClock replaces time.Now; used by tests.
func WithClock(now func() time.Time) Option {
	return func(d *Decoder) { d.now = now }
}

func NewDecoder(policy ExpiryPolicy, opts ...Option) *Decoder {
	d := &Decoder{policy: policy, now: time.Now}
	for _, o := range opts {
		o(d)
	}
	return d
}

func (d *Decoder) Decode(token string) (Claims, error) {
	return Decode(token)
}

func (d *Decoder) IsExpired(c Claims) bool {
	return IsExpired(c, d.now(), d.policy)
}
