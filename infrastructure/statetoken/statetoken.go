package statetoken

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"artist-hub/domain/model"
)

// TTL is how long an issued state token is accepted after issuance.
const TTL = 15 * time.Minute

// Payload is the request context carried across the OAuth redirect boundary.
// It is encoded into the `state` query parameter and never persisted
// server-side. The encoding is reversible and unsigned; account linkage is
// still gated by the provider-issued authorization code.
type Payload struct {
	ResourceID string    `json:"resource_id"`
	OwnerID    string    `json:"owner_id"`
	IssuedAt   time.Time `json:"issued_at"`
	ReturnURL  string    `json:"return_url,omitempty"`
}

// Codec encodes and decodes state tokens.
type Codec struct {
	now func() time.Time
}

// NewCodec returns a codec using wall-clock time.
func NewCodec() *Codec {
	return &Codec{now: time.Now}
}

// NewCodecWithClock returns a codec with an injectable clock for tests.
func NewCodecWithClock(now func() time.Time) *Codec {
	return &Codec{now: now}
}

// Encode serializes the payload into an opaque URL-safe string.
func (c *Codec) Encode(p Payload) (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// Decode parses a state token. Returns model.ErrInvalidState when the token
// is not decodable or carries no owner.
func (c *Codec) Decode(token string) (*Payload, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, model.ErrInvalidState
	}
	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, model.ErrInvalidState
	}
	if p.OwnerID == "" || p.IssuedAt.IsZero() {
		return nil, model.ErrInvalidState
	}
	return &p, nil
}

// Validate checks the payload's age against TTL.
func (c *Codec) Validate(p *Payload) error {
	if c.now().Sub(p.IssuedAt) > TTL {
		return model.ErrExpiredState
	}
	return nil
}
