// Package ticket encodes and decodes the QR payload that identifies a
// (event, user) ticket.
//
// The payload is a JSON object with the required string fields eventId and
// userId. When the codec holds a signing key the payload also carries sig, a
// hex keyed BLAKE3 digest of the two ids, and decoding rejects payloads whose
// sig is missing or wrong.
package ticket

import (
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/juju/errors"
	"github.com/juju/schema"
	"github.com/zeebo/blake3"
)

const (
	ErrInvalidPayload = errors.ConstError("invalid ticket payload")
	ErrBadSignature   = errors.ConstError("ticket signature mismatch")
)

const (
	fieldEventID = "eventId"
	fieldUserID  = "userId"
	fieldSig     = "sig"
)

var payloadSchema = schema.FieldMap(
	schema.Fields{
		fieldEventID: schema.String(),
		fieldUserID:  schema.String(),
		fieldSig:     schema.String(),
	},
	schema.Defaults{
		fieldSig: schema.Omit,
	},
)

type Payload struct {
	EventID string `json:"eventId"`
	UserID  string `json:"userId"`
	Sig     string `json:"sig,omitempty"`
}

type Codec struct {
	key []byte
}

// NewCodec returns a codec. A nil key produces and accepts unsigned payloads.
func NewCodec(key []byte) (*Codec, error) {
	if key == nil {
		return &Codec{}, nil
	}
	if _, err := blake3.NewKeyed(key); err != nil {
		return nil, errors.Annotate(err, "ticket signing key")
	}
	return &Codec{key: append([]byte(nil), key...)}, nil
}

func (c *Codec) Signed() bool {
	return c.key != nil
}

func (c *Codec) Encode(eventID, userID string) (string, error) {
	if eventID == "" || userID == "" {
		return "", errors.NotValidf("ticket for event %q user %q", eventID, userID)
	}
	p := Payload{EventID: eventID, UserID: userID}
	if c.Signed() {
		p.Sig = c.sign(eventID, userID)
	}
	body, err := json.Marshal(p)
	if err != nil {
		return "", errors.Trace(err)
	}
	return string(body), nil
}

// Decode parses a scanned payload. Every failure wraps ErrInvalidPayload.
func (c *Codec) Decode(raw string) (Payload, error) {
	var doc any
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &doc); err != nil {
		return Payload{}, errors.Annotate(ErrInvalidPayload, err.Error())
	}
	if _, ok := doc.(map[string]any); !ok {
		return Payload{}, errors.Annotate(ErrInvalidPayload, "not a JSON object")
	}
	coerced, err := payloadSchema.Coerce(doc, nil)
	if err != nil {
		return Payload{}, errors.Annotate(ErrInvalidPayload, err.Error())
	}
	fields := coerced.(map[string]any)

	p := Payload{
		EventID: fields[fieldEventID].(string),
		UserID:  fields[fieldUserID].(string),
	}
	if sig, ok := fields[fieldSig].(string); ok {
		p.Sig = sig
	}
	if p.EventID == "" || p.UserID == "" {
		return Payload{}, errors.Annotate(ErrInvalidPayload, "empty id")
	}

	if c.Signed() {
		want := c.sign(p.EventID, p.UserID)
		if subtle.ConstantTimeCompare([]byte(want), []byte(strings.ToLower(p.Sig))) != 1 {
			return Payload{}, errors.WithType(ErrBadSignature, ErrInvalidPayload)
		}
	}
	return p, nil
}

func (c *Codec) sign(eventID, userID string) string {
	h, _ := blake3.NewKeyed(c.key)
	_, _ = h.WriteString(eventID)
	_, _ = h.Write([]byte{0})
	_, _ = h.WriteString(userID)
	return hex.EncodeToString(h.Sum(nil))
}
