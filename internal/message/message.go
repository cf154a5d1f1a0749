// Package message defines the JSON envelopes exchanged between a client
// and the game singleton (spec.md §6): a discriminated union on "type",
// deserialized by the transport layer and handed to game.Game to act on.
package message

import "encoding/json"

// Type is the discriminant every envelope carries.
type Type string

const (
	TypeConnection         Type = "CONNECTION"
	TypeConnectionResponse Type = "CONNECTION_RESPONSE"
	TypeCast               Type = "CAST"
	TypeAction             Type = "ACTION"
)

// Envelope is the outer shape every message takes on the wire: a type tag
// plus the raw body, deferred-decoded once the type is known.
type Envelope struct {
	Type Type            `json:"type"`
	Body json.RawMessage `json:"body"`
}

// Connection is a client's handshake request. Token, when present, is a
// bearer JWT validated by internal/authn before a player_id is
// minted/resolved; omitted, DesiredName (or ClientID when that is empty)
// is looked up or minted in the player-profile directory.
type Connection struct {
	ClientID    string `json:"client_id"`
	DesiredName string `json:"desired_name,omitempty"`
	Token       string `json:"token,omitempty"`
}

// ConnectionResponse answers a Connection.
type ConnectionResponse struct {
	OK       bool   `json:"ok"`
	PlayerID string `json:"player_id,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Cast asks the game to invoke an ability on behalf of a connected client.
// CasterType is always "entity" today; the field is kept so the envelope
// can grow other caster kinds without a breaking wire change.
type Cast struct {
	CasterType string         `json:"caster_type"`
	ClientID   string         `json:"client_id"`
	CasterID   string         `json:"caster_id"`
	AbilityName string        `json:"ability_name"`
	Using      string         `json:"using,omitempty"`
	GrantedBy  string         `json:"granted_by,omitempty"`
	Target     string         `json:"target,omitempty"`
	Params     map[string]any `json:"params,omitempty"`
}

// CastResponse carries the empty-means-accepted error string spec.md §6
// describes for CAST.
type CastResponse struct {
	Error string `json:"error,omitempty"`
}

// Action wraps a serialized action for server-to-client delivery; Body is
// produced by package serialize and is opaque to message.
type Action struct {
	Body json.RawMessage `json:"action"`
}

// Encode wraps a typed body into an Envelope ready for json.Marshal.
func Encode(t Type, body any) (*Envelope, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	return &Envelope{Type: t, Body: raw}, nil
}

// DecodeConnection unmarshals env's body as a Connection; the caller must
// have already checked env.Type == TypeConnection.
func DecodeConnection(env *Envelope) (Connection, error) {
	var c Connection
	err := json.Unmarshal(env.Body, &c)
	return c, err
}

// DecodeCast unmarshals env's body as a Cast.
func DecodeCast(env *Envelope) (Cast, error) {
	var c Cast
	err := json.Unmarshal(env.Body, &c)
	return c, err
}
