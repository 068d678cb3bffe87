// Package protocol encodes and decodes the externally-tagged JSON Pdu
// union the wire format describes. The union is expressed as a tree of
// structs with optional (pointer, omitempty) fields rather than a
// custom Marshaler/Unmarshaler: encoding/json already omits nil
// pointers and only ever sets one field per decoded object, which is
// exactly the "exactly one variant at a time" discipline the wire
// format requires. No externally-tagged-union JSON library appears
// anywhere in the retrieved corpus, so this is the one piece of the
// repository grounded directly on the standard library; see
// DESIGN.md for the stdlib justification this project's convention
// requires.
package protocol

// Empty marshals to "{}", used for tagged variants that carry no data
// (e.g. handshake.get_info.request).
type Empty struct{}

// Description wraps the single "description" field most error
// variants in the catalogue carry.
type Description struct {
	Description string `json:"description"`
}

// Pdu is the top-level tagged union: exactly one of the three families
// below is non-nil in any well-formed message.
type Pdu struct {
	Handshake        *Handshake        `json:"handshake,omitempty"`
	MatchmakingQueue *MatchmakingQueue `json:"matchmaking_queue,omitempty"`
	GameSession      *GameSession      `json:"game_session,omitempty"`
}
