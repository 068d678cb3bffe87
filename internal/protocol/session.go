// Game-session family messages

package protocol

import "fpc-server/internal/board"

type GameSession struct {
	Init   *Init   `json:"init,omitempty"`
	Move   *Move   `json:"move,omitempty"`
	Update *Update `json:"update,omitempty"`
}

type StartPosition struct {
	PlayerName string        `json:"player_name"`
	LeftRook   board.Position `json:"left_rook"`
}

type StartPositions struct {
	Red    StartPosition `json:"red"`
	Blue   StartPosition `json:"blue"`
	Yellow StartPosition `json:"yellow"`
	Green  StartPosition `json:"green"`
}

type Init struct {
	Countdown      uint64          `json:"countdown"`
	ReconnectID    string          `json:"reconnect_id"`
	StartPositions StartPositions  `json:"start_positions"`
}

// Move is the tagged union over the five move kinds the wire format
// names, plus the error reply a handler sends back to the mover.
type Move struct {
	Basic     *MoveBasic     `json:"basic,omitempty"`
	Capture   *MoveCapture   `json:"capture,omitempty"`
	Promotion *MovePromotion `json:"promotion,omitempty"`
	Castling  *MoveCastling  `json:"castling,omitempty"`
	NoMove    *Empty         `json:"no_move,omitempty"`
	Error     *MoveError     `json:"error,omitempty"`
}

type MoveBasic struct {
	From board.Position `json:"from"`
	To   board.Position `json:"to"`
}

type MoveCapture struct {
	From board.Position `json:"from"`
	To   board.Position `json:"to"`
}

type MovePromotion struct {
	From   board.Position `json:"from"`
	To     board.Position `json:"to"`
	Figure board.Kind     `json:"figure"`
}

type MoveCastling struct {
	From board.Position `json:"from"`
	To   board.Position `json:"to"`
}

type MoveError struct {
	ForbiddenMove *Description `json:"forbidden_move,omitempty"`
}

// Decode converts a wire Move into the pure board.Move the rule engine
// consumes. ok is false for NoMove/Error, which never reach the board.
func (m Move) Decode() (board.Move, bool) {
	switch {
	case m.Basic != nil:
		return board.Move{Kind: board.Basic, From: m.Basic.From, To: m.Basic.To}, true
	case m.Capture != nil:
		return board.Move{Kind: board.Capture, From: m.Capture.From, To: m.Capture.To}, true
	case m.Promotion != nil:
		return board.Move{Kind: board.Promotion, From: m.Promotion.From, To: m.Promotion.To, Promote: m.Promotion.Figure}, true
	case m.Castling != nil:
		return board.Move{Kind: board.Castling, From: m.Castling.From, To: m.Castling.To}, true
	default:
		return board.Move{}, false
	}
}

// EncodeMove renders a committed board.Move for the move_previous field
// of an Update broadcast.
func EncodeMove(mv board.Move) Move {
	switch mv.Kind {
	case board.Basic:
		return Move{Basic: &MoveBasic{From: mv.From, To: mv.To}}
	case board.Capture:
		return Move{Capture: &MoveCapture{From: mv.From, To: mv.To}}
	case board.Promotion:
		return Move{Promotion: &MovePromotion{From: mv.From, To: mv.To, Figure: mv.Promote}}
	case board.Castling:
		return Move{Castling: &MoveCastling{From: mv.From, To: mv.To}}
	default:
		return Move{NoMove: &Empty{}}
	}
}

func NoMovePdu() Pdu {
	return Pdu{GameSession: &GameSession{Move: &Move{NoMove: &Empty{}}}}
}

func MoveForbiddenPdu(description string) Pdu {
	return Pdu{GameSession: &GameSession{Move: &Move{Error: &MoveError{
		ForbiddenMove: &Description{Description: description},
	}}}}
}

// Update is the broadcast that follows every turn-driver scheduling
// decision.
type Update struct {
	MoveCall      MoveCall      `json:"move_call"`
	MovePrevious  Move          `json:"move_previous"`
	PlayersStates PlayersStates `json:"players_states"`
}

type MoveCall struct {
	NoCall *Empty `json:"no_call,omitempty"`
	Call   *Call  `json:"call,omitempty"`
}

type Call struct {
	Player board.Color `json:"player"`
	Timer  uint64      `json:"timer"`
	Timer2 uint64      `json:"timer_2"`
}

// PieceDisplay is the cosmetic remaining_pieces hint a Lost player
// state carries, telling the client whether to clear the board of
// that color's pieces or leave them frozen in place.
type PieceDisplay string

const (
	Clear       PieceDisplay = "clear"
	TurnToStone PieceDisplay = "turn_to_stone"
)

type PlayerState struct {
	NoState   *Empty      `json:"no_state,omitempty"`
	Check     *Empty      `json:"check,omitempty"`
	Checkmate *Empty      `json:"checkmate,omitempty"`
	Stalemate *Empty      `json:"stalemate,omitempty"`
	Lost      *LostState  `json:"lost,omitempty"`
}

type LostState struct {
	RemainingPieces PieceDisplay `json:"remaining_pieces"`
}

type PlayersStates struct {
	Red    PlayerState `json:"red"`
	Blue   PlayerState `json:"blue"`
	Yellow PlayerState `json:"yellow"`
	Green  PlayerState `json:"green"`
}

// EncodePlayerState renders a board.PlayerCondition for the wire,
// picking the cosmetic remaining_pieces hint for Lost by how the seat
// was eliminated (checkmate leaves the pieces frozen in place; a
// time-out or resignation clears them from the board).
func EncodePlayerState(cond board.PlayerCondition, fromCheckmate bool) PlayerState {
	switch cond {
	case board.Check:
		return PlayerState{Check: &Empty{}}
	case board.Checkmate:
		return PlayerState{Checkmate: &Empty{}}
	case board.Stalemate:
		return PlayerState{Stalemate: &Empty{}}
	case board.Lost:
		display := Clear
		if fromCheckmate {
			display = TurnToStone
		}
		return PlayerState{Lost: &LostState{RemainingPieces: display}}
	default:
		return PlayerState{NoState: &Empty{}}
	}
}

func UpdatePdu(u Update) Pdu {
	return Pdu{GameSession: &GameSession{Update: &u}}
}

func InitPdu(i Init) Pdu {
	return Pdu{GameSession: &GameSession{Init: &i}}
}
