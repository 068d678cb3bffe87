package protocol

import (
	"encoding/json"
	"reflect"
	"testing"

	"fpc-server/internal/board"
)

func roundTrip(t *testing.T, pdu Pdu) {
	t.Helper()
	data, err := json.Marshal(pdu)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got Pdu
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal %s: %v", data, err)
	}
	if !reflect.DeepEqual(pdu, got) {
		t.Errorf("round-trip mismatch\n wire: %s\n want: %#v\n got:  %#v", data, pdu, got)
	}
}

func TestRoundTripHandshake(t *testing.T) {
	roundTrip(t, GetInfoRequestPdu())
	roundTrip(t, GetInfoOkPdu([]string{"0"}))
	roundTrip(t, ConnectClientPdu("c", "1", "0"))
	roundTrip(t, ConnectOkPdu("fpc-server", "0.0.1"))
	roundTrip(t, ConnectUnsupportedVersionPdu("Unsupported client version"))
}

func TestRoundTripMatchmaking(t *testing.T) {
	roundTrip(t, PlayerRegisterNamePdu("p1"))
	roundTrip(t, PlayerRegisterOkPdu())
	roundTrip(t, PlayerRegisterAlreadyRegisteredPdu("already registered"))
	roundTrip(t, PlayerRegisterHandshakePdu("handshake not completed"))
	roundTrip(t, PlayerLeavePdu())
	roundTrip(t, HeartbeatCheckPdu())
	roundTrip(t, PlayerKickPdu("Heartbeat timeout"))
}

func TestRoundTripGameSession(t *testing.T) {
	roundTrip(t, InitPdu(Init{
		Countdown:   10,
		ReconnectID: "abc",
		StartPositions: StartPositions{
			Red:    StartPosition{PlayerName: "p1", LeftRook: board.Red.StartRook()},
			Blue:   StartPosition{PlayerName: "p2", LeftRook: board.Blue.StartRook()},
			Yellow: StartPosition{PlayerName: "p3", LeftRook: board.Yellow.StartRook()},
			Green:  StartPosition{PlayerName: "p4", LeftRook: board.Green.StartRook()},
		},
	}))
	roundTrip(t, NoMovePdu())
	roundTrip(t, MoveForbiddenPdu("Illegal move"))

	from, _ := board.ParsePosition("d1")
	to, _ := board.ParsePosition("d2")
	roundTrip(t, Pdu{GameSession: &GameSession{Move: &Move{Basic: &MoveBasic{From: from, To: to}}}})
	roundTrip(t, Pdu{GameSession: &GameSession{Move: &Move{Capture: &MoveCapture{From: from, To: to}}}})
	roundTrip(t, Pdu{GameSession: &GameSession{Move: &Move{Promotion: &MovePromotion{From: from, To: to, Figure: board.Queen}}}})
	roundTrip(t, Pdu{GameSession: &GameSession{Move: &Move{Castling: &MoveCastling{From: from, To: to}}}})

	roundTrip(t, UpdatePdu(Update{
		MoveCall:     MoveCall{Call: &Call{Player: board.Blue, Timer: 60, Timer2: 5}},
		MovePrevious: Move{NoMove: &Empty{}},
		PlayersStates: PlayersStates{
			Red:    PlayerState{NoState: &Empty{}},
			Blue:   PlayerState{Check: &Empty{}},
			Yellow: PlayerState{Lost: &LostState{RemainingPieces: Clear}},
			Green:  PlayerState{Lost: &LostState{RemainingPieces: TurnToStone}},
		},
	}))
	roundTrip(t, UpdatePdu(Update{
		MoveCall:      MoveCall{NoCall: &Empty{}},
		MovePrevious:  Move{NoMove: &Empty{}},
		PlayersStates: PlayersStates{},
	}))
}

func TestMoveDecodeEncode(t *testing.T) {
	from, _ := board.ParsePosition("d1")
	to, _ := board.ParsePosition("d2")
	wire := Move{Basic: &MoveBasic{From: from, To: to}}
	mv, ok := wire.Decode()
	if !ok || mv.Kind != board.Basic || mv.From != from || mv.To != to {
		t.Fatalf("Decode() = %+v, %v", mv, ok)
	}
	back := EncodeMove(mv)
	if back.Basic == nil || *back.Basic != *wire.Basic {
		t.Errorf("EncodeMove round-trip mismatch: %+v", back)
	}
}
