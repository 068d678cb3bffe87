// Matchmaking-queue family messages

package protocol

type MatchmakingQueue struct {
	PlayerRegister *PlayerRegister `json:"player_register,omitempty"`
	PlayerLeave    *Empty          `json:"player_leave,omitempty"`
	HeartbeatCheck *Empty          `json:"heartbeat_check,omitempty"`
	PlayerKick     *PlayerKick     `json:"player_kick,omitempty"`
}

type PlayerRegister struct {
	Name  *string              `json:"name,omitempty"`
	Ok    *Empty               `json:"ok,omitempty"`
	Error *PlayerRegisterError `json:"error,omitempty"`
}

type PlayerRegisterError struct {
	BadName           *Description `json:"bad_name,omitempty"`
	AlreadyRegistered *Description `json:"already_registered,omitempty"`
	Handshake         *Description `json:"handshake,omitempty"`
	UnspecifiedError  *Description `json:"unspecified_error,omitempty"`
}

type PlayerKick struct {
	Description string `json:"description"`
}

func PlayerRegisterNamePdu(name string) Pdu {
	return Pdu{MatchmakingQueue: &MatchmakingQueue{PlayerRegister: &PlayerRegister{Name: &name}}}
}

func PlayerRegisterOkPdu() Pdu {
	return Pdu{MatchmakingQueue: &MatchmakingQueue{PlayerRegister: &PlayerRegister{Ok: &Empty{}}}}
}

func PlayerRegisterAlreadyRegisteredPdu(description string) Pdu {
	return Pdu{MatchmakingQueue: &MatchmakingQueue{PlayerRegister: &PlayerRegister{
		Error: &PlayerRegisterError{AlreadyRegistered: &Description{Description: description}},
	}}}
}

func PlayerRegisterHandshakePdu(description string) Pdu {
	return Pdu{MatchmakingQueue: &MatchmakingQueue{PlayerRegister: &PlayerRegister{
		Error: &PlayerRegisterError{Handshake: &Description{Description: description}},
	}}}
}

func PlayerLeavePdu() Pdu {
	return Pdu{MatchmakingQueue: &MatchmakingQueue{PlayerLeave: &Empty{}}}
}

func HeartbeatCheckPdu() Pdu {
	return Pdu{MatchmakingQueue: &MatchmakingQueue{HeartbeatCheck: &Empty{}}}
}

func PlayerKickPdu(description string) Pdu {
	return Pdu{MatchmakingQueue: &MatchmakingQueue{PlayerKick: &PlayerKick{Description: description}}}
}
