// Move legality and player-condition evaluation

package board

import "errors"

// MoveKind is the tag of the move union carried over the wire.
type MoveKind uint8

const (
	Basic MoveKind = iota
	Capture
	Promotion
	Castling
)

// Move is the pure-data move ValidateAndApply consumes.
type Move struct {
	Kind    MoveKind
	From    Position
	To      Position
	Promote Kind // only meaningful when Kind == Promotion
}

// PlayerCondition is the per-color condition of one seat in a game.
// ComputePlayerStates only ever returns NoState/Check/Checkmate/Stalemate;
// Lost is assigned by the turn driver once a seat runs out of time or
// its checkmate/stalemate condition has already been reported once.
type PlayerCondition uint8

const (
	NoState PlayerCondition = iota
	Check
	Checkmate
	Stalemate
	Lost
)

func (c PlayerCondition) String() string {
	switch c {
	case NoState:
		return "no_state"
	case Check:
		return "check"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case Lost:
		return "lost"
	default:
		panic("board: illegal player condition")
	}
}

// ErrIllegalMove is returned by ValidateAndApply for any move that the
// rule engine rejects.
var ErrIllegalMove = errors.New("board: illegal move")

// ValidateAndApply checks that mv is legal for who to play on b, and
// if so returns the resulting board. b is never mutated.
func ValidateAndApply(b *Board, mv Move, who Color) (*Board, error) {
	piece, ok := b.At(mv.From)
	if !ok || piece.Color != who {
		return nil, ErrIllegalMove
	}

	dest, hasDest := b.At(mv.To)
	switch mv.Kind {
	case Basic:
		if hasDest {
			return nil, ErrIllegalMove
		}
	case Capture:
		if !hasDest || dest.Color == who {
			return nil, ErrIllegalMove
		}
	case Promotion:
		if piece.Kind != Pawn || !who.lastRank(mv.To) {
			return nil, ErrIllegalMove
		}
		if mv.Promote == Pawn || mv.Promote == King {
			return nil, ErrIllegalMove
		}
		if hasDest && dest.Color == who {
			return nil, ErrIllegalMove
		}
	case Castling:
		return applyCastling(b, mv, who)
	default:
		return nil, ErrIllegalMove
	}

	if !reachable(b, mv.From, mv.To, piece) {
		return nil, ErrIllegalMove
	}

	next := b.Copy()
	next.clear(mv.From)
	moved := piece
	moved.Moved = true
	if mv.Kind == Promotion {
		moved.Kind = mv.Promote
	}
	next.set(mv.To, moved)

	if king, ok := next.King(who); ok && isAttacked(next, king, who) {
		return nil, ErrIllegalMove
	}
	return next, nil
}

// applyCastling moves a king two squares toward its named rook and the
// rook to the square the king passed over, provided neither piece has
// moved, the squares between are empty, and the king does not pass
// through or land on an attacked square.
func applyCastling(b *Board, mv Move, who Color) (*Board, error) {
	king, ok := b.At(mv.From)
	if !ok || king.Kind != King || king.Color != who || king.Moved {
		return nil, ErrIllegalMove
	}
	rook, ok := b.At(mv.To)
	if !ok || rook.Kind != Rook || rook.Color != who || rook.Moved {
		return nil, ErrIllegalMove
	}

	dc, dr := direction(mv.From, mv.To)
	if dc == 0 && dr == 0 {
		return nil, ErrIllegalMove
	}

	// Walk from the king toward the rook; every square up to and
	// including the rook's square must be empty except the rook
	// itself, and the king may not cross check.
	cur := mv.From
	var kingDest, rookDest Position
	steps := 0
	for {
		next, ok := step(cur, dc, dr)
		if !ok {
			return nil, ErrIllegalMove
		}
		cur = next
		steps++
		if cur == mv.To {
			break
		}
		if _, occupied := b.At(cur); occupied {
			return nil, ErrIllegalMove
		}
		if steps == 2 {
			kingDest = cur
		}
		if steps > 2 {
			return nil, ErrIllegalMove
		}
	}
	if steps < 2 {
		return nil, ErrIllegalMove
	}
	if kingDest == (Position{}) {
		kingDest, _ = step(mv.From, dc*2, dr*2)
	}
	rookDest, _ = step(mv.From, dc, dr)

	if isAttacked(b, mv.From, who) || isAttacked(b, kingDest, who) {
		return nil, ErrIllegalMove
	}

	next := b.Copy()
	next.clear(mv.From)
	next.clear(mv.To)
	king.Moved = true
	rook.Moved = true
	next.set(kingDest, king)
	next.set(rookDest, rook)

	if isAttacked(next, kingDest, who) {
		return nil, ErrIllegalMove
	}
	return next, nil
}

func direction(from, to Position) (dc, dr int8) {
	dc = sign(int8(to.Col) - int8(from.Col))
	dr = sign(int8(to.Row) - int8(from.Row))
	return
}

func sign(v int8) int8 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// reachable reports whether piece can move from `from` to `to`,
// ignoring whose turn it is or whether the resulting position leaves
// its own king in check (that is checked by the caller).
func reachable(b *Board, from, to Position, piece Piece) bool {
	for _, d := range destinations(b, from, piece) {
		if d == to {
			return true
		}
	}
	return false
}

// destinations returns every square a piece could move or capture on,
// ignoring self-check.
func destinations(b *Board, from Position, piece Piece) []Position {
	var out []Position
	add := func(p Position, ok bool) {
		if ok {
			out = append(out, p)
		}
	}

	switch piece.Kind {
	case Pawn:
		dc, dr := piece.Color.forward()
		if fwd, ok := step(from, dc, dr); ok {
			if _, occ := b.At(fwd); !occ {
				out = append(out, fwd)
			}
		}
		for _, side := range []int8{-1, 1} {
			// Diagonal captures: perpendicular offset plus one
			// step forward, following the arm's own axis.
			var cap Position
			var ok bool
			if dc == 0 {
				cap, ok = step(from, side, dr)
			} else {
				cap, ok = step(from, dc, side)
			}
			if ok {
				if target, occ := b.At(cap); occ && target.Color != piece.Color {
					out = append(out, cap)
				}
			}
		}
	case Knight:
		offsets := [8][2]int8{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
		for _, o := range offsets {
			if p, ok := step(from, o[0], o[1]); ok {
				if target, occ := b.At(p); !occ || target.Color != piece.Color {
					add(p, true)
				}
			}
		}
	case King:
		for dc := int8(-1); dc <= 1; dc++ {
			for dr := int8(-1); dr <= 1; dr++ {
				if dc == 0 && dr == 0 {
					continue
				}
				if p, ok := step(from, dc, dr); ok {
					if target, occ := b.At(p); !occ || target.Color != piece.Color {
						add(p, true)
					}
				}
			}
		}
	case Bishop, Rook, Queen:
		var dirs [][2]int8
		if piece.Kind != Rook {
			dirs = append(dirs, [2]int8{1, 1}, [2]int8{1, -1}, [2]int8{-1, 1}, [2]int8{-1, -1})
		}
		if piece.Kind != Bishop {
			dirs = append(dirs, [2]int8{1, 0}, [2]int8{-1, 0}, [2]int8{0, 1}, [2]int8{0, -1})
		}
		for _, d := range dirs {
			cur := from
			for {
				next, ok := step(cur, d[0], d[1])
				if !ok {
					break
				}
				cur = next
				target, occ := b.At(cur)
				if !occ {
					out = append(out, cur)
					continue
				}
				if target.Color != piece.Color {
					out = append(out, cur)
				}
				break
			}
		}
	}
	return out
}

// isAttacked reports whether any piece not belonging to color can
// reach p.
func isAttacked(b *Board, p Position, color Color) bool {
	attacked := false
	b.Pieces(func(from Position, piece Piece) {
		if attacked || piece.Color == color {
			return
		}
		for _, d := range destinations(b, from, piece) {
			if d == p {
				attacked = true
				return
			}
		}
	})
	return attacked
}

// hasLegalMove reports whether color has at least one move that does
// not leave its own king in check.
func hasLegalMove(b *Board, color Color) bool {
	found := false
	b.Pieces(func(from Position, piece Piece) {
		if found || piece.Color != color {
			return
		}
		for _, to := range destinations(b, from, piece) {
			next := b.Copy()
			next.clear(from)
			moved := piece
			moved.Moved = true
			next.set(to, moved)
			if king, ok := next.King(color); ok && isAttacked(next, king, color) {
				continue
			}
			found = true
			return
		}
	})
	return found
}

// ComputePlayerStates evaluates, for every color that still has a king
// on the board, whether it is in check, checkmate, stalemate, or
// neither. It never assigns Lost; that transition belongs to the turn
// driver.
func ComputePlayerStates(b *Board) map[Color]PlayerCondition {
	states := make(map[Color]PlayerCondition, 4)
	for _, c := range Colors {
		king, ok := b.King(c)
		if !ok {
			continue
		}
		inCheck := isAttacked(b, king, c)
		canMove := hasLegalMove(b, c)
		switch {
		case inCheck && !canMove:
			states[c] = Checkmate
		case inCheck:
			states[c] = Check
		case !canMove:
			states[c] = Stalemate
		default:
			states[c] = NoState
		}
	}
	return states
}
