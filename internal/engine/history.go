package engine

import (
	"github.com/hailam/chessplay/internal/board"
)

// Exponential-moving-average constants for the heuristic tables.
// Every table in this file is updated with the same rule:
//
//	e <- e - e*|v|/D + v*32
//
// which is a no-op once |v| reaches 324 (whatever D is), with the result
// clamped to the open interval (-historyLimit, historyLimit).
// Butterfly, from-to and capture history share D=324; the continuation
// history (conditioned on an earlier move) uses the wider D=936 so that
// it moves more slowly than the plain history tables.
const (
	historyD     int32 = 324
	contHistD    int32 = 936
	historyLimit int32 = 324 * 32 // 10368
)

// emaUpdate applies the update rule above. The no-op guard is the fixed
// |v| >= 324 bound regardless of which divisor d the caller passes: the
// 324 threshold is the defensive clamp callers must not exceed (spec'd
// independently of D), while d only scales how fast the entry decays once
// the update does apply.
func emaUpdate(e, v, d int32) int32 {
	w := v
	if w < 0 {
		w = -w
	}
	if w >= historyD {
		return e
	}
	r := e - e*w/d + v*32
	if r >= historyLimit {
		r = historyLimit - 1
	} else if r <= -historyLimit {
		r = -(historyLimit - 1)
	}
	return r
}

// PieceToHistory is the table reached by conditioning a continuation
// history on one earlier (piece, to) pair: CMH[prevPiece][prevTo] is a
// *PieceToHistory giving the bonus for playing (piece, to) next.
type PieceToHistory [16][64]int32

// HeuristicTables holds every move-ordering statistic owned by a single
// search worker. Tables are never shared between workers and never
// locked: each Lazy SMP thread keeps its own copy and forgets everything
// a new search's Clear call doesn't carry forward.
type HeuristicTables struct {
	// Butterfly history: H[piece][to].
	butterfly [16][64]int32

	// From-to history: FT[color][from][to].
	fromTo [2][64][64]int32

	// Capture history: H_capture[piece][to][victimType].
	captureHist [16][64][6]int32

	// Counter-move table: CM[piece][to] -> move. Last write wins.
	counterMove [16][64]board.Move

	// Continuation history roots, one PieceToHistory per (piece, to) pair
	// that could have been played on the previous relevant ply.
	continuation [16][64]*PieceToHistory

	// Killer moves, two per ply, most-recent-first.
	killers [MaxPly][2]board.Move
}

// NewHeuristicTables allocates a worker's heuristic tables, including all
// 16*64 continuation-history roots up front so that no allocation happens
// during search.
func NewHeuristicTables() *HeuristicTables {
	t := &HeuristicTables{}
	for p := 0; p < 16; p++ {
		for sq := 0; sq < 64; sq++ {
			t.continuation[p][sq] = &PieceToHistory{}
		}
	}
	return t
}

// Clear zeroes every table (stats_clear). Unlike the teacher's halving
// scheme, a fresh search starts the EMA tables from zero: the saturating
// update rule means old knowledge would otherwise bias early move
// ordering in ways a depth-based bonus cannot correct for.
func (t *HeuristicTables) Clear() {
	t.butterfly = [16][64]int32{}
	t.fromTo = [2][64][64]int32{}
	t.captureHist = [16][64][6]int32{}
	for p := range t.counterMove {
		for sq := range t.counterMove[p] {
			t.counterMove[p][sq] = board.NoMove
		}
	}
	for p := range t.continuation {
		for sq := range t.continuation[p] {
			*t.continuation[p][sq] = PieceToHistory{}
		}
	}
	for ply := range t.killers {
		t.killers[ply][0] = board.NoMove
		t.killers[ply][1] = board.NoMove
	}
}

// ContinuationTable returns the PieceToHistory rooted at (piece, to), the
// table consulted by any move played immediately afterward.
func (t *HeuristicTables) ContinuationTable(piece board.Piece, to board.Square) *PieceToHistory {
	if piece >= board.NoPiece {
		return nil
	}
	return t.continuation[piece][to]
}

// ButterflyScore returns H[piece][to].
func (t *HeuristicTables) ButterflyScore(piece board.Piece, to board.Square) int32 {
	if piece >= board.NoPiece {
		return 0
	}
	return t.butterfly[piece][to]
}

// FromToScore returns FT[color][from][to].
func (t *HeuristicTables) FromToScore(c board.Color, from, to board.Square) int32 {
	return t.fromTo[c][from][to]
}

// CaptureScore returns H_capture[piece][to][victim].
func (t *HeuristicTables) CaptureScore(piece board.Piece, to board.Square, victim board.PieceType) int32 {
	if piece >= board.NoPiece || victim >= board.King {
		return 0
	}
	return t.captureHist[piece][to][victim]
}

// Killers returns the two killer moves recorded for ply.
func (t *HeuristicTables) Killers(ply int) [2]board.Move {
	if ply < 0 || ply >= MaxPly {
		return [2]board.Move{board.NoMove, board.NoMove}
	}
	return t.killers[ply]
}

// CounterMove returns CM[prevPiece][prevTo], or NoMove if there isn't one
// or prevMove itself is NoMove.
func (t *HeuristicTables) CounterMove(pos *board.Position, prevMove board.Move) board.Move {
	if prevMove == board.NoMove {
		return board.NoMove
	}
	piece := pos.PieceAt(prevMove.To())
	if piece == board.NoPiece {
		return board.NoMove
	}
	return t.counterMove[piece][prevMove.To()]
}

// historyBonus is the magnitude used for EMA updates, scaled by depth the
// way the teacher's depth*depth bonus was, but capped just under the EMA's
// fixed no-op threshold (324, shared by every table regardless of decay
// divisor) so every update actually moves the entry.
func historyBonus(depth int) int32 {
	b := int32(depth * depth)
	if b >= historyD {
		b = historyD - 1
	}
	return b
}

// UpdateKillers records m as the newest killer at ply, demoting the
// previous first killer to second.
func (t *HeuristicTables) UpdateKillers(m board.Move, ply int) {
	if ply < 0 || ply >= MaxPly {
		return
	}
	if t.killers[ply][0] == m {
		return
	}
	t.killers[ply][1] = t.killers[ply][0]
	t.killers[ply][0] = m
}

// SetCounterMove records m as the reply to the move that landed the
// moving piece on prevMove.To(). Last write wins, per the design note
// that the counter-move table is not history-weighted.
func (t *HeuristicTables) SetCounterMove(pos *board.Position, prevMove, m board.Move) {
	if prevMove == board.NoMove {
		return
	}
	piece := pos.PieceAt(prevMove.To())
	if piece == board.NoPiece {
		return
	}
	t.counterMove[piece][prevMove.To()] = m
}

// UpdateQuietStats applies update_stats: the move that caused the cutoff
// (or was best at a PV node) gets a positive bonus; every other quiet
// move tried before it at this node gets that same bonus applied as a
// malus, across the butterfly and from-to tables and all three
// continuation histories rooted at the moves played at ply-1, ply-2 and
// ply-4. pos must be the position AFTER bestMove has been unmade (so
// PieceAt reflects the moving piece).
func (t *HeuristicTables) UpdateQuietStats(pos *board.Position, contRoots [3]*PieceToHistory, ply int, bestMove board.Move, quietsTried []board.Move, depth int) {
	bonus := historyBonus(depth)
	us := pos.SideToMove

	apply := func(m board.Move, v int32) {
		piece := pos.PieceAt(m.From())
		if piece == board.NoPiece {
			return
		}
		t.butterfly[piece][m.To()] = emaUpdate(t.butterfly[piece][m.To()], v, historyD)
		t.fromTo[us][m.From()][m.To()] = emaUpdate(t.fromTo[us][m.From()][m.To()], v, historyD)
		for _, root := range contRoots {
			if root == nil {
				continue
			}
			root[piece][m.To()] = emaUpdate(root[piece][m.To()], v, contHistD)
		}
	}

	apply(bestMove, bonus)
	for _, m := range quietsTried {
		if m == bestMove {
			continue
		}
		apply(m, -bonus)
	}

	t.UpdateKillers(bestMove, ply)
}

// UpdateCaptureStats applies update_capture_stats: bestMove (a capture)
// gets a positive bonus in the capture-history table, and every other
// capture tried before it at this node gets the bonus applied as a
// malus. pos must be the position with the captures unmade, so that
// PieceAt(m.From()) is the capturing piece; callers pass each victim type
// explicitly because en-passant captures leave nothing on the "to" square.
func (t *HeuristicTables) UpdateCaptureStats(pos *board.Position, bestMove board.Move, bestVictim board.PieceType, capturesTried []capturedMove, depth int) {
	bonus := historyBonus(depth)
	applyOne := func(m board.Move, victim board.PieceType, v int32) {
		piece := pos.PieceAt(m.From())
		if piece == board.NoPiece || victim >= board.King {
			return
		}
		t.captureHist[piece][m.To()][victim] = emaUpdate(t.captureHist[piece][m.To()][victim], v, historyD)
	}

	applyOne(bestMove, bestVictim, bonus)
	for _, c := range capturesTried {
		if c.move == bestMove {
			continue
		}
		applyOne(c.move, c.victim, -bonus)
	}
}

// capturedPieceType recovers the victim's piece type from the undo info
// produced by MakeMove, falling back to Pawn for en-passant where the
// undo's CapturedPiece is the pawn removed off the en-passant square.
func capturedPieceType(undo board.UndoInfo, m board.Move) board.PieceType {
	if undo.CapturedPiece == board.NoPiece {
		return board.NoPieceType
	}
	return undo.CapturedPiece.Type()
}

// capturedMove pairs a capture with the piece type it captured, needed
// because the position the stats are recorded against may no longer have
// that piece on the board (en-passant, or a later unmake).
type capturedMove struct {
	move   board.Move
	victim board.PieceType
}
