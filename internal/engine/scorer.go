package engine

import (
	"github.com/hailam/chessplay/internal/board"
)

// MVV-LVA (Most Valuable Victim - Least Valuable Attacker) base scores.
// Higher score = search first.
var mvvLva = [6][6]int{
	//       P    N    B    R    Q    K  (attacker)
	/* P */ {15, 14, 14, 13, 12, 11}, // Pawn victim
	/* N */ {25, 24, 24, 23, 22, 21}, // Knight victim
	/* B */ {35, 34, 34, 33, 32, 31}, // Bishop victim
	/* R */ {45, 44, 44, 43, 42, 41}, // Rook victim
	/* Q */ {55, 54, 54, 53, 52, 51}, // Queen victim
	/* K */ {0, 0, 0, 0, 0, 0},       // King can't be captured
}

// Move ordering score bands. Every category owns a disjoint range so a
// partial sort never has to compare across categories explicitly; the
// numeric gap is what keeps captures above quiets and good captures above
// bad ones once SEE has classified them.
const (
	ttMoveScore      = 1 << 30
	goodCaptureBase  = 1 << 20
	killer1Score     = 1 << 19
	killer2Score     = killer1Score - 1000
	counterMoveScore = killer2Score - 1000
	quietBase        = 0
	badCaptureBase   = -(1 << 20)
)

// scoreCapture scores a capture (including capture-promotions) by
// MVV-LVA plus a capture-history refinement. victim/attacker are piece
// types. SEE is not consulted here: the good/bad capture partitioning the
// picker performs afterward does not change the returned score itself.
func scoreCapture(t *HeuristicTables, pos *board.Position, m board.Move) int32 {
	attackerPiece := pos.PieceAt(m.From())
	if attackerPiece == board.NoPiece {
		return goodCaptureBase
	}
	attacker := attackerPiece.Type()

	var victim board.PieceType
	if m.IsEnPassant() {
		victim = board.Pawn
	} else if m.IsPromotion() {
		// A non-capturing promotion is scored in this category too
		// (the move scorer groups "captures and promotions" together),
		// with a pawn as the notional "victim"; the promotion bonus below
		// sorts queen promotions above minor-piece promotions.
		captured := pos.PieceAt(m.To())
		if captured != board.NoPiece {
			victim = captured.Type()
		} else {
			victim = board.Pawn
		}
	} else {
		captured := pos.PieceAt(m.To())
		if captured == board.NoPiece {
			return goodCaptureBase
		}
		victim = captured.Type()
	}

	if victim > board.King || attacker > board.King {
		return goodCaptureBase
	}

	score := int32(mvvLva[victim][attacker]) * 1000
	score += t.CaptureScore(attackerPiece, m.To(), victim) / 4

	if m.IsPromotion() {
		score += int32(m.Promotion()) * 100
	}

	return score
}

// scoreQuiet scores a non-capture, non-promotion move from the butterfly
// and from-to histories plus up to three continuation-history lookups
// (ply-1, ply-2, ply-4), matching the CMH1/CMH2/CMH3 terms.
func scoreQuiet(t *HeuristicTables, pos *board.Position, m board.Move, contRoots [3]*PieceToHistory) int32 {
	piece := pos.PieceAt(m.From())
	if piece == board.NoPiece {
		return 0
	}
	score := t.ButterflyScore(piece, m.To())
	score += t.FromToScore(pos.SideToMove, m.From(), m.To())
	for _, root := range contRoots {
		if root == nil {
			continue
		}
		score += root[piece][m.To()]
	}
	return score
}

// scoreEvasion scores a move while in check: captures/promotions use the
// capture scorer shifted above the quiet band so captures sort first;
// quiet evasions use butterfly + from-to history only, with no
// continuation-history terms (unlike scoreQuiet) since the previous-ply
// continuation is conditioned on a move that, by definition, didn't
// prevent the check.
func scoreEvasion(t *HeuristicTables, pos *board.Position, m board.Move) int32 {
	if m.IsCapture(pos) || m.IsPromotion() {
		return goodCaptureBase + scoreCapture(t, pos, m)
	}
	piece := pos.PieceAt(m.From())
	if piece == board.NoPiece {
		return 0
	}
	return t.ButterflyScore(piece, m.To()) + t.FromToScore(pos.SideToMove, m.From(), m.To())
}
