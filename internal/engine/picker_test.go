package engine

import (
	"testing"

	"github.com/hailam/chessplay/internal/board"
)

func moveSet(t *testing.T, ml *board.MoveList) map[board.Move]int {
	t.Helper()
	m := make(map[board.Move]int)
	for i := 0; i < ml.Len(); i++ {
		m[ml.Get(i)]++
	}
	return m
}

// TestMainPickerExhaustiveness is P1: every pseudo-legal move is yielded
// exactly once, none missed, none duplicated.
func TestMainPickerExhaustiveness(t *testing.T) {
	pos := board.NewPosition()
	table := NewHeuristicTables()

	want := moveSet(t, pos.GeneratePseudoLegalMoves())

	mp := NewMainMovePicker(pos, table, board.NoMove, 6, [2]board.Move{board.NoMove, board.NoMove}, board.NoMove, [3]*PieceToHistory{}, false)

	got := make(map[board.Move]int)
	for {
		m := mp.NextMove()
		if m == board.NoMove {
			break
		}
		got[m]++
	}

	if len(got) != len(want) {
		t.Fatalf("got %d distinct moves, want %d", len(got), len(want))
	}
	for m, n := range want {
		if got[m] != n {
			t.Errorf("move %s: got count %d, want %d", m.String(), got[m], n)
		}
	}
	for m, n := range got {
		if n > 1 {
			t.Errorf("move %s yielded %d times, want at most 1 (P3/P1)", m.String(), n)
		}
		if want[m] == 0 {
			t.Errorf("move %s yielded but is not pseudo-legal", m.String())
		}
	}
}

// TestMainPickerYieldsTTMoveFirst is scenario 2 from the spec: a legal TT
// move is always yielded first, regardless of its score.
func TestMainPickerYieldsTTMoveFirst(t *testing.T) {
	pos := board.NewPosition()
	table := NewHeuristicTables()

	ttMove := board.NewMove(board.A2, board.A3) // a quiet, low-priority move
	mp := NewMainMovePicker(pos, table, ttMove, 6, [2]board.Move{board.NoMove, board.NoMove}, board.NoMove, [3]*PieceToHistory{}, false)

	first := mp.NextMove()
	if first != ttMove {
		t.Fatalf("first move = %s, want TT move %s", first.String(), ttMove.String())
	}
}

// TestMainPickerNeverRepeatsKillerOrCounterMove is P3: killers and the
// counter-move are each yielded at most once, and not again in quiets.
func TestMainPickerNeverRepeatsKillerOrCounterMove(t *testing.T) {
	pos := board.NewPosition()
	table := NewHeuristicTables()

	k0 := board.NewMove(board.B1, board.C3)
	k1 := board.NewMove(board.G1, board.F3)
	cm := board.NewMove(board.E2, board.E4)

	mp := NewMainMovePicker(pos, table, board.NoMove, 6, [2]board.Move{k0, k1}, cm, [3]*PieceToHistory{}, false)

	seen := make(map[board.Move]int)
	for {
		m := mp.NextMove()
		if m == board.NoMove {
			break
		}
		seen[m]++
	}

	for _, m := range []board.Move{k0, k1, cm} {
		if seen[m] != 1 {
			t.Errorf("move %s yielded %d times, want exactly 1", m.String(), seen[m])
		}
	}
}

// TestQSearchPickerOnlyYieldsCapturesWhenNotInCheck mirrors scenario 5:
// out of check, quiescence only produces captures (quiet checks off).
func TestQSearchPickerOnlyYieldsCapturesWhenNotInCheck(t *testing.T) {
	pos, err := board.ParseFEN("r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3")
	if err != nil {
		t.Fatalf("bad FEN: %v", err)
	}

	table := NewHeuristicTables()
	mp := NewQSearchMovePicker(pos, table, board.NoMove, false, false, board.NoSquare)

	for {
		m := mp.NextMove()
		if m == board.NoMove {
			break
		}
		if !m.IsCapture(pos) {
			t.Errorf("quiescence (no checks) yielded non-capture %s", m.String())
		}
	}
}

// TestQSearchPickerDeepQuiescenceRejectsNonCaptureTTMove checks that a
// stale TT move landing on the recapture square but not itself a capture
// is never yielded in deep quiescence (spec §4.3B: "only if it is a
// capture to recaptureSquare").
func TestQSearchPickerDeepQuiescenceRejectsNonCaptureTTMove(t *testing.T) {
	pos, err := board.ParseFEN("4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("bad FEN: %v", err)
	}

	table := NewHeuristicTables()
	ttMove := board.NewMove(board.E1, board.D1) // quiet king move onto the recapture square
	mp := NewQSearchMovePicker(pos, table, ttMove, false, false, ttMove.To())

	first := mp.NextMove()
	if first == ttMove {
		t.Fatalf("deep quiescence yielded a non-capture TT move: %s", ttMove.String())
	}
	for m := first; m != board.NoMove; m = mp.NextMove() {
		if !m.IsCapture(pos) {
			t.Errorf("deep quiescence yielded a non-capture %s", m.String())
		}
		if m.To() != ttMove.To() {
			t.Errorf("deep quiescence yielded a move off the recapture square: %s", m.String())
		}
	}
}

// TestProbCutPickerFiltersBySEEThreshold is scenario 4: only captures
// whose SEE is at least the threshold are ever yielded.
func TestProbCutPickerFiltersBySEEThreshold(t *testing.T) {
	pos, err := board.ParseFEN("4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("bad FEN: %v", err)
	}

	table := NewHeuristicTables()
	mp := NewProbCutMovePicker(pos, table, board.NoMove, 0)

	for {
		m := mp.NextMove()
		if m == board.NoMove {
			break
		}
		if SEE(pos, m) < 0 {
			t.Errorf("probcut yielded a losing capture %s (SEE < 0)", m.String())
		}
	}
}

// TestProbCutPickerNeverYieldsQuiets checks the probcut picker produces
// captures only, even when quiets exist.
func TestProbCutPickerNeverYieldsQuiets(t *testing.T) {
	pos := board.NewPosition()
	table := NewHeuristicTables()
	mp := NewProbCutMovePicker(pos, table, board.NoMove, 0)

	for {
		m := mp.NextMove()
		if m == board.NoMove {
			break
		}
		if !m.IsCapture(pos) {
			t.Errorf("probcut yielded a quiet move %s", m.String())
		}
	}
}
