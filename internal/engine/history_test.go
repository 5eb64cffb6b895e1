package engine

import "testing"

func TestEmaUpdateWorkedExample(t *testing.T) {
	var e int32 = 0
	steps := []struct {
		v    int32
		want int32
	}{
		{64, 2048},
		{-32, 822},
		{64, 2708},
	}
	for i, s := range steps {
		e = emaUpdate(e, s.v, historyD)
		if e != s.want {
			t.Fatalf("step %d: got %d, want %d", i, e, s.want)
		}
	}
}

func TestEmaUpdateNoOpAtOrBeyondD(t *testing.T) {
	var e int32 = 500
	if got := emaUpdate(e, historyD, historyD); got != e {
		t.Errorf("v == D should be a no-op: got %d, want %d", got, e)
	}
	if got := emaUpdate(e, -historyD, historyD); got != e {
		t.Errorf("v == -D should be a no-op: got %d, want %d", got, e)
	}
	if got := emaUpdate(e, historyD*2, historyD); got != e {
		t.Errorf("v beyond D should be a no-op: got %d, want %d", got, e)
	}
}

// TestEmaUpdateContHistNoOpThresholdIsFixed verifies the no-op guard is
// the fixed |v| >= 324 bound even when d = contHistD (936): a continuation
// history update must not treat 324 <= |v| < 936 as still applying, or
// CMH would desynchronize from H/FT at the same node.
func TestEmaUpdateContHistNoOpThresholdIsFixed(t *testing.T) {
	var e int32 = 500
	if got := emaUpdate(e, historyD, contHistD); got != e {
		t.Errorf("v == 324 with d=contHistD should be a no-op: got %d, want %d", got, e)
	}
	if got := emaUpdate(e, historyD+100, contHistD); got != e {
		t.Errorf("v == 424 with d=contHistD should be a no-op: got %d, want %d", got, e)
	}
	if got := emaUpdate(e, contHistD-1, contHistD); got != e {
		t.Errorf("v == 935 with d=contHistD must still be a no-op under the fixed 324 bound: got %d, want %d", got, e)
	}
}

func TestEmaUpdateZeroIsIdempotent(t *testing.T) {
	for _, seed := range []int32{0, 1000, -4000, historyLimit - 1} {
		if got := emaUpdate(seed, 0, historyD); got != seed {
			t.Errorf("updating with v=0 changed %d to %d", seed, got)
		}
	}
}

func TestEmaUpdateSaturation(t *testing.T) {
	e := int32(0)
	for i := 0; i < 100000; i++ {
		e = emaUpdate(e, historyD-1, historyD)
		if e <= -historyLimit || e >= historyLimit {
			t.Fatalf("entry escaped (-LIMIT, LIMIT): %d", e)
		}
	}
}

func TestHeuristicTablesClearZeroesEverything(t *testing.T) {
	ht := NewHeuristicTables()
	ht.butterfly[3][10] = 500
	ht.fromTo[0][4][5] = -200
	ht.captureHist[2][7][1] = 900
	ht.killers[0][0] = 1
	ht.counterMove[2][7] = 1
	ht.ContinuationTable(2, 7)[3][10] = 400

	ht.Clear()

	if ht.butterfly[3][10] != 0 {
		t.Errorf("butterfly not cleared")
	}
	if ht.fromTo[0][4][5] != 0 {
		t.Errorf("fromTo not cleared")
	}
	if ht.captureHist[2][7][1] != 0 {
		t.Errorf("captureHist not cleared")
	}
	if ht.killers[0][0] != 0 {
		t.Errorf("killers not cleared")
	}
	if ht.ContinuationTable(2, 7)[3][10] != 0 {
		t.Errorf("continuation history not cleared")
	}
}

func TestUpdateKillersDemotesPrevious(t *testing.T) {
	ht := NewHeuristicTables()
	ht.UpdateKillers(1, 0)
	ht.UpdateKillers(2, 0)
	k := ht.Killers(0)
	if k[0] != 2 || k[1] != 1 {
		t.Errorf("expected [2,1], got %v", k)
	}

	// Re-recording the current first killer must not duplicate it.
	ht.UpdateKillers(2, 0)
	k = ht.Killers(0)
	if k[0] != 2 || k[1] != 1 {
		t.Errorf("re-recording first killer should be a no-op, got %v", k)
	}
}
