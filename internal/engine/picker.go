package engine

import (
	"github.com/hailam/chessplay/internal/board"
)

// pickerStage drives the staged, lazy move generation state machine. The
// same type serves all three calling contexts (main search, quiescence,
// probcut); each constructor seeds the stage field at the first stage
// relevant to that context, and NextMove falls through stages it has no
// work to do in.
type pickerStage uint8

const (
	stageTT pickerStage = iota
	stageQTT
	stageGenCaptures
	stageGoodCaptures
	stageKiller1
	stageKiller2
	stageCounterMove
	stageGenQuiets
	stageQuiets
	stageBadCaptures
	stageEvasionsInit
	stageEvasions
	stageQCapturesInit
	stageQCaptures
	stageQChecksInit
	stageQChecks
	stagePCTT
	stagePCCapturesInit
	stagePCCaptures
	stageDone
)

// lowDepthThreshold is the depth at (and below) which the quiet stage
// performs a full, stable sort rather than repeated partial selection.
// Below this depth the remaining move count is small enough that the
// comparison overhead of an upfront sort is cheaper than re-scanning the
// tail on every NextMove call.
const lowDepthThreshold = 3

// seeGE reports whether the static exchange evaluation of m is at least
// threshold, the see_ge(move, threshold) predicate the picker and its
// callers use for good/bad capture partitioning and probcut filtering.
func seeGE(pos *board.Position, m board.Move, threshold int) bool {
	return SEE(pos, m) >= threshold
}

// MovePicker yields moves from a position one at a time, in priority
// order, generating each category of move only once a prior category is
// exhausted. It never allocates once constructed: candidates are scored
// into a fixed buffer sized MaxMoves and selected with a partial
// selection sort, exactly like the single-shot PickMove helper it
// replaces, just spread across several independently-triggered stages.
type MovePicker struct {
	pos   *board.Position
	table *HeuristicTables

	stage pickerStage

	ttMove      board.Move
	depth       int
	inCheck     bool
	threshold   int // SEE threshold, used only by the probcut variant
	killers     [2]board.Move
	counterMove board.Move
	contRoots   [3]*PieceToHistory

	// restrictToSquare limits the QS_CAPTURES stage to captures landing on
	// this square (deep quiescence, recapture-only). board.NoSquare means
	// no restriction.
	restrictToSquare board.Square

	buf [board.MaxMoves]scoredCandidate
	cur int
	end int

	bad    [board.MaxMoves]board.Move
	badLen int
	badPos int

	emitted   [4]board.Move
	emitCount int

	sorted bool // true once the quiet partition has had its one-time full sort
}

type scoredCandidate struct {
	move  board.Move
	score int32
}

func (mp *MovePicker) markEmitted(m board.Move) {
	if mp.emitCount < len(mp.emitted) {
		mp.emitted[mp.emitCount] = m
		mp.emitCount++
	}
}

func (mp *MovePicker) wasEmitted(m board.Move) bool {
	for i := 0; i < mp.emitCount; i++ {
		if mp.emitted[i] == m {
			return true
		}
	}
	return false
}

// newMovePicker builds the common struct; the three exported
// constructors below differ only in which stage they start at and which
// generators that stage will call.
func newMovePicker(pos *board.Position, table *HeuristicTables, ttMove board.Move) *MovePicker {
	return &MovePicker{
		pos:              pos,
		table:            table,
		ttMove:           ttMove,
		restrictToSquare: board.NoSquare,
	}
}

// NewMainMovePicker drives the ordinary search move loop: TT move,
// captures (good, then bad), killers, counter-move, quiets.
func NewMainMovePicker(pos *board.Position, table *HeuristicTables, ttMove board.Move, depth int, killers [2]board.Move, counterMove board.Move, contRoots [3]*PieceToHistory, inCheck bool) *MovePicker {
	mp := newMovePicker(pos, table, ttMove)
	mp.depth = depth
	mp.killers = killers
	mp.counterMove = counterMove
	mp.contRoots = contRoots
	mp.inCheck = inCheck
	if inCheck {
		mp.stage = stageEvasionsInit
	} else {
		mp.stage = stageTT
	}
	return mp
}

// NewQSearchMovePicker drives quiescence. In check: TT move then every
// evasion. Out of check at the first quiescence ply (includeQuietChecks):
// TT, then every capture, then quiet checks. Deeper into quiescence,
// recaptureSq restricts the capture stage to captures landing on that
// square, and quiet checks are never generated — the "deep quiescence"
// variant described for recapture-only search.
func NewQSearchMovePicker(pos *board.Position, table *HeuristicTables, ttMove board.Move, inCheck bool, includeQuietChecks bool, recaptureSq board.Square) *MovePicker {
	mp := newMovePicker(pos, table, ttMove)
	mp.inCheck = inCheck
	if inCheck {
		mp.stage = stageEvasionsInit
	} else {
		mp.stage = stageQTT
		if includeQuietChecks {
			mp.threshold = 1 // reuse threshold as a quiet-checks-enabled flag
		} else {
			mp.restrictToSquare = recaptureSq
		}
	}
	return mp
}

// NewProbCutMovePicker drives probcut: the TT move first (only if it is a
// capture passing see_ge(ttMove,threshold)), then every other capture with
// see_ge(m,threshold). No quiets are ever produced.
func NewProbCutMovePicker(pos *board.Position, table *HeuristicTables, ttMove board.Move, threshold int) *MovePicker {
	mp := newMovePicker(pos, table, ttMove)
	mp.threshold = threshold
	mp.stage = stagePCTT
	return mp
}

// pickBest performs one step of the partial selection sort described in
// the design note: find the highest-scored remaining candidate in
// [from, mp.end) and swap it to the front.
func (mp *MovePicker) pickBest(from int) board.Move {
	best := from
	for j := from + 1; j < mp.end; j++ {
		if mp.buf[j].score > mp.buf[best].score {
			best = j
		}
	}
	if best != from {
		mp.buf[from], mp.buf[best] = mp.buf[best], mp.buf[from]
	}
	m := mp.buf[from].move
	mp.cur = from + 1
	return m
}

func (mp *MovePicker) loadCaptures() {
	list := mp.pos.GeneratePseudoLegalCaptures()
	mp.end = 0
	for i := 0; i < list.Len() && mp.end < len(mp.buf); i++ {
		m := list.Get(i)
		if m == mp.ttMove {
			continue
		}
		if mp.restrictToSquare != board.NoSquare && m.To() != mp.restrictToSquare {
			continue
		}
		mp.buf[mp.end] = scoredCandidate{move: m, score: scoreCapture(mp.table, mp.pos, m)}
		mp.end++
	}
	mp.cur = 0
	mp.badLen = 0
	mp.badPos = 0
}

func (mp *MovePicker) loadQuiets() {
	list := mp.pos.GeneratePseudoLegalQuiets()
	mp.end = 0
	for i := 0; i < list.Len() && mp.end < len(mp.buf); i++ {
		m := list.Get(i)
		if m == mp.ttMove || mp.wasEmitted(m) {
			continue
		}
		mp.buf[mp.end] = scoredCandidate{move: m, score: scoreQuiet(mp.table, mp.pos, m, mp.contRoots)}
		mp.end++
	}
	mp.cur = 0

	// Threshold sort: at shallow depth, sort the whole partition once up
	// front instead of repeating a partial selection sort for every pull.
	if mp.depth <= lowDepthThreshold {
		sortCandidates(mp.buf[:mp.end])
		mp.sorted = true
	} else {
		mp.sorted = false
	}
}

func (mp *MovePicker) loadEvasions() {
	list := mp.pos.GenerateEvasions()
	mp.end = 0
	for i := 0; i < list.Len() && mp.end < len(mp.buf); i++ {
		m := list.Get(i)
		if m == mp.ttMove {
			continue
		}
		mp.buf[mp.end] = scoredCandidate{move: m, score: scoreEvasion(mp.table, mp.pos, m)}
		mp.end++
	}
	mp.cur = 0
}

func (mp *MovePicker) loadProbCutCaptures() {
	list := mp.pos.GeneratePseudoLegalCaptures()
	mp.end = 0
	for i := 0; i < list.Len() && mp.end < len(mp.buf); i++ {
		m := list.Get(i)
		if m == mp.ttMove || !seeGE(mp.pos, m, mp.threshold) {
			continue
		}
		mp.buf[mp.end] = scoredCandidate{move: m, score: scoreCapture(mp.table, mp.pos, m)}
		mp.end++
	}
	mp.cur = 0
}

// sortCandidates is a plain insertion sort: the quiet partition at low
// depth is small (the threshold-sort only triggers near the leaves), so
// the simplicity of insertion sort outweighs any asymptotic advantage a
// fancier sort would bring.
func sortCandidates(c []scoredCandidate) {
	for i := 1; i < len(c); i++ {
		v := c[i]
		j := i - 1
		for j >= 0 && c[j].score < v.score {
			c[j+1] = c[j]
			j--
		}
		c[j+1] = v
	}
}

// NextMove advances the stage machine and returns the next candidate
// move, or NoMove once every stage is exhausted.
func (mp *MovePicker) NextMove() board.Move {
	for {
		switch mp.stage {
		case stageTT:
			mp.stage = stageGenCaptures
			if mp.ttMove != board.NoMove && mp.pos.PseudoLegal(mp.ttMove) {
				mp.markEmitted(mp.ttMove)
				return mp.ttMove
			}

		case stageQTT:
			mp.stage = stageQCapturesInit
			if mp.ttMove != board.NoMove && mp.pos.PseudoLegal(mp.ttMove) {
				if mp.restrictToSquare == board.NoSquare {
					mp.markEmitted(mp.ttMove)
					return mp.ttMove
				}
				if mp.ttMove.IsCapture(mp.pos) && mp.ttMove.To() == mp.restrictToSquare {
					mp.markEmitted(mp.ttMove)
					return mp.ttMove
				}
			}

		case stageGenCaptures:
			mp.loadCaptures()
			mp.stage = stageGoodCaptures

		case stageGoodCaptures:
			if mp.cur >= mp.end {
				mp.stage = stageKiller1
				continue
			}
			m := mp.pickBest(mp.cur)
			if !seeGE(mp.pos, m, 0) {
				if mp.badLen < len(mp.bad) {
					mp.bad[mp.badLen] = m
					mp.badLen++
				}
				continue
			}
			mp.markEmitted(m)
			return m

		case stageKiller1:
			mp.stage = stageKiller2
			k := mp.killers[0]
			if k != board.NoMove && k != mp.ttMove && !mp.wasEmitted(k) && mp.pos.PseudoLegal(k) && k.IsQuiet(mp.pos) {
				mp.markEmitted(k)
				return k
			}

		case stageKiller2:
			mp.stage = stageCounterMove
			k := mp.killers[1]
			if k != board.NoMove && k != mp.ttMove && !mp.wasEmitted(k) && mp.pos.PseudoLegal(k) && k.IsQuiet(mp.pos) {
				mp.markEmitted(k)
				return k
			}

		case stageCounterMove:
			mp.stage = stageGenQuiets
			c := mp.counterMove
			if c != board.NoMove && c != mp.ttMove && !mp.wasEmitted(c) && mp.pos.PseudoLegal(c) && c.IsQuiet(mp.pos) {
				mp.markEmitted(c)
				return c
			}

		case stageGenQuiets:
			mp.loadQuiets()
			mp.stage = stageQuiets

		case stageQuiets:
			if mp.cur >= mp.end {
				mp.stage = stageBadCaptures
				continue
			}
			if mp.sorted {
				m := mp.buf[mp.cur].move
				mp.cur++
				return m
			}
			return mp.pickBest(mp.cur)

		case stageBadCaptures:
			if mp.badPos >= mp.badLen {
				mp.stage = stageDone
				continue
			}
			m := mp.bad[mp.badPos]
			mp.badPos++
			return m

		case stageEvasionsInit:
			if mp.ttMove != board.NoMove && !mp.wasEmitted(mp.ttMove) && mp.pos.PseudoLegal(mp.ttMove) {
				mp.markEmitted(mp.ttMove)
				return mp.ttMove
			}
			mp.loadEvasions()
			mp.stage = stageEvasions

		case stageEvasions:
			if mp.cur >= mp.end {
				mp.stage = stageDone
				continue
			}
			return mp.pickBest(mp.cur)

		case stageQCapturesInit:
			mp.loadCaptures()
			mp.stage = stageQCaptures

		case stageQCaptures:
			if mp.cur >= mp.end {
				if mp.threshold != 0 {
					mp.stage = stageQChecksInit
				} else {
					mp.stage = stageDone
				}
				continue
			}
			return mp.pickBest(mp.cur)

		case stageQChecksInit:
			list := mp.pos.GenerateQuietChecks()
			mp.end = 0
			for i := 0; i < list.Len() && mp.end < len(mp.buf); i++ {
				m := list.Get(i)
				if m == mp.ttMove {
					continue
				}
				mp.buf[mp.end] = scoredCandidate{move: m, score: scoreQuiet(mp.table, mp.pos, m, mp.contRoots)}
				mp.end++
			}
			mp.cur = 0
			mp.stage = stageQChecks

		case stageQChecks:
			if mp.cur >= mp.end {
				mp.stage = stageDone
				continue
			}
			return mp.pickBest(mp.cur)

		case stagePCTT:
			mp.stage = stagePCCapturesInit
			if mp.ttMove != board.NoMove && mp.ttMove.IsCapture(mp.pos) && mp.pos.PseudoLegal(mp.ttMove) && seeGE(mp.pos, mp.ttMove, mp.threshold) {
				mp.markEmitted(mp.ttMove)
				return mp.ttMove
			}

		case stagePCCapturesInit:
			mp.loadProbCutCaptures()
			mp.stage = stagePCCaptures

		case stagePCCaptures:
			if mp.cur >= mp.end {
				mp.stage = stageDone
				continue
			}
			return mp.pickBest(mp.cur)

		case stageDone:
			return board.NoMove
		}
	}
}
