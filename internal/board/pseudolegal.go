package board

// This file adds the pseudo-legal-only move generation entry points the
// move picker drives directly: captures, quiets and evasions without the
// make/unmake legality filter GenerateLegalMoves and GenerateCaptures
// apply. Legality (does the move leave our own king in check) is instead
// checked once, after the move is actually made, by the search itself -
// the picker's job is only to enumerate and order candidates.

// GeneratePseudoLegalCaptures generates captures (including en passant)
// and all promotions, quiet push promotions included, without filtering
// for legality.
func (p *Position) GeneratePseudoLegalCaptures() *MoveList {
	ml := NewMoveList()
	p.generateCaptures(ml)
	return ml
}

// GeneratePseudoLegalQuiets generates non-capture, non-promotion moves
// without filtering for legality. Quiet promotions are not included here;
// the move scorer groups all promotions with captures.
func (p *Position) GeneratePseudoLegalQuiets() *MoveList {
	all := NewMoveList()
	p.generateAllMoves(all)
	ml := NewMoveList()
	for i := 0; i < all.Len(); i++ {
		m := all.Get(i)
		if m.IsCapture(p) || m.IsPromotion() {
			continue
		}
		ml.Add(m)
	}
	return ml
}

// GenerateEvasions generates every pseudo-legal move available while in
// check. There is no dedicated evasion generator (no king-ray/blocker
// special-casing): the same pseudo-legal generator used elsewhere is
// reused, and illegal replies are rejected by the search's post-move
// king-safety check like any other pseudo-legal move.
func (p *Position) GenerateEvasions() *MoveList {
	return p.GeneratePseudoLegalMoves()
}

// GenerateQuietChecks generates quiet moves that give check to the side
// to move after the move is played. Determined by make/unmake since
// there is no dedicated "discovered or direct check" bitboard test in
// this generator.
func (p *Position) GenerateQuietChecks() *MoveList {
	quiets := p.GeneratePseudoLegalQuiets()
	ml := NewMoveList()
	for i := 0; i < quiets.Len(); i++ {
		m := quiets.Get(i)
		undo := p.MakeMove(m)
		if !undo.Valid {
			p.UnmakeMove(m, undo)
			continue
		}
		gives := p.InCheck()
		p.UnmakeMove(m, undo)
		if gives {
			ml.Add(m)
		}
	}
	return ml
}

// PseudoLegal reports whether m is a pseudo-legal move in the current
// position: a TT move, killer or counter-move surviving from a different
// node must be re-validated against the current board before the search
// trusts it. Implemented by membership in the full pseudo-legal move
// list; this repo favors the simple, obviously-correct check over a
// bespoke per-move-type validator.
func (p *Position) PseudoLegal(m Move) bool {
	if m == NoMove {
		return false
	}
	moves := p.GeneratePseudoLegalMoves()
	return moves.Contains(m)
}
