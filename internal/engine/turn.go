package engine

// The resolution pass. Each phase ends by emitting motion intents and
// handing its successor to the barrier.

func (s *Session) onSwapArrived() {
	a, b := s.swap.A, s.swap.B
	if err := s.grid.SwapPositions(a, b); err != nil {
		s.logger.Error("swap failed after motion", "swap", s.swap, "err", err)
		s.enterIdle()
		return
	}
	s.setState(StateResolving)

	// The tile that was selected first now sits on b.
	first, second := s.grid.Tile(b), s.grid.Tile(a)
	res := NewBonusResolver(s.grid, s.cfg.RocketDirection)
	res.Activate(b, second.Kind)
	res.Activate(a, first.Kind)

	runs := s.detector.ScanAround(b, a)
	if len(runs) == 0 && res.Len() == 0 {
		s.revert()
		return
	}

	s.stats.Swaps++
	if s.cfg.TurnsPerGame > 0 {
		s.turnsLeft--
		s.emit(TurnsChanged{TurnsLeft: s.turnsLeft})
	}
	s.logger.Debug("swap matched", "swap", s.swap, "runs", len(runs), "bonus_cells", res.Len())

	s.destroy(Classify(runs, []Coord{b, a}, true), res)
}

func (s *Session) revert() {
	s.stats.Reverts++
	s.setState(StateReverting)
	a, b := s.swap.A, s.swap.B
	ta, tb := s.grid.Tile(b), s.grid.Tile(a)
	s.moveAll([]Move{
		{Tile: ta.ID, From: b, To: a},
		{Tile: tb.ID, From: a, To: b},
	}, func() {
		if err := s.grid.SwapPositions(a, b); err != nil {
			s.logger.Error("revert failed", "swap", s.swap, "err", err)
		}
		s.logger.Debug("swap reverted", "swap", s.swap)
		s.enterIdle()
	})
}

// destroy commits one pass: runs plus any bonus blasts already expanded in
// res, bonus conversions, and then the settle.
func (s *Session) destroy(plan Plan, res *BonusResolver) {
	s.stats.Passes++
	res.Mark(plan.Destroy...)

	for _, c := range sortedBonusCells(plan.Bonuses) {
		kind := plan.Bonuses[c]
		s.stats.BonusesCreated++
		if res.Marked(c) {
			// The cell went up in the same pass; the column's next refill carries it.
			s.columnBonus[c.Col] = kind
			continue
		}
		t := s.grid.Tile(c)
		t.Kind = kind
		s.emit(TileCreated{Tile: t.ID, At: c, Kind: kind})
		s.logger.Debug("bonus created", "kind", kind, "at", c)
	}

	// Destruction is not awaited; only the falls that follow go to the barrier.
	cells := res.Cells()
	s.stats.BonusesActivated += res.Activated()

	before := s.score
	for _, c := range cells {
		t := s.grid.Tile(c)
		s.emit(TileDestroyed{Tile: t.ID, At: c, Kind: t.Kind})
		s.grid.RemoveAt(c)
		s.score += s.cfg.PointsPerTile
		s.stats.TilesDestroyed++
	}
	if delta := s.score - before; delta > 0 {
		s.emit(ScoreChanged{Score: s.score, Delta: delta})
	}

	s.settle()
}

func (s *Session) settle() {
	settled := s.collapser.Settle(s.columnBonus)
	for col := range s.columnBonus {
		delete(s.columnBonus, col)
	}
	for _, t := range settled.Created {
		s.emit(TileCreated{Tile: t.ID, At: t.Pos(), Kind: t.Kind})
	}
	if err := s.collapser.checkSettled(); err != nil {
		s.logger.Error("settle left the board inconsistent", "err", err)
	}
	s.touched = settled.Touched
	s.moveAll(settled.Moves, s.cascade)
}

// cascade looks for runs formed by the last settle and destroys them, until
// the board is stable or the cascade cap is reached.
func (s *Session) cascade() {
	s.setState(StateCascading)
	runs := s.detector.ScanFull()
	if len(runs) == 0 {
		s.finishPass()
		return
	}
	if s.passCascades >= s.cfg.MaxCascades {
		s.stats.CascadeCapHits++
		s.logger.Warn("cascade cap reached", "cap", s.cfg.MaxCascades, "runs", len(runs))
		s.finishPass()
		return
	}
	s.passCascades++
	s.stats.Cascades++
	s.logger.Debug("cascade", "pass", s.passCascades, "runs", len(runs))

	s.destroy(Classify(runs, s.touched, s.cfg.CascadeBonuses), NewBonusResolver(s.grid, s.cfg.RocketDirection))
}

// finishPass checks the outcome once the board is stable.
func (s *Session) finishPass() {
	s.touched = nil
	switch {
	case s.cfg.ScoreToWin > 0 && s.score >= s.cfg.ScoreToWin:
		s.setState(StateWon)
		s.logger.Info("game won", "score", s.score, "turns_left", s.turnsLeft)
		s.emit(GameWon{Score: s.score})
	case s.cfg.TurnsPerGame > 0 && s.turnsLeft <= 0:
		s.setState(StateLost)
		s.logger.Info("game lost", "score", s.score)
		s.emit(GameLost{Score: s.score})
	default:
		s.enterIdle()
	}
}

// enterIdle accepts input again, or shuffles first when no swap is left.
func (s *Session) enterIdle() {
	if _, ok := s.finder.AnyLegalMove(); !ok {
		s.shuffle()
		return
	}
	s.shuffleTries = 0
	s.hintShown = false
	s.idleSince = s.now()
	s.setState(StateIdle)
}

func (s *Session) shuffle() {
	s.setState(StateShuffling)
	s.shuffleTries++
	s.passCascades = 0

	if s.shuffleTries > s.cfg.MaxShuffles {
		s.regenerate()
		return
	}

	r, err := s.grid.Shuffle()
	if err != nil {
		s.logger.Error("shuffle failed", "err", err)
		s.regenerate()
		return
	}
	s.stats.Shuffles++
	recolored := make([]Coord, 0, len(r.Recolored))
	for _, t := range r.Recolored {
		recolored = append(recolored, t.Pos())
	}
	s.logger.Debug("board reshuffled", "kind", r.Kind, "moves", len(r.Moves), "recolored", len(recolored))
	s.emit(BoardReshuffled{Kind: r.Kind, Moves: len(r.Moves), Recolored: recolored})

	s.touched = nil
	for _, m := range r.Moves {
		s.touched = append(s.touched, m.To)
	}
	sortCoords(s.touched)
	s.moveAll(r.Moves, s.cascade)
}

// regenerate replaces every tile with a fresh playable board.
func (s *Session) regenerate() {
	s.stats.Regenerations++
	s.logger.Warn("regenerating board", "shuffles", s.shuffleTries-1)
	for _, t := range s.grid.Tiles() {
		s.emit(TileDestroyed{Tile: t.ID, At: t.Pos(), Kind: t.Kind})
	}
	s.fill()
	for _, t := range s.grid.Tiles() {
		s.emit(TileCreated{Tile: t.ID, At: t.Pos(), Kind: t.Kind})
	}
	s.shuffleTries = 0
	s.hintShown = false
	s.idleSince = s.now()
	s.setState(StateIdle)
}

func sortedBonusCells(m map[Coord]Kind) []Coord {
	cells := make([]Coord, 0, len(m))
	for c := range m {
		cells = append(cells, c)
	}
	sortCoords(cells)
	return cells
}
