package engine

// barrier holds a continuation until every listed tile has finished moving.
// Acknowledgements may arrive while the intents are still being emitted, so
// the barrier is armed first and held until release.
type barrier struct {
	pending map[TileID]bool
	next    func()
	holding bool
}

// arm records the awaited tiles and holds next until release.
func (b *barrier) arm(ids []TileID, next func()) {
	b.pending = make(map[TileID]bool, len(ids))
	for _, id := range ids {
		b.pending[id] = true
	}
	b.next = next
	b.holding = true
}

// release ends the hold taken by arm. It returns the continuation when every
// tile was acknowledged in the meantime; the caller runs it.
func (b *barrier) release() func() {
	b.holding = false
	return b.take()
}

// done acknowledges one tile. It returns the continuation when the last
// pending tile was acknowledged outside a hold; the caller runs it.
func (b *barrier) done(id TileID) func() {
	if !b.pending[id] {
		return nil
	}
	delete(b.pending, id)
	if b.holding {
		return nil
	}
	return b.take()
}

func (b *barrier) take() func() {
	if len(b.pending) > 0 {
		return nil
	}
	next := b.next
	b.next = nil
	return next
}

// armed reports whether moves are still outstanding.
func (b *barrier) armed() bool {
	return len(b.pending) > 0
}

// outstanding returns the tiles still owed an acknowledgement.
func (b *barrier) outstanding() []TileID {
	ids := make([]TileID, 0, len(b.pending))
	for id := range b.pending {
		ids = append(ids, id)
	}
	return ids
}
