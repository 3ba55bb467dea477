package match

// Portfolio is the per-account, per-symbol signed net position ledger
// (spec.md §4.7). Positive is net long, negative is net short. Positions
// only change on trade execution — resting orders never affect them.
type Portfolio struct {
	positions map[string]map[string]int64
}

func NewPortfolio() *Portfolio {
	return &Portfolio{positions: make(map[string]map[string]int64)}
}

// PositionOf returns the current signed position, zero if the account has
// never traded the symbol.
func (p *Portfolio) PositionOf(account, symbol string) int64 {
	bySymbol, ok := p.positions[account]
	if !ok {
		return 0
	}
	return bySymbol[symbol]
}

// applyFill adjusts one account's position by a signed quantity delta.
func (p *Portfolio) applyFill(account, symbol string, delta int64) {
	bySymbol, ok := p.positions[account]
	if !ok {
		bySymbol = make(map[string]int64)
		p.positions[account] = bySymbol
	}
	bySymbol[symbol] += delta
}

// ApplyTrade updates both sides of a trade: the buyer's position goes up
// by the traded quantity, the seller's goes down by the same amount.
func (p *Portfolio) ApplyTrade(symbol, buyerAccount, sellerAccount string, quantity uint64) {
	q := int64(quantity)
	p.applyFill(buyerAccount, symbol, q)
	p.applyFill(sellerAccount, symbol, -q)
}
