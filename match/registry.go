package match

import "sync"

// Registry holds one OrderBook per symbol. spec.md scopes a single book to
// one tradable symbol; Registry is the thin composition a host process
// uses to run several such books side by side, adapted from the teacher's
// MatchingEngine.orderbooks sync.Map router but stripped of its command
// envelope, snapshot, and lifecycle machinery — none of which spec.md's
// synchronous, single-book core calls for.
type Registry struct {
	books sync.Map // symbol -> *OrderBook
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Create adds a new book for symbol, or returns the existing one if it is
// already registered.
func (r *Registry) Create(symbol string, limits RiskLimits, opts ...Option) *OrderBook {
	if existing, ok := r.books.Load(symbol); ok {
		return existing.(*OrderBook)
	}
	book := NewOrderBook(symbol, limits, opts...)
	actual, _ := r.books.LoadOrStore(symbol, book)
	return actual.(*OrderBook)
}

// Get returns the book for symbol, or nil if none is registered.
func (r *Registry) Get(symbol string) *OrderBook {
	book, ok := r.books.Load(symbol)
	if !ok {
		return nil
	}
	return book.(*OrderBook)
}

// Remove drops a book from the registry. The book itself is not otherwise
// shut down; callers holding a reference may keep using it.
func (r *Registry) Remove(symbol string) {
	r.books.Delete(symbol)
}

// Symbols returns every currently registered symbol, in no particular order.
func (r *Registry) Symbols() []string {
	var out []string
	r.books.Range(func(key, _ any) bool {
		out = append(out, key.(string))
		return true
	})
	return out
}
