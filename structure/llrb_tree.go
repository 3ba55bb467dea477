package structure

import "github.com/shopspring/decimal"

// PriceTree is a Left-Leaning Red-Black tree over prices, arena-backed so
// insert/delete/search do not allocate once the arena has warmed up.
//
// Reference: Robert Sedgewick's LLRB implementation
// https://sedgewick.io/wp-content/themes/flavor/uploads/2016/02/LLRB.pdf
//
// Like PooledSkiplist, it stores bare prices; a bid-side Ladder backend
// negates keys on the way in and out to get descending order from this
// ascending-only structure.
const (
	NullIndex  int32 = -1
	colorRed         = true
	colorBlack       = false
)

// treeNode is one node of the tree. It tracks only the price key and the
// tree's own linkage — order data lives one layer up, in match.PriceLevel.
type treeNode struct {
	Left   int32
	Right  int32
	Parent int32
	Color  bool
	Price  decimal.Decimal
}

// PriceTree is an arena-backed LLRB tree of prices.
type PriceTree struct {
	nodes    []treeNode
	root     int32
	freeHead int32
	count    int32
	minCache int32
}

func NewPriceTree(capacity int32) *PriceTree {
	if capacity < 1 {
		capacity = 1
	}
	t := &PriceTree{
		nodes:    make([]treeNode, capacity),
		root:     NullIndex,
		freeHead: 0,
		count:    0,
		minCache: NullIndex,
	}
	for i := int32(0); i < capacity-1; i++ {
		t.nodes[i].Left = i + 1
	}
	t.nodes[capacity-1].Left = NullIndex
	return t
}

// grow doubles the node arena when the free list is exhausted, the same
// doubling strategy PooledSkiplist.grow uses: reused nodes keep their slot,
// the new tail is stitched onto the free list. capacityHint only sizes the
// *initial* arena (match.WithCapacityHint's documented contract) — like the
// other three Ladder backends, PriceTree never turns a valid AddOrder/
// ModifyOrder into a panic just because a book carries more distinct price
// levels than its starting hint.
func (t *PriceTree) grow() {
	oldCap := int32(len(t.nodes))
	newCap := oldCap * DefaultGrowthFactor

	newNodes := make([]treeNode, newCap)
	copy(newNodes, t.nodes)

	for i := oldCap; i < newCap-1; i++ {
		newNodes[i].Left = i + 1
	}
	newNodes[newCap-1].Left = t.freeHead
	t.freeHead = oldCap

	t.nodes = newNodes
}

func (t *PriceTree) alloc() int32 {
	if t.freeHead == NullIndex {
		t.grow()
	}
	idx := t.freeHead
	t.freeHead = t.nodes[idx].Left
	t.nodes[idx] = treeNode{Left: NullIndex, Right: NullIndex, Parent: NullIndex, Color: colorRed}
	return idx
}

func (t *PriceTree) free(idx int32) {
	t.nodes[idx].Left = t.freeHead
	t.freeHead = idx
}

func (t *PriceTree) isRed(idx int32) bool {
	if idx == NullIndex {
		return false
	}
	return t.nodes[idx].Color == colorRed
}

func (t *PriceTree) rotateLeft(h int32) int32 {
	x := t.nodes[h].Right
	t.nodes[h].Right = t.nodes[x].Left
	if t.nodes[x].Left != NullIndex {
		t.nodes[t.nodes[x].Left].Parent = h
	}
	t.nodes[x].Left = h
	t.nodes[x].Color = t.nodes[h].Color
	t.nodes[h].Color = colorRed
	t.nodes[x].Parent = t.nodes[h].Parent
	t.nodes[h].Parent = x
	return x
}

func (t *PriceTree) rotateRight(h int32) int32 {
	x := t.nodes[h].Left
	t.nodes[h].Left = t.nodes[x].Right
	if t.nodes[x].Right != NullIndex {
		t.nodes[t.nodes[x].Right].Parent = h
	}
	t.nodes[x].Right = h
	t.nodes[x].Color = t.nodes[h].Color
	t.nodes[h].Color = colorRed
	t.nodes[x].Parent = t.nodes[h].Parent
	t.nodes[h].Parent = x
	return x
}

func (t *PriceTree) flipColors(h int32) {
	t.nodes[h].Color = !t.nodes[h].Color
	t.nodes[t.nodes[h].Left].Color = !t.nodes[t.nodes[h].Left].Color
	t.nodes[t.nodes[h].Right].Color = !t.nodes[t.nodes[h].Right].Color
}

// Insert adds price, returning false if it already existed.
func (t *PriceTree) Insert(price decimal.Decimal) bool {
	var inserted bool
	t.root, inserted = t.insert(t.root, NullIndex, price)
	t.nodes[t.root].Color = colorBlack
	if inserted {
		t.count++
		if t.minCache == NullIndex || price.LessThan(t.nodes[t.minCache].Price) {
			t.minCache = t.findMin(t.root)
		}
	}
	return inserted
}

func (t *PriceTree) insert(h int32, parent int32, price decimal.Decimal) (int32, bool) {
	if h == NullIndex {
		idx := t.alloc()
		t.nodes[idx].Price = price
		t.nodes[idx].Parent = parent
		return idx, true
	}

	var inserted bool
	cmp := price.Cmp(t.nodes[h].Price)
	if cmp < 0 {
		t.nodes[h].Left, inserted = t.insert(t.nodes[h].Left, h, price)
	} else if cmp > 0 {
		t.nodes[h].Right, inserted = t.insert(t.nodes[h].Right, h, price)
	} else {
		return h, false
	}

	if t.isRed(t.nodes[h].Right) && !t.isRed(t.nodes[h].Left) {
		h = t.rotateLeft(h)
	}
	if t.isRed(t.nodes[h].Left) && t.isRed(t.nodes[t.nodes[h].Left].Left) {
		h = t.rotateRight(h)
	}
	if t.isRed(t.nodes[h].Left) && t.isRed(t.nodes[h].Right) {
		t.flipColors(h)
	}

	return h, inserted
}

// Min returns the smallest resident price.
func (t *PriceTree) Min() (decimal.Decimal, bool) {
	if t.minCache == NullIndex {
		return decimal.Zero, false
	}
	return t.nodes[t.minCache].Price, true
}

func (t *PriceTree) findMin(h int32) int32 {
	if h == NullIndex {
		return NullIndex
	}
	for t.nodes[h].Left != NullIndex {
		h = t.nodes[h].Left
	}
	return h
}

func (t *PriceTree) Count() int32 { return t.count }

// Delete removes price, returning false if it was not present.
func (t *PriceTree) Delete(price decimal.Decimal) bool {
	if t.root == NullIndex {
		return false
	}

	needUpdateMin := t.minCache != NullIndex && t.nodes[t.minCache].Price.Equal(price)

	var found bool
	if !t.isRed(t.nodes[t.root].Left) && !t.isRed(t.nodes[t.root].Right) {
		t.nodes[t.root].Color = colorRed
	}
	t.root, found = t.deleteWithFlag(t.root, price)
	if !found {
		if t.root != NullIndex {
			t.nodes[t.root].Color = colorBlack
		}
		return false
	}

	if t.root != NullIndex {
		t.nodes[t.root].Color = colorBlack
		t.nodes[t.root].Parent = NullIndex
	}
	t.count--

	if needUpdateMin {
		t.minCache = t.findMin(t.root)
	}

	return true
}

func (t *PriceTree) deleteWithFlag(h int32, price decimal.Decimal) (int32, bool) {
	if h == NullIndex {
		return NullIndex, false
	}

	var found bool
	if price.LessThan(t.nodes[h].Price) {
		if t.nodes[h].Left == NullIndex {
			return h, false
		}
		if !t.isRed(t.nodes[h].Left) && !t.isRed(t.nodes[t.nodes[h].Left].Left) {
			h = t.moveRedLeft(h)
		}
		t.nodes[h].Left, found = t.deleteWithFlag(t.nodes[h].Left, price)
	} else {
		if t.isRed(t.nodes[h].Left) {
			h = t.rotateRight(h)
		}
		if price.Equal(t.nodes[h].Price) && t.nodes[h].Right == NullIndex {
			t.free(h)
			return NullIndex, true
		}
		if t.nodes[h].Right == NullIndex {
			return h, false
		}
		if !t.isRed(t.nodes[h].Right) && !t.isRed(t.nodes[t.nodes[h].Right].Left) {
			h = t.moveRedRight(h)
		}
		if price.Equal(t.nodes[h].Price) {
			minIdx := t.findMin(t.nodes[h].Right)
			t.nodes[h].Price = t.nodes[minIdx].Price
			t.nodes[h].Right = t.deleteMin(t.nodes[h].Right)
			found = true
		} else {
			t.nodes[h].Right, found = t.deleteWithFlag(t.nodes[h].Right, price)
		}
	}
	return t.balance(h), found
}

func (t *PriceTree) moveRedLeft(h int32) int32 {
	t.flipColors(h)
	if t.isRed(t.nodes[t.nodes[h].Right].Left) {
		t.nodes[h].Right = t.rotateRight(t.nodes[h].Right)
		h = t.rotateLeft(h)
		t.flipColors(h)
	}
	return h
}

func (t *PriceTree) moveRedRight(h int32) int32 {
	t.flipColors(h)
	if t.isRed(t.nodes[t.nodes[h].Left].Left) {
		h = t.rotateRight(h)
		t.flipColors(h)
	}
	return h
}

func (t *PriceTree) deleteMin(h int32) int32 {
	if t.nodes[h].Left == NullIndex {
		t.free(h)
		return NullIndex
	}
	if !t.isRed(t.nodes[h].Left) && !t.isRed(t.nodes[t.nodes[h].Left].Left) {
		h = t.moveRedLeft(h)
	}
	t.nodes[h].Left = t.deleteMin(t.nodes[h].Left)
	return t.balance(h)
}

func (t *PriceTree) balance(h int32) int32 {
	if t.isRed(t.nodes[h].Right) && !t.isRed(t.nodes[h].Left) {
		h = t.rotateLeft(h)
	}
	if t.isRed(t.nodes[h].Left) && t.isRed(t.nodes[t.nodes[h].Left].Left) {
		h = t.rotateRight(h)
	}
	if t.isRed(t.nodes[h].Left) && t.isRed(t.nodes[h].Right) {
		t.flipColors(h)
	}
	return h
}

// InOrderSlice returns every resident price, ascending.
func (t *PriceTree) InOrderSlice() []decimal.Decimal {
	result := make([]decimal.Decimal, 0, t.count)
	t.inOrder(t.root, &result)
	return result
}

func (t *PriceTree) inOrder(h int32, result *[]decimal.Decimal) {
	if h == NullIndex {
		return
	}
	t.inOrder(t.nodes[h].Left, result)
	*result = append(*result, t.nodes[h].Price)
	t.inOrder(t.nodes[h].Right, result)
}
