package protocol

// Side mirrors match.Side on the wire. Kept as its own type (rather than a
// type alias) so the wire format does not change if the core engine's
// internal representation does.
type Side int8

const (
	SideBuy  Side = 1
	SideSell Side = 2
)

// OrderType is the wire form of match.OrderType.
type OrderType string

const (
	OrderTypeMarket OrderType = "market"
	OrderTypeLimit  OrderType = "limit"
)

// TIF is the wire form of match.TIF.
type TIF string

const (
	TIFGTC TIF = "gtc"
	TIFIOC TIF = "ioc"
	TIFFOK TIF = "fok"
)

// DeltaKind is the wire form of match.DeltaKind.
type DeltaKind string

const (
	DeltaAdd    DeltaKind = "add"
	DeltaModify DeltaKind = "modify"
	DeltaRemove DeltaKind = "remove"
)

// RejectReason classifies why add_order/modify_order did not apply, as a
// wire value rather than a Go error. None of this package's envelopes
// (ExecutionReport included) has a field that carries it.
type RejectReason string

const (
	RejectReasonNone          RejectReason = ""
	RejectReasonDuplicateID   RejectReason = "duplicate_order_id"
	RejectReasonInvalidOrder  RejectReason = "invalid_order"
	RejectReasonOrderNotFound RejectReason = "order_not_found"
	RejectReasonInvalidModify RejectReason = "invalid_modify"
	RejectReasonRisk          RejectReason = "risk_rejected"
)

// DepthItem is one row of a GetDepthResponse.
type DepthItem struct {
	Price string `json:"price"`
	Size  string `json:"size"`
	Count int    `json:"count"`
}

// GetDepthRequest queries a book's current depth out of band from the
// Command stream, mirroring the teacher's read-path/write-path split.
type GetDepthRequest struct {
	Symbol string `json:"symbol"`
	Limit  int    `json:"limit"`
}

// GetDepthResponse is the reply to GetDepthRequest.
type GetDepthResponse struct {
	Symbol string       `json:"symbol"`
	Bids   []*DepthItem `json:"bids"`
	Asks   []*DepthItem `json:"asks"`
}
