package api

// SubmitOrderRequest is the wire form of a maker-signed intent.
// Amounts and nonce are decimal strings of base-unit uint256 values.
type SubmitOrderRequest struct {
	Maker        string  `json:"maker"`
	TokenSell    string  `json:"tokenSell"`
	AmountSell   string  `json:"amountSell"`
	TokenBuy     string  `json:"tokenBuy"`
	AmountBuy    string  `json:"amountBuy"`
	Nonce        string  `json:"nonce"`
	Deadline     string  `json:"deadline,omitempty"`
	DesiredTaker *string `json:"desiredTaker,omitempty"`
	Signature    string  `json:"signature"`
}

// SubmitOrderResponse acknowledges an accepted order.
type SubmitOrderResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

// SyncOrderRequest identifies the order to reconcile.
type SyncOrderRequest struct {
	OrderID string `json:"orderId"`
}

// SyncOrderResponse reports the state read from the settlement contract.
type SyncOrderResponse struct {
	Success      bool   `json:"success"`
	Status       string `json:"status"`
	FilledAmount string `json:"filledAmount"`
}

// AttestFeeRequest references a promotion payment transaction.
type AttestFeeRequest struct {
	OrderID string `json:"orderId"`
	TxHash  string `json:"txHash"`
}

// AttestFeeResponse reports the recorded fee in native units.
type AttestFeeResponse struct {
	Success bool   `json:"success"`
	FeePaid string `json:"feePaid"`
}

// OrderInfo is the catalog view of an order.
type OrderInfo struct {
	ID              string  `json:"id"`
	Maker           string  `json:"maker"`
	TokenSell       string  `json:"tokenSell"`
	AmountSell      string  `json:"amountSell"`
	TokenBuy        string  `json:"tokenBuy"`
	AmountBuy       string  `json:"amountBuy"`
	Nonce           string  `json:"nonce"`
	Deadline        *int64  `json:"deadline"` // unix seconds, null = no expiry
	DesiredTaker    *string `json:"desiredTaker"`
	Signature       string  `json:"signature"`
	Status          string  `json:"status"`
	AmountBuyFilled string  `json:"amountBuyFilled"`
	AdsFee          *string `json:"adsFee"`
	CreatedAt       string  `json:"createdAt"`
}

// SettlementParamsResponse publishes the contract's promotion parameters.
type SettlementParamsResponse struct {
	FeeBps   string `json:"feeBps"`
	MinAdFee string `json:"minAdFee"`
}

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}
