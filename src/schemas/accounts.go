package schemas

// CreateAccountRequest registers a new fund member account. The id comes
// from the authentication layer, which is outside this service.
type CreateAccountRequest struct {
	ID string `json:"id"`
}

type InvestRequest struct {
	Amount      float64 `json:"amount"`
	ProcessedBy string  `json:"processedBy"`
}

// WithdrawRequest carries exactly one of Amount or Units; the other side of
// the conversion is computed from the current NAV.
type WithdrawRequest struct {
	Amount      *float64 `json:"amount"`
	Units       *float64 `json:"units"`
	ProcessedBy string   `json:"processedBy"`
}

// AccountSnapshot is the post-operation view returned to the caller.
// CurrentValue is Units * NAVValue at the time of the snapshot.
type AccountSnapshot struct {
	UserID         string  `json:"userId"`
	Units          float64 `json:"units"`
	InvestedAmount float64 `json:"investedAmount"`
	CurrentValue   float64 `json:"currentValue"`
	NAVValue       float64 `json:"navValue"`
}
