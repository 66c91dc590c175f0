package schemas

type OpenPositionRequest struct {
	StockName      string  `json:"stockName"`
	PurchaseRate   float64 `json:"purchaseRate"`
	UnitsPurchased int     `json:"unitsPurchased"`
	PurchaseDate   Date    `json:"purchaseDate"`
}

type SellPositionRequest struct {
	SellingPrice float64 `json:"sellingPrice"`
	Units        int     `json:"units"`
	SellingDate  Date    `json:"sellingDate"`
}

// PositionResponse augments the stored position with its derived figures so
// callers never recompute them.
type PositionResponse struct {
	ID              string   `json:"id"`
	StockName       string   `json:"stockName"`
	PurchaseRate    float64  `json:"purchaseRate"`
	UnitsPurchased  int      `json:"unitsPurchased"`
	PurchaseDate    Date     `json:"purchaseDate"`
	SellingPrice    *float64 `json:"sellingPrice"`
	UnitsSold       int      `json:"unitsSold"`
	SellingDate     *Date    `json:"sellingDate"`
	Status          string   `json:"status"`
	RemainingUnits  int      `json:"remainingUnits"`
	RealizedReturn  float64  `json:"realizedReturn"`
	TotalInvestment float64  `json:"totalInvestment"`
}
