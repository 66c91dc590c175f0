package schemas

type PublishNAVRequest struct {
	Date      Date    `json:"date"`
	Value     float64 `json:"value"`
	UpdatedBy string  `json:"updatedBy"`
}

type CurrentNAVResponse struct {
	Value float64 `json:"value"`
}
