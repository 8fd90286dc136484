package monthly

import "time"

type SaveRequest struct {
	PreviewID string `json:"previewId" binding:"required"`
	Month     string `json:"month"`
}

type SaveResponse struct {
	Month        string    `json:"month"`
	TotalRecords int       `json:"totalRecords"`
	TotalCost    float64   `json:"totalCost"`
	SavedAt      time.Time `json:"savedAt"`
	Replaced     bool      `json:"replaced"`
}

// MonthEntry is a list row; the facts themselves are only returned by Get.
type MonthEntry struct {
	Month        string    `json:"month"`
	SavedAt      time.Time `json:"savedAt"`
	TotalRecords int       `json:"totalRecords"`
	TotalCost    float64   `json:"totalCost"`
}
