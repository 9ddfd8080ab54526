package entity

// PageScore is the classifier's view of one page or sheet.
type PageScore struct {
	Index         int     `json:"index"`
	Score         float64 `json:"score"`
	IsPackingList bool    `json:"is_packing_list"`
	Text          string  `json:"-"`
}

// OcrResult is the recognized text of one page; Confidence is 0..100.
type OcrResult struct {
	Page       int     `json:"page"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}
