package constants

// JobStatus is the lifecycle state of a queued file.
type JobStatus string

const (
	JobStatusQueued   JobStatus = "QUEUED"
	JobStatusRunning  JobStatus = "RUNNING"
	JobStatusParsed   JobStatus = "PARSED"
	JobStatusNeedsOCR JobStatus = "NEEDS_OCR" // native text too thin, caller must opt in to OCR
	JobStatusInvoice  JobStatus = "INVOICE"   // file turned out to be an invoice
	JobStatusFailed   JobStatus = "FAILED"
)

// Extraction strategy names, recorded on the parsed document.
const (
	StrategyHeader      = "header"
	StrategyRegex       = "regex"
	StrategyOCRTolerant = "ocr-tolerant"
	StrategyAnchor      = "anchor"
)

// Item flags surfaced to reviewers. They never cause rejection.
const (
	FlagGrossLessThanNet    = "gross_lt_net"
	FlagTheoreticalWeight   = "theoretical_weight"
	FlagWeightLowConfidence = "weight_low_confidence"
	FlagNewInventoryID      = "new_inventory_id"
	FlagSizeCarriedForward  = "size_carried_forward"
	FlagThicknessRepaired   = "thickness_repaired"
)
