package dto

// ReconcileResult is the batch summary of one notice-period reconciler run
type ReconcileResult struct {
	ProcessedCount int      `json:"processedCount"`
	Errors         []string `json:"errors"`
}

// VacationResult is the batch summary of one vacation processor run
type VacationResult struct {
	ProcessedCount int `json:"processedCount"`
	ErrorCount     int `json:"errorCount"`
	TotalFound     int `json:"totalFound"`
}
