package insights

import "errors"

// Sentinel errors for the insights service layer.
var (
	ErrMarketNotFound = errors.New("market not found")
	ErrSCRNotFound    = errors.New("scr not found")
	ErrSCRRequired    = errors.New("scr is required for optimization")
	ErrNoRecords      = errors.New("no channel records for partition")
)
