package fetcher

import (
	"context"
	"errors"

	"pricepipe/internal/model"
)

// Error classes for a failed fetch. Callers branch with errors.Is.
var (
	// ErrTransport covers request failures and non-success status codes.
	ErrTransport = errors.New("fetcher: transport failure")
	// ErrBadPayload covers undecodable bodies and missing response keys.
	ErrBadPayload = errors.New("fetcher: unexpected response shape")
	// ErrBadPrice covers amounts that do not parse to a finite number.
	ErrBadPrice = errors.New("fetcher: invalid price value")
)

// PriceFetcher retrieves one spot price observation from the upstream API.
type PriceFetcher interface {
	FetchPrice(ctx context.Context) (model.PriceRecord, error)
}
