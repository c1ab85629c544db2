package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"pricepipe/internal/model"
)

// SpotOptions parameterise the spot price fetcher.
type SpotOptions struct {
	URL     string
	Timeout time.Duration
}

// Spot fetches the current spot price from the configured quote endpoint.
type Spot struct {
	opts   SpotOptions
	logger zerolog.Logger
	client *http.Client
	now    func() time.Time
}

// NewSpot constructs a spot price fetcher.
func NewSpot(opts SpotOptions, logger zerolog.Logger) *Spot {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Spot{
		opts:   opts,
		logger: logger.With().Str("component", "spot_fetcher").Logger(),
		client: &http.Client{Timeout: timeout},
		now:    time.Now,
	}
}

// The quote endpoint returns {"data":{"amount":...}} where amount may be a
// JSON string or number.
type quoteResponse struct {
	Data struct {
		Amount json.RawMessage `json:"amount"`
	} `json:"data"`
}

// FetchPrice issues a single GET against the quote endpoint and returns the
// parsed observation stamped with the local wall clock at parse time. One
// attempt only; retries belong to the caller's orchestration.
func (s *Spot) FetchPrice(ctx context.Context) (model.PriceRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.opts.URL, nil)
	if err != nil {
		return model.PriceRecord{}, fmt.Errorf("%w: create request: %v", ErrTransport, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return model.PriceRecord{}, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.PriceRecord{}, fmt.Errorf("%w: read body: %v", ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return model.PriceRecord{}, fmt.Errorf("%w: status %d: %s", ErrTransport, resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var quote quoteResponse
	if err := json.Unmarshal(payload, &quote); err != nil {
		return model.PriceRecord{}, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	if len(quote.Data.Amount) == 0 {
		return model.PriceRecord{}, fmt.Errorf("%w: missing data.amount", ErrBadPayload)
	}

	price, err := parseAmount(quote.Data.Amount)
	if err != nil {
		return model.PriceRecord{}, err
	}

	record := model.PriceRecord{
		Timestamp: s.now().Format(model.TimestampLayout),
		Price:     price,
	}

	s.logger.Debug().Str("timestamp", record.Timestamp).Float64("price", record.Price).Msg("price fetched")
	return record, nil
}

func parseAmount(raw json.RawMessage) (float64, error) {
	text := strings.TrimSpace(string(raw))
	text = strings.Trim(text, `"`)

	amount, err := decimal.NewFromString(text)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadPrice, text)
	}

	price := amount.InexactFloat64()
	if math.IsInf(price, 0) || math.IsNaN(price) {
		return 0, fmt.Errorf("%w: %q is not finite", ErrBadPrice, text)
	}

	return price, nil
}

var _ PriceFetcher = (*Spot)(nil)
