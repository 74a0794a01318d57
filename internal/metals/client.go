// Package metals fetches spot gold and silver prices from MetalPriceAPI.
package metals

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	httpclient "github.com/cdmasterk/orcafx/internal/http"
	"github.com/cdmasterk/orcafx/internal/pricing"
)

var tracer = otel.Tracer("github.com/cdmasterk/orcafx/internal/metals")

// DefaultBaseURL is the MetalPriceAPI endpoint.
const DefaultBaseURL = "https://api.metalpriceapi.com"

// GramsPerTroyOunce converts troy ounces to grams.
var GramsPerTroyOunce = decimal.RequireFromString("31.1035")

// ErrMissingAPIKey is returned when no API key is configured.
var ErrMissingAPIKey = errors.New("metal price API key is not configured")

const pricePlaces = 4

// latestResponse is the body of GET /v1/latest. Rates are ounces per EUR.
type latestResponse struct {
	Success   bool                       `json:"success"`
	Base      string                     `json:"base"`
	Timestamp int64                      `json:"timestamp"`
	Rates     map[string]decimal.Decimal `json:"rates"`
	Error     *struct {
		Code int    `json:"statusCode"`
		Info string `json:"message"`
	} `json:"error,omitempty"`
}

// Client calls MetalPriceAPI.
type Client struct {
	http    *httpclient.Client
	baseURL string
	apiKey  string
	now     func() time.Time
}

// NewClient creates a client. An empty baseURL uses DefaultBaseURL.
func NewClient(hc *httpclient.Client, baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http:    hc,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		now:     time.Now,
	}
}

// FetchLatest returns the current EUR prices of gold and silver per troy
// ounce and per gram, rounded to 4 decimal places.
func (c *Client) FetchLatest(ctx context.Context) (*pricing.MetalPrice, error) {
	ctx, span := tracer.Start(ctx, "metals.FetchLatest")
	defer span.End()

	price, err := c.fetchLatest(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return price, nil
}

func (c *Client) fetchLatest(ctx context.Context) (*pricing.MetalPrice, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	q := url.Values{}
	q.Set("api_key", c.apiKey)
	q.Set("base", "EUR")
	q.Set("currencies", "XAU,XAG")

	var body latestResponse
	if err := c.http.GetJSON(ctx, c.baseURL+"/v1/latest?"+q.Encode(), &body); err != nil {
		return nil, fmt.Errorf("failed to fetch metal prices: %w", err)
	}
	if !body.Success {
		if body.Error != nil {
			return nil, fmt.Errorf("metal price API error %d: %s", body.Error.Code, body.Error.Info)
		}
		return nil, errors.New("metal price API reported failure")
	}

	goldOz, err := perOunce(body.Rates, "XAU")
	if err != nil {
		return nil, err
	}
	silverOz, err := perOunce(body.Rates, "XAG")
	if err != nil {
		return nil, err
	}

	return &pricing.MetalPrice{
		GoldPerOz:     goldOz.Round(pricePlaces),
		SilverPerOz:   silverOz.Round(pricePlaces),
		GoldPerGram:   PerGram(goldOz),
		SilverPerGram: PerGram(silverOz),
		FetchedAt:     c.now(),
	}, nil
}

// perOunce inverts an ounces-per-EUR rate into EUR per ounce.
func perOunce(rates map[string]decimal.Decimal, symbol string) (decimal.Decimal, error) {
	rate, ok := rates[symbol]
	if !ok || !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("metal price API response has no usable %s rate", symbol)
	}
	return decimal.NewFromInt(1).DivRound(rate, 16), nil
}

// PerGram converts a per-ounce price to a per-gram price rounded to 4 places.
func PerGram(perOz decimal.Decimal) decimal.Decimal {
	return perOz.DivRound(GramsPerTroyOunce, pricePlaces)
}
