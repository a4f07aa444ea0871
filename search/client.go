// Package search issues the travel-offer HTTP calls for resolved search
// requests. The holiday-finder endpoints are treated as black boxes: this
// package only knows their request/response shapes, and any transport
// failure surfaces as a generic fetch error rather than endpoint internals.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/voyago/voyago/logging"
	"github.com/voyago/voyago/params"
)

// ErrFetchOffers is the generic failure surfaced on any transport problem.
var ErrFetchOffers = fmt.Errorf("failed to fetch holiday offers")

// Options configure the offers client.
type Options struct {
	// HTTPClient overrides the default client (tests, custom transports).
	HTTPClient *http.Client
	// Timeout applies when no HTTPClient is supplied.
	Timeout time.Duration
	// Logger receives request/latency records.
	Logger logging.Logger
}

// Client calls the holiday-finder offer endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        logging.Logger
}

// NewClient creates a Client for the given API base URL
// (e.g. "https://www.example.com/api_no_auth/holiday_finder").
func NewClient(baseURL string, optFns ...func(o *Options)) *Client {
	opts := Options{
		Timeout: 30 * time.Second,
		Logger:  logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	return &Client{baseURL: baseURL, httpClient: httpClient, log: opts.Logger}
}

// hotelQuery is the JSON document carried in the offers-v2 query string.
type hotelQuery struct {
	DestinationIDs []int    `json:"destinationIds"`
	Rating         []int    `json:"rating"`
	Amenities      []string `json:"amenities"`
	Preferences    []string `json:"preferences"`
}

// SearchHotels runs a hotel search for the resolved request and returns the
// raw offer document. The endpoint expects a GET whose query carries a
// JSON-encoded payload of destination IDs, star ratings, amenity IDs and
// free-form preferences.
func (c *Client) SearchHotels(ctx context.Context, req params.Resolved) (json.RawMessage, error) {
	q := hotelQuery{
		DestinationIDs: emptied(req.DestinationIDs),
		Rating:         emptied(req.Stars),
		Amenities:      emptied(req.FacilityIDs),
		Preferences:    emptied(req.VacationTypes),
	}

	data, err := json.Marshal(q)
	if err != nil {
		return nil, fmt.Errorf("failed to encode hotel query: %w", err)
	}

	values := url.Values{}
	values.Set("data", string(data))

	return c.get(ctx, c.baseURL+"/offers-v2/", values)
}

// OfferQuery is the engine-shaped payload of the offer-loading endpoint.
// Field names follow the external service contract.
type OfferQuery struct {
	Locale            string         `json:"locale"`
	Currency          string         `json:"currency"`
	Origin            []string       `json:"fromwhere"`
	Engine            Engine         `json:"engine"`
	Filters           Filters        `json:"filters"`
	Sort              map[string]int `json:"sort"`
	Limit             int            `json:"limit"`
	Offset            int            `json:"offset"`
	SearchUserProfile int            `json:"searchUserProfile"`
}

// Engine describes where/when/who/what the offer engine should search.
type Engine struct {
	Market            int      `json:"market"`
	Where             []int    `json:"where"`
	When              When     `json:"when"`
	Who               Who      `json:"who"`
	What              []string `json:"what"`
	WhereTxt          []string `json:"whereTxt"`
	WhatTxt           []string `json:"whatTxt"`
	DestinationGroups []int    `json:"destinationGroups"`
}

// When carries the month/night windows of an offer query.
type When struct {
	Months Months `json:"months"`
}

// Months lists acceptable travel months and stay lengths.
type Months struct {
	Periods []int `json:"periods"`
	Min     *int  `json:"min"`
	Max     *int  `json:"max"`
	Nights  []int `json:"nights"`
}

// Who describes the travelling party for the offer engine.
type Who struct {
	Adult     int   `json:"adult"`
	Child     int   `json:"child"`
	Room      int   `json:"room"`
	ChildAges []int `json:"childAges"`
}

// Filters narrows offers after the engine search.
type Filters struct {
	Rating       []int    `json:"rating"`
	Stops        []int    `json:"stops"`
	Refundable   bool     `json:"refundable"`
	Board        []string `json:"board"`
	Amenities    []string `json:"amenities"`
	AmenitiesTxt []string `json:"amenitiesTxt"`
	Luggage      Luggage  `json:"luggage"`
	Flex         bool     `json:"flex"`
}

// Luggage flags for the offer filters.
type Luggage struct {
	CanAddTrolley bool `json:"canAddTrolley"`
	CanAddCib     bool `json:"canAddCib"`
}

// NewOfferQuery builds an offer-loading payload from a resolved search
// request using the engine's default market, locale and origin.
func NewOfferQuery(req params.Resolved) OfferQuery {
	q := OfferQuery{
		Locale:   "de",
		Currency: "EUR",
		Origin:   []string{"BER"},
		Engine: Engine{
			Market:            1,
			Where:             emptied(req.DestinationIDs),
			When:              When{Months: Months{Periods: emptied(req.TravelMonths), Nights: emptied(req.NumberOfNights)}},
			Who:               Who{Adult: 2, Room: 1, ChildAges: []int{}},
			What:              emptied(req.VacationTypes),
			WhereTxt:          emptied(req.DestinationNames),
			WhatTxt:           []string{},
			DestinationGroups: []int{},
		},
		Filters: Filters{
			Rating:       emptied(req.Stars),
			Stops:        []int{},
			Board:        emptied(req.RoomBoardTypes),
			Amenities:    emptied(req.FacilityIDs),
			AmenitiesTxt: emptied(req.HotelFacilities),
		},
		Sort:  map[string]int{"best": -1},
		Limit: 100,
	}
	if req.Party != nil {
		q.Engine.Who = Who{
			Adult:     req.Party.Adults,
			Child:     req.Party.Children,
			Room:      1,
			ChildAges: emptied(req.Party.ChildAges),
		}
	}
	return q
}

// LoadOffers fetches offers for an engine-shaped query. The endpoint takes
// the JSON payload in the data query parameter plus a client marker and a
// millisecond timestamp.
func (c *Client) LoadOffers(ctx context.Context, q OfferQuery) (json.RawMessage, error) {
	data, err := json.Marshal(q)
	if err != nil {
		return nil, fmt.Errorf("failed to encode offer query: %w", err)
	}

	values := url.Values{}
	values.Set("data", string(data))
	values.Set("muid", "77cb4fd097a64e27fa65d827fcc76b34")
	values.Set("t", fmt.Sprintf("%d", time.Now().UnixMilli()))

	return c.get(ctx, c.baseURL+"/offers/", values)
}

func (c *Client) get(ctx context.Context, endpoint string, values url.Values) (json.RawMessage, error) {
	reqURL := endpoint + "?" + values.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchOffers, err)
	}

	c.log.Debug("offer request", "url", endpoint)
	start := time.Now()

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.log.Error("offer request failed", "url", endpoint, "error", err.Error())
		return nil, fmt.Errorf("%w: %v", ErrFetchOffers, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Error("offer request failed", "url", endpoint, "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: unexpected status %d", ErrFetchOffers, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchOffers, err)
	}

	c.log.Debug("offer request completed", "url", endpoint, "duration_ms", time.Since(start).Milliseconds())

	return json.RawMessage(body), nil
}

// emptied never returns nil so the wire payload carries [] instead of null.
func emptied[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
