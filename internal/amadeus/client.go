// README: Amadeus API client with cached OAuth token, flight-offers and flight-destinations search.
package amadeus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultBaseURL points at the Amadeus self-service test environment.
	DefaultBaseURL = "https://test.api.amadeus.com"

	tokenTTL      = 30 * time.Minute
	searchTimeout = 30 * time.Second

	// Offers are restricted to SkyTeam carriers, matching the renderer's
	// airline-name table.
	skyteamAirlines = "AR,AM,UX,AF,CI,MU,OK,DL,GA,AZ,KQ,KL,KE,ME,SV,SK,RO,VN,VS,MF"

	// inspirationHorizonDays is the farthest departure date the
	// flight-destinations search accepts.
	inspirationHorizonDays = 180

	dateLayout = "2006-01-02"
)

var travelClasses = map[string]bool{
	ClassEconomy:        true,
	ClassPremiumEconomy: true,
	ClassBusiness:       true,
	ClassFirst:          true,
}

// Client talks to the Amadeus self-service APIs. The OAuth token is cached
// process-wide inside the client: lazily fetched on first use and refreshed
// once its expiry has passed. The mutex single-flights concurrent refreshes,
// so two goroutines hitting an expired token trigger exactly one token call.
type Client struct {
	baseURL   string
	apiKey    string
	apiSecret string
	httpc     *http.Client

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time

	// now is swappable in tests.
	now func() time.Time
}

// NewClient creates a Client for the given base URL and credentials.
func NewClient(baseURL, apiKey, apiSecret string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		apiKey:    apiKey,
		apiSecret: apiSecret,
		httpc:     &http.Client{Timeout: searchTimeout},
		now:       time.Now,
	}
}

// accessToken returns the cached token, refreshing it when expired.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && c.now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {c.apiKey},
		"client_secret": {c.apiSecret},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/security/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: build token request: %v", ErrAuth, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuth, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: status %d: %s", ErrAuth, resp.StatusCode, string(body))
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || payload.AccessToken == "" {
		return "", fmt.Errorf("%w: malformed token response", ErrAuth)
	}

	c.token = payload.AccessToken
	c.tokenExpiry = c.now().Add(tokenTTL)
	return c.token, nil
}

// SearchFlights runs a flight-offers search and normalizes the response.
func (c *Client) SearchFlights(ctx context.Context, q FlightQuery) (*FlightResult, error) {
	if q.Adults < 1 || q.Adults > 9 {
		return nil, &ValidationError{Field: "passengers", Reason: "must be between 1 and 9"}
	}
	if !travelClasses[q.TravelClass] {
		return nil, &ValidationError{Field: "travel_class",
			Reason: "must be one of ECONOMY, PREMIUM_ECONOMY, BUSINESS, FIRST"}
	}
	if _, err := time.Parse(dateLayout, q.DepartureDate); err != nil {
		return nil, &ValidationError{Field: "departure_date", Reason: "use YYYY-MM-DD format"}
	}
	roundTrip := q.ReturnDate != ""
	if roundTrip {
		if _, err := time.Parse(dateLayout, q.ReturnDate); err != nil {
			return nil, &ValidationError{Field: "return_date", Reason: "use YYYY-MM-DD format"}
		}
	}

	// Round-trip searches fetch more offers because they collapse into
	// departure groups during normalization.
	maxResults := 20
	if roundTrip {
		maxResults = 150
	}

	params := url.Values{
		"originLocationCode":      {q.Origin},
		"destinationLocationCode": {q.Destination},
		"departureDate":           {q.DepartureDate},
		"adults":                  {strconv.Itoa(q.Adults)},
		"travelClass":             {q.TravelClass},
		"includedAirlineCodes":    {skyteamAirlines},
		"max":                     {strconv.Itoa(maxResults)},
	}
	if roundTrip {
		params.Set("returnDate", q.ReturnDate)
	}

	body, err := c.get(ctx, "/v2/shopping/flight-offers", params)
	if err != nil {
		return nil, err
	}

	var payload offersResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: decode offers: %v", ErrUpstream, err)
	}
	return processOffers(payload.Data, roundTrip), nil
}

// SearchInspiration runs a flight-destinations search.
func (c *Client) SearchInspiration(ctx context.Context, q InspirationQuery) ([]Destination, error) {
	if len(q.Origin) != 3 {
		return nil, &ValidationError{Field: "origin", Reason: "must be a 3-letter IATA airport code"}
	}

	dateParam, err := c.inspirationDateParam(q)
	if err != nil {
		return nil, err
	}
	durationParam, err := inspirationDurationParam(q)
	if err != nil {
		return nil, err
	}
	if q.MaxPrice < 0 {
		return nil, &ValidationError{Field: "max_price", Reason: "must be a positive integer"}
	}

	params := url.Values{
		"origin":        {q.Origin},
		"departureDate": {dateParam},
		"duration":      {durationParam},
		"oneWay":        {"false"},
		"viewBy":        {"DESTINATION"},
	}
	if q.MaxPrice > 0 {
		params.Set("maxPrice", strconv.Itoa(q.MaxPrice))
	}

	body, err := c.get(ctx, "/v1/shopping/flight-destinations", params)
	if err != nil {
		return nil, err
	}

	var payload destinationsResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: decode destinations: %v", ErrUpstream, err)
	}

	out := make([]Destination, 0, len(payload.Data))
	for _, item := range payload.Data {
		out = append(out, Destination{
			Origin:           item.Origin,
			Destination:      item.Destination,
			DepartureDate:    item.DepartureDate,
			ReturnDate:       item.ReturnDate,
			Price:            item.Price.Total,
			FlightOffersLink: item.Links.FlightOffers,
		})
	}
	return out, nil
}

func (c *Client) inspirationDateParam(q InspirationQuery) (string, error) {
	start, err := c.validateInspirationDate(q.DepartureStart)
	if err != nil {
		return "", err
	}
	if q.DepartureEnd == "" {
		return start, nil
	}
	end, err := c.validateInspirationDate(q.DepartureEnd)
	if err != nil {
		return "", err
	}
	if start >= end {
		return "", &ValidationError{Field: "date_range", Reason: "end date must be after start date"}
	}
	return start + "," + end, nil
}

func (c *Client) validateInspirationDate(value string) (string, error) {
	d, err := time.Parse(dateLayout, value)
	if err != nil {
		return "", &ValidationError{Field: "date_range",
			Reason: fmt.Sprintf("invalid date %q, use YYYY-MM-DD format", value)}
	}
	// Parsed dates sit at UTC midnight, so build today's calendar date in
	// UTC from the local clock rather than truncating the instant.
	now := c.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if d.Before(today) {
		return "", &ValidationError{Field: "date_range", Reason: "departure date cannot be in the past"}
	}
	if d.After(today.AddDate(0, 0, inspirationHorizonDays)) {
		return "", &ValidationError{Field: "date_range",
			Reason: fmt.Sprintf("departure date cannot be more than %d days in the future", inspirationHorizonDays)}
	}
	return d.Format(dateLayout), nil
}

func inspirationDurationParam(q InspirationQuery) (string, error) {
	if q.DurationMax == 0 {
		if q.DurationMin < 1 || q.DurationMin > 14 {
			return "", &ValidationError{Field: "duration", Reason: "must be between 1 and 14 days"}
		}
		return strconv.Itoa(q.DurationMin), nil
	}
	if q.DurationMin >= q.DurationMax {
		return "", &ValidationError{Field: "duration", Reason: "maximum duration must be greater than minimum"}
	}
	if q.DurationMin < 1 || q.DurationMax > 14 {
		return "", &ValidationError{Field: "duration", Reason: "must be between 1 and 14 days"}
	}
	return fmt.Sprintf("%d,%d", q.DurationMin, q.DurationMax), nil
}

// get performs an authenticated GET and classifies failures into the package
// error taxonomy.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrUpstream, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpc.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrUpstream, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: status %d", ErrAuth, resp.StatusCode)
	case resp.StatusCode == http.StatusBadRequest && hasErrorCode(body, "6003"):
		return nil, ErrNoFlights
	default:
		return nil, fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, string(body))
	}
}

func hasErrorCode(body []byte, code string) bool {
	var payload apiErrorResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return false
	}
	for _, e := range payload.Errors {
		if fmt.Sprint(e.Code) == code {
			return true
		}
	}
	return false
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
