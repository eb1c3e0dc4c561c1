package amadeus

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestServer(t *testing.T, tokenCalls *int, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/security/oauth2/token" {
			if r.Method != http.MethodPost {
				t.Fatalf("token request method: %s", r.Method)
			}
			*tokenCalls++
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"access_token":"tok-1","expires_in":1799}`)
			return
		}
		handler(w, r)
	}))
}

func futureDate(days int) string {
	return time.Now().AddDate(0, 0, days).Format(dateLayout)
}

func TestSearchFlightsReusesToken(t *testing.T) {
	var tokenCalls, searchCalls int
	server := newTestServer(t, &tokenCalls, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/shopping/flight-offers" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Fatalf("unexpected auth header: %q", got)
		}
		searchCalls++
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":[]}`)
	})
	defer server.Close()

	client := NewClient(server.URL, "key", "secret")
	q := FlightQuery{
		Origin:        "ATL",
		Destination:   "LHR",
		DepartureDate: futureDate(30),
		Adults:        1,
		TravelClass:   ClassEconomy,
	}

	for i := 0; i < 2; i++ {
		if _, err := client.SearchFlights(context.Background(), q); err != nil {
			t.Fatalf("SearchFlights call %d: %v", i+1, err)
		}
	}
	if tokenCalls != 1 {
		t.Errorf("token endpoint called %d times, want 1 (cached)", tokenCalls)
	}
	if searchCalls != 2 {
		t.Errorf("search endpoint called %d times, want 2", searchCalls)
	}
}

func TestSearchFlightsRefreshesExpiredToken(t *testing.T) {
	var tokenCalls int
	server := newTestServer(t, &tokenCalls, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":[]}`)
	})
	defer server.Close()

	client := NewClient(server.URL, "key", "secret")
	current := time.Now()
	client.now = func() time.Time { return current }

	q := FlightQuery{
		Origin:        "ATL",
		Destination:   "LHR",
		DepartureDate: futureDate(30),
		Adults:        1,
		TravelClass:   ClassEconomy,
	}
	if _, err := client.SearchFlights(context.Background(), q); err != nil {
		t.Fatalf("first search: %v", err)
	}

	current = current.Add(tokenTTL + time.Minute)
	if _, err := client.SearchFlights(context.Background(), q); err != nil {
		t.Fatalf("second search: %v", err)
	}
	if tokenCalls != 2 {
		t.Errorf("token endpoint called %d times, want 2 (refresh after expiry)", tokenCalls)
	}
}

func TestSearchFlightsValidation(t *testing.T) {
	// Validation failures must never reach the network.
	client := NewClient("http://127.0.0.1:1", "key", "secret")

	tests := []struct {
		name      string
		q         FlightQuery
		wantField string
	}{
		{
			name:      "zero passengers",
			q:         FlightQuery{Origin: "ATL", Destination: "LHR", DepartureDate: futureDate(30), Adults: 0, TravelClass: ClassEconomy},
			wantField: "passengers",
		},
		{
			name:      "ten passengers",
			q:         FlightQuery{Origin: "ATL", Destination: "LHR", DepartureDate: futureDate(30), Adults: 10, TravelClass: ClassEconomy},
			wantField: "passengers",
		},
		{
			name:      "bad travel class",
			q:         FlightQuery{Origin: "ATL", Destination: "LHR", DepartureDate: futureDate(30), Adults: 1, TravelClass: "COACH"},
			wantField: "travel_class",
		},
		{
			name:      "bad departure date",
			q:         FlightQuery{Origin: "ATL", Destination: "LHR", DepartureDate: "05/02/2025", Adults: 1, TravelClass: ClassEconomy},
			wantField: "departure_date",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.SearchFlights(context.Background(), tt.q)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", verr.Field, tt.wantField)
			}
		})
	}
}

func TestSearchInspirationHorizon(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "key", "secret")

	_, err := client.SearchInspiration(context.Background(), InspirationQuery{
		Origin:         "ATL",
		DepartureStart: futureDate(200),
		DurationMin:    7,
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != "date_range" {
		t.Errorf("Field = %q, want date_range", verr.Field)
	}
}

func TestSearchInspirationAcceptsLocalToday(t *testing.T) {
	var tokenCalls int
	server := newTestServer(t, &tokenCalls, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":[]}`)
	})
	defer server.Close()

	client := NewClient(server.URL, "key", "secret")
	// Evening west of UTC: the UTC clock has already rolled to the next day.
	client.now = func() time.Time {
		return time.Date(2025, 6, 1, 20, 0, 0, 0, time.FixedZone("UTC-7", -7*3600))
	}

	if _, err := client.SearchInspiration(context.Background(), InspirationQuery{
		Origin:         "ATL",
		DepartureStart: "2025-06-01",
		DurationMin:    7,
	}); err != nil {
		t.Fatalf("today's local date rejected: %v", err)
	}
}

func TestSearchInspirationDurationValidation(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "key", "secret")

	tests := []struct {
		name string
		q    InspirationQuery
	}{
		{"duration too long", InspirationQuery{Origin: "ATL", DepartureStart: futureDate(30), DurationMin: 15}},
		{"inverted range", InspirationQuery{Origin: "ATL", DepartureStart: futureDate(30), DurationMin: 7, DurationMax: 5}},
		{"range over bound", InspirationQuery{Origin: "ATL", DepartureStart: futureDate(30), DurationMin: 2, DurationMax: 20}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.SearchInspiration(context.Background(), tt.q)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != "duration" {
				t.Errorf("Field = %q, want duration", verr.Field)
			}
		})
	}
}

func TestSearchInspirationNoFlightsCode(t *testing.T) {
	var tokenCalls int
	server := newTestServer(t, &tokenCalls, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/shopping/flight-destinations" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"errors":[{"code":6003,"title":"ITEM/DATA NOT FOUND OR DATA NOT EXISTING"}]}`)
	})
	defer server.Close()

	client := NewClient(server.URL, "key", "secret")
	_, err := client.SearchInspiration(context.Background(), InspirationQuery{
		Origin:         "ATL",
		DepartureStart: futureDate(30),
		DurationMin:    7,
	})
	if !errors.Is(err, ErrNoFlights) {
		t.Fatalf("expected ErrNoFlights, got %v", err)
	}
}

func TestSearchInspirationUpstreamError(t *testing.T) {
	var tokenCalls int
	server := newTestServer(t, &tokenCalls, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer server.Close()

	client := NewClient(server.URL, "key", "secret")
	_, err := client.SearchInspiration(context.Background(), InspirationQuery{
		Origin:         "ATL",
		DepartureStart: futureDate(30),
		DurationMin:    7,
	})
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestSearchInspirationResults(t *testing.T) {
	var tokenCalls int
	server := newTestServer(t, &tokenCalls, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("duration"); got != "5,7" {
			t.Fatalf("duration param = %q, want 5,7", got)
		}
		if got := r.URL.Query().Get("maxPrice"); got != "1000" {
			t.Fatalf("maxPrice param = %q, want 1000", got)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":[{"origin":"ATL","destination":"CDG","departureDate":"2025-06-01","returnDate":"2025-06-07","price":{"total":"412.00"},"links":{"flightOffers":"https://example/offers"}}]}`)
	})
	defer server.Close()

	client := NewClient(server.URL, "key", "secret")
	got, err := client.SearchInspiration(context.Background(), InspirationQuery{
		Origin:         "ATL",
		DepartureStart: futureDate(30),
		DepartureEnd:   futureDate(40),
		DurationMin:    5,
		DurationMax:    7,
		MaxPrice:       1000,
	})
	if err != nil {
		t.Fatalf("SearchInspiration: %v", err)
	}
	if len(got) != 1 || got[0].Destination != "CDG" || got[0].Price != "412.00" {
		t.Fatalf("unexpected results: %+v", got)
	}
}
