// README: Handler tests for the conversation API.
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"skylane/internal/amadeus"
	skyhttp "skylane/internal/http"
	"skylane/internal/modules/conversation"
)

// scriptedProvider feeds canned model replies in call order.
type scriptedProvider struct {
	replies []string
	calls   int
}

func (p *scriptedProvider) CompleteStructured(_ context.Context, _, _ string) (json.RawMessage, error) {
	if p.calls >= len(p.replies) {
		return json.RawMessage(`{}`), nil
	}
	reply := p.replies[p.calls]
	p.calls++
	return json.RawMessage(reply), nil
}

type stubSearcher struct{}

func (stubSearcher) SearchFlights(context.Context, amadeus.FlightQuery) (*amadeus.FlightResult, error) {
	return &amadeus.FlightResult{OneWay: &amadeus.OneWayResult{Count: 1}}, nil
}

func (stubSearcher) SearchInspiration(context.Context, amadeus.InspirationQuery) ([]amadeus.Destination, error) {
	return []amadeus.Destination{
		{Destination: "LIS", Price: "310.00"},
		{Destination: "BCN", Price: "120.00"},
		{Destination: "ATH", Price: "not-a-price"},
	}, nil
}

func buildTestRouter(provider *scriptedProvider) *gin.Engine {
	gin.SetMode(gin.TestMode)
	conv := conversation.NewService(provider, stubSearcher{}, nil)
	return skyhttp.NewRouter(conv)
}

func doRequest(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createSession(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w := doRequest(r, http.MethodPost, "/api/sessions", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create session status = %d", w.Code)
	}
	var resp struct {
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.SessionID == "" {
		t.Fatalf("bad create response %q (%v)", w.Body.String(), err)
	}
	return resp.SessionID
}

func TestPostMessageValidation(t *testing.T) {
	r := buildTestRouter(&scriptedProvider{})
	id := createSession(t, r)

	w := doRequest(r, http.MethodPost, "/api/sessions/"+id+"/messages", map[string]string{"message": "   "})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("blank message status = %d, want 400", w.Code)
	}

	w = doRequest(r, http.MethodPost, "/api/sessions/nope/messages", map[string]string{"message": "hi"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown session status = %d, want 404", w.Code)
	}
}

func TestMessageRoundTrip(t *testing.T) {
	provider := &scriptedProvider{replies: []string{
		`{"intent": "direct_flight"}`,
		`{"origin": "ATL"}`,
		`{"response": "Got it, where to?"}`,
	}}
	r := buildTestRouter(provider)
	id := createSession(t, r)

	w := doRequest(r, http.MethodPost, "/api/sessions/"+id+"/messages", map[string]string{"message": "flight from Atlanta"})
	if w.Code != http.StatusOK {
		t.Fatalf("message status = %d", w.Code)
	}
	var resp struct {
		Reply           string `json:"reply"`
		Intent          string `json:"intent"`
		SearchCompleted bool   `json:"search_completed"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response: %v", err)
	}
	if resp.Reply != "Got it, where to?" || resp.Intent != "direct_flight" || resp.SearchCompleted {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestResultsSortedByPrice(t *testing.T) {
	provider := &scriptedProvider{replies: []string{
		`{"intent": "inspiration"}`,
		`{"origin": "MAD", "date_range": "2025-10-01", "duration": 7}`,
	}}
	r := buildTestRouter(provider)
	id := createSession(t, r)

	w := doRequest(r, http.MethodGet, "/api/sessions/"+id+"/results", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("results before search status = %d, want 404", w.Code)
	}

	w = doRequest(r, http.MethodPost, "/api/sessions/"+id+"/messages", map[string]string{"message": "a week somewhere from Madrid in October"})
	var turn struct {
		Reply           string `json:"reply"`
		SearchCompleted bool   `json:"search_completed"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &turn); err != nil {
		t.Fatalf("bad turn response: %v", err)
	}
	if turn.Reply != "" || !turn.SearchCompleted {
		t.Fatalf("dispatch turn = %+v, want silent completed turn", turn)
	}

	w = doRequest(r, http.MethodGet, "/api/sessions/"+id+"/results", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("results status = %d", w.Code)
	}
	var resp struct {
		Destinations []amadeus.Destination `json:"destinations"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad results: %v", err)
	}
	if len(resp.Destinations) != 3 {
		t.Fatalf("destinations = %d, want 3", len(resp.Destinations))
	}
	if resp.Destinations[0].Destination != "BCN" || resp.Destinations[1].Destination != "LIS" || resp.Destinations[2].Destination != "ATH" {
		t.Fatalf("unexpected order %+v", resp.Destinations)
	}
}

func TestResetSession(t *testing.T) {
	r := buildTestRouter(&scriptedProvider{})
	id := createSession(t, r)

	w := doRequest(r, http.MethodDelete, "/api/sessions/"+id, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("reset status = %d, want 204", w.Code)
	}

	w = doRequest(r, http.MethodPost, "/api/sessions/"+id+"/messages", map[string]string{"message": "hi"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("message after reset status = %d, want 404", w.Code)
	}
}
