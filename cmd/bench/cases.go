// README: Smoke-test cases: health, session lifecycle, input validation, optional live chat and archive checks.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Runner struct {
	cfg   Config
	httpc *http.Client
	db    *pgxpool.Pool
}

type Result struct {
	Name    string
	Status  string
	Latency time.Duration
	Note    string
}

type TestCase struct {
	Name string
	Run  func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 30 * time.Second},
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.DSN != "" {
		if db, err := pgxpool.New(ctx, r.cfg.DSN); err == nil {
			r.db = db
		}
	}

	tests := r.cases()
	results := make([]Result, 0, len(tests))

	for _, tc := range tests {
		start := time.Now()
		res := tc.Run(ctx, r)
		if res.Latency == 0 {
			res.Latency = time.Since(start)
		}
		res.Name = tc.Name
		results = append(results, res)
		fmt.Printf("%-5s %s (%s)", res.Status, res.Name, res.Latency.Round(time.Millisecond))
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}

	if r.db != nil {
		r.db.Close()
	}
	return results
}

func (r *Runner) cases() []TestCase {
	base := r.cfg.BaseURL
	return []TestCase{
		{
			Name: "API: health",
			Run: func(ctx context.Context, r *Runner) Result {
				status, _, err := r.doJSON(ctx, http.MethodGet, base+"/health", nil)
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				if status != http.StatusOK {
					return Result{Status: "FAIL", Note: fmt.Sprintf("status %d", status)}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name: "API: create and reset session",
			Run: func(ctx context.Context, r *Runner) Result {
				id, err := r.createSession(ctx)
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				status, _, err := r.doJSON(ctx, http.MethodDelete, base+"/api/sessions/"+id, nil)
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				if status != http.StatusNoContent {
					return Result{Status: "FAIL", Note: fmt.Sprintf("reset status %d", status)}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name: "API: blank message rejected",
			Run: func(ctx context.Context, r *Runner) Result {
				id, err := r.createSession(ctx)
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				status, _, err := r.doJSON(ctx, http.MethodPost, base+"/api/sessions/"+id+"/messages", map[string]string{"message": "  "})
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				if status != http.StatusBadRequest {
					return Result{Status: "FAIL", Note: fmt.Sprintf("status %d, want 400", status)}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name: "API: unknown session rejected",
			Run: func(ctx context.Context, r *Runner) Result {
				status, _, err := r.doJSON(ctx, http.MethodPost, base+"/api/sessions/no-such-session/messages", map[string]string{"message": "hi"})
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				if status != http.StatusNotFound {
					return Result{Status: "FAIL", Note: fmt.Sprintf("status %d, want 404", status)}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name: "API: live chat round trip",
			Run: func(ctx context.Context, r *Runner) Result {
				if !r.cfg.Chat {
					return Result{Status: "SKIP", Note: "chat=false"}
				}
				id, err := r.createSession(ctx)
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				status, body, err := r.doJSON(ctx, http.MethodPost, base+"/api/sessions/"+id+"/messages", map[string]string{"message": "I want to book a flight"})
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				if status != http.StatusOK {
					return Result{Status: "FAIL", Note: fmt.Sprintf("status %d", status)}
				}
				var resp struct {
					Reply  string `json:"reply"`
					Intent string `json:"intent"`
				}
				if err := json.Unmarshal(body, &resp); err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				if resp.Reply == "" {
					return Result{Status: "FAIL", Note: "empty reply on first turn"}
				}
				return Result{Status: "PASS", Note: "intent=" + resp.Intent}
			},
		},
		{
			Name: "DB: turn archive table",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: "SKIP", Note: "dsn not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				var n int
				err := r.db.QueryRow(ctx, `SELECT count(*) FROM conversation_turns`).Scan(&n)
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				return Result{Status: "PASS", Note: fmt.Sprintf("%d turns archived", n)}
			},
		},
	}
}

func (r *Runner) createSession(ctx context.Context) (string, error) {
	status, body, err := r.doJSON(ctx, http.MethodPost, r.cfg.BaseURL+"/api/sessions", nil)
	if err != nil {
		return "", err
	}
	if status != http.StatusCreated {
		return "", fmt.Errorf("create session status %d", status)
	}
	var resp struct {
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", err
	}
	if resp.SessionID == "" {
		return "", fmt.Errorf("missing session_id in %s", body)
	}
	return resp.SessionID, nil
}

func (r *Runner) doJSON(ctx context.Context, method, url string, payload any) (int, []byte, error) {
	var buf bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&buf).Encode(payload); err != nil {
			return 0, nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := r.httpc.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, body, nil
}
