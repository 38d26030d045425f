package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/joestump/tallybot/internal/command"
	"github.com/joestump/tallybot/internal/handler"
	"github.com/joestump/tallybot/internal/kv"
	"github.com/joestump/tallybot/internal/ratelimit"
	"github.com/joestump/tallybot/internal/store"
)

type testEnv struct {
	Router   http.Handler
	Counters *store.Collection[store.Counter]
}

func newTestEnv(t *testing.T, limiter *ratelimit.Limiter) *testEnv {
	t.Helper()
	counters := store.NewCounters(kv.NewMemoryStore[store.Namespace[store.Counter]](), nil)
	tags := store.NewTags(kv.NewMemoryStore[store.Namespace[store.Tag]](), nil)
	d := command.New(command.Deps{
		Prefix:   ";",
		BotName:  "tallybot",
		Counters: counters,
		Tags:     tags,
		Limiter:  limiter,
	})
	return &testEnv{
		Router:   handler.NewRouter(handler.Deps{Dispatcher: d}),
		Counters: counters,
	}
}

func (e *testEnv) post(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/commands", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.Router.ServeHTTP(rec, req)
	return rec
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp
}

func TestCommands_OK(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.post(t, `{"actor_id": 1, "location_id": 42, "content": ";counter create wins"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content-type = %q, want application/json", ct)
	}

	var resp struct {
		Reply string `json:"reply"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if want := `Counter "wins" successfully created.`; resp.Reply != want {
		t.Errorf("reply = %q, want %q", resp.Reply, want)
	}

	if _, err := env.Counters.Get(store.InLocation(42), "wins"); err != nil {
		t.Errorf("counter not stored in location 42: %v", err)
	}
	if _, err := env.Counters.Get(store.Generic, "wins"); err == nil {
		t.Error("counter leaked into the generic namespace")
	}
}

func TestCommands_GenericWithoutLocation(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.post(t, `{"actor_id": 1, "content": ";counter create wins"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	c, err := env.Counters.Get(store.InLocation(7), "wins")
	if err != nil {
		t.Fatalf("generic counter not visible from location 7: %v", err)
	}
	if !c.IsGeneric() {
		t.Error("counter should be generic")
	}
}

func TestCommands_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		code   string
		msg    string
	}{
		{
			name:   "malformed json",
			body:   `{"actor_id": `,
			status: http.StatusBadRequest,
			code:   "bad_request",
		},
		{
			name:   "unknown field",
			body:   `{"actor_id": 1, "content": ";counter list", "admin": true}`,
			status: http.StatusBadRequest,
			code:   "bad_request",
		},
		{
			name:   "missing actor",
			body:   `{"content": ";counter list"}`,
			status: http.StatusBadRequest,
			code:   "bad_request",
			msg:    "actor_id is required",
		},
		{
			name:   "zero location",
			body:   `{"actor_id": 1, "location_id": 0, "content": ";counter create wins"}`,
			status: http.StatusBadRequest,
			code:   "bad_request",
			msg:    "location_id must not be 0; omit it for generic",
		},
		{
			name:   "no prefix",
			body:   `{"actor_id": 1, "content": "counter list"}`,
			status: http.StatusBadRequest,
			code:   "bad_request",
			msg:    "message is not a command",
		},
		{
			name:   "not found",
			body:   `{"actor_id": 1, "content": ";counter nope"}`,
			status: http.StatusUnprocessableEntity,
			code:   "command_failed",
			msg:    "Counter not found.",
		},
		{
			name:   "unknown command",
			body:   `{"actor_id": 1, "content": ";dance"}`,
			status: http.StatusUnprocessableEntity,
			code:   "command_failed",
			msg:    `Unknown command "dance".`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, nil)

			rec := env.post(t, tt.body)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d; body: %s", rec.Code, tt.status, rec.Body.String())
			}
			resp := decodeError(t, rec)
			if resp.Code != tt.code {
				t.Errorf("code = %q, want %q", resp.Code, tt.code)
			}
			if tt.msg != "" && resp.Error != tt.msg {
				t.Errorf("error = %q, want %q", resp.Error, tt.msg)
			}
		})
	}
}

func TestCommands_RateLimited(t *testing.T) {
	env := newTestEnv(t, ratelimit.New(1, 1))
	body := `{"actor_id": 1, "content": ";counter list"}`

	if rec := env.post(t, body); rec.Code != http.StatusOK {
		t.Fatalf("first status = %d, want %d", rec.Code, http.StatusOK)
	}
	rec := env.post(t, body)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusTooManyRequests)
	}
	resp := decodeError(t, rec)
	if resp.Code != "rate_limited" {
		t.Errorf("code = %q, want rate_limited", resp.Code)
	}
	if !strings.HasPrefix(resp.Error, "Try this again in ") {
		t.Errorf("error = %q", resp.Error)
	}
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t, nil)

	req := httptest.NewRequest("GET", "/healthz", nil)
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestMetrics(t *testing.T) {
	env := newTestEnv(t, nil)
	env.post(t, `{"actor_id": 1, "content": ";counter list"}`)

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "tallybot_commands_total") {
		t.Error("commands counter missing from /metrics")
	}
}
