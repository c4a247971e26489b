package httpapi

import (
	stdcontext "context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Paintersrp/reap/internal/api"
	"github.com/Paintersrp/reap/internal/procs"
)

type fakeController struct {
	status  *api.StatusReport
	query   *api.QueryReport
	kill    *api.KillResult
	results []api.ResultEntry

	statusErr error
	queryErr  error
	killErr   error

	lastTerm string
	lastPID  int32
}

func (c *fakeController) Status(stdcontext.Context) (*api.StatusReport, error) {
	return c.status, c.statusErr
}

func (c *fakeController) Query(_ stdcontext.Context, term string) (*api.QueryReport, error) {
	c.lastTerm = term
	return c.query, c.queryErr
}

func (c *fakeController) Kill(_ stdcontext.Context, pid int32) (*api.KillResult, error) {
	c.lastPID = pid
	return c.kill, c.killErr
}

func (c *fakeController) Results(stdcontext.Context) ([]api.ResultEntry, error) {
	return c.results, nil
}

func newTestServer(t *testing.T, ctrl api.Controller) *Server {
	t.Helper()
	srv, err := NewServer(Config{Controller: ctrl})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return srv
}

func do(t *testing.T, srv *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	srv.srv.Handler.ServeHTTP(rec, req)
	return rec
}

func TestServerRequiresController(t *testing.T) {
	t.Parallel()

	if _, err := NewServer(Config{}); err == nil {
		t.Fatal("new server accepted a nil controller")
	}
}

func TestStatusEndpoint(t *testing.T) {
	t.Parallel()

	ctrl := &fakeController{status: &api.StatusReport{Processes: 230, Tracked: 4, SnapshotAt: time.Now()}}
	srv := newTestServer(t, ctrl)

	rec := do(t, srv, http.MethodGet, "/api/v1/status")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var report api.StatusReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if report.Processes != 230 || report.Tracked != 4 {
		t.Fatalf("report = %+v", report)
	}
}

func TestQueryEndpointPassesTerm(t *testing.T) {
	t.Parallel()

	ctrl := &fakeController{query: &api.QueryReport{Term: "chrome"}}
	srv := newTestServer(t, ctrl)

	rec := do(t, srv, http.MethodGet, "/api/v1/query?term=chrome")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if ctrl.lastTerm != "chrome" {
		t.Fatalf("controller term = %q", ctrl.lastTerm)
	}
}

func TestKillEndpoint(t *testing.T) {
	t.Parallel()

	ctrl := &fakeController{kill: &api.KillResult{PID: 42}}
	srv := newTestServer(t, ctrl)

	rec := do(t, srv, http.MethodPost, "/api/v1/kill/42")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if ctrl.lastPID != 42 {
		t.Fatalf("controller pid = %d", ctrl.lastPID)
	}
}

func TestKillEndpointRejectsBadPID(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &fakeController{})
	for _, raw := range []string{"abc", "-5", "0", ""} {
		rec := do(t, srv, http.MethodPost, "/api/v1/kill/"+raw)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("pid %q: status = %d, want 400", raw, rec.Code)
		}
		var body errorBody
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.Code != "invalid_pid" {
			t.Fatalf("pid %q: code = %q", raw, body.Code)
		}
	}
}

func TestKillEndpointErrorMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err    error
		status int
		code   string
	}{
		{procs.ErrNotFound, http.StatusNotFound, "process_not_found"},
		{procs.ErrAccessDenied, http.StatusForbidden, "permission_denied"},
		{fmt.Errorf("signal delivery: %w", procs.ErrNotFound), http.StatusNotFound, "process_not_found"},
		{stdcontext.Canceled, 499, "context_canceled"},
		{fmt.Errorf("boom"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		srv := newTestServer(t, &fakeController{killErr: tc.err})
		rec := do(t, srv, http.MethodPost, "/api/v1/kill/10")
		if rec.Code != tc.status {
			t.Fatalf("%v: status = %d, want %d", tc.err, rec.Code, tc.status)
		}
		var body errorBody
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.Code != tc.code {
			t.Fatalf("%v: code = %q, want %q", tc.err, body.Code, tc.code)
		}
	}
}

func TestMethodNotAllowed(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &fakeController{})
	rec := do(t, srv, http.MethodPost, "/api/v1/status")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
	if got := rec.Header().Get("Allow"); got != http.MethodGet {
		t.Fatalf("allow header = %q", got)
	}
}

func TestResultsEndpoint(t *testing.T) {
	t.Parallel()

	ctrl := &fakeController{results: []api.ResultEntry{{ID: "r1", Title: "nginx (PID: 42)"}}}
	srv := newTestServer(t, ctrl)

	rec := do(t, srv, http.MethodGet, "/api/v1/results")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var payload struct {
		Results []api.ResultEntry `json:"results"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Results) != 1 || payload.Results[0].ID != "r1" {
		t.Fatalf("results = %+v", payload.Results)
	}
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &fakeController{})
	rec := do(t, srv, http.MethodGet, "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &fakeController{})
	rec := do(t, srv, http.MethodGet, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestNormalizeAddr(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"", "127.0.0.1:7663"},
		{"  ", "127.0.0.1:7663"},
		{"0.0.0.0:8080", "127.0.0.1:8080"},
		{":9000", "127.0.0.1:9000"},
		{"192.168.1.5:7663", "192.168.1.5:7663"},
		{"localhost", "localhost"},
	}
	for _, tc := range cases {
		if got := normalizeAddr(tc.in); got != tc.want {
			t.Fatalf("normalizeAddr(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
