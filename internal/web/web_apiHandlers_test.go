package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/designertech992/stocks-forecast/internal/config"
	"github.com/designertech992/stocks-forecast/internal/database"
	"github.com/google/go-cmp/cmp"
)

// newTestServer builds a server whose tips file lives in a temp dir.
// The file is only written when content is non-nil.
func newTestServer(t *testing.T, content []byte, stats *database.StatsDB) (*WebServer, string) {
	t.Helper()
	tipsPath := filepath.Join(t.TempDir(), config.DefaultTipsFile)
	if content != nil {
		writeTips(t, tipsPath, content)
	}

	mainConfig := config.NewDefaultConfig()
	mainConfig.Tips.File = tipsPath
	return NewServer(mainConfig, stats), tipsPath
}

func writeTips(t *testing.T, path string, content []byte) {
	t.Helper()
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write tips: %v", err)
	}
}

func doGet(s *WebServer, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	s.Router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) any {
	t.Helper()
	var body any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v (body %q)", err, w.Body.String())
	}
	return body
}

func TestHomePage(t *testing.T) {
	s, _ := newTestServer(t, nil, nil)

	for i := 0; i < 2; i++ {
		w := doGet(s, "/")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		if got := w.Body.String(); got != "Welcome to the Design Tips API!" {
			t.Errorf("body = %q", got)
		}
	}
}

func TestDesignTipsValid(t *testing.T) {
	s, _ := newTestServer(t, []byte(`{"tip": "use contrast"}`), nil)

	w := doGet(s, "/design_tips")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}

	want := map[string]any{"tip": "use contrast"}
	if diff := cmp.Diff(want, decodeBody(t, w)); diff != "" {
		t.Errorf("body mismatch (-want +got):\n%s", diff)
	}
}

func TestDesignTipsPreservesStructure(t *testing.T) {
	content := []byte(`{"tips": [{"id": 1, "text": "whitespace"}, {"id": 2, "text": "hierarchy"}], "version": 1.50}`)
	s, _ := newTestServer(t, content, nil)

	w := doGet(s, "/design_tips")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var want any
	if err := json.Unmarshal(content, &want); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, decodeBody(t, w)); diff != "" {
		t.Errorf("body mismatch (-want +got):\n%s", diff)
	}
}

func TestDesignTipsFailures(t *testing.T) {
	testCases := []struct {
		name    string
		content []byte
	}{
		{"missing file", nil},
		{"trailing comma", []byte(`{"tip": "use contrast",}`)},
		{"empty file", []byte{}},
		{"not json", []byte("tip = use contrast")},
		{"invalid utf-8", []byte("{\"tip\": \"caf\xe9\"}")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, _ := newTestServer(t, tc.content, nil)

			w := doGet(s, "/design_tips")
			if w.Code != http.StatusInternalServerError {
				t.Fatalf("status = %d, want 500", w.Code)
			}

			body, ok := decodeBody(t, w).(map[string]any)
			if !ok {
				t.Fatalf("expected JSON object, got %s", w.Body.String())
			}
			msg, ok := body["error"].(string)
			if !ok || msg == "" {
				t.Errorf("expected non-empty error field, got %v", body)
			}
			if len(body) != 1 {
				t.Errorf("expected only the error field, got %v", body)
			}
		})
	}
}

func assertSingleError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500 (body %s)", w.Code, w.Body.String())
	}
	body, ok := decodeBody(t, w).(map[string]any)
	if !ok || len(body) != 1 {
		t.Fatalf("expected a single error field, got %s", w.Body.String())
	}
	msg, _ := body["error"].(string)
	if msg == "" {
		t.Fatalf("expected non-empty error field, got %v", body)
	}
	return msg
}

func TestDesignTipsPathIsDirectory(t *testing.T) {
	s, _ := newTestServer(t, nil, nil)
	s.Tips.File = t.TempDir()

	msg := assertSingleError(t, doGet(s, "/design_tips"))
	want := "read " + s.Tips.File + ": is a directory"
	if msg != want {
		t.Errorf("error = %q, want %q", msg, want)
	}
}

func TestDesignTipsPermissionDenied(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores file permissions")
	}
	s, tipsPath := newTestServer(t, []byte(`{"tip": "use contrast"}`), nil)
	if err := os.Chmod(tipsPath, 0o000); err != nil {
		t.Fatal(err)
	}

	msg := assertSingleError(t, doGet(s, "/design_tips"))
	want := "open " + tipsPath + ": permission denied"
	if msg != want {
		t.Errorf("error = %q, want %q", msg, want)
	}
}

func TestDesignTipsMissingFileMessage(t *testing.T) {
	s, tipsPath := newTestServer(t, nil, nil)

	w := doGet(s, "/design_tips")

	body, _ := decodeBody(t, w).(map[string]any)
	want := "open " + tipsPath + ": no such file or directory"
	if body["error"] != want {
		t.Errorf("error = %q, want %q", body["error"], want)
	}
}

func TestDesignTipsIdempotent(t *testing.T) {
	s, _ := newTestServer(t, []byte(`{"tips": ["contrast", "alignment"]}`), nil)

	first := doGet(s, "/design_tips")
	second := doGet(s, "/design_tips")
	if first.Code != second.Code {
		t.Errorf("status changed: %d then %d", first.Code, second.Code)
	}
	if first.Body.String() != second.Body.String() {
		t.Errorf("body changed:\n%s\n%s", first.Body.String(), second.Body.String())
	}
}

func TestDesignTipsReadsFreshFile(t *testing.T) {
	s, tipsPath := newTestServer(t, []byte(`{"tip": "use contrast"}`), nil)

	if w := doGet(s, "/design_tips"); w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	writeTips(t, tipsPath, []byte(`{"tip": "use grids"}`))
	w := doGet(s, "/design_tips")
	if diff := cmp.Diff(map[string]any{"tip": "use grids"}, decodeBody(t, w)); diff != "" {
		t.Errorf("body mismatch (-want +got):\n%s", diff)
	}

	if err := os.Remove(tipsPath); err != nil {
		t.Fatal(err)
	}
	if w := doGet(s, "/design_tips"); w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d after removal, want 500", w.Code)
	}
}

func TestPingAndNotFound(t *testing.T) {
	s, _ := newTestServer(t, nil, nil)

	if w := doGet(s, "/ping"); w.Code != http.StatusOK || w.Body.String() != "pong" {
		t.Errorf("ping = %d %q", w.Code, w.Body.String())
	}

	w := doGet(s, "/nope")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if diff := cmp.Diff(map[string]any{"error": "not found"}, decodeBody(t, w)); diff != "" {
		t.Errorf("body mismatch (-want +got):\n%s", diff)
	}

	// stats route is not registered without a stats database
	if w := doGet(s, "/api/v1/stats"); w.Code != http.StatusNotFound {
		t.Errorf("stats status = %d without database, want 404", w.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	s, _ := newTestServer(t, nil, nil)

	w := doGet(s, "/")
	headers := map[string]string{
		"X-Frame-Options":        "DENY",
		"X-Content-Type-Options": "nosniff",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
	}
	for name, want := range headers {
		if got := w.Header().Get(name); got != want {
			t.Errorf("%s = %q, want %q", name, got, want)
		}
	}
	if got := w.Header().Get("Strict-Transport-Security"); got != "" {
		t.Errorf("HSTS should be off without SSL, got %q", got)
	}
}

func TestStatsRoute(t *testing.T) {
	statsDB, err := database.OpenStatsDB(filepath.Join(t.TempDir(), "stats.sq3"))
	if err != nil {
		t.Fatalf("OpenStatsDB: %v", err)
	}
	defer statsDB.Close()

	s, _ := newTestServer(t, []byte(`{"tip": "use contrast"}`), statsDB)

	home := doGet(s, "/")
	doGet(s, "/design_tips")
	doGet(s, "/design_tips")
	doGet(s, "/nope")

	// counting must not change the core responses
	if again := doGet(s, "/"); again.Body.String() != home.Body.String() {
		t.Errorf("home body changed with stats enabled")
	}

	w := doGet(s, "/api/v1/stats")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}

	var resp struct {
		UptimeSeconds int64 `json:"uptime_seconds"`
		Routes        []struct {
			Route string `json:"route"`
			Hits  int64  `json:"hits"`
		} `json:"routes"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode stats: %v", err)
	}

	got := make(map[string]int64)
	for _, r := range resp.Routes {
		got[r.Route] = r.Hits
	}
	want := map[string]int64{"/": 2, "/design_tips": 2}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("route hits mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeRoute(t *testing.T) {
	testCases := map[string]string{
		"/":              "/",
		"/api/v1/stats/": "/api/v1/stats",
		"/design_tips":   "/design_tips",
	}
	for in, want := range testCases {
		if got := normalizeRoute(in); got != want {
			t.Errorf("normalizeRoute(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestAddr(t *testing.T) {
	s, _ := newTestServer(t, nil, nil)
	s.Config.ListenHost = "0.0.0.0"
	s.Config.ListenPort = 8080
	if got := s.Addr(); got != "0.0.0.0:8080" {
		t.Errorf("Addr() = %q", got)
	}
}
