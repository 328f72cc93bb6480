package web

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/KaramelBytes/mused/internal/dataset"
	"github.com/KaramelBytes/mused/internal/reactive"
)

func newTestServer(t *testing.T, opt Options) *Server {
	t.Helper()
	tbl := dataset.NewTable("test", []dataset.Track{
		{SongTrack: "A", Artist: "Bono", Genre: "Rock", UnitPriceDollars: 0.99, TotalRuntimeMin: 3.0, SongSizeMB: 6},
		{SongTrack: "B", Artist: "Bono", Genre: "Rock", UnitPriceDollars: 1.99, TotalRuntimeMin: 6.0, SongSizeMB: 9},
		{SongTrack: "Hello", Artist: "Adele", Genre: "Pop", UnitPriceDollars: 1.29, TotalRuntimeMin: 4.9, SongSizeMB: 9.5},
	})
	st, err := NewState(tbl)
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}
	return NewServer(st, opt)
}

func sessionCookie(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name == SessionCookie {
			return c
		}
	}
	t.Fatalf("no %s cookie set", SessionCookie)
	return nil
}

func callback(s *Server, ck *http.Cookie, trigger string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/callback", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")
	if trigger != "" {
		req.Header.Set("HX-Trigger-Name", trigger)
	}
	if ck != nil {
		req.AddCookie(ck)
	}
	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, req)
	return rr
}

func TestIndexPage(t *testing.T) {
	s := newTestServer(t, Options{})
	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{
		"Mused: An Itunes Music Dashboard",
		"Ama Assiamah. Data Copyright: Apple. @2023",
		"This Dashboard showcases the music playlist over a period of time.",
		"Total Number of Songs",
		"Pick a Genre",
		"Choose how long you want the song to be!",
		"Select an Artist",
		"What did you select? Choose from the menus above!",
		reactive.PlaceholderText,
		`href="www.google.com"`,
		`<option value="Rock">Rock</option>`,
		`<option value="Adele">Adele</option>`,
		`hx-post="/callback"`,
		`id="chart-histogram"`,
		"<svg",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
	sessionCookie(t, rr)
	if s.Sessions().Len() != 1 {
		t.Fatalf("sessions = %d", s.Sessions().Len())
	}
}

func TestUnknownPathIs404(t *testing.T) {
	s := newTestServer(t, Options{})
	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestCallbackReturnsOutOfBandSwaps(t *testing.T) {
	s := newTestServer(t, Options{})
	idx := httptest.NewRecorder()
	s.ServeHTTP(idx, httptest.NewRequest(http.MethodGet, "/", nil))
	ck := sessionCookie(t, idx)

	form := url.Values{"genre": {"Rock"}, "artist": {"Bono"}, "runtime_min": {"1"}, "runtime_max": {"5"}}
	rr := callback(s, ck, "artist", form)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body.String())
	}
	body := rr.Body.String()
	if !strings.Contains(body, `id="output"`) || !strings.Contains(body, `hx-swap-oob="true"`) {
		t.Fatalf("missing output swap: %s", body)
	}
	if !strings.Contains(body, "Artist: Bono.\nGenre: Rock.\nThese are the list of songs available for this artist: [&#39;A&#39;]") {
		t.Fatalf("unexpected summary: %s", body)
	}
	if !strings.Contains(body, `id="site"`) || !strings.Contains(body, "q=Bono&amp;spell=1") {
		t.Fatalf("missing link swap: %s", body)
	}
}

func TestCallbackRuntimeOnlyUpdatesText(t *testing.T) {
	s := newTestServer(t, Options{})
	form := url.Values{"runtime_min": {"0"}, "runtime_max": {"9"}}
	rr := callback(s, nil, "runtime_max", form)
	body := rr.Body.String()
	if !strings.Contains(body, `id="output"`) || strings.Contains(body, `id="site"`) {
		t.Fatalf("runtime change should only swap output: %s", body)
	}
	// No prior session: a new one is issued with default selections.
	sessionCookie(t, rr)
	if !strings.Contains(body, "Artist: Artist.") {
		t.Fatalf("expected default artist: %s", body)
	}
}

func TestCallbackSessionsAreIsolated(t *testing.T) {
	s := newTestServer(t, Options{})
	a := sessionCookie(t, callback(s, nil, "artist", url.Values{"artist": {"Bono"}, "genre": {"Rock"}}))
	b := sessionCookie(t, callback(s, nil, "artist", url.Values{"artist": {"Adele"}, "genre": {"Pop"}}))

	rr := callback(s, a, "runtime_max", url.Values{"runtime_min": {"0"}, "runtime_max": {"9"}})
	if !strings.Contains(rr.Body.String(), "Artist: Bono.") {
		t.Fatalf("session a lost its artist: %s", rr.Body.String())
	}
	rr = callback(s, b, "runtime_max", url.Values{"runtime_min": {"0"}, "runtime_max": {"9"}})
	if !strings.Contains(rr.Body.String(), "Artist: Adele.") || !strings.Contains(rr.Body.String(), "[&#39;Hello&#39;]") {
		t.Fatalf("session b leaked or lost state: %s", rr.Body.String())
	}
}

func TestCallbackBadRuntimeKeepsCurrentValues(t *testing.T) {
	s := newTestServer(t, Options{})
	form := url.Values{"artist": {"Bono"}, "genre": {"Rock"}, "runtime_min": {"abc"}, "runtime_max": {"5"}}
	req := httptest.NewRequest(http.MethodPost, "/callback", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp struct {
		Controls reactive.Controls `json:"controls"`
		Updates  []reactive.Update `json:"updates"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Controls.Runtime != reactive.DefaultControls().Runtime {
		t.Fatalf("runtime = %v, want defaults", resp.Controls.Runtime)
	}
	if resp.Controls.Artist != "Bono" || len(resp.Updates) != 2 {
		t.Fatalf("resp = %+v", resp)
	}
	// Default max runtime 7.5 keeps both rows.
	if !strings.HasSuffix(resp.Updates[0].Text, "['A', 'B']") {
		t.Fatalf("text = %q", resp.Updates[0].Text)
	}
}

func TestCallbackRateLimited(t *testing.T) {
	s := newTestServer(t, Options{RatePerSec: 0.001, Burst: 1})
	if rr := callback(s, nil, "", url.Values{}); rr.Code != http.StatusOK {
		t.Fatalf("first call status = %d", rr.Code)
	}
	if rr := callback(s, nil, "", url.Values{}); rr.Code != http.StatusTooManyRequests {
		t.Fatalf("second call status = %d, want 429", rr.Code)
	}
}

func TestJSONEndpoints(t *testing.T) {
	s := newTestServer(t, Options{})
	cases := []struct {
		path   string
		status int
		want   string
	}{
		{"/api/stats", http.StatusOK, `"song_count":3`},
		{"/api/charts/pie", http.StatusOK, `"title":"PIE CHART OF GENRES PRESENT"`},
		{"/api/charts/scatter", http.StatusOK, `"kind":"scatter"`},
		{"/api/charts/bogus", http.StatusNotFound, `"error"`},
		{"/api/charts/histogram.svg", http.StatusOK, "<svg"},
		{"/healthz", http.StatusOK, `"rows":3`},
	}
	for _, c := range cases {
		rr := httptest.NewRecorder()
		s.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, c.path, nil))
		if rr.Code != c.status || !strings.Contains(rr.Body.String(), c.want) {
			t.Errorf("%s: %d %s", c.path, rr.Code, rr.Body.String())
		}
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	s := newTestServer(t, Options{SweepInterval: 10 * time.Millisecond})
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln, time.Second) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("server did not shut down")
	}
}

func TestChartsIgnoreControls(t *testing.T) {
	s := newTestServer(t, Options{})
	get := func() string {
		rr := httptest.NewRecorder()
		s.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/charts/scatter", nil))
		return rr.Body.String()
	}
	before := get()
	callback(s, nil, "artist", url.Values{"genre": {"Rock"}, "artist": {"Bono"}, "runtime_min": {"0"}, "runtime_max": {"1.5"}})
	if after := get(); after != before {
		t.Fatalf("chart changed after a control update")
	}
}

func TestIndexReusesSession(t *testing.T) {
	s := newTestServer(t, Options{})
	first := httptest.NewRecorder()
	s.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	ck := sessionCookie(t, first)

	callback(s, ck, "artist", url.Values{"artist": {"Bono"}, "genre": {"Rock"}})
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(ck)
		rr := httptest.NewRecorder()
		s.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d", rr.Code)
		}
		if len(rr.Result().Cookies()) != 0 {
			t.Fatalf("reload issued a new session cookie")
		}
	}
	if n := s.Sessions().Len(); n != 1 {
		t.Fatalf("sessions = %d, want 1", n)
	}
	// The reload shows defaults, so the stored selection is reset too.
	c, ok := s.Sessions().Get(ck.Value)
	if !ok || c != reactive.DefaultControls() {
		t.Fatalf("session after reload = %+v, %v", c, ok)
	}
}

func TestIndexRateLimitsNewSessions(t *testing.T) {
	s := newTestServer(t, Options{RatePerSec: 0.001, Burst: 1})
	first := httptest.NewRecorder()
	s.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	ck := sessionCookie(t, first)

	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("cookieless reload status = %d, want 429", rr.Code)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(ck)
	rr = httptest.NewRecorder()
	s.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("reload with a live session status = %d", rr.Code)
	}
	if n := s.Sessions().Len(); n != 1 {
		t.Fatalf("sessions = %d, want 1", n)
	}
}
