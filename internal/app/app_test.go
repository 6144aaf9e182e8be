package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/hyperifyio/lyricsai/internal/fetch"
	"github.com/hyperifyio/lyricsai/internal/finder"
	"github.com/hyperifyio/lyricsai/internal/query"
)

func songPage(lines int) string {
	var b strings.Builder
	b.WriteString(`<html><body><div id="nav"><div>Home</div></div><div class="lyrics">[Chorus]<br>`)
	for i := 0; i < lines; i++ {
		fmt.Fprintf(&b, "Whisper words of wisdom, let it be %d<br>\n", i)
	}
	b.WriteString(`</div></body></html>`)
	return b.String()
}

// newSearchServer serves a results page at /search and three candidates:
// an audio file, a short page and the lyrics page.
func newSearchServer(t *testing.T, snippet string) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if r.URL.Query().Get("num") == "" {
			fmt.Fprintf(w, `<html><body>%s</body></html>`, snippet)
			return
		}
		fmt.Fprintf(w, `<html><body>
<div class="yuRUbf"><a href="%[1]s/audio.mp3">audio</a></div>
<div class="yuRUbf"><a href="%[1]s/short">short</a></div>
<div class="yuRUbf"><a href="%[1]s/short">short again</a></div>
<div class="yuRUbf"><a href="%[1]s/song">song</a></div>
</body></html>`, srv.URL)
	})
	mux.HandleFunc("/audio.mp3", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/mpeg")
	})
	mux.HandleFunc("/short", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(songPage(3)))
	})
	mux.HandleFunc("/song", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(songPage(30)))
	})
	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestApp(t *testing.T, srv *httptest.Server, reg prometheus.Registerer) *App {
	t.Helper()
	cfg := DefaultConfig()
	cfg.SearchURL = srv.URL + "/search"
	a, err := New(cfg, Deps{HTTPClient: srv.Client(), Registerer: reg})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	return a
}

func TestApp_RunFindsLyricsOnCandidatePage(t *testing.T) {
	srv := newSearchServer(t, `<p>no inline answer</p>`)
	reg := prometheus.NewRegistry()
	a := newTestApp(t, srv, reg)

	var out bytes.Buffer
	if err := a.Run(context.Background(), query.Query{Title: "Let It Be", Artist: "The Beatles"}, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	text := out.String()
	if strings.Contains(text, "[Chorus]") {
		t.Fatalf("annotation should be filtered: %q", text)
	}
	if !strings.HasPrefix(text, "Whisper words of wisdom, let it be 0\n") {
		t.Fatalf("unexpected lyrics start: %q", text)
	}
	if got := testutil.ToFloat64(a.Metrics().LookupsTotal.WithLabelValues("density")); got != 1 {
		t.Fatalf("expected density lookup counted, got %v", got)
	}
	if got := testutil.ToFloat64(a.Metrics().PageChecksTotal.WithLabelValues("rejected")); got != 1 {
		t.Fatalf("expected the audio link rejected, got %v", got)
	}
}

func TestApp_SnippetAnswer(t *testing.T) {
	srv := newSearchServer(t, `<div jsname="WbKHeb"><span>Line one</span><br><span>Line two</span></div>`)
	a := newTestApp(t, srv, nil)
	res, err := a.Find(context.Background(), query.Query{Title: "x"})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if res.Strategy != finder.StrategySnippet || res.Text != "Line one\nLine two" {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestApp_LinksAreDedupedAndFiltered(t *testing.T) {
	srv := newSearchServer(t, "")
	a := newTestApp(t, srv, nil)
	links, err := a.Links(context.Background(), query.Query{Title: "x"})
	if err != nil {
		t.Fatalf("links: %v", err)
	}
	want := []string{srv.URL + "/short", srv.URL + "/song"}
	if strings.Join(links, ",") != strings.Join(want, ",") {
		t.Fatalf("got %v want %v", links, want)
	}
}

func TestApp_EmptyTitle(t *testing.T) {
	srv := newSearchServer(t, "")
	a := newTestApp(t, srv, nil)
	if _, err := a.Find(context.Background(), query.Query{Artist: "Nobody"}); !errors.Is(err, ErrEmptyQuery) {
		t.Fatalf("expected ErrEmptyQuery, got %v", err)
	}
}

func TestApp_SearchServerDown(t *testing.T) {
	srv := newSearchServer(t, "")
	a := newTestApp(t, srv, nil)
	srv.Close()
	_, err := a.Find(context.Background(), query.Query{Title: "x"})
	var te *finder.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestApp_FileProvider(t *testing.T) {
	srv := newSearchServer(t, "")
	resultsPath := filepath.Join(t.TempDir(), "results.json")
	body := fmt.Sprintf(`[{"title":"short","url":%q},{"title":"song","url":%q}]`, srv.URL+"/short", srv.URL+"/song")
	if err := os.WriteFile(resultsPath, []byte(body), 0o644); err != nil {
		t.Fatalf("write results: %v", err)
	}
	cfg := DefaultConfig()
	cfg.SearchProvider = ProviderFile
	cfg.FileSearchPath = resultsPath
	cfg.ScanWorkers = 2
	a, err := New(cfg, Deps{HTTPClient: srv.Client()})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	res, err := a.Find(context.Background(), query.Query{Title: "x"})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if res.SourceURL != srv.URL+"/song" || res.Attempts != 2 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SearchProvider = "bing"
	if _, err := New(cfg, Deps{}); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestNew_SharedRegistererIsNotAnError(t *testing.T) {
	srv := newSearchServer(t, "")
	reg := prometheus.NewRegistry()
	first := newTestApp(t, srv, reg)
	second := newTestApp(t, srv, reg)
	first.Metrics().Lookup("density")
	second.Metrics().Lookup("density")
	if got := testutil.ToFloat64(first.Metrics().LookupsTotal.WithLabelValues("density")); got != 2 {
		t.Fatalf("expected both apps to share counters, got %v", got)
	}
}

func TestApp_MaxCandidatesCapsLinks(t *testing.T) {
	srv := newSearchServer(t, "")
	cfg := DefaultConfig()
	cfg.SearchURL = srv.URL + "/search"
	cfg.MaxCandidates = 2
	a, err := New(cfg, Deps{HTTPClient: srv.Client()})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	links, err := a.Links(context.Background(), query.Query{Title: "x"})
	if err != nil {
		t.Fatalf("links: %v", err)
	}
	// the cap applies before the HTML check, so only audio and short are considered
	if strings.Join(links, ",") != srv.URL+"/short" {
		t.Fatalf("unexpected links %v", links)
	}
}

func TestNew_MaxConcurrentReachesFetcher(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxConcurrent = 3
	a, err := New(cfg, Deps{})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	fc, ok := a.finder.Fetcher.(*fetch.Client)
	if !ok || fc.MaxConcurrent != 3 {
		t.Fatalf("expected fetch client limited to 3, got %#v", a.finder.Fetcher)
	}
}

func TestApp_LoggerReceivesDiagnostics(t *testing.T) {
	srv := newSearchServer(t, `<p>no inline answer</p>`)
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	cfg := DefaultConfig()
	cfg.SearchURL = srv.URL + "/search"
	a, err := New(cfg, Deps{HTTPClient: srv.Client(), Logger: &logger})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	var out bytes.Buffer
	if err := a.Run(context.Background(), query.Query{Title: "Let It Be"}, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	logs := buf.String()
	for _, want := range []string{"lyrics pipeline ready", "lyrics found", `"strategy":"density"`} {
		if !strings.Contains(logs, want) {
			t.Fatalf("log output missing %s: %s", want, logs)
		}
	}
}
