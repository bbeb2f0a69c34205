// internal/tui/explorer_test.go
package tui

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mwiater/osmchart/internal/chart"
	"github.com/mwiater/osmchart/internal/dto"
	"github.com/mwiater/osmchart/internal/fetch"
	"github.com/mwiater/osmchart/internal/urlbuilder"
)

var t0 = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func seriesDTO(identifier, server string, values ...float64) dto.EventResultSeries {
	s := dto.EventResultSeries{Identifier: identifier}
	for i, v := range values {
		s.Data = append(s.Data, dto.EventResultPoint{
			Date:    t0.Add(time.Duration(i) * time.Hour),
			Value:   dto.Float(v),
			Agent:   "agent",
			WptInfo: dto.WptInfo{BaseURL: server, TestID: fmt.Sprintf("%s-%d", identifier[:1], i), RunNumber: 1},
		})
	}
	return s
}

// twoSeries draws into 450x300 pixels. One cursor step is 6 pixels with the
// default 80 column terminal.
func twoSeries() *dto.EventResultData {
	return &dto.EventResultData{
		Series: map[string][]dto.EventResultSeries{"LOAD_TIMES": {
			seriesDTO("alpha | home", "https://wpt-a/", 100, 200, 300),
			seriesDTO("beta | home", "https://wpt-b/", 1000, 1100, 1200),
		}},
		MeasurandGroups: map[string]string{"LOAD_TIMES": "ms"},
	}
}

func newModel(opts Options) *Model {
	opts.Chart.Width, opts.Chart.Height = 600, 400
	return New(twoSeries(), opts)
}

func press(m *Model, keys ...string) {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m.Update(msg)
	}
}

func TestQuit(t *testing.T) {
	t.Parallel()

	m := newModel(Options{})
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}); cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC}); cmd == nil {
		t.Fatal("expected a quit command")
	}
}

func TestWindowResizeIsDebounced(t *testing.T) {
	t.Parallel()

	m := newModel(Options{})
	_, cmd := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	if cmd == nil || m.Engine().State() != chart.StateResizing {
		t.Fatalf("resize did not start: state=%s", m.Engine().State())
	}
	stale := m.resizeToken
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m.Update(resizeMsg{token: stale})
	if m.Engine().State() != chart.StateResizing {
		t.Fatal("stale resize token was applied")
	}
	m.Update(resizeMsg{token: m.resizeToken})
	f := m.Engine().Frame()
	if m.Engine().State() != chart.StateIdle || f.Width != 800 || f.Opacity != 1 {
		t.Fatalf("state=%s width=%v opacity=%v", m.Engine().State(), f.Width, f.Opacity)
	}
	if m.width != 100 || m.height != 40 {
		t.Fatalf("window %dx%d", m.width, m.height)
	}
}

func TestLegendKeys(t *testing.T) {
	t.Parallel()

	m := newModel(Options{})
	legend := m.Engine().Legend()
	press(m, "tab", "enter")
	if m.Engine().Focused() != legend[1].Key {
		t.Fatalf("focused=%q want %q", m.Engine().Focused(), legend[1].Key)
	}
	press(m, "enter")
	if m.Engine().Focused() != "" {
		t.Fatal("second focus did not show all series")
	}
	press(m, "t")
	if m.Engine().Legend()[1].Visible {
		t.Fatal("toggle did not hide the series")
	}
}

func TestCursorSelectsAndOpensPoints(t *testing.T) {
	t.Parallel()

	var opened []string
	m := newModel(Options{Chart: chart.Options{Navigate: func(url string) { opened = append(opened, url) }}})
	press(m, "l")
	mk := m.Engine().Marker()
	if mk == nil || mk.Nearest.Key != "betahome" {
		t.Fatalf("marker=%+v", mk)
	}
	press(m, "s")
	if len(m.Engine().Selected()) != 1 {
		t.Fatalf("selected=%d", len(m.Engine().Selected()))
	}
	press(m, "o")
	if len(opened) != 1 || !strings.Contains(opened[0], "details.php") || m.lastURL != opened[0] {
		t.Fatalf("opened=%v last=%q", opened, m.lastURL)
	}

	// Moving down to alpha and selecting it crosses test servers.
	for i := 0; i < 25; i++ {
		press(m, "j")
	}
	if m.Engine().Marker().Nearest.Key != "alphahome" {
		t.Fatalf("marker did not move to alpha: %+v", m.Engine().Marker().Nearest)
	}
	press(m, "s")
	if m.err == nil || len(m.Engine().Selected()) != 1 {
		t.Fatalf("expected a selection conflict, err=%v selected=%d", m.err, len(m.Engine().Selected()))
	}
}

func TestPointMenu(t *testing.T) {
	t.Parallel()

	m := newModel(Options{})
	press(m, "l", "m")
	if m.Engine().Menu() == nil {
		t.Fatal("point menu did not open")
	}
	press(m, "esc")
	if m.Engine().Menu() != nil {
		t.Fatal("esc did not close the menu")
	}

	want := urlbuilder.Summary(m.Engine().Marker().Nearest.Point.Source)
	press(m, "m", "enter")
	if m.Engine().Menu() != nil || m.lastURL != want {
		t.Fatalf("last=%q want %q", m.lastURL, want)
	}

	press(m, "m", "j")
	if m.menuIdx != 1 {
		t.Fatalf("menu cursor=%d", m.menuIdx)
	}
	press(m, "b")
	if m.Engine().Menu() == nil {
		t.Fatal("keys other than the menu keys closed the menu")
	}
}

func TestBrushAndReset(t *testing.T) {
	t.Parallel()

	m := newModel(Options{})
	press(m, "z")
	if m.Engine().State() != chart.StateBrushing {
		t.Fatalf("state=%s", m.Engine().State())
	}
	for i := 0; i < 20; i++ {
		press(m, "l")
	}
	press(m, "z")
	if !m.Engine().Scales().Zoomed() || m.Engine().State() != chart.StateIdle {
		t.Fatal("brush did not zoom")
	}
	press(m, "r")
	if m.Engine().Scales().Zoomed() {
		t.Fatal("reset kept the zoom")
	}

	press(m, "z", "z")
	if m.Engine().Scales().Zoomed() || m.status != "brush too narrow" {
		t.Fatalf("zero width brush zoomed, status=%q", m.status)
	}
}

func TestLoadedMessages(t *testing.T) {
	t.Parallel()

	m := New(nil, Options{})
	if m.Engine().Status() != chart.StatusLoading {
		t.Fatalf("status=%s", m.Engine().Status())
	}
	m.Update(loadedMsg{err: fmt.Errorf("GET x: %w", fetch.ErrStale)})
	if m.err != nil || m.Engine().Status() != chart.StatusLoading {
		t.Fatal("stale response was not discarded")
	}
	m.Update(loadedMsg{err: errors.New("boom")})
	if m.err == nil {
		t.Fatal("load error not reported")
	}
	m.Update(loadedMsg{data: *twoSeries()})
	if m.err != nil || m.Engine().Status() != chart.StatusReady {
		t.Fatalf("status=%s err=%v", m.Engine().Status(), m.err)
	}
}

func TestInitFetchesSource(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"series": {"LOAD_TIMES": [{"identifier": "alpha | home", "data": [{"date": "2024-05-01T10:00:00Z", "value": 100}]}]}}`))
	}))
	defer server.Close()

	m := New(nil, Options{Source: server.URL, Fetcher: fetch.New(server.Client(), time.Second)})
	cmd := m.Init()
	if cmd == nil {
		t.Fatal("Init did not fetch")
	}
	m.Update(cmd())
	if m.Engine().Status() != chart.StatusReady || m.Engine().Chart().SeriesCount() != 1 {
		t.Fatalf("status=%s err=%v", m.Engine().Status(), m.err)
	}
}

func TestWriteAndView(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "chart.svg")
	m := newModel(Options{Output: out})
	press(m, "w")
	data, err := os.ReadFile(out)
	if err != nil || !strings.Contains(string(data), "<svg") {
		t.Fatalf("svg not written: %v", err)
	}

	view := m.View()
	for _, want := range []string{"alpha | home", "beta | home", "wrote " + out, "quit"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q", want)
		}
	}
}
