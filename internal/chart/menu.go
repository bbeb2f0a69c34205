// internal/chart/menu.go
package chart

import (
	"errors"
	"fmt"

	"github.com/mwiater/osmchart/internal/dto"
	"github.com/mwiater/osmchart/internal/timeseries"
	"github.com/mwiater/osmchart/internal/translate"
	"github.com/mwiater/osmchart/internal/urlbuilder"
)

// Action names a context menu entry. The name doubles as its translation key
// suffix.
type Action string

const (
	ActionSummary           Action = "summary"
	ActionWaterfall         Action = "waterfall"
	ActionPerformanceReview Action = "performanceReview"
	ActionContentBreakdown  Action = "contentBreakdown"
	ActionDomains           Action = "domains"
	ActionScreenshot        Action = "screenshot"
	ActionFilmstrip         Action = "filmstrip"
	ActionFilmstripTool     Action = "filmstripTool"
	ActionCompareFilmstrips Action = "compareFilmstrips"
	ActionSelectPoint       Action = "selectPoint"
	ActionDeselectPoint     Action = "deselectPoint"
	ActionDeselectAllPoints Action = "deselectAllPoints"
)

var (
	// ErrNoMenu is returned when an entry is invoked without an open menu.
	ErrNoMenu = errors.New("no context menu open")
	// ErrNotAction is returned for dividers and indexes outside the menu.
	ErrNotAction = errors.New("menu entry is not an action")
)

// MenuItem is one visible menu row.
type MenuItem struct {
	Action  Action
	Title   string
	Divider bool
}

// Menu is an open context menu. Left and Top are page coordinates.
type Menu struct {
	Left, Top float64
	Items     []MenuItem
	// Point is the point the menu was opened on, nil for the background menu.
	Point *timeseries.Point
}

type menuEntry struct {
	action  Action
	divider bool
	visible func(e *Engine, p *timeseries.Point) bool
}

func always(*Engine, *timeseries.Point) bool { return true }

func minSelected(n int) func(*Engine, *timeseries.Point) bool {
	return func(e *Engine, _ *timeseries.Point) bool { return e.selection.Count() >= n }
}

var pointMenu = []menuEntry{
	{action: ActionSummary, visible: always},
	{action: ActionWaterfall, visible: always},
	{action: ActionPerformanceReview, visible: always},
	{action: ActionContentBreakdown, visible: always},
	{action: ActionDomains, visible: always},
	{action: ActionScreenshot, visible: always},
	{action: ActionFilmstrip, visible: always},
	{action: ActionFilmstripTool, visible: always},
	{action: ActionCompareFilmstrips, visible: minSelected(1)},
	{divider: true, visible: always},
	{action: ActionSelectPoint, visible: func(e *Engine, p *timeseries.Point) bool { return !e.selection.IsSelected(*p) }},
	{action: ActionDeselectPoint, visible: func(e *Engine, p *timeseries.Point) bool { return e.selection.IsSelected(*p) }},
}

var backgroundMenu = []menuEntry{
	{action: ActionCompareFilmstrips, visible: minSelected(2)},
	{action: ActionDeselectAllPoints, visible: minSelected(1)},
}

// Menu returns the open context menu or nil.
func (e *Engine) Menu() *Menu { return e.menu }

// OnPointContext opens the point menu for the point under the marker. x and
// y are page coordinates, viewport is the page width. It reports whether a
// menu was opened.
func (e *Engine) OnPointContext(x, y, viewport float64) bool {
	if e.marker == nil {
		return false
	}
	p := e.marker.Nearest.Point
	return e.openMenu(pointMenu, &p, x, y, viewport)
}

// OnBackgroundContext opens the chart background menu.
func (e *Engine) OnBackgroundContext(x, y, viewport float64) bool {
	return e.openMenu(backgroundMenu, nil, x, y, viewport)
}

func (e *Engine) openMenu(entries []menuEntry, p *timeseries.Point, x, y, viewport float64) bool {
	var items []MenuItem
	for _, entry := range entries {
		if !entry.visible(e, p) {
			continue
		}
		if entry.divider {
			items = append(items, MenuItem{Divider: true})
			continue
		}
		items = append(items, MenuItem{
			Action: entry.action,
			Title:  e.opts.Translate(translate.ContextMenuPrefix + string(entry.action)),
		})
	}
	if len(items) == 0 {
		e.menu = nil
		return false
	}
	left := x
	if x+e.opts.MenuWidth+menuEdgeGap >= viewport {
		left = x - e.opts.MenuWidth
	}
	e.menu = &Menu{Left: left, Top: y - 2, Items: items, Point: p}
	return true
}

// CloseMenu closes the open menu.
func (e *Engine) CloseMenu() {
	e.menu = nil
}

// InvokeMenu runs the menu entry at index and closes the menu. Selection
// conflicts are returned after the menu has been closed.
func (e *Engine) InvokeMenu(index int) error {
	if e.menu == nil {
		return ErrNoMenu
	}
	if index < 0 || index >= len(e.menu.Items) || e.menu.Items[index].Divider {
		return fmt.Errorf("invoke menu entry %d: %w", index, ErrNotAction)
	}
	menu := e.menu
	e.menu = nil
	return e.run(menu.Items[index].Action, menu.Point)
}

func (e *Engine) selectedSources() []dto.WptInfo {
	selected := e.selection.All()
	out := make([]dto.WptInfo, len(selected))
	for i, p := range selected {
		out[i] = p.Source
	}
	return out
}

func (e *Engine) run(action Action, p *timeseries.Point) error {
	switch action {
	case ActionCompareFilmstrips:
		e.navigate(urlbuilder.FilmstripComparison(e.selectedSources()))
		return nil
	case ActionDeselectAllPoints:
		e.selection.Clear()
		return nil
	}
	if p == nil {
		return fmt.Errorf("%s: %w", action, ErrNotAction)
	}
	switch action {
	case ActionSummary:
		e.navigate(urlbuilder.Summary(p.Source))
	case ActionWaterfall:
		e.navigate(urlbuilder.ByOption(p.Source, urlbuilder.Waterfall))
	case ActionPerformanceReview:
		e.navigate(urlbuilder.ByOption(p.Source, urlbuilder.PerformanceReview))
	case ActionContentBreakdown:
		e.navigate(urlbuilder.ByOption(p.Source, urlbuilder.ContentBreakdown))
	case ActionDomains:
		e.navigate(urlbuilder.ByOption(p.Source, urlbuilder.Domains))
	case ActionScreenshot:
		e.navigate(urlbuilder.ByOption(p.Source, urlbuilder.Screenshot))
	case ActionFilmstrip:
		e.navigate(urlbuilder.Filmstrip(p.Source))
	case ActionFilmstripTool:
		e.navigate(urlbuilder.FilmstripTool(p.Source))
	case ActionSelectPoint, ActionDeselectPoint:
		return e.changeSelection(*p)
	default:
		return fmt.Errorf("%s: %w", action, ErrNotAction)
	}
	return nil
}
