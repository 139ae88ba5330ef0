// Package navigation holds the screen state machine. Each screen is its own
// state type carrying only the data that screen needs, so moving between
// screens never has to clear unrelated fields.
package navigation

import (
	"errors"
	"fmt"

	"github.com/lehigh-university-libraries/bookfinder/internal/models"
)

// ErrInvalidTransition is returned when an action does not apply to the current screen
var ErrInvalidTransition = errors.New("invalid navigation transition")

// Screen identifies which view is visible
type Screen int

const (
	ScreenDashboard Screen = iota
	ScreenSearch
	ScreenDetails
	ScreenAbout
)

func (s Screen) String() string {
	switch s {
	case ScreenDashboard:
		return "dashboard"
	case ScreenSearch:
		return "search"
	case ScreenDetails:
		return "details"
	case ScreenAbout:
		return "about"
	default:
		return fmt.Sprintf("screen(%d)", int(s))
	}
}

// State is one of DashboardState, SearchState, DetailsState or AboutState
type State interface {
	Screen() Screen
}

type DashboardState struct{}

func (DashboardState) Screen() Screen { return ScreenDashboard }

// SearchState is the search screen with its current results
type SearchState struct {
	Query     string
	Results   []models.BookSummary
	Performed bool
	Loading   bool
	Err       string
}

func (SearchState) Screen() Screen { return ScreenSearch }

// DetailsState shows one book. Search is the results screen underneath,
// restored untouched when going back.
type DetailsState struct {
	Book   models.BookSummary
	Visit  uint64
	Search SearchState
}

func (DetailsState) Screen() Screen { return ScreenDetails }

type AboutState struct{}

func (AboutState) Screen() Screen { return ScreenAbout }

// Controller owns the current state and applies transitions
type Controller struct {
	state      State
	searchType models.SearchType
	visits     uint64
}

func NewController() *Controller {
	return &Controller{
		state:      DashboardState{},
		searchType: models.SearchTitle,
	}
}

// State returns the current state
func (c *Controller) State() State {
	return c.state
}

// Screen returns the visible screen
func (c *Controller) Screen() Screen {
	return c.state.Screen()
}

// SearchType is the selected search type, kept across screens
func (c *Controller) SearchType() models.SearchType {
	return c.searchType
}

func (c *Controller) SetSearchType(t models.SearchType) {
	c.searchType = t
}

// StartSearch opens an empty search screen from the dashboard
func (c *Controller) StartSearch() error {
	if _, ok := c.state.(DashboardState); !ok {
		return c.invalid("start search")
	}
	c.state = SearchState{}
	return nil
}

// SelectBook opens the details screen for a book, either from search
// results or from a recommendation on another details screen.
func (c *Controller) SelectBook(book models.BookSummary) error {
	var under SearchState
	switch s := c.state.(type) {
	case SearchState:
		under = s
	case DetailsState:
		under = s.Search
	default:
		return c.invalid("select book")
	}
	c.visits++
	c.state = DetailsState{Book: book, Visit: c.visits, Search: under}
	return nil
}

// Back leaves details for the preserved search results, or about for the dashboard
func (c *Controller) Back() error {
	switch s := c.state.(type) {
	case DetailsState:
		c.state = s.Search
	case AboutState:
		c.state = DashboardState{}
	default:
		return c.invalid("back")
	}
	return nil
}

// ShowAbout opens the about screen from anywhere
func (c *Controller) ShowAbout() {
	c.state = AboutState{}
}

// GoHome returns to the dashboard, dropping results and errors
func (c *Controller) GoHome() {
	c.state = DashboardState{}
}

// BeginSearch marks a search as in flight. Only one search may run at a
// time; a search started from details returns to the search screen.
func (c *Controller) BeginSearch(query string) error {
	var s SearchState
	switch st := c.state.(type) {
	case SearchState:
		s = st
	case DetailsState:
		s = st.Search
	default:
		return c.invalid("begin search")
	}
	if s.Loading {
		return fmt.Errorf("%w: a search is already in progress", ErrInvalidTransition)
	}
	s.Query = query
	s.Loading = true
	s.Performed = true
	s.Err = ""
	c.state = s
	return nil
}

// CompleteSearch stores the results of the in-flight search
func (c *Controller) CompleteSearch(results []models.BookSummary) error {
	s, ok := c.state.(SearchState)
	if !ok || !s.Loading {
		return c.invalid("complete search")
	}
	s.Loading = false
	s.Results = results
	s.Err = ""
	c.state = s
	return nil
}

// FailSearch records a failed search; previous results are not shown
func (c *Controller) FailSearch(message string) error {
	s, ok := c.state.(SearchState)
	if !ok || !s.Loading {
		return c.invalid("fail search")
	}
	s.Loading = false
	s.Results = nil
	s.Err = message
	c.state = s
	return nil
}

// ClearResults empties the search screen without leaving it
func (c *Controller) ClearResults() error {
	s, ok := c.state.(SearchState)
	if !ok {
		return c.invalid("clear results")
	}
	c.state = SearchState{Loading: s.Loading}
	return nil
}

// IsCurrentVisit reports whether visit is the details screen still on display
func (c *Controller) IsCurrentVisit(visit uint64) bool {
	d, ok := c.state.(DetailsState)
	return ok && d.Visit == visit
}

// Searching reports whether the in-flight search belongs to the visible screen
func (c *Controller) Searching() bool {
	s, ok := c.state.(SearchState)
	return ok && s.Loading
}

func (c *Controller) invalid(action string) error {
	return fmt.Errorf("%w: cannot %s from %s", ErrInvalidTransition, action, c.state.Screen())
}
