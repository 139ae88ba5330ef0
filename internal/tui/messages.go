package tui

import (
	"github.com/lehigh-university-libraries/bookfinder/internal/discovery"
	"github.com/lehigh-university-libraries/bookfinder/internal/models"
)

// searchDoneMsg carries the result of a search. seq ties it to the
// search that started it.
type searchDoneMsg struct {
	seq     uint64
	outcome *discovery.SearchOutcome
	err     error
}

// The details messages carry the visit they were requested for; anything
// arriving for an older visit is dropped.
type workLoadedMsg struct {
	visit uint64
	work  *models.WorkDetail
}

type editionsLoadedMsg struct {
	visit    uint64
	editions []models.Edition
}

type recommendationsLoadedMsg struct {
	visit uint64
	books []models.BookSummary
}

type summaryMsg struct {
	visit uint64
	text  string
	err   error
}
