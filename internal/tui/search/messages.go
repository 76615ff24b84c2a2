package search

import (
	"github.com/Paintersrp/mixsearch/internal/lookup"
	engine "github.com/Paintersrp/mixsearch/internal/search"
)

type searchDoneMsg struct {
	outcome engine.Outcome
}

type lookupDoneMsg struct {
	outcome lookup.Outcome
}

type pageLoadedMsg struct {
	page page
}

type loadFailedMsg struct {
	err error
}

type clearStatusMsg struct {
	id int
}
