package explorer

import (
	"errors"
	"strings"

	"github.com/dd0wney/phewas-explorer/pkg/filter"
	"github.com/dd0wney/phewas-explorer/pkg/gateway"
	"github.com/dd0wney/phewas-explorer/pkg/logging"
)

// NoticeLevel is the severity of a notice.
type NoticeLevel int

const (
	NoticeInfo  NoticeLevel = iota // dismissible information
	NoticeError                    // a failed fetch
	NoticeAlert                    // blocking; the operation was aborted
)

// Notice is a message for the user.
type Notice struct {
	Text  string
	Level NoticeLevel
}

// Notice returns the current notice.
func (e *Explorer) Notice() (Notice, bool) {
	if e.notice == nil {
		return Notice{}, false
	}
	return *e.notice, true
}

// DismissNotice clears the current notice.
func (e *Explorer) DismissNotice() {
	e.notice = nil
}

func (e *Explorer) setNotice(level NoticeLevel, text string) {
	e.notice = &Notice{Text: text, Level: level}
}

// Form returns the filter form. Edits take effect on ApplyFilters.
func (e *Explorer) Form() *filter.Form {
	return e.form
}

// Initialize loads the root categories with the current filters.
func (e *Explorer) Initialize() []Effect {
	return e.reload(gateway.GraphQuery{Filters: e.filters}, followNone)
}

// AddFilterGroup adds an empty group to the form. At the limit a blocking
// alert is raised and the form is left unchanged.
func (e *Explorer) AddFilterGroup() (filter.Group, error) {
	g, err := e.form.Add()
	if errors.Is(err, filter.ErrTooManyFilters) {
		e.setNotice(NoticeAlert, "Maximum of 8 filters allowed.")
	}
	return g, err
}

// ApplyFilters rebuilds the graph from the form. An empty form shows all
// data.
func (e *Explorer) ApplyFilters() []Effect {
	fs := e.form.Push()
	if len(fs) == 0 {
		e.setNotice(NoticeInfo, "No filters selected. Showing all data.")
	} else {
		e.setNotice(NoticeInfo, "Applying filters: "+fs.String())
	}
	e.recordFilterApply("form")
	e.logger.Info("applying filters", logging.Filters(fs.String()))
	return e.reload(gateway.GraphQuery{Type: gateway.TypeCategories, Filters: fs.String()}, followNone)
}

// ClearFilters empties the form and shows all data.
func (e *Explorer) ClearFilters() []Effect {
	e.form.Clear()
	e.setNotice(NoticeInfo, "Filters cleared. Showing all data.")
	e.recordFilterApply("clear")
	return e.reload(gateway.GraphQuery{}, followNone)
}

// TableSelect replaces the filters with one locked equality clause, reloads
// the graph and then expands every category.
func (e *Explorer) TableSelect(field, value string) ([]Effect, error) {
	if _, err := e.form.Lock(field, strings.ToLower(value)); err != nil {
		e.setNotice(NoticeAlert, sanitize(err.Error()))
		return nil, err
	}
	fs := e.form.Push()
	e.setNotice(NoticeInfo, "Selecting from table: "+fs.String())
	e.recordFilterApply("table")
	e.logger.Info("selecting from table", logging.Filters(fs.String()))
	return e.reload(gateway.GraphQuery{Filters: fs.String()}, followExpandAll), nil
}

// ToggleSubtypes flips and persists the show-subtypes preference and
// reloads the graph.
func (e *Explorer) ToggleSubtypes() []Effect {
	show := !e.showSubtypes
	if e.prefs != nil {
		v, err := e.prefs.ToggleShowSubtypes()
		if err != nil {
			e.logger.Warn("saving preferences failed", logging.Error(err))
		}
		show = v
	}
	e.showSubtypes = show
	e.form.SetShowSubtypes(show)
	e.recordFilterApply("subtypes")
	return e.reload(gateway.GraphQuery{Filters: e.filters}, followNone)
}

func (e *Explorer) recordFilterApply(source string) {
	if e.metrics != nil {
		e.metrics.RecordFilterApply(source)
	}
}
