package explorer

import (
	"context"
	"errors"
	"fmt"

	"github.com/dd0wney/phewas-explorer/pkg/graph"
	"github.com/dd0wney/phewas-explorer/pkg/logging"
)

type taskKind string

const (
	taskNavigate  taskKind = "navigate"
	taskExpandAll taskKind = "expand-all"
)

// task expands a queue of nodes one after the other. Each step waits for
// the previous expansion to be applied.
type task struct {
	id      uint64
	kind    taskKind
	target  string
	queue   []string
	waiting string
}

// Navigating reports whether a navigation or expand-all task is running.
func (e *Explorer) Navigating() bool {
	return e.task != nil
}

// pathOutcome carries the node path to a disease.
type pathOutcome struct {
	taskID uint64
	path   []string
	err    error
}

// NavigateToDisease expands every node on the path from the root to the
// named disease, in order. Nodes that are already expanded are skipped.
// A running task is cancelled first.
func (e *Explorer) NavigateToDisease(disease string) []Effect {
	e.cancelTask("superseded")
	t := &task{id: e.nextToken(), kind: taskNavigate, target: disease}
	e.task = t
	e.logger.Info("navigating", logging.String("disease", disease))

	gw := e.gw
	return []Effect{func(ctx context.Context) Outcome {
		path, err := gw.PathToNode(ctx, disease)
		return &pathOutcome{taskID: t.id, path: path, err: err}
	}}
}

func (o *pathOutcome) apply(e *Explorer) ([]Effect, error) {
	t := e.task
	if t == nil || t.id != o.taskID {
		e.logger.Debug("discarding path for cancelled navigation")
		return nil, nil
	}
	if o.err != nil {
		e.failTask(o.err)
		return nil, nil
	}
	t.queue = o.path
	return e.advanceTask()
}

// ExpandAllCategories expands every visible category in turn without
// opening the disease list panel, then forces labels on all diseases.
func (e *Explorer) ExpandAllCategories() ([]Effect, error) {
	return e.startExpandAll()
}

func (e *Explorer) startExpandAll() ([]Effect, error) {
	e.cancelTask("superseded")
	var queue []string
	visible := e.store.Visible()
	for _, n := range e.store.NodesOfKind(graph.KindCategory) {
		if visible.Contains(n.ID) {
			queue = append(queue, n.ID)
		}
	}
	e.task = &task{id: e.nextToken(), kind: taskExpandAll, queue: queue}
	return e.advanceTask()
}

// CancelNavigation stops the running task. Expansions already in flight
// still complete.
func (e *Explorer) CancelNavigation() {
	e.cancelTask("cancelled")
}

// advanceTask starts the next pending expansion of the task.
func (e *Explorer) advanceTask() ([]Effect, error) {
	t := e.task
	for t != nil && t.waiting == "" {
		if len(t.queue) == 0 {
			e.finishTask()
			return nil, nil
		}
		id := t.queue[0]
		t.queue = t.queue[1:]

		n, err := e.store.Node(id)
		if err != nil {
			if t.kind == taskNavigate {
				e.failTask(err)
				return nil, e.missing("navigate", err)
			}
			continue
		}
		if !n.Kind.Expandable() {
			e.failTask(fmt.Errorf("%s: %w", id, ErrNotExpandable))
			return nil, nil
		}

		switch e.states[id] {
		case Expanded:
			continue
		case Expanding:
			t.waiting = id
			return nil, nil
		}
		t.waiting = id
		return e.expand(n, false), nil
	}
	return nil, nil
}

// taskStepDone is called after the expansion of id was applied.
func (e *Explorer) taskStepDone(id string, ok bool) ([]Effect, error) {
	t := e.task
	if t == nil || t.waiting != id {
		return nil, nil
	}
	t.waiting = ""
	if !ok && t.kind == taskNavigate {
		e.failTask(errors.New("expansion of " + id + " failed"))
		return nil, nil
	}
	return e.advanceTask()
}

func (e *Explorer) finishTask() {
	t := e.task
	e.task = nil
	switch t.kind {
	case taskNavigate:
		e.logger.Info("navigation complete", logging.String("disease", t.target))
		e.recordNavigation("completed")
	case taskExpandAll:
		_ = applyLabels(e.store, labelAllDiseases, labelTarget{})
		e.logger.Debug("expanded all categories")
	}
}

func (e *Explorer) failTask(err error) {
	t := e.task
	e.task = nil
	if t == nil {
		return
	}
	e.logger.Warn("task aborted", logging.String("task", string(t.kind)), logging.Error(err))
	if t.kind == taskNavigate {
		e.recordNavigation("failed")
		e.setNotice(NoticeError, "Could not navigate to "+sanitize(t.target)+".")
	}
}

func (e *Explorer) cancelTask(reason string) {
	t := e.task
	if t == nil {
		return
	}
	e.task = nil
	e.logger.Debug("task cancelled", logging.String("task", string(t.kind)), logging.String("reason", reason))
	if t.kind == taskNavigate {
		e.recordNavigation("cancelled")
	}
}

func (e *Explorer) recordNavigation(result string) {
	if e.metrics != nil {
		e.metrics.RecordNavigation(result)
	}
}
