// Package navigation tracks which view the workspace shows.
package navigation

import (
	"errors"
	"fmt"
	"sync"
)

// View names a workspace screen.
type View string

const (
	ViewDashboard     View = "dashboard"
	ViewChatbot       View = "chatbot"
	ViewProject       View = "project"
	ViewTools         View = "tools"
	ViewToolInterface View = "tool-interface"
	ViewSettings      View = "settings"
)

// Views lists every view.
var Views = []View{ViewDashboard, ViewChatbot, ViewProject, ViewTools, ViewToolInterface, ViewSettings}

// Valid reports whether v is a known view.
func (v View) Valid() bool {
	for _, known := range Views {
		if v == known {
			return true
		}
	}
	return false
}

const historyLimit = 32

var (
	ErrUnknownView = errors.New("unknown view")
	ErrUnknownTool = errors.New("unknown tool")
)

// Params carries the optional view arguments.
type Params struct {
	ProjectID string
	ToolID    string
}

// State is the current view and its arguments. ProjectID is set only for the
// project view and ToolID only for the tool view.
type State struct {
	View      View
	ProjectID string
	ToolID    string
}

// Resolver answers whether referenced ids exist. Nil funcs treat every id
// as missing.
type Resolver struct {
	ProjectExists func(id string) bool
	ToolExists    func(id string) bool
}

func (r Resolver) project(id string) bool {
	return id != "" && r.ProjectExists != nil && r.ProjectExists(id)
}

func (r Resolver) tool(id string) bool {
	return id != "" && r.ToolExists != nil && r.ToolExists(id)
}

// Navigator is the view state machine. It starts on the dashboard.
type Navigator struct {
	mu       sync.Mutex
	resolver Resolver
	current  State
	history  []State
}

// New returns a navigator on the dashboard.
func New(resolver Resolver) *Navigator {
	return &Navigator{
		resolver: resolver,
		current:  State{View: ViewDashboard},
	}
}

// Navigate moves to view. A project view whose project cannot be resolved
// lands on the dashboard. Unknown views and unresolvable tools are rejected
// and leave the state unchanged.
func (n *Navigator) Navigate(view View, params Params) (State, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	next, err := n.resolve(view, params)
	if err != nil {
		return n.current, err
	}
	if next != n.current {
		n.history = append(n.history, n.current)
		if len(n.history) > historyLimit {
			n.history = n.history[len(n.history)-historyLimit:]
		}
	}
	n.current = next
	return next, nil
}

func (n *Navigator) resolve(view View, params Params) (State, error) {
	switch view {
	case ViewProject:
		if !n.resolver.project(params.ProjectID) {
			return State{View: ViewDashboard}, nil
		}
		return State{View: ViewProject, ProjectID: params.ProjectID}, nil
	case ViewToolInterface:
		if !n.resolver.tool(params.ToolID) {
			return State{}, fmt.Errorf("%w: %q", ErrUnknownTool, params.ToolID)
		}
		return State{View: ViewToolInterface, ToolID: params.ToolID}, nil
	default:
		if !view.Valid() {
			return State{}, fmt.Errorf("%w: %q", ErrUnknownView, view)
		}
		return State{View: view}, nil
	}
}

// Current returns the current state. A project view whose project has since
// vanished reads as the dashboard.
func (n *Navigator) Current() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.validated(n.current)
}

func (n *Navigator) validated(s State) State {
	if s.View == ViewProject && !n.resolver.project(s.ProjectID) {
		return State{View: ViewDashboard}
	}
	return s
}

// Back returns to the previous state. It reports false when there is no
// history.
func (n *Navigator) Back() (State, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if len(n.history) == 0 {
		return n.validated(n.current), false
	}
	prev := n.history[len(n.history)-1]
	n.history = n.history[:len(n.history)-1]
	n.current = n.validated(prev)
	return n.current, true
}

// Depth returns how many states Back can return to.
func (n *Navigator) Depth() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.history)
}
