// Package app composes the workspace stores behind a single-writer controller.
// Every user intent enters through one Controller method that validates it,
// mutates the stores, persists and records a notice.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"nexus/internal/catalog"
	"nexus/internal/chat"
	"nexus/internal/generation"
	"nexus/internal/logging"
	"nexus/internal/navigation"
	"nexus/internal/palette"
	"nexus/internal/project"
	"nexus/internal/storage"
	"nexus/internal/ux"
)

var (
	ErrNoProjectSelected = errors.New("no project selected")
	ErrUnknownCommand    = errors.New("unknown command")
)

// Deps are the controller's collaborators.
type Deps struct {
	Storage   storage.Storage
	Catalog   *catalog.Catalog
	Generator generation.Generator
	Logger    *logging.Logger
	// ReplyTimeout bounds each reply. Zero disables the bound.
	ReplyTimeout time.Duration
	Now          func() time.Time
}

// Controller owns every workspace store.
type Controller struct {
	mu sync.Mutex

	store    storage.Storage
	catalog  *catalog.Catalog
	projects *project.Store
	session  *chat.Session
	prefs    *ux.PreferencesStore
	nav      *navigation.Navigator
	palette  *palette.Palette

	logger    *zap.Logger
	navLogger *zap.Logger
	now       func() time.Time

	noticeMu  sync.Mutex
	notices   []Notice
	noticeSeq int

	// chatMu orders chat log saves; the snapshot is taken under it so a
	// later save never loses to an earlier one.
	chatMu sync.Mutex

	wg sync.WaitGroup
}

// New builds a controller and loads persisted state. Unreadable state is
// logged and replaced by defaults.
func New(deps Deps) (*Controller, error) {
	if deps.Storage == nil {
		return nil, fmt.Errorf("storage is required")
	}
	if deps.Catalog == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	if deps.Generator == nil {
		return nil, fmt.Errorf("generator is required")
	}
	if deps.Logger == nil {
		deps.Logger = logging.Nop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	c := &Controller{
		store:     deps.Storage,
		catalog:   deps.Catalog,
		projects:  project.NewStore(),
		prefs:     ux.NewPreferencesStore(deps.Storage, deps.Logger.Get(logging.CategoryStorage)),
		palette:   palette.New(palette.DefaultCommands()),
		logger:    deps.Logger.Get(logging.CategoryApp),
		navLogger: deps.Logger.Get(logging.CategoryNavigation),
		now:       deps.Now,
	}
	c.session = chat.NewSession(deps.Generator,
		chat.WithLogger(deps.Logger.Get(logging.CategoryChat)),
		chat.WithReplyTimeout(deps.ReplyTimeout),
		chat.WithClock(deps.Now),
	)
	c.nav = navigation.New(navigation.Resolver{
		ProjectExists: c.projects.Exists,
		ToolExists: func(id string) bool {
			_, ok := c.catalog.Lookup(id)
			return ok
		},
	})

	c.load(deps.Logger.Get(logging.CategoryStorage))
	return c, nil
}

func (c *Controller) load(logger *zap.Logger) {
	timer := logging.StartTimer(logger, "Load state")
	defer timer.Stop()

	if res, err := MigrateLegacyState(c.store); err != nil {
		logger.Warn("Legacy state migration failed", zap.Error(err))
	} else if res.Projects > 0 || res.Messages > 0 {
		logger.Info("Migrated legacy state", zap.Int("projects", res.Projects), zap.Int("messages", res.Messages))
	}

	c.prefs.Load()

	if dropped := c.projects.Restore(decodeRecords[project.Project](c.store, ProjectsKey, logger)); dropped > 0 {
		logger.Warn("Dropped invalid projects", zap.Int("count", dropped))
	}
	if err := c.session.Restore(decodeRecords[chat.Message](c.store, ChatKey, logger)); err != nil {
		logger.Warn("Failed to restore chat log", zap.Error(err))
	}
}

// Read contracts.

// State returns the current navigation state.
func (c *Controller) State() navigation.State { return c.nav.Current() }

// Preferences returns the current preferences.
func (c *Controller) Preferences() ux.Preferences { return c.prefs.Get() }

// Projects returns all projects, newest first.
func (c *Controller) Projects() []project.Project { return c.projects.List() }

// RecentProjects returns the n newest projects.
func (c *Controller) RecentProjects(n int) []project.Project { return c.projects.Recent(n) }

// Project returns the project with id.
func (c *Controller) Project(id string) (project.Project, bool) { return c.projects.FindByID(id) }

// Messages returns the chat log.
func (c *Controller) Messages() []chat.Message { return c.session.Messages() }

// AwaitingReply reports whether a chat reply is outstanding.
func (c *Controller) AwaitingReply() bool { return c.session.AwaitingReply() }

// Catalog returns the tool catalog.
func (c *Controller) Catalog() *catalog.Catalog { return c.catalog }

// Palette returns the command palette.
func (c *Controller) Palette() *palette.Palette { return c.palette }

// Intents.

// Navigate moves to view.
func (c *Controller) Navigate(view navigation.View, params navigation.Params) (navigation.State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.navigateLocked(view, params)
}

func (c *Controller) navigateLocked(view navigation.View, params navigation.Params) (navigation.State, error) {
	state, err := c.nav.Navigate(view, params)
	if err != nil {
		c.navLogger.Debug("Navigation rejected", zap.String("view", string(view)), zap.Error(err))
		if errors.Is(err, navigation.ErrUnknownTool) {
			c.notify(LevelError, "Tool not found")
		}
		return state, err
	}
	if view == navigation.ViewProject && state.View == navigation.ViewDashboard {
		c.notify(LevelWarning, "Project not found")
	}
	c.navLogger.Debug("Navigated", zap.String("view", string(state.View)),
		zap.String("project", state.ProjectID), zap.String("tool", state.ToolID))
	return state, nil
}

// Back returns to the previous view.
func (c *Controller) Back() (navigation.State, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	state, ok := c.nav.Back()
	if ok {
		c.navLogger.Debug("Navigated back", zap.String("view", string(state.View)))
	}
	return state, ok
}

// CreateProject creates a project, opens it and persists the project list.
func (c *Controller) CreateProject(name string) (project.Project, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, err := c.projects.Create(name)
	if err != nil {
		c.notify(LevelError, "Project name is required")
		return project.Project{}, err
	}
	c.persistProjectsLocked()
	if _, err := c.nav.Navigate(navigation.ViewProject, navigation.Params{ProjectID: p.ID}); err != nil {
		c.logger.Warn("Failed to open new project", zap.Error(err))
	}
	c.logger.Info("Project created", zap.String("id", p.ID))
	c.notify(LevelSuccess, "Project created successfully!")
	return p, nil
}

// CreateDocument adds a new document to the open project.
func (c *Controller) CreateDocument() (project.Project, string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	state := c.nav.Current()
	if state.View != navigation.ViewProject {
		c.notify(LevelWarning, "Open a project first")
		return project.Project{}, "", ErrNoProjectSelected
	}

	ref := "doc-" + uuid.NewString()
	p, err := c.projects.AddDocument(state.ProjectID, ref)
	if err != nil {
		c.notify(LevelError, "Project not found")
		return project.Project{}, "", fmt.Errorf("%w: %w", ErrNoProjectSelected, err)
	}
	c.persistProjectsLocked()
	c.notify(LevelSuccess, "Document created")
	return p, ref, nil
}

func (c *Controller) persistProjectsLocked() {
	if err := encodeRecords(c.store, ProjectsKey, c.projects.Snapshot()); err != nil {
		c.logger.Error("Failed to save projects", zap.Error(err))
		c.notify(LevelWarning, "Projects could not be saved")
	}
}

func (c *Controller) persistChat() {
	c.chatMu.Lock()
	defer c.chatMu.Unlock()
	if err := encodeRecords(c.store, ChatKey, c.session.Messages()); err != nil {
		c.logger.Error("Failed to save chat log", zap.Error(err))
		c.notify(LevelWarning, "Chat history could not be saved")
	}
}

// Reply is an outstanding chat reply. It settles after the reply has been
// appended or has failed, the chat log is saved and any failure is recorded
// as a notice.
type Reply struct {
	pending *chat.Pending
	settled chan struct{}
	msg     chat.Message
	err     error
}

// UserMessage returns the submitted message.
func (r *Reply) UserMessage() chat.Message { return r.pending.UserMessage() }

// Settled is closed once the reply is settled.
func (r *Reply) Settled() <-chan struct{} { return r.settled }

// Wait blocks until the reply settles or ctx ends.
func (r *Reply) Wait(ctx context.Context) (chat.Message, error) {
	select {
	case <-r.settled:
		return r.msg, r.err
	case <-ctx.Done():
		return chat.Message{}, ctx.Err()
	}
}

// SubmitChat sends text to the assistant and opens the chat view. Without a
// credential it records an error notice, opens settings and fails with
// chat.ErrCredentialMissing.
func (c *Controller) SubmitChat(ctx context.Context, text string) (*Reply, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	reply, err := c.submitLocked(ctx, text)
	if err != nil {
		return nil, err
	}
	if _, err := c.nav.Navigate(navigation.ViewChatbot, navigation.Params{}); err != nil {
		c.logger.Warn("Failed to open chat", zap.Error(err))
	}
	return reply, nil
}

// RunTool renders the tool prompt and submits it through the chat session.
// The view is unchanged on success.
func (c *Controller) RunTool(ctx context.Context, toolID, input string, opts catalog.PromptOptions) (*Reply, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	tool, ok := c.catalog.Lookup(toolID)
	if !ok {
		c.notify(LevelError, "Tool not found")
		return nil, fmt.Errorf("%w: %q", navigation.ErrUnknownTool, toolID)
	}
	prompt, err := c.catalog.BuildPrompt(tool, input, opts)
	if err != nil {
		if errors.Is(err, catalog.ErrEmptyInput) {
			c.notify(LevelError, "Please enter the required content")
		} else {
			c.notify(LevelError, "%v", err)
		}
		return nil, err
	}
	c.logger.Debug("Running tool", zap.String("tool", tool.ID))
	return c.submitLocked(ctx, prompt)
}

func (c *Controller) submitLocked(ctx context.Context, text string) (*Reply, error) {
	pending, err := c.session.Submit(ctx, text, c.prefs.Get().APIKey)
	switch {
	case errors.Is(err, chat.ErrCredentialMissing):
		c.notify(LevelError, "Configure your API key in settings first!")
		if _, navErr := c.nav.Navigate(navigation.ViewSettings, navigation.Params{}); navErr != nil {
			c.logger.Warn("Failed to open settings", zap.Error(navErr))
		}
		return nil, err
	case errors.Is(err, chat.ErrSessionBusy):
		c.notify(LevelWarning, "Wait for the current reply to finish")
		return nil, err
	case errors.Is(err, chat.ErrEmptyMessage):
		return nil, err
	case err != nil:
		c.notify(LevelError, "%v", err)
		return nil, err
	}

	reply := &Reply{pending: pending, settled: make(chan struct{})}
	c.wg.Add(1)
	go c.settle(reply)
	return reply, nil
}

func (c *Controller) settle(r *Reply) {
	defer c.wg.Done()

	<-r.pending.Done()
	r.msg, r.err = r.pending.Wait(context.Background())
	c.persistChat()
	if r.err != nil {
		if errors.Is(r.err, chat.ErrReplyTimeout) {
			c.notify(LevelError, "The assistant took too long to reply. Try again.")
		} else {
			c.notify(LevelError, "Error generating content. Try again.")
		}
	}
	close(r.settled)
}

func (c *Controller) updatePrefsLocked(fn func(*ux.Preferences) error) (ux.Preferences, error) {
	p, err := c.prefs.Update(fn)
	if err != nil {
		c.logger.Warn("Preferences update rejected", zap.Error(err))
		c.notify(LevelError, "Settings could not be saved")
	}
	return p, err
}

// ChangeTheme switches and persists the theme.
func (c *Controller) ChangeTheme(theme ux.Theme) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.updatePrefsLocked(func(p *ux.Preferences) error {
		p.Theme = theme
		return nil
	})
	return err
}

// ToggleSidebar flips and persists the sidebar state. It returns the new
// collapsed state.
func (c *Controller) ToggleSidebar() (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, err := c.updatePrefsLocked(func(p *ux.Preferences) error {
		p.SidebarCollapsed = !p.SidebarCollapsed
		return nil
	})
	return p.SidebarCollapsed, err
}

// ChangeContext switches and persists the workspace mode.
func (c *Controller) ChangeContext(ctx ux.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.updatePrefsLocked(func(p *ux.Preferences) error {
		p.Context = ctx
		return nil
	})
	return err
}

// SetCredential stores the API key. A blank key clears it.
func (c *Controller) SetCredential(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.updatePrefsLocked(func(p *ux.Preferences) error {
		p.APIKey = strings.TrimSpace(key)
		return nil
	})
	if err == nil {
		c.notify(LevelSuccess, "API key saved")
	}
	return err
}

// ExecuteCommand runs the palette command id. The new-project command takes
// the project name as arg; other commands ignore it.
func (c *Controller) ExecuteCommand(id, arg string) error {
	cmd, ok := c.palette.Lookup(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCommand, id)
	}

	switch cmd.Kind {
	case palette.KindNavigate:
		_, err := c.Navigate(navigation.View(cmd.Target), navigation.Params{})
		return err
	case palette.KindOpenTool:
		_, err := c.Navigate(navigation.ViewToolInterface, navigation.Params{ToolID: cmd.Target})
		return err
	case palette.KindNewProject:
		_, err := c.CreateProject(arg)
		return err
	case palette.KindNewDocument:
		_, _, err := c.CreateDocument()
		return err
	case palette.KindTheme:
		return c.ChangeTheme(ux.Theme(cmd.Target))
	case palette.KindToggleSidebar:
		_, err := c.ToggleSidebar()
		return err
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, id)
	}
}

// Close waits for outstanding replies and closes storage.
func (c *Controller) Close() error {
	c.wg.Wait()
	c.session.Close()
	return c.store.Close()
}
