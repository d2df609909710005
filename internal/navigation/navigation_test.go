package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNavigator(projects, tools map[string]bool) *Navigator {
	return New(Resolver{
		ProjectExists: func(id string) bool { return projects[id] },
		ToolExists:    func(id string) bool { return tools[id] },
	})
}

func TestInitialState(t *testing.T) {
	n := New(Resolver{})
	assert.Equal(t, State{View: ViewDashboard}, n.Current())
	assert.Equal(t, 0, n.Depth())
}

func TestNavigateSimpleViews(t *testing.T) {
	n := newNavigator(nil, nil)
	for _, v := range []View{ViewChatbot, ViewTools, ViewSettings, ViewDashboard} {
		got, err := n.Navigate(v, Params{ProjectID: "ignored", ToolID: "ignored"})
		require.NoError(t, err)
		assert.Equal(t, State{View: v}, got)
		assert.Equal(t, got, n.Current())
	}
}

func TestNavigateUnknownView(t *testing.T) {
	n := newNavigator(nil, nil)
	_, err := n.Navigate(ViewChatbot, Params{})
	require.NoError(t, err)

	got, err := n.Navigate("inbox", Params{})
	assert.ErrorIs(t, err, ErrUnknownView)
	assert.Equal(t, State{View: ViewChatbot}, got)
	assert.Equal(t, State{View: ViewChatbot}, n.Current())
}

func TestNavigateProjectFallsBackToDashboard(t *testing.T) {
	n := newNavigator(map[string]bool{"p1": true}, nil)

	got, err := n.Navigate(ViewProject, Params{ProjectID: "nonexistent"})
	require.NoError(t, err)
	assert.Equal(t, ViewDashboard, got.View)
	assert.Equal(t, ViewDashboard, n.Current().View)

	got, err = n.Navigate(ViewProject, Params{ProjectID: ""})
	require.NoError(t, err)
	assert.Equal(t, ViewDashboard, got.View)

	got, err = n.Navigate(ViewProject, Params{ProjectID: "p1"})
	require.NoError(t, err)
	assert.Equal(t, State{View: ViewProject, ProjectID: "p1"}, got)
}

func TestCurrentRevalidatesProject(t *testing.T) {
	projects := map[string]bool{"p1": true}
	n := newNavigator(projects, nil)

	_, err := n.Navigate(ViewProject, Params{ProjectID: "p1"})
	require.NoError(t, err)
	delete(projects, "p1")

	assert.Equal(t, State{View: ViewDashboard}, n.Current())
}

func TestNavigateUnknownToolIsRejected(t *testing.T) {
	n := newNavigator(nil, map[string]bool{"summarizer": true})
	_, err := n.Navigate(ViewTools, Params{})
	require.NoError(t, err)

	got, err := n.Navigate(ViewToolInterface, Params{ToolID: "nope"})
	assert.ErrorIs(t, err, ErrUnknownTool)
	assert.Equal(t, State{View: ViewTools}, got)
	assert.Equal(t, 1, n.Depth())

	got, err = n.Navigate(ViewToolInterface, Params{ToolID: "summarizer", ProjectID: "x"})
	require.NoError(t, err)
	assert.Equal(t, State{View: ViewToolInterface, ToolID: "summarizer"}, got)
}

func TestBack(t *testing.T) {
	n := newNavigator(nil, nil)

	_, ok := n.Back()
	assert.False(t, ok)

	_, _ = n.Navigate(ViewTools, Params{})
	_, _ = n.Navigate(ViewSettings, Params{})
	// Re-entering the same view does not grow history.
	_, _ = n.Navigate(ViewSettings, Params{})
	assert.Equal(t, 2, n.Depth())

	got, ok := n.Back()
	require.True(t, ok)
	assert.Equal(t, ViewTools, got.View)

	got, ok = n.Back()
	require.True(t, ok)
	assert.Equal(t, ViewDashboard, got.View)
}

func TestBackSkipsVanishedProject(t *testing.T) {
	projects := map[string]bool{"p1": true}
	n := newNavigator(projects, nil)
	_, _ = n.Navigate(ViewProject, Params{ProjectID: "p1"})
	_, _ = n.Navigate(ViewChatbot, Params{})
	delete(projects, "p1")

	got, ok := n.Back()
	require.True(t, ok)
	assert.Equal(t, State{View: ViewDashboard}, got)
}

func TestHistoryIsBounded(t *testing.T) {
	n := newNavigator(nil, nil)
	views := []View{ViewChatbot, ViewTools}
	for i := 0; i < 100; i++ {
		_, err := n.Navigate(views[i%2], Params{})
		require.NoError(t, err)
	}
	assert.Equal(t, historyLimit, n.Depth())
}
