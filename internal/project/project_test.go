package project

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(start time.Time) func() time.Time {
	t := start
	return func() time.Time {
		t = t.Add(time.Minute)
		return t
	}
}

func TestCreatePrependsWithUniqueIDs(t *testing.T) {
	s := NewStore()
	seen := map[string]bool{}

	for i := 0; i < 20; i++ {
		p, err := s.Create(fmt.Sprintf("project %d", i))
		require.NoError(t, err)
		assert.False(t, seen[p.ID], "duplicate id %s", p.ID)
		seen[p.ID] = true

		list := s.List()
		require.Len(t, list, i+1)
		assert.Equal(t, p.ID, list[0].ID)
	}
}

func TestCreateTrimsName(t *testing.T) {
	s := NewStore()
	p, err := s.Create("  Thesis  ")
	require.NoError(t, err)
	assert.Equal(t, "Thesis", p.Name)
	assert.Empty(t, p.Documents)
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)
}

func TestCreateRejectsBlankName(t *testing.T) {
	s := NewStore()
	_, err := s.Create("keep")
	require.NoError(t, err)
	before := s.List()

	for _, name := range []string{"", "   ", "\t\n"} {
		_, err := s.Create(name)
		assert.ErrorIs(t, err, ErrInvalidName)
	}
	assert.Equal(t, before, s.List())
}

func TestCreateRetriesOnIDCollision(t *testing.T) {
	s := NewStore()
	ids := []string{"a", "a", "b"}
	s.newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}

	first, err := s.Create("one")
	require.NoError(t, err)
	second, err := s.Create("two")
	require.NoError(t, err)
	assert.Equal(t, "a", first.ID)
	assert.Equal(t, "b", second.ID)
}

func TestFindAndExists(t *testing.T) {
	s := NewStore()
	p, err := s.Create("Notes")
	require.NoError(t, err)

	got, ok := s.FindByID(p.ID)
	require.True(t, ok)
	assert.Equal(t, p, got)
	assert.True(t, s.Exists(p.ID))

	_, ok = s.FindByID("nonexistent")
	assert.False(t, ok)
	assert.False(t, s.Exists("nonexistent"))
}

func TestRecent(t *testing.T) {
	s := NewStore()
	for i := 0; i < 5; i++ {
		_, err := s.Create(fmt.Sprintf("p%d", i))
		require.NoError(t, err)
	}

	recent := s.Recent(3)
	require.Len(t, recent, 3)
	assert.Equal(t, "p4", recent[0].Name)
	assert.Len(t, s.Recent(10), 5)
	assert.Empty(t, s.Recent(-1))
}

func TestAddDocument(t *testing.T) {
	s := NewStore()
	s.now = fixedClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	p, err := s.Create("Docs")
	require.NoError(t, err)

	updated, err := s.AddDocument(p.ID, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"doc-1"}, updated.Documents)
	assert.True(t, updated.UpdatedAt.After(p.UpdatedAt))
	assert.Equal(t, p.CreatedAt, updated.CreatedAt)

	_, err = s.AddDocument("missing", "doc-2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListReturnsCopies(t *testing.T) {
	s := NewStore()
	p, err := s.Create("Copy")
	require.NoError(t, err)
	_, err = s.AddDocument(p.ID, "doc")
	require.NoError(t, err)

	list := s.List()
	list[0].Name = "changed"
	list[0].Documents[0] = "changed"

	got, _ := s.FindByID(p.ID)
	assert.Equal(t, "Copy", got.Name)
	assert.Equal(t, []string{"doc"}, got.Documents)
}

func TestRestoreDropsInvalidRecords(t *testing.T) {
	s := NewStore()
	dropped := s.Restore([]Project{
		{ID: "1", Name: "First"},
		{ID: "2", Name: "   "},
		{ID: "1", Name: "Duplicate"},
		{ID: "", Name: "No id"},
		{ID: "3", Name: " Third ", Documents: []string{"d"}},
	})

	assert.Equal(t, 3, dropped)
	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, "First", list[0].Name)
	assert.Equal(t, []string{}, list[0].Documents)
	assert.Equal(t, "Third", list[1].Name)
}
