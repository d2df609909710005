// Package project manages the user's local projects.
package project

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidName = errors.New("project name is required")
	ErrNotFound    = errors.New("project not found")
)

// Project is a named container of document references.
type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Documents []string  `json:"documents"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p Project) clone() Project {
	p.Documents = append([]string{}, p.Documents...)
	return p
}

// Store keeps projects newest first.
type Store struct {
	mu       sync.RWMutex
	projects []Project
	now      func() time.Time
	newID    func() string
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Create adds a project named name (trimmed) at the front of the list.
func (s *Store) Create(name string) (Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Project{}, ErrInvalidName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newID()
	for s.indexLocked(id) >= 0 {
		id = s.newID()
	}

	now := s.now()
	p := Project{
		ID:        id,
		Name:      name,
		Documents: []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.projects = append([]Project{p}, s.projects...)
	return p.clone(), nil
}

func (s *Store) indexLocked(id string) int {
	for i := range s.projects {
		if s.projects[i].ID == id {
			return i
		}
	}
	return -1
}

// FindByID returns the project with id.
func (s *Store) FindByID(id string) (Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexLocked(id)
	if i < 0 {
		return Project{}, false
	}
	return s.projects[i].clone(), true
}

// Exists reports whether a project with id is present.
func (s *Store) Exists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexLocked(id) >= 0
}

// List returns all projects, newest first.
func (s *Store) List() []Project {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Project, len(s.projects))
	for i, p := range s.projects {
		out[i] = p.clone()
	}
	return out
}

// Recent returns at most n projects, newest first.
func (s *Store) Recent(n int) []Project {
	all := s.List()
	if n < 0 {
		n = 0
	}
	if n < len(all) {
		all = all[:n]
	}
	return all
}

// Len returns the number of projects.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.projects)
}

// AddDocument appends docRef to the project and refreshes UpdatedAt.
func (s *Store) AddDocument(projectID, docRef string) (Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(projectID)
	if i < 0 {
		return Project{}, ErrNotFound
	}
	p := s.projects[i].clone()
	p.Documents = append(p.Documents, docRef)
	p.UpdatedAt = s.now()
	s.projects[i] = p
	return p.clone(), nil
}

// Snapshot returns the persisted form of the store.
func (s *Store) Snapshot() []Project {
	return s.List()
}

// Restore replaces the contents with projects, keeping their order. Records
// with a blank name or a repeated id are dropped. It returns how many were
// dropped.
func (s *Store) Restore(projects []Project) int {
	seen := make(map[string]bool, len(projects))
	kept := make([]Project, 0, len(projects))
	for _, p := range projects {
		p.Name = strings.TrimSpace(p.Name)
		if p.Name == "" || p.ID == "" || seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		if p.Documents == nil {
			p.Documents = []string{}
		}
		kept = append(kept, p.clone())
	}

	s.mu.Lock()
	s.projects = kept
	s.mu.Unlock()
	return len(projects) - len(kept)
}
