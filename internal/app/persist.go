package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"nexus/internal/chat"
	"nexus/internal/project"
	"nexus/internal/storage"
	"nexus/internal/ux"
)

const (
	ProjectsKey = "nexusAIProjects"
	ChatKey     = "nexusAIChat"
)

// decodeRecords reads a JSON array stored under key. Elements that do not
// decode are skipped. A missing key yields nil.
func decodeRecords[T any](store storage.Storage, key string, logger *zap.Logger) []T {
	data, err := store.Get(key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		logger.Warn("Failed to read record", zap.String("key", key), zap.Error(err))
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		logger.Warn("Discarding unreadable record", zap.String("key", key), zap.Error(err))
		return nil
	}

	out := make([]T, 0, len(raw))
	for i, r := range raw {
		var v T
		if err := json.Unmarshal(r, &v); err != nil {
			logger.Warn("Skipping unreadable entry", zap.String("key", key), zap.Int("index", i), zap.Error(err))
			continue
		}
		out = append(out, v)
	}
	return out
}

func encodeRecords[T any](store storage.Storage, key string, records []T) error {
	if records == nil {
		records = []T{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	if err := store.Set(key, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// legacyState is the single-record layout older versions wrote under the
// preferences key, with projects and the chat log inline.
type legacyState struct {
	Projects     []legacyProject `json:"projects"`
	ChatMessages []chat.Message  `json:"chatMessages"`
}

type legacyProject struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Documents []json.RawMessage `json:"documents"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

func (lp legacyProject) project() project.Project {
	p := project.Project{
		ID:        lp.ID,
		Name:      lp.Name,
		Documents: []string{},
		CreatedAt: lp.CreatedAt,
		UpdatedAt: lp.UpdatedAt,
	}
	for _, d := range lp.Documents {
		var ref string
		if json.Unmarshal(d, &ref) == nil {
			p.Documents = append(p.Documents, ref)
			continue
		}
		var obj struct {
			ID string `json:"id"`
		}
		if json.Unmarshal(d, &obj) == nil && obj.ID != "" {
			p.Documents = append(p.Documents, obj.ID)
		}
	}
	return p
}

// MigrationResult reports what MigrateLegacyState moved.
type MigrationResult struct {
	Projects int
	Messages int
}

// MigrateLegacyState splits projects and chat messages out of a legacy
// single-record state into their own keys. Keys that already exist are left
// alone. An unreadable legacy record migrates nothing.
func MigrateLegacyState(store storage.Storage) (MigrationResult, error) {
	var result MigrationResult

	data, err := store.Get(ux.StorageKey)
	if errors.Is(err, storage.ErrNotFound) {
		return result, nil
	}
	if err != nil {
		return result, err
	}

	var legacy legacyState
	if json.Unmarshal(data, &legacy) != nil {
		return result, nil
	}

	if len(legacy.Projects) > 0 && !exists(store, ProjectsKey) {
		projects := make([]project.Project, 0, len(legacy.Projects))
		for _, lp := range legacy.Projects {
			projects = append(projects, lp.project())
		}
		if err := encodeRecords(store, ProjectsKey, projects); err != nil {
			return result, err
		}
		result.Projects = len(projects)
	}

	if len(legacy.ChatMessages) > 0 && !exists(store, ChatKey) {
		if err := encodeRecords(store, ChatKey, legacy.ChatMessages); err != nil {
			return result, err
		}
		result.Messages = len(legacy.ChatMessages)
	}

	return result, nil
}

func exists(store storage.Storage, key string) bool {
	_, err := store.Get(key)
	return err == nil
}
