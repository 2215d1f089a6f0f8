package store

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// Memory is the in-memory store used for tests and local runs.
type Memory struct {
	mu      sync.RWMutex
	content map[string]map[string]ContentRecord // userID -> id -> record
	leads   map[string]map[string]LeadRecord
}

func NewMemory() *Memory {
	return &Memory{
		content: make(map[string]map[string]ContentRecord),
		leads:   make(map[string]map[string]LeadRecord),
	}
}

var _ Store = (*Memory)(nil)

func (m *Memory) InsertContent(ctx context.Context, rec ContentRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.content[rec.UserID] == nil {
		m.content[rec.UserID] = make(map[string]ContentRecord)
	}
	m.content[rec.UserID][rec.ID] = rec
	return nil
}

func (m *Memory) UpdateContent(ctx context.Context, rec ContentRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	byID, ok := m.content[rec.UserID]
	if !ok {
		return ErrNotFound
	}
	if _, ok := byID[rec.ID]; !ok {
		return ErrNotFound
	}
	byID[rec.ID] = rec
	return nil
}

func (m *Memory) DeleteContent(ctx context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	byID, ok := m.content[userID]
	if !ok {
		return ErrNotFound
	}
	if _, ok := byID[id]; !ok {
		return ErrNotFound
	}
	delete(byID, id)
	return nil
}

func (m *Memory) ListContent(ctx context.Context, userID string, f ContentFilter) ([]ContentRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []ContentRecord
	for _, rec := range m.content[userID] {
		if f.Status != "" && rec.Status != f.Status {
			continue
		}
		if f.Platform != "" && !strings.EqualFold(rec.Platform, f.Platform) {
			continue
		}
		if f.Query != "" && !foldContains(rec.Idea+" "+rec.Body, f.Query) {
			continue
		}
		if f.Since != nil && rec.CreatedAt.Before(*f.Since) {
			continue
		}
		if f.Until != nil && rec.CreatedAt.After(*f.Until) {
			continue
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m *Memory) InsertLead(ctx context.Context, rec LeadRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.leads[rec.UserID] == nil {
		m.leads[rec.UserID] = make(map[string]LeadRecord)
	}
	m.leads[rec.UserID][rec.ID] = rec
	return nil
}

func (m *Memory) UpdateLead(ctx context.Context, rec LeadRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	byID, ok := m.leads[rec.UserID]
	if !ok {
		return ErrNotFound
	}
	if _, ok := byID[rec.ID]; !ok {
		return ErrNotFound
	}
	byID[rec.ID] = rec
	return nil
}

func (m *Memory) DeleteLead(ctx context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	byID, ok := m.leads[userID]
	if !ok {
		return ErrNotFound
	}
	if _, ok := byID[id]; !ok {
		return ErrNotFound
	}
	delete(byID, id)
	return nil
}

func (m *Memory) ListLeads(ctx context.Context, userID string, f LeadFilter) ([]LeadRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []LeadRecord
	for _, rec := range m.leads[userID] {
		if f.Status != "" && !strings.EqualFold(rec.Status, f.Status) {
			continue
		}
		if f.Query != "" && !foldContains(rec.Name+" "+rec.Email+" "+rec.Remarks, f.Query) {
			continue
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func foldContains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
