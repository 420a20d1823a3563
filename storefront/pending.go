package storefront

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// PendingAction is a cart intent captured while the visitor was signed
// out, replayed after they sign in.
type PendingAction struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
	ReturnTo  string    `json:"returnTo,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// PendingStore holds at most one pending action on disk. Every
// operation is best-effort: a broken disk or corrupt file degrades to
// "no pending action", never to a failed storefront flow.
type PendingStore struct {
	path string
}

// NewPendingStore stores the pending action under dir.
func NewPendingStore(dir string) *PendingStore {
	return &PendingStore{path: filepath.Join(dir, "pending_action.json")}
}

// Save records the action, replacing any previous one.
func (s *PendingStore) Save(action PendingAction) {
	if action.Quantity < 1 {
		action.Quantity = 1
	}
	if action.CreatedAt.IsZero() {
		action.CreatedAt = time.Now()
	}
	data, err := json.Marshal(action)
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return
	}
	_ = os.WriteFile(s.path, data, 0o600)
}

// Get returns the stored action, or nil when there is none or the
// file cannot be parsed.
func (s *PendingStore) Get() *PendingAction {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}
	var action PendingAction
	if err := json.Unmarshal(data, &action); err != nil {
		return nil
	}
	if action.ProductID == uuid.Nil || action.Quantity < 1 {
		return nil
	}
	return &action
}

// Clear removes the stored action.
func (s *PendingStore) Clear() {
	_ = os.Remove(s.path)
}

// Consume returns the stored action and clears it. A second call
// yields nothing, so a replayed action can only run once.
func (s *PendingStore) Consume() *PendingAction {
	action := s.Get()
	s.Clear()
	return action
}
