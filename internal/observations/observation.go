// Package observations commits reviewer observation batches. Each batch
// inserts its observation rows and applies the resulting document states
// in one transaction.
package observations

import (
	"fmt"
	"strings"
	"time"

	"github.com/JaimeStill/dossier/internal/documents"
	"github.com/JaimeStill/dossier/internal/faults"
)

// Tag is the descriptive tag stored on every committed observation.
const Tag = "none"

// Observation is an immutable reviewer comment on one user document.
type Observation struct {
	ID         int64     `json:"id"`
	EmitterID  int64     `json:"emitter_id"`
	ReceiverID int64     `json:"receiver_id"`
	DocumentID int64     `json:"document_id"`
	Content    string    `json:"content"`
	Tag        string    `json:"tag"`
	CreatedAt  time.Time `json:"created_at"`
}

// Item is one observation in a batch and the state it sets.
type Item struct {
	DocumentID  int64           `json:"document_id"`
	Content     string          `json:"content"`
	TargetState documents.State `json:"target_state"`
}

// CommitCommand is a reviewer's batch for one receiver.
type CommitCommand struct {
	EmitterID  int64  `json:"emitter_id"`
	ReceiverID int64  `json:"receiver_id"`
	Items      []Item `json:"items"`
}

// Result reports the committed observations and the number of documents
// whose state was set.
type Result struct {
	Observations []Observation `json:"observations"`
	Updated      int64         `json:"updated"`
}

// Validate checks the batch and trims item content in place.
func (c *CommitCommand) Validate() error {
	if c.EmitterID < 1 || c.ReceiverID < 1 {
		return fmt.Errorf("%w: emitter and receiver required", faults.ErrInvalidRequest)
	}
	if c.EmitterID == c.ReceiverID {
		return fmt.Errorf("%w: emitter and receiver must differ", faults.ErrInvalidRequest)
	}

	targets := make(map[int64]documents.State, len(c.Items))
	for i := range c.Items {
		item := &c.Items[i]
		item.Content = strings.TrimSpace(item.Content)

		if item.DocumentID < 1 {
			return fmt.Errorf("%w: item %d: document id required", faults.ErrInvalidRequest, i)
		}
		if item.Content == "" {
			return fmt.Errorf("%w: item %d: content is empty", faults.ErrInvalidRequest, i)
		}
		if !item.TargetState.ObservationTarget() {
			return fmt.Errorf("%w: item %d: %q is not an observation target", faults.ErrInvalidRequest, i, item.TargetState)
		}
		if prev, ok := targets[item.DocumentID]; ok && prev != item.TargetState {
			return fmt.Errorf("%w: item %d: document %d has conflicting targets", faults.ErrInvalidRequest, i, item.DocumentID)
		}
		targets[item.DocumentID] = item.TargetState
	}
	return nil
}

func (c *CommitCommand) changes() []documents.Change {
	out := make([]documents.Change, len(c.Items))
	for i, item := range c.Items {
		out[i] = documents.Change{DocumentID: item.DocumentID, State: item.TargetState}
	}
	return out
}
