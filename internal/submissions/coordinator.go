package submissions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/JaimeStill/dossier/internal/documents"
	"github.com/JaimeStill/dossier/internal/faults"
	"github.com/JaimeStill/dossier/internal/users"
	"github.com/JaimeStill/dossier/pkg/formatting"
	"github.com/JaimeStill/dossier/pkg/storage"
)

const compensateTimeout = 30 * time.Second

// Coordinator runs the submit protocol: resolve or provision the user's
// container, create or update the remote object, then record the outcome
// and transition the pair to uploaded.
type Coordinator struct {
	users     users.System
	documents documents.System
	store     storage.System
	prefix    string
	logger    *slog.Logger
}

// New creates a Coordinator. prefix is prepended to provisioned container names.
func New(
	dir users.System,
	docs documents.System,
	store storage.System,
	prefix string,
	logger *slog.Logger,
) *Coordinator {
	return &Coordinator{
		users:     dir,
		documents: docs,
		store:     store,
		prefix:    prefix,
		logger:    logger.With("system", "submissions"),
	}
}

// Handler returns the HTTP handler for submissions.
func (c *Coordinator) Handler(maxUploadSize int64) *Handler {
	return NewHandler(c, c.logger, maxUploadSize)
}

// Submit stores cmd.Data for the pair and records it. Retrying after a
// StorageUnavailable failure is safe.
func (c *Coordinator) Submit(ctx context.Context, cmd SubmitCommand) (*Result, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	user, err := c.users.Find(ctx, cmd.UserID)
	if err != nil {
		return nil, faults.Classify(err, faults.ErrTransactionFailure)
	}

	result := &Result{}

	if user.ContainerRef != nil && *user.ContainerRef != "" {
		result.Container = *user.ContainerRef
	} else {
		ref, created, err := c.users.EnsureContainer(ctx, user.ID, c.provision)
		if err != nil {
			return nil, faults.Classify(err, faults.ErrTransactionFailure)
		}
		result.Container = ref
		result.ContainerCreated = created
	}

	existing, err := c.documents.Find(ctx, cmd.UserID, cmd.DocumentID)
	if err != nil && !errors.Is(err, documents.ErrNotFound) {
		return nil, faults.Classify(err, faults.ErrTransactionFailure)
	}

	var previous *string
	if existing != nil {
		if err := c.documents.CheckTransition(existing.State, documents.Uploaded); err != nil {
			return nil, err
		}
		previous = existing.ObjectRef
	}

	ref, status, err := c.write(ctx, cmd, result.Container, previous)
	if err != nil {
		return nil, err
	}

	link := c.store.Link(ref)
	doc, err := c.documents.RecordUpload(ctx, documents.UploadRecord{
		UserID:      cmd.UserID,
		DocumentID:  cmd.DocumentID,
		ObjectRef:   ref.String(),
		Link:        link,
		PageCount:   cmd.PageCount,
		PreviousRef: previous,
	})
	if err != nil {
		c.compensate(ref, status)
		return nil, faults.Classify(err, faults.ErrTransactionFailure)
	}

	result.Document = doc
	result.Link = link
	result.Status = status

	c.logger.Info(
		"document submitted",
		"user_id", cmd.UserID,
		"document_id", cmd.DocumentID,
		"status", status,
		"size", formatting.FormatBytes(int64(len(cmd.Data)), 1),
		"object_ref", ref.String(),
	)
	return result, nil
}

func (c *Coordinator) provision(ctx context.Context, u users.User) (string, error) {
	name := storage.ContainerName(c.prefix, u.DisplayName(), u.ID)

	ref, err := c.store.CreateContainer(ctx, name)
	if err != nil {
		return "", fmt.Errorf("%w: create container: %v", faults.ErrStorageUnavailable, err)
	}
	return ref, nil
}

// write performs the single remote write. A stored reference selects an
// in-place update; a stored reference whose object has vanished remotely is
// replaced by a new object.
func (c *Coordinator) write(
	ctx context.Context,
	cmd SubmitCommand,
	container string,
	previous *string,
) (storage.ObjectRef, Status, error) {
	if previous != nil {
		ref, err := storage.ParseRef(*previous)
		if err != nil {
			c.logger.Error(
				"stored object reference unreadable",
				"user_id", cmd.UserID,
				"document_id", cmd.DocumentID,
				"object_ref", *previous,
				"alert", faults.AlertDataIntegrity,
			)
			return storage.ObjectRef{}, "", fmt.Errorf("%w: stored object reference %q", faults.ErrInconsistentState, *previous)
		}

		updated, err := c.store.UpdateObject(ctx, ref, cmd.Data, cmd.ContentType)
		if err == nil {
			return updated, StatusUpdated, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return storage.ObjectRef{}, "", fmt.Errorf("%w: update object: %v", faults.ErrStorageUnavailable, err)
		}

		c.logger.Warn(
			"stored object missing remotely, creating replacement",
			"user_id", cmd.UserID,
			"document_id", cmd.DocumentID,
			"object_ref", *previous,
			"alert", faults.AlertDataIntegrity,
		)
	}

	created, err := c.store.CreateObject(ctx, container, cmd.Filename, cmd.Data, cmd.ContentType)
	if err != nil {
		return storage.ObjectRef{}, "", fmt.Errorf("%w: create object: %v", faults.ErrStorageUnavailable, err)
	}
	return created, StatusCreated, nil
}

// compensate removes a newly created object whose local record failed.
// Updated objects were overwritten in place and cannot be rolled back.
func (c *Coordinator) compensate(ref storage.ObjectRef, status Status) {
	if status != StatusCreated {
		c.logger.Warn("local record failed after in-place update", "object_ref", ref.String())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), compensateTimeout)
	defer cancel()

	if err := c.store.Delete(ctx, ref); err != nil {
		c.logger.Warn("compensating object delete failed", "object_ref", ref.String(), "error", err)
	}
}
