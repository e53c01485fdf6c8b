package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/JaimeStill/dossier/internal/faults"
	"github.com/JaimeStill/dossier/pkg/query"
	"github.com/JaimeStill/dossier/pkg/repository"
)

// containerLockSpace is mixed into advisory lock keys so container locks
// cannot collide with other per-user advisory locks.
const containerLockSpace int64 = 0x636f6e74 << 32

const provisionTimeout = 30 * time.Second

type repo struct {
	db     *sql.DB
	logger *slog.Logger
	flight singleflight.Group
}

// New creates a user directory implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "users"),
	}
}

func (r *repo) Find(ctx context.Context, id int64) (*User, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	u, err := repository.QueryOne(ctx, r.db, q, args, scanUser)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &u, nil
}

func (r *repo) FindByCode(ctx context.Context, code string) (*User, error) {
	q, args := query.NewBuilder(projection).BuildSingle("Code", code)

	u, err := repository.QueryOne(ctx, r.db, q, args, scanUser)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &u, nil
}

type ensured struct {
	ref     string
	created bool
}

// EnsureContainer collapses concurrent callers for the same user into one
// provisioning run. The run is detached from any single caller's
// cancellation and bounded by provisionTimeout; each caller still returns
// as soon as its own ctx is done. Only the caller whose run assigned the
// container reports created.
func (r *repo) EnsureContainer(ctx context.Context, id int64, provision Provisioner) (string, bool, error) {
	shared := context.WithoutCancel(ctx)
	ran := false

	ch := r.flight.DoChan(strconv.FormatInt(id, 10), func() (any, error) {
		ran = true
		runCtx, cancel := context.WithTimeout(shared, provisionTimeout)
		defer cancel()
		return r.ensureContainer(runCtx, id, provision)
	})

	select {
	case <-ctx.Done():
		return "", false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", false, res.Err
		}
		e := res.Val.(ensured)
		return e.ref, e.created && ran, nil
	}
}

// ensureContainer serializes check-then-create across processes with a
// transaction-scoped advisory lock. The conditional UPDATE and the UNIQUE
// constraint on container_ref remain the store-level guard.
func (r *repo) ensureContainer(ctx context.Context, id int64, provision Provisioner) (ensured, error) {
	res, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (ensured, error) {
		if err := repository.AdvisoryXactLock(ctx, tx, containerLockSpace|id); err != nil {
			return ensured{}, fmt.Errorf("lock user %d: %w", id, err)
		}

		q, args := query.NewBuilder(projection).BuildSingle("ID", id)
		u, err := repository.QueryOne(ctx, tx, q, args, scanUser)
		if err != nil {
			return ensured{}, repository.MapError(err, ErrNotFound, ErrDuplicate)
		}

		if u.ContainerRef != nil && *u.ContainerRef != "" {
			return ensured{ref: *u.ContainerRef}, nil
		}

		ref, err := provision(ctx, u)
		if err != nil {
			return ensured{}, err
		}

		err = repository.ExecExpectOne(
			ctx, tx,
			`UPDATE users SET container_ref = $1, updated_at = NOW()
			WHERE id = $2 AND container_ref IS NULL`,
			ref, id,
		)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) || repository.IsUniqueViolation(err) {
				return ensured{}, ErrContainerConflict
			}
			return ensured{}, err
		}

		return ensured{ref: ref, created: true}, nil
	})

	if errors.Is(err, ErrContainerConflict) {
		r.logger.Error(
			"container reference conflict",
			"user_id", id,
			"alert", faults.AlertDataIntegrity,
		)
	}
	if err != nil {
		return ensured{}, err
	}

	if res.created {
		r.logger.Info("container assigned", "user_id", id, "container", res.ref)
	}
	return res, nil
}
