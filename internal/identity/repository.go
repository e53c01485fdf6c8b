package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/JaimeStill/dossier/internal/faults"
	"github.com/JaimeStill/dossier/pkg/handlers"
	"github.com/JaimeStill/dossier/pkg/repository"
)

type repo struct {
	db     *sql.DB
	logger *slog.Logger
	tokens *signer
	cost   int
	// compared against when the credential matches no user, so unknown and
	// known credentials take the same time
	decoy []byte
}

// New creates an identity system implementing the System interface.
func New(db *sql.DB, cfg *Config, logger *slog.Logger) (System, error) {
	decoy, err := bcrypt.GenerateFromPassword([]byte("decoy-password"), cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("prepare decoy hash: %w", err)
	}

	return &repo{
		db:     db,
		logger: logger.With("system", "identity"),
		tokens: &signer{
			secret: []byte(cfg.Secret),
			issuer: cfg.Issuer,
			ttl:    cfg.TokenTTLDuration(),
			now:    time.Now,
		},
		cost:  cfg.BcryptCost,
		decoy: decoy,
	}, nil
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

type credentialRow struct {
	actor Actor
	hash  []byte
}

func scanCredential(s repository.Scanner) (credentialRow, error) {
	var c credentialRow
	err := s.Scan(&c.actor.ID, &c.actor.Role, &c.actor.Category, &c.hash)
	return c, err
}

func (r *repo) Login(ctx context.Context, cmd LoginCommand) (*Session, error) {
	credential := strings.TrimSpace(cmd.Credential)
	if credential == "" || cmd.Password == "" {
		return nil, ErrInvalidCredentials
	}

	row, err := repository.QueryOne(
		ctx, r.db,
		`SELECT id, role, category, password_hash FROM public.users WHERE email = $1 OR code = $1 LIMIT 1`,
		[]any{credential},
		scanCredential,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			bcrypt.CompareHashAndPassword(r.decoy, []byte(cmd.Password))
			return nil, ErrInvalidCredentials
		}
		return nil, faults.Classify(err, faults.ErrTransactionFailure)
	}

	if err := bcrypt.CompareHashAndPassword(row.hash, []byte(cmd.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return r.session(row.actor)
}

func (r *repo) Register(ctx context.Context, cmd RegisterCommand) (*Session, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), r.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var phone *string
	if p := strings.TrimSpace(cmd.Phone); p != "" {
		phone = &p
	}

	actor, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Actor, error) {
		return repository.QueryOne(
			ctx, tx,
			`INSERT INTO public.users (code, first_name, last_name, email, phone, password_hash, role, category)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id, role, category`,
			[]any{cmd.Code, cmd.FirstName, cmd.LastName, cmd.Email, phone, string(hash), cmd.Role, cmd.Category},
			func(s repository.Scanner) (Actor, error) {
				var a Actor
				err := s.Scan(&a.ID, &a.Role, &a.Category)
				return a, err
			},
		)
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrUserExists
		}
		return nil, faults.Classify(err, faults.ErrTransactionFailure)
	}

	r.logger.Info("user registered", "user_id", actor.ID, "role", actor.Role)
	return r.session(actor)
}

func (r *repo) Verify(token string) (Actor, error) {
	return r.tokens.verify(token)
}

func (r *repo) session(a Actor) (*Session, error) {
	token, expires, err := r.tokens.issue(a)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &Session{Actor: a, Token: token, ExpiresAt: expires}, nil
}

func (r *repo) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			header := req.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, req)
				return
			}

			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				handlers.RespondError(w, req, r.logger, http.StatusUnauthorized, ErrInvalidToken)
				return
			}

			actor, err := r.Verify(strings.TrimSpace(raw))
			if err != nil {
				handlers.RespondError(w, req, r.logger, http.StatusUnauthorized, err)
				return
			}

			next.ServeHTTP(w, req.WithContext(WithActor(req.Context(), actor)))
		})
	}
}
