package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"telegram-admin-backend/internal/domain"
	"telegram-admin-backend/internal/domain/model"
	"telegram-admin-backend/internal/domain/ports/repository"
	"telegram-admin-backend/internal/infra/logging"
	"telegram-admin-backend/internal/infra/metrics"
)

// Compile-time check
var _ AuthUseCase = (*authUC)(nil)

// AuthUseCase manages admin accounts. Token issuance stays in the HTTP layer.
type AuthUseCase interface {
	Register(ctx context.Context, email, password, name string) (*model.AdminUser, error)
	Login(ctx context.Context, email, password string) (*model.AdminUser, error)
	Me(ctx context.Context, id string) (*model.AdminUser, error)
}

type authUC struct {
	users             repository.AdminUserRepository
	tm                repository.TransactionManager
	allowRegistration bool
	hashCost          int
	log               *zerolog.Logger
}

func NewAuthUseCase(users repository.AdminUserRepository, tm repository.TransactionManager, allowRegistration bool, logger *zerolog.Logger) *authUC {
	return &authUC{
		users:             users,
		tm:                tm,
		allowRegistration: allowRegistration,
		hashCost:          bcrypt.DefaultCost,
		log:               logger,
	}
}

// WithHashCost lowers the bcrypt cost (for testing).
func (a *authUC) WithHashCost(cost int) *authUC {
	a.hashCost = cost
	return a
}

// Register creates an admin account. The first account can always be created;
// later ones only when registration is explicitly allowed.
func (a *authUC) Register(ctx context.Context, email, password, name string) (*model.AdminUser, error) {
	defer logging.TraceDuration(a.log, "AuthUC.Register")()

	if len(password) < model.MinPasswordLength || len(password) > model.MaxPasswordLength {
		return nil, domain.ErrInvalidArgument
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.hashCost)
	if err != nil {
		return nil, err
	}
	user, err := model.NewAdminUser(email, name, string(hash))
	if err != nil {
		return nil, err
	}

	// Serializable so two concurrent "first admin" registrations cannot both pass the count check.
	txOpts := pgx.TxOptions{IsoLevel: pgx.Serializable}
	err = a.tm.WithTx(ctx, txOpts, func(ctx context.Context, tx repository.Tx) error {
		n, err := a.users.Count(ctx, tx)
		if err != nil {
			return err
		}
		if n > 0 && !a.allowRegistration {
			return domain.ErrForbidden
		}
		return a.users.Create(ctx, tx, user)
	})
	if err != nil {
		return nil, err
	}

	a.log.Info().Str("admin_id", user.ID).Str("email", user.Email).Msg("admin registered")
	return user, nil
}

func (a *authUC) Login(ctx context.Context, email, password string) (*model.AdminUser, error) {
	defer logging.TraceDuration(a.log, "AuthUC.Login")()

	user, err := a.users.FindByEmail(ctx, repository.NoTX, model.NormalizeEmail(email))
	if errors.Is(err, domain.ErrNotFound) {
		metrics.IncLogin("failure")
		return nil, domain.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.IncLogin("failure")
		return nil, domain.ErrUnauthorized
	}

	if err := a.users.TouchLogin(ctx, repository.NoTX, user.ID); err != nil {
		// a stale last_login_at is not worth failing the login over
		a.log.Warn().Err(err).Str("admin_id", user.ID).Msg("failed to record login time")
	} else {
		user.TouchLogin()
	}
	metrics.IncLogin("success")
	return user, nil
}

func (a *authUC) Me(ctx context.Context, id string) (*model.AdminUser, error) {
	defer logging.TraceDuration(a.log, "AuthUC.Me")()
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrUnauthorized
	}
	return a.users.FindByID(ctx, repository.NoTX, id)
}
