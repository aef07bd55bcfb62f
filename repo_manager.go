package authapi

import (
	"context"
	"database/sql"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Store is the bun-backed IdentityStore. Uniqueness of the normalized
// username and email is enforced by unique indexes, which serializes
// concurrent registrations at the database; the orchestrators treat the
// surfaced violation as a normal conflict.
type Store struct {
	db     *bun.DB
	idb    bun.IDB
	users  Users
	roles  Roles
	claims UserClaims
}

var (
	_ IdentityStore      = (*Store)(nil)
	_ TransactionalStore = (*Store)(nil)
)

// NewStore creates the repository-backed identity store
func NewStore(db *bun.DB) *Store {
	return &Store{
		db:     db,
		idb:    db,
		users:  NewUsersRepository(db),
		roles:  NewRolesRepository(db),
		claims: NewUserClaimsRepository(db),
	}
}

// InitSchema creates the backing tables when they do not exist. Small
// enough schema that a migration runner would be overhead.
func (s *Store) InitSchema(ctx context.Context) error {
	models := []any{
		(*User)(nil),
		(*Role)(nil),
		(*UserClaim)(nil),
		(*UserRoleMembership)(nil),
	}

	for _, model := range models {
		if _, err := s.db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create schema")
		}
	}

	return nil
}

// RunInStoreTx satisfies TransactionalStore: fn runs against a tx-scoped
// view of the store and either everything commits or nothing does.
func (s *Store) RunInStoreTx(ctx context.Context, fn func(ctx context.Context, store IdentityStore) error) error {
	return s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		scoped := &Store{
			db:     s.db,
			idb:    tx,
			users:  s.users,
			roles:  s.roles,
			claims: s.claims,
		}
		return fn(ctx, scoped)
	})
}

func (s *Store) FindUserByUsername(ctx context.Context, username string) (*User, error) {
	return s.users.GetByUsernameTx(ctx, s.idb, username)
}

func (s *Store) CreateUser(ctx context.Context, user *User) (*User, error) {
	created, err := s.users.CreateTx(ctx, s.idb, user)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, goerrors.Wrap(err, goerrors.CategoryConflict, "could not create user").
				WithTextCode(TextCodeDuplicateIdentity)
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not create user")
	}
	return created, nil
}

func (s *Store) RoleExists(ctx context.Context, name string) (bool, error) {
	return s.roles.ExistsTx(ctx, s.idb, name)
}

func (s *Store) CreateRole(ctx context.Context, name string) (*Role, error) {
	exists, err := s.roles.ExistsTx(ctx, s.idb, name)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not check role")
	}
	if exists {
		return nil, ErrDuplicateRole
	}

	role, err := s.roles.CreateTx(ctx, s.idb, &Role{Name: name})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateRole
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not create role")
	}
	return role, nil
}

func (s *Store) GrantRole(ctx context.Context, userID uuid.UUID, roleName string) error {
	role, err := s.roles.GetByNameTx(ctx, s.idb, roleName)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return err
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "could not load role")
	}

	if err := grantRoleTx(ctx, s.idb, userID, role.ID); err != nil {
		if isUniqueViolation(err) {
			// Already a member; granting twice is a no-op.
			return nil
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "could not grant role")
	}

	return nil
}

func (s *Store) GetClaims(ctx context.Context, userID uuid.UUID) ([]Claim, error) {
	return s.claims.ListByUserTx(ctx, s.idb, userID)
}

func (s *Store) AddClaim(ctx context.Context, userID uuid.UUID, claim Claim) error {
	_, err := s.claims.CreateTx(ctx, s.idb, &UserClaim{
		UserID:     userID,
		ClaimType:  claim.Type,
		ClaimValue: claim.Value,
	})
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "could not add claim")
	}
	return nil
}

func (s *Store) GetRoles(ctx context.Context, userID uuid.UUID) ([]string, error) {
	return roleNamesTx(ctx, s.idb, userID)
}

// isUniqueViolation matches the unique-constraint errors the supported
// drivers produce (sqlite and postgres wordings differ).
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
