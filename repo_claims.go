package authapi

import (
	"context"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UserClaims is the claim repository surface used by the store
type UserClaims interface {
	repository.Repository[*UserClaim]

	CreateTx(ctx context.Context, tx bun.IDB, record *UserClaim, criteria ...repository.InsertCriteria) (*UserClaim, error)
	ListByUserTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) ([]Claim, error)
}

type userClaims struct {
	repository.Repository[*UserClaim]
	db *bun.DB
}

var _ UserClaims = (*userClaims)(nil)

// NewUserClaimsRepository builds the bun-backed claim repository
func NewUserClaimsRepository(db *bun.DB) UserClaims {
	repo := repository.NewRepository[*UserClaim](db, repository.ModelHandlers[*UserClaim]{
		NewRecord: func() *UserClaim { return &UserClaim{} },
		GetID: func(c *UserClaim) uuid.UUID {
			if c == nil {
				return uuid.Nil
			}
			return c.ID
		},
		SetID: func(c *UserClaim, id uuid.UUID) {
			if c != nil {
				c.ID = id
			}
		},
	})

	return &userClaims{
		Repository: repo,
		db:         db,
	}
}

func (a *userClaims) CreateTx(ctx context.Context, tx bun.IDB, record *UserClaim, criteria ...repository.InsertCriteria) (*UserClaim, error) {
	if record != nil && record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return a.Repository.CreateTx(ctx, tx, record, criteria...)
}

// ListByUserTx returns stored claims in insertion order. Duplicate pairs
// come back as stored; the core never deduplicates.
func (a *userClaims) ListByUserTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) ([]Claim, error) {
	var records []UserClaim
	err := tx.NewSelect().
		Model(&records).
		Where("?TableAlias.user_id = ?", userID).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	claims := make([]Claim, 0, len(records))
	for i := range records {
		claims = append(claims, records[i].Claim())
	}
	return claims, nil
}

// grantRoleTx inserts a membership row joining a user to a role
func grantRoleTx(ctx context.Context, tx bun.IDB, userID, roleID uuid.UUID) error {
	membership := &UserRoleMembership{UserID: userID, RoleID: roleID}
	_, err := tx.NewInsert().Model(membership).Exec(ctx)
	return err
}

// roleNamesTx returns the names of every role the user belongs to
func roleNamesTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) ([]string, error) {
	var names []string
	err := tx.NewSelect().
		ColumnExpr("rol.name").
		TableExpr("user_roles AS url").
		Join("JOIN roles AS rol ON rol.id = url.role_id").
		Where("url.user_id = ?", userID).
		Order("rol.name ASC").
		Scan(ctx, &names)
	if err != nil {
		return nil, err
	}
	return names, nil
}
