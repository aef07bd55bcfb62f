package authapi

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// RegisterResult reports the outcome of a registration. Token is issued
// over the baseline claims. ClaimsAssigned is false only when the store
// cannot run the user insert and the claim inserts atomically and the claim
// step failed after the user was persisted; the user exists either way.
type RegisterResult struct {
	User           *User  `json:"user"`
	Token          string `json:"token"`
	ClaimsAssigned bool   `json:"claims_assigned"`
}

// Registrar orchestrates new account creation: normalize, validate, check
// uniqueness, hash, persist, assign baseline claims, issue token.
type Registrar struct {
	store        IdentityStore
	tokenService TokenService
	logger       Logger
	useHashid    bool
}

// NewRegistrar returns a new Registrar
func NewRegistrar(store IdentityStore, tokenService TokenService) *Registrar {
	return &Registrar{
		store:        store,
		tokenService: tokenService,
		logger:       defLogger{},
		useHashid:    true,
	}
}

func (r *Registrar) WithLogger(logger Logger) *Registrar {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// WithRandomIDs disables hashid-derived user IDs in favor of random UUIDs
func (r *Registrar) WithRandomIDs() *Registrar {
	r.useHashid = false
	return r
}

// Register creates a user from an email and password. The username is the
// normalized (lowercased) email; the account starts with the baseline
// claims User=true, name, and email.
func (r *Registrar) Register(ctx context.Context, email, password string) (*RegisterResult, error) {
	payload := RegisterPayload{Email: email, Password: password}
	if err := payload.Validate(); err != nil {
		return nil, wrapValidationError(err)
	}

	username := NormalizeUsername(email)

	if _, err := r.store.FindUserByUsername(ctx, username); err == nil {
		return nil, ErrDuplicateIdentity
	} else if !goerrors.IsNotFound(err) {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check username uniqueness")
	}

	hash, err := HashPassword(password)
	if err != nil {
		if IsValidationError(err) {
			return nil, err
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	user := &User{
		Username:     username,
		Email:        username,
		PasswordHash: hash,
	}
	if r.useHashid {
		if id, err := hashid.NewUUID(username); err == nil {
			user.ID = id
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	claims := BaselineClaims(username, username)

	claimsAssigned, err := r.persist(ctx, user, claims)
	if err != nil {
		return nil, err
	}

	token, err := r.tokenService.Sign(user.ID.String(), BuildClaims(claims, nil))
	if err != nil {
		r.logger.Error("registration token issuance failed", "error", err)
		return nil, err
	}

	return &RegisterResult{
		User:           user,
		Token:          token,
		ClaimsAssigned: claimsAssigned,
	}, nil
}

// persist writes the user and its baseline claims, atomically when the
// store supports transactions. On a non-transactional store a claim
// failure after the user insert is reported separately from the user
// creation success rather than rolled back.
func (r *Registrar) persist(ctx context.Context, user *User, claims []Claim) (bool, error) {
	if tx, ok := r.store.(TransactionalStore); ok {
		err := tx.RunInStoreTx(ctx, func(ctx context.Context, store IdentityStore) error {
			created, err := store.CreateUser(ctx, user)
			if err != nil {
				return err
			}
			for _, claim := range claims {
				if err := store.AddClaim(ctx, created.ID, claim); err != nil {
					return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to assign baseline claims").
						WithTextCode(TextCodeClaimsNotAssigned)
				}
			}
			return nil
		})
		if err != nil {
			return false, r.wrapPersistError(err)
		}
		return true, nil
	}

	if _, err := r.store.CreateUser(ctx, user); err != nil {
		return false, r.wrapPersistError(err)
	}

	for _, claim := range claims {
		if err := r.store.AddClaim(ctx, user.ID, claim); err != nil {
			// User exists without baseline claims at this point. Report the
			// partial state instead of pretending the whole flow failed.
			r.logger.Error("baseline claim assignment failed after user creation",
				"user_id", user.ID, "error", err)
			return false, nil
		}
	}

	return true, nil
}

func (r *Registrar) wrapPersistError(err error) error {
	if IsConflictError(err) {
		return ErrDuplicateIdentity
	}

	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return rich
	}

	return goerrors.Wrap(err, goerrors.CategoryInternal, "user registration failed")
}
