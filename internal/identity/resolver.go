package identity

import (
	"context"

	"github.com/biddergod/users-service/internal/users"
	"github.com/biddergod/users-service/pkg/db"
	"github.com/biddergod/users-service/pkg/db/models"
	pkgerrors "github.com/biddergod/users-service/pkg/errors"
	"github.com/biddergod/users-service/pkg/logger"
)

// Resolver maps claims profiles onto internal user records, provisioning a
// record on first sight. Resolution never fails for a well-formed profile;
// only store errors propagate.
type Resolver struct {
	userRepo *users.Repository
	logg     *logger.Logger
}

// NewResolver builds a resolver over the users repository.
func NewResolver(userRepo *users.Repository, logg *logger.Logger) (*Resolver, error) {
	if userRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "users repo is required")
	}
	return &Resolver{userRepo: userRepo, logg: logg}, nil
}

// Resolve finds or provisions the user for the given profile. Lookup order:
// subject first (the only stable key), then email as a one-time bridge for
// records created before the subject was seen, then provision.
func (r *Resolver) Resolve(ctx context.Context, profile ClaimsProfile) (*models.User, error) {
	user, err := r.resolveExisting(ctx, profile)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	user, err = r.provision(ctx, profile)
	if err == nil {
		return user, nil
	}

	// Two first-time requests for the same subject can race to provision;
	// the unique index on cognito_sub picks a winner. Re-run the subject
	// lookup and return the winner's row.
	if db.IsUniqueViolation(err, "") {
		if r.logg != nil {
			r.logg.Warn(r.logg.WithSubject(ctx, profile.Subject), "provision raced, re-resolving")
		}
		return r.userRepo.FindByCognitoSub(ctx, profile.Subject)
	}
	return nil, err
}

func (r *Resolver) resolveExisting(ctx context.Context, profile ClaimsProfile) (*models.User, error) {
	user, err := r.userRepo.FindByCognitoSub(ctx, profile.Subject)
	if err == nil {
		return r.maybeUpgradeEmail(ctx, user, profile)
	}
	if !db.IsNotFound(err) {
		return nil, err
	}

	if profile.Email == "" {
		return nil, nil
	}

	user, err = r.userRepo.FindByEmail(ctx, profile.Email)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	// Claim the email-matched record so future logins hit the subject path.
	if err := r.userRepo.UpdateCognitoSub(ctx, user.ID, profile.Subject); err != nil {
		return nil, err
	}
	user.CognitoSub = profile.Subject
	return user, nil
}

// maybeUpgradeEmail replaces a placeholder email once a token finally
// carries the real one.
func (r *Resolver) maybeUpgradeEmail(ctx context.Context, user *models.User, profile ClaimsProfile) (*models.User, error) {
	if profile.Email == "" || !user.HasPlaceholderEmail() {
		return user, nil
	}
	if err := r.userRepo.UpdateEmail(ctx, user.ID, profile.Email); err != nil {
		return nil, err
	}
	user.Email = profile.Email
	return user, nil
}

func (r *Resolver) provision(ctx context.Context, profile ClaimsProfile) (*models.User, error) {
	email := profile.Email
	if email == "" {
		email = profile.Subject + models.PlaceholderEmailDomain
	}

	user := &models.User{
		CognitoSub: profile.Subject,
		Email:      email,
	}
	// A username distinct from the subject is a human-chosen name worth
	// keeping as a display name.
	if profile.Username != "" && profile.Username != profile.Subject {
		name := profile.Username
		user.FirstName = &name
	}

	created, err := r.userRepo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	if r.logg != nil {
		ctx = r.logg.WithFields(ctx, map[string]any{
			"cognito_sub": profile.Subject,
			"user_id":     created.ID,
		})
		r.logg.Info(ctx, "provisioned user from token")
	}
	return created, nil
}
