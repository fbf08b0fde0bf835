package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/MKhiriev/go-tech-support/internal/adapter"
	"github.com/MKhiriev/go-tech-support/internal/logger"
	"github.com/MKhiriev/go-tech-support/models"
)

var usersTable = models.User{}.TableName()

// Outcome is the result of a login or registration attempt.
type Outcome int

const (
	OutcomeFailure Outcome = iota
	OutcomeSuccess
	// OutcomePending means the account exists but awaits admin approval.
	OutcomePending
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomePending:
		return "pending"
	default:
		return "failure"
	}
}

// InitOptions controls [SessionContext.Init].
type InitOptions struct {
	// RecoveryFlow is set when the portal was opened from a password
	// recovery link. The existing session is then left for the password
	// update and not materialized.
	RecoveryFlow bool
	// Admin is the baseline administrator ensured at startup. Empty
	// credentials skip the bootstrap.
	Admin models.Credentials
}

// sampleSeeder stores baseline catalog data.
type sampleSeeder interface {
	SeedSamples(ctx context.Context) error
}

// SessionContext holds who is signed in. A user is materialized only when
// the profile row says the account is an admin or approved.
type SessionContext struct {
	auth   adapter.AuthProvider
	rows   adapter.RowStore
	schema adapter.SchemaManager
	seeder sampleSeeder

	resetRedirect string

	mu          sync.RWMutex
	user        *models.User
	initialized bool
}

// NewSessionContext builds a session context over the remote backend.
// seeder may be nil to disable sample seeding on admin login. resetRedirect
// is where password recovery links point.
func NewSessionContext(remote adapter.Remote, seeder sampleSeeder, resetRedirect string) *SessionContext {
	return &SessionContext{
		auth:          remote.Auth,
		rows:          remote.Rows,
		schema:        remote.Schema,
		seeder:        seeder,
		resetRedirect: resetRedirect,
	}
}

// Login signs in with email and password. Accounts that are neither admin
// nor approved are signed out again and reported as pending. Any outcome
// other than success leaves no user materialized.
func (s *SessionContext) Login(ctx context.Context, email, password string) (Outcome, error) {
	log := logger.FromContext(ctx)

	session, err := s.auth.SignInWithPassword(ctx, email, password)
	if err != nil {
		log.Err(err).Str("func", "SessionContext.Login").Msg("sign in failed")
		s.clear()
		return OutcomeFailure, &AuthError{Op: "login", Cause: err}
	}

	user, err := s.fetchProfile(ctx, session.Identity.ID)
	if err != nil {
		log.Err(err).Str("func", "SessionContext.Login").Str("user_id", session.Identity.ID).Msg("could not read user profile")
		s.signOut(ctx, "SessionContext.Login")
		s.clear()
		return OutcomeFailure, &AuthError{Op: "login", Cause: err}
	}

	if user == nil || !user.CanSignIn() {
		log.Info().Str("func", "SessionContext.Login").Str("user_id", session.Identity.ID).Msg("account awaits approval")
		s.signOut(ctx, "SessionContext.Login")
		s.clear()
		return OutcomePending, nil
	}

	s.setUser(user)

	if user.IsAdmin && s.seeder != nil {
		if err = s.seeder.SeedSamples(ctx); err != nil {
			log.Err(err).Str("func", "SessionContext.Login").Msg("could not seed sample data")
		}
	}

	return OutcomeSuccess, nil
}

// Register creates an identity and a pending profile row. The caller is
// always left signed out: a new account has to be approved first.
func (s *SessionContext) Register(ctx context.Context, email, username, password string) (Outcome, error) {
	log := logger.FromContext(ctx)
	defer s.clear()

	identity, err := s.auth.SignUp(ctx, email, password, map[string]string{"username": username})
	if err != nil {
		log.Err(err).Str("func", "SessionContext.Register").Msg("sign up failed")
		s.signOut(ctx, "SessionContext.Register")
		return OutcomeFailure, &AuthError{Op: "register", Cause: err}
	}

	profile := models.NewPendingUser(identity.ID, email, username)
	if err = s.rows.Insert(ctx, usersTable, profile, nil); err != nil {
		log.Err(err).Str("func", "SessionContext.Register").Str("user_id", identity.ID).Msg("could not create user profile")
	}

	s.signOut(ctx, "SessionContext.Register")
	return OutcomePending, nil
}

// Logout ends the remote session. Local state is cleared even when the
// remote call fails.
func (s *SessionContext) Logout(ctx context.Context) {
	s.signOut(ctx, "SessionContext.Logout")
	s.clear()
}

// ResetPassword asks the auth service to send a recovery link to email.
func (s *SessionContext) ResetPassword(ctx context.Context, email string) error {
	return s.auth.ResetPasswordForEmail(ctx, email, s.resetRedirect)
}

// UpdatePassword sets a new password for the current session's identity.
func (s *SessionContext) UpdatePassword(ctx context.Context, newPassword string) error {
	return s.auth.UpdatePassword(ctx, newPassword)
}

// AdoptSession installs a session carried by a recovery link.
func (s *SessionContext) AdoptSession(ctx context.Context, session models.Session) error {
	return s.auth.SetSession(ctx, session)
}

// ReloadProfile re-reads the profile of the signed-in user. A profile that
// no longer allows signing in ends the session.
func (s *SessionContext) ReloadProfile(ctx context.Context) (models.SessionState, error) {
	current := s.State()
	if current.User == nil {
		return current, ErrNotSignedIn
	}

	user, err := s.fetchProfile(ctx, current.User.ID)
	if err != nil {
		return current, err
	}
	if user == nil || !user.CanSignIn() {
		s.Logout(ctx)
		return s.State(), nil
	}

	s.setUser(user)
	return s.State(), nil
}

// Init prepares the remote schema, ensures the baseline admin and restores
// an existing session. It runs once until [SessionContext.Teardown]; every
// failure is logged and leaves the caller signed out.
func (s *SessionContext) Init(ctx context.Context, opts InitOptions) {
	s.mu.Lock()
	if s.initialized {
		s.mu.Unlock()
		return
	}
	s.initialized = true
	s.mu.Unlock()

	log := logger.FromContext(ctx)

	if s.schema != nil {
		if err := s.schema.EnsureSchema(ctx); err != nil {
			log.Err(err).Str("func", "SessionContext.Init").Msg("could not ensure remote schema")
		}
	}

	if !opts.Admin.Empty() {
		if err := s.ensureAdmin(ctx, opts.Admin); err != nil {
			log.Err(err).Str("func", "SessionContext.Init").Str("email", opts.Admin.Email).Msg("could not ensure admin account")
		}
	}

	if opts.RecoveryFlow {
		log.Info().Str("func", "SessionContext.Init").Msg("password recovery in progress, session not restored")
		return
	}

	session, err := s.auth.GetSession(ctx)
	if err != nil {
		log.Err(err).Str("func", "SessionContext.Init").Msg("could not read existing session")
		return
	}
	if session == nil {
		return
	}

	user, err := s.fetchProfile(ctx, session.Identity.ID)
	if err != nil {
		log.Err(err).Str("func", "SessionContext.Init").Str("user_id", session.Identity.ID).Msg("could not read user profile")
		return
	}
	if user == nil || !user.CanSignIn() {
		log.Info().Str("func", "SessionContext.Init").Str("user_id", session.Identity.ID).Msg("stored session is not allowed, signing out")
		s.signOut(ctx, "SessionContext.Init")
		return
	}

	s.setUser(user)
	log.Info().Str("func", "SessionContext.Init").Str("user_id", user.ID).Msg("session restored")
}

// Teardown forgets the signed-in user and allows Init to run again. The
// remote session is kept.
func (s *SessionContext) Teardown(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = nil
	s.initialized = false
}

func (s *SessionContext) State() models.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return models.SessionState{}
	}

	user := *s.user
	return models.SessionState{
		User:            &user,
		IsAuthenticated: true,
		IsAdmin:         user.IsAdmin,
		IsApproved:      user.IsApproved,
	}
}

// ensureAdmin creates the admin identity if needed and upserts its profile
// row as an approved administrator.
func (s *SessionContext) ensureAdmin(ctx context.Context, creds models.Credentials) error {
	identity, err := s.auth.AdminCreateUser(ctx, creds.Email, creds.Password)
	if err != nil {
		if !errors.Is(err, adapter.ErrConflict) && !errors.Is(err, adapter.ErrBadRequest) {
			return err
		}
		// the identity probably exists already
		existing, lookupErr := s.findIdentity(ctx, creds.Email)
		if lookupErr != nil {
			return errors.Join(err, lookupErr)
		}
		if existing == nil {
			return err
		}
		identity = *existing
	}

	admin := models.User{
		ID:         identity.ID,
		Email:      creds.Email,
		Username:   "admin",
		IsAdmin:    true,
		IsApproved: true,
		Role:       models.RoleAdministrator,
	}
	return s.rows.Upsert(ctx, usersTable, []models.User{admin}, adapter.UpsertOptions{OnConflict: "id"})
}

func (s *SessionContext) findIdentity(ctx context.Context, email string) (*models.AuthIdentity, error) {
	identities, err := s.auth.AdminListUsers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range identities {
		if strings.EqualFold(identities[i].Email, email) {
			return &identities[i], nil
		}
	}
	return nil, nil
}

func (s *SessionContext) fetchProfile(ctx context.Context, id string) (*models.User, error) {
	var users []models.User
	if err := s.rows.Select(ctx, usersTable, adapter.Eq{"id": id}, &users); err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}
	return &users[0], nil
}

// signOut ends the remote session, logging failures.
func (s *SessionContext) signOut(ctx context.Context, caller string) {
	if err := s.auth.SignOut(ctx); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", caller).Msg("remote sign out failed")
	}
}

func (s *SessionContext) setUser(user *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
}

func (s *SessionContext) clear() {
	s.setUser(nil)
}
