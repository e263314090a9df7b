package services

import (
	"context"
	"strings"
	"time"

	"github.com/shashiranjanraj/wardrobe/app/models"
	"github.com/shashiranjanraj/wardrobe/app/repositories"
	"github.com/shashiranjanraj/wardrobe/pkg/auth"
	"github.com/shashiranjanraj/wardrobe/pkg/logger"
	"github.com/shashiranjanraj/wardrobe/pkg/metrics"
)

// AuthService verifies credentials and manages user accounts.
type AuthService struct {
	store  *repositories.Store
	issuer *auth.Issuer
	now    func() time.Time
}

func NewAuthService(store *repositories.Store, issuer *auth.Issuer) *AuthService {
	return &AuthService{store: store, issuer: issuer, now: time.Now}
}

// LoginResult is what a successful login hands back to the client.
type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// NewUser holds the fields for creating an account. Role defaults to "user".
type NewUser struct {
	Username string
	Email    string
	Password string
	Role     string
}

// Verify checks password against the user found by username or email and
// stamps last_login on success.
func (s *AuthService) Verify(ctx context.Context, login, password string) (*models.User, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		metrics.LoginAttempts.WithLabelValues("rejected").Inc()
		return nil, ErrInvalidCredentials
	}

	user, err := s.store.Users.FindByLogin(ctx, login)
	if repositories.IsNotFound(err) {
		metrics.LoginAttempts.WithLabelValues("rejected").Inc()
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, storageErr("Failed to look up user", err)
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		metrics.LoginAttempts.WithLabelValues("rejected").Inc()
		return nil, ErrInvalidCredentials
	}

	now := s.now().UTC()
	if err := s.store.Users.TouchLastLogin(ctx, user.ID, now); err != nil {
		return nil, storageErr("Failed to record login", err)
	}
	user.LastLogin = &now

	metrics.LoginAttempts.WithLabelValues("accepted").Inc()
	return user, nil
}

// IssueToken signs a session token for u.
func (s *AuthService) IssueToken(u *models.User) (string, error) {
	token, err := s.issuer.Generate(u.ID, u.Username, u.Role)
	if err != nil {
		return "", storageErr("Failed to issue token", err)
	}
	return token, nil
}

// Login verifies the credentials and issues a token.
func (s *AuthService) Login(ctx context.Context, login, password string) (*LoginResult, error) {
	user, err := s.Verify(ctx, login, password)
	if err != nil {
		return nil, err
	}
	token, err := s.IssueToken(user)
	if err != nil {
		return nil, err
	}
	logger.WithCtx(ctx).Info("auth: login", "user_id", user.ID)
	return &LoginResult{Token: token, User: user}, nil
}

// ResolveToken validates token and loads the live user row, so role or
// identity changes since issuance take effect immediately.
func (s *AuthService) ResolveToken(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.issuer.Validate(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.store.Users.FindByID(ctx, claims.UserID)
	if repositories.IsNotFound(err) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, storageErr("Failed to look up user", err)
	}
	return user, nil
}

// Authenticate resolves token into the request principal.
func (s *AuthService) Authenticate(ctx context.Context, token string) (auth.Principal, error) {
	user, err := s.ResolveToken(ctx, token)
	if err != nil {
		return auth.Principal{}, err
	}
	return PrincipalOf(user), nil
}

// PrincipalOf describes u as a request principal.
func PrincipalOf(u *models.User) auth.Principal {
	return auth.Principal{UserID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role}
}

// Me returns the account behind caller.
func (s *AuthService) Me(ctx context.Context, caller auth.Principal) (*models.User, error) {
	user, err := s.store.Users.FindByID(ctx, caller.UserID)
	if repositories.IsNotFound(err) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, storageErr("Failed to look up user", err)
	}
	return user, nil
}

// CreateUser registers an account on behalf of an admin caller.
func (s *AuthService) CreateUser(ctx context.Context, caller auth.Principal, in NewUser) (*models.User, error) {
	if !caller.IsAdmin() {
		return nil, ErrForbidden
	}
	user, err := s.Register(ctx, in)
	if err != nil {
		return nil, err
	}
	logger.WithCtx(ctx).Info("auth: user created", "user_id", user.ID, "by", caller.UserID)
	return user, nil
}

// Register creates an account without a caller check. It backs CreateUser,
// the seeder and the CLI.
func (s *AuthService) Register(ctx context.Context, in NewUser) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.Role = strings.TrimSpace(in.Role)
	if in.Role == "" {
		in.Role = auth.RoleUser
	}

	if errs := checkNewUser(in); len(errs) > 0 {
		return nil, invalid(errs)
	}

	taken, err := s.store.Users.Exists(ctx, in.Username, in.Email)
	if err != nil {
		return nil, storageErr("Failed to check user", err)
	}
	if taken {
		return nil, ErrDuplicateIdentity
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, storageErr("Failed to hash password", err)
	}

	user := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
	}
	if err := s.store.Users.Create(ctx, user); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, ErrDuplicateIdentity
		}
		return nil, storageErr("Failed to create user", err)
	}
	metrics.RecordMutation("user", "create")
	return user, nil
}

// ListUsers returns every account, newest first. Admin only.
func (s *AuthService) ListUsers(ctx context.Context, caller auth.Principal) ([]models.User, error) {
	if !caller.IsAdmin() {
		return nil, ErrForbidden
	}
	users, err := s.store.Users.All(ctx)
	if err != nil {
		return nil, storageErr("Failed to list users", err)
	}
	return users, nil
}

func checkNewUser(in NewUser) map[string]string {
	errs := map[string]string{}
	if in.Username == "" {
		errs["username"] = "username is required"
	}
	if in.Email == "" {
		errs["email"] = "email is required"
	}
	if in.Password == "" {
		errs["password"] = "password is required"
	}
	if in.Role != auth.RoleUser && in.Role != auth.RoleAdmin {
		errs["role"] = "role must be one of: user, admin"
	}
	return errs
}
