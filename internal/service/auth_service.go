package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/White1313devil/medicals/internal/apperror"
	"github.com/White1313devil/medicals/internal/authctx"
	"github.com/White1313devil/medicals/internal/model"
	"github.com/White1313devil/medicals/internal/repository"
	"github.com/White1313devil/medicals/pkg/jwtutil"
	"github.com/White1313devil/medicals/pkg/logger"
	"github.com/White1313devil/medicals/prometheus"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	invalidCredentials = "Invalid username/email or password"
	minPasswordLength  = 6
)

type LoginResult struct {
	Token string
	Admin *model.Admin
}

type CreateAdminInput struct {
	Username string
	Email    string
	Password string
	Role     model.AdminRole
}

type AuthService struct {
	Admins *repository.AdminRepository
	JWT    *jwtutil.JWTUtil
	Audit  *Auditor
	// BcryptCost defaults to bcrypt.DefaultCost when zero.
	BcryptCost int
	Now        func() time.Time

	// decoyHash is compared against on failed lookups so every rejected
	// login pays the same bcrypt cost.
	decoyOnce sync.Once
	decoyHash []byte
}

func NewAuthService(admins *repository.AdminRepository, jwt *jwtutil.JWTUtil, audit *Auditor) *AuthService {
	return &AuthService{
		Admins:     admins,
		JWT:        jwt,
		Audit:      audit,
		BcryptCost: bcrypt.DefaultCost,
		Now:        time.Now,
	}
}

// Login verifies the credentials and issues a token. Unknown, inactive and
// wrong-password accounts all fail with the same error.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (_ *LoginResult, err error) {
	ctx, span := startSpan(ctx, "auth.login")
	defer func() { endSpan(span, err) }()

	log := logger.FromContext(ctx)
	prometheus.LoginCounter.Inc()

	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		prometheus.RecordAuthError("invalid_request")
		return nil, apperror.Validation("Please provide username/email and password")
	}

	admin, err := s.Admins.FindByIdentifier(ctx, identifier)
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			s.compareDecoy(password)
			log.Warn("Login for unknown admin", zap.String("identifier", identifier))
			prometheus.RecordAuthError("user_not_found")
			return nil, apperror.Auth(invalidCredentials)
		}
		return nil, err
	}
	if !admin.IsActive {
		s.compareDecoy(password)
		log.Warn("Login for inactive admin", zap.Uint("admin_id", admin.ID))
		prometheus.RecordAuthError("inactive_account")
		return nil, apperror.Auth(invalidCredentials)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(password)); err != nil {
		log.Warn("Invalid password", zap.Uint("admin_id", admin.ID))
		prometheus.RecordAuthError("invalid_password")
		return nil, apperror.Auth(invalidCredentials)
	}

	token, err := s.JWT.GenerateToken(admin.ID)
	if err != nil {
		prometheus.RecordAuthError("token_generation_failed")
		return nil, fmt.Errorf("generate token: %w", err)
	}

	now := s.Now()
	if err := s.Admins.TouchLastLogin(ctx, admin.ID, now); err != nil {
		return nil, err
	}
	admin.LastLogin = &now

	ctx = authctx.WithCurrentAdmin(ctx, CurrentAdmin(admin))
	s.Audit.Record(ctx, ActionLogin, "admin", admin.ID, fmt.Sprintf("Admin %s logged in", admin.Username))
	log.Info("Admin logged in", zap.Uint("admin_id", admin.ID), zap.String("role", string(admin.Role)))
	return &LoginResult{Token: token, Admin: admin}, nil
}

// Authenticate resolves a bearer token to an active admin.
func (s *AuthService) Authenticate(ctx context.Context, token string) (_ *model.Admin, err error) {
	ctx, span := startSpan(ctx, "auth.authenticate")
	defer func() { endSpan(span, err) }()

	claims, err := s.JWT.ValidateToken(token)
	if err != nil {
		logger.FromContext(ctx).Debug("Token rejected", zap.Error(err))
		prometheus.RecordAuthError("invalid_token")
		return nil, apperror.Auth("Not authorized, token failed")
	}

	admin, err := s.Admins.GetByID(ctx, claims.AdminID)
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			prometheus.RecordAuthError("admin_not_found")
			return nil, apperror.Auth("Not authorized, admin not found")
		}
		return nil, err
	}
	if !admin.IsActive {
		prometheus.RecordAuthError("inactive_account")
		return nil, apperror.Auth("Not authorized, account is inactive")
	}
	return admin, nil
}

func (s *AuthService) cost() int {
	if s.BcryptCost == 0 {
		return bcrypt.DefaultCost
	}
	return s.BcryptCost
}

// compareDecoy runs a bcrypt comparison that always fails.
func (s *AuthService) compareDecoy(password string) {
	s.decoyOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("decoy-password"), s.cost())
		if err == nil {
			s.decoyHash = hash
		}
	})
	if s.decoyHash != nil {
		_ = bcrypt.CompareHashAndPassword(s.decoyHash, []byte(password))
	}
}

// SaveAdmin persists admin, hashing a staged plaintext password first.
func (s *AuthService) SaveAdmin(ctx context.Context, admin *model.Admin) error {
	if admin.PasswordDirty() {
		hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), s.cost())
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		admin.MarkPasswordHashed(string(hash))
	}
	if admin.ID == 0 {
		return s.Admins.Create(ctx, admin)
	}
	return s.Admins.Save(ctx, admin)
}

// CreateAdmin adds a back-office account. Only a super admin in ctx may do so.
func (s *AuthService) CreateAdmin(ctx context.Context, in CreateAdminInput) (_ *model.Admin, err error) {
	ctx, span := startSpan(ctx, "auth.create_admin")
	defer func() { endSpan(span, err) }()

	actor := authctx.FromContext(ctx)
	if actor == nil || actor.Role != model.RoleSuperAdmin {
		return nil, apperror.Forbidden("Only a super admin can create admin accounts")
	}

	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, apperror.Validation("Username is required")
	}
	if len(in.Password) < minPasswordLength {
		return nil, apperror.Validation(fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
	}
	role := in.Role
	if role == "" {
		role = model.RoleAdmin
	}
	if !role.Valid() {
		return nil, apperror.Validation(fmt.Sprintf("Invalid role %q", role))
	}

	taken, err := s.Admins.UsernameTaken(ctx, username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperror.Duplicate("Username already exists")
	}
	email := optionalString(in.Email)
	if email != nil {
		taken, err := s.Admins.EmailTaken(ctx, *email)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperror.Duplicate("Email already exists")
		}
	}

	admin := &model.Admin{
		Username: username,
		Email:    email,
		Role:     role,
		IsActive: true,
	}
	admin.SetPassword(in.Password)
	if err := s.SaveAdmin(ctx, admin); err != nil {
		return nil, err
	}

	s.Audit.Record(ctx, ActionCreate, "admin", admin.ID, fmt.Sprintf("Created %s account %s", admin.Role, admin.Username))
	return admin, nil
}

// ChangePassword replaces the admin's password after checking the current one.
func (s *AuthService) ChangePassword(ctx context.Context, adminID uint, current, next string) (err error) {
	ctx, span := startSpan(ctx, "auth.change_password", idAttr(adminID))
	defer func() { endSpan(span, err) }()

	admin, err := s.Admins.GetByID(ctx, adminID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(current)) != nil {
		return apperror.Validation("Current password is incorrect")
	}
	if len(next) < minPasswordLength {
		return apperror.Validation(fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
	}

	admin.SetPassword(next)
	if err := s.SaveAdmin(ctx, admin); err != nil {
		return err
	}
	s.Audit.Record(ctx, ActionUpdate, "admin", admin.ID, "Changed password")
	return nil
}

func (s *AuthService) Profile(ctx context.Context, adminID uint) (*model.Admin, error) {
	ctx, span := startSpan(ctx, "auth.profile", idAttr(adminID))
	admin, err := s.Admins.GetByID(ctx, adminID)
	endSpan(span, err)
	return admin, err
}

// CurrentAdmin converts a loaded admin into its request-context form.
func CurrentAdmin(admin *model.Admin) authctx.CurrentAdmin {
	return authctx.CurrentAdmin{ID: admin.ID, Username: admin.Username, Role: admin.Role}
}
