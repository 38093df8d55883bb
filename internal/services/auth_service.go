package services

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/localnerve/authorizer-go"
	"github.com/localnerve/excel-analyzer/internal/config"
	"github.com/localnerve/excel-analyzer/internal/models"
	"github.com/localnerve/excel-analyzer/internal/types"
	"github.com/localnerve/excel-analyzer/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLength = 6

// Claims is the bearer token payload
type Claims struct {
	ID string `json:"id"`
	jwt.RegisteredClaims
}

// RegisterInput is the registration form
type RegisterInput struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	AdminSecret string `json:"adminSecret"`
}

// AuthResult is returned by register and login
type AuthResult struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Token string `json:"token"`
}

// AuthService owns credential checks and token handling
type AuthService struct {
	DB         *gorm.DB
	Config     *config.Config
	BcryptCost int

	authClient *authorizer.AuthorizerClient
	authOnce   sync.Once
	authErr    error
}

// NewAuthService builds the service from configuration
func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{DB: db, Config: cfg, BcryptCost: bcrypt.DefaultCost}
}

// Register creates a user. Admin registration requires the configured admin secret.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if err := s.passwordAuthEnabled(); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Name == "" {
		return nil, types.NewValidationError("Name is required")
	}
	if !strings.Contains(in.Email, "@") {
		return nil, types.NewValidationError("A valid email is required")
	}
	if len(in.Password) < minPasswordLength {
		return nil, types.NewValidationError(fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
	}

	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.User{}).Where("email = ?", in.Email).Count(&count).Error; err != nil {
		return nil, types.NewPersistenceError("Failed to check user", err)
	}
	if count > 0 {
		return nil, types.NewValidationError("User Already Exists!")
	}

	role := models.RoleUser
	switch in.Role {
	case "", models.RoleUser:
	case models.RoleAdmin:
		if !s.adminSecretMatches(in.AdminSecret) {
			return nil, types.NewForbiddenError("Invalid admin secret. Access denied.")
		}
		role = models.RoleAdmin
	default:
		return nil, types.NewValidationError(fmt.Sprintf("Unknown role %q", in.Role))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost())
	if err != nil {
		return nil, types.NewValidationError("Password cannot be used")
	}

	user := models.User{Name: in.Name, Email: in.Email, PasswordHash: string(hash), Role: role}
	if err := s.DB.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, types.NewPersistenceError("Failed to create user", err)
	}
	log.Printf("Registered %s user %s", user.Role, user.ID)
	return s.result(&user)
}

// Login checks an email and password pair
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if err := s.passwordAuthEnabled(); err != nil {
		return nil, err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, types.NewValidationError("Email and password are required")
	}

	var user models.User
	err := s.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.NewPersistenceError("Failed to load user", err)
	}
	if err != nil || user.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, types.NewAuthError("Invalid Email or Password!")
	}
	return s.result(&user)
}

// EnsureAdmin creates an admin user or promotes an existing one, setting its password
func (s *AuthService) EnsureAdmin(ctx context.Context, name, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if len(password) < minPasswordLength {
		return nil, types.NewValidationError(fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost())
	if err != nil {
		return nil, types.NewValidationError("Password cannot be used")
	}

	var user models.User
	err = s.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{Name: name, Email: email, PasswordHash: string(hash), Role: models.RoleAdmin}
		err = s.DB.WithContext(ctx).Create(&user).Error
	case err == nil:
		user.Role = models.RoleAdmin
		user.PasswordHash = string(hash)
		err = s.DB.WithContext(ctx).Model(&user).Updates(map[string]interface{}{
			"role":          user.Role,
			"password_hash": user.PasswordHash,
		}).Error
	}
	if err != nil {
		return nil, types.NewPersistenceError("Failed to save admin user", err)
	}
	return &user, nil
}

// IssueToken signs a bearer token for the user
func (s *AuthService) IssueToken(userID string) (string, error) {
	now := time.Now()
	claims := Claims{
		ID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.Config.JWTTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.Config.JWTSecret))
}

// UserFromToken validates a bearer token and loads its user
func (s *AuthService) UserFromToken(ctx context.Context, token string) (*models.User, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(s.Config.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || claims.ID == "" {
		return nil, types.NewAuthError("Not authorized, token failed")
	}
	return s.loadUser(ctx, claims.ID)
}

func (s *AuthService) loadUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NewAuthError("Not authorized, user not found")
		}
		return nil, types.NewPersistenceError("Failed to load user", err)
	}
	return &user, nil
}

func (s *AuthService) result(user *models.User) (*AuthResult, error) {
	token, err := s.IssueToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &AuthResult{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role, Token: token}, nil
}

// passwordAuthEnabled reports whether tokens can be signed
func (s *AuthService) passwordAuthEnabled() error {
	if s.Config.JWTSecret == "" {
		return types.NewForbiddenError("Password login is disabled")
	}
	return nil
}

func (s *AuthService) adminSecretMatches(secret string) bool {
	want := s.Config.AdminSecret
	return want != "" && subtle.ConstantTimeCompare([]byte(secret), []byte(want)) == 1
}

func (s *AuthService) cost() int {
	if s.BcryptCost == 0 {
		return bcrypt.DefaultCost
	}
	return s.BcryptCost
}

// IsAuthorizerInitialized returns true if the Authorizer client is initialized
func (s *AuthService) IsAuthorizerInitialized() bool {
	return s.authClient != nil
}

// InitAuthorizer initializes the Authorizer client once
func (s *AuthService) InitAuthorizer(requestProtocol, requestHost string) error {
	s.authOnce.Do(func() {
		if err := utils.PingAuthorizer(s.Config.AuthzURL); err != nil {
			s.authErr = fmt.Errorf("authorizer ping failed: %w", err)
			return
		}

		redirectURL := fmt.Sprintf("%s://%s", requestProtocol, requestHost)
		log.Printf("Initializing Authorizer: authorizerURL=%s, clientID=%s, redirectURL=%s",
			s.Config.AuthzURL, s.Config.AuthzClientID, redirectURL)

		client, err := authorizer.NewAuthorizerClient(s.Config.AuthzClientID, s.Config.AuthzURL, redirectURL, nil)
		if err != nil {
			s.authErr = fmt.Errorf("failed to create authorizer client: %w", err)
			return
		}
		s.authClient = client
	})
	return s.authErr
}

// SessionUser is the part of an Authorizer user the service reads
type SessionUser struct {
	ID        string   `json:"id"`
	Email     string   `json:"email"`
	GivenName string   `json:"given_name"`
	Nickname  string   `json:"nickname"`
	Roles     []string `json:"roles"`
}

// ValidateSession checks a session cookie with Authorizer
func (s *AuthService) ValidateSession(cookie string) (*SessionUser, error) {
	if s.authClient == nil {
		return nil, fmt.Errorf("authorizer client not initialized")
	}

	res, err := s.authClient.ValidateSession(&authorizer.ValidateSessionInput{Cookie: cookie})
	if err != nil {
		return nil, fmt.Errorf("session validation failed: %w", err)
	}
	if res == nil || !res.IsValid || res.User == nil {
		return nil, fmt.Errorf("session is not valid")
	}

	// the SDK user carries optional fields as pointers; the JSON form is simpler to read
	raw, err := json.Marshal(res.User)
	if err != nil {
		return nil, fmt.Errorf("invalid user data format: %w", err)
	}
	var user SessionUser
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, fmt.Errorf("invalid user data format: %w", err)
	}
	if user.Email == "" {
		return nil, fmt.Errorf("session user has no email")
	}
	return &user, nil
}

// UserFromSession maps a validated Authorizer session to a local user,
// creating it on first sight.
func (s *AuthService) UserFromSession(ctx context.Context, cookie string) (*models.User, error) {
	su, err := s.ValidateSession(cookie)
	if err != nil {
		return nil, types.NewAuthError(fmt.Sprintf("Invalid session: %v", err))
	}
	return s.SyncSessionUser(ctx, su)
}

// SyncSessionUser finds or creates the local user for a session user
func (s *AuthService) SyncSessionUser(ctx context.Context, su *SessionUser) (*models.User, error) {
	email := strings.ToLower(su.Email)
	role := models.RoleUser
	for _, r := range su.Roles {
		if r == models.RoleAdmin {
			role = models.RoleAdmin
		}
	}

	var user models.User
	err := s.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.NewPersistenceError("Failed to load user", err)
	}

	name := su.GivenName
	if name == "" {
		name = su.Nickname
	}
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}
	user = models.User{Name: name, Email: email, Role: role}
	if err := s.DB.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, types.NewPersistenceError("Failed to create user", err)
	}
	log.Printf("Created %s user %s from Authorizer session", role, user.ID)
	return &user, nil
}
