package services

import (
	"errors"
	"strings"
	"time"

	"ccw_tracker/internal/auth"
	"ccw_tracker/internal/domain"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// MinPasswordLength is the shortest password accepted on create/change
const MinPasswordLength = 6

// dummyHash is compared against when the username does not exist so a probe
// for unknown usernames takes the same time as a wrong password.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// validRoles matches the role enum on the users table
var validRoles = map[string]bool{
	domain.RoleAdmin:          true,
	domain.RoleDataEntry:      true,
	domain.RoleViewer:         true,
	domain.RolePSSCoordinator: true,
}

// NewUserInput carries the fields for creating a user account
type NewUserInput struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name" binding:"required"`
	Role     string `json:"role"`
	District string `json:"district"`
	Facility string `json:"facility"`
}

// Authenticate verifies a username/password pair against the active users and
// returns the Principal for the session. The stored hash comparison is
// constant time (bcrypt), and a missing or inactive user burns the same
// comparison cost before failing. Last login is updated only on success.
func Authenticate(db *gorm.DB, username, password string) (auth.Principal, error) {
	var user domain.User
	err := db.Where("username = ? AND is_active = ?", strings.ToLower(strings.TrimSpace(username)), true).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Equalize timing with the found-user path
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return auth.Principal{}, Errf(KindInvalidCredentials, "", "invalid username or password")
		}
		return auth.Principal{}, &ServiceError{Kind: KindTransaction, Message: "user lookup failed", Cause: err}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return auth.Principal{}, Errf(KindInvalidCredentials, "", "invalid username or password")
	}

	// Record the login; a failure here should not block the session
	now := time.Now()
	if err := db.Model(&user).Update("last_login", &now).Error; err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id": user.ID,
			"error":   err.Error(),
		}).Warn("Failed to update last login")
	}

	return auth.Principal{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		District: user.District,
		Facility: user.Facility,
	}, nil
}

// ChangePassword replaces a user's stored hash after verifying the current
// password. The stored hash is untouched on any failure.
func ChangePassword(db *gorm.DB, userID uint, currentPassword, newPassword string) error {
	var user domain.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Errf(KindInvalidCredentials, "", "invalid username or password")
		}
		return &ServiceError{Kind: KindTransaction, Message: "user lookup failed", Cause: err}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(currentPassword)); err != nil {
		return Errf(KindInvalidCredentials, "current_password", "current password is incorrect")
	}
	if len(newPassword) < MinPasswordLength {
		return Errf(KindPolicyViolation, "new_password", "password must be at least %d characters", MinPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return &ServiceError{Kind: KindTransaction, Message: "failed to hash password", Cause: err}
	}
	if err := db.Model(&user).Update("password", string(hash)).Error; err != nil {
		return &ServiceError{Kind: KindTransaction, Message: "failed to store password", Cause: err}
	}

	logrus.WithField("user_id", user.ID).Info("Password changed")
	return nil
}

// CreateUser persists a new account with a hashed password. Username and
// email must be unused; the role defaults to viewer when unset.
func CreateUser(db *gorm.DB, input NewUserInput) (uint, error) {
	username := strings.ToLower(strings.TrimSpace(input.Username))
	if username == "" {
		return 0, Errf(KindPolicyViolation, "username", "username is required")
	}
	if len(input.Password) < MinPasswordLength {
		return 0, Errf(KindPolicyViolation, "password", "password must be at least %d characters", MinPasswordLength)
	}
	role := input.Role
	if role == "" {
		role = domain.RoleViewer
	}
	if !validRoles[role] {
		return 0, Errf(KindPolicyViolation, "role", "unknown role %q", input.Role)
	}

	// Pre-check for a friendly field-level message; the unique indexes still
	// decide under concurrency.
	var count int64
	if err := db.Model(&domain.User{}).Where("username = ?", username).Count(&count).Error; err == nil && count > 0 {
		return 0, Errf(KindDuplicateKey, "username", "username %q already exists", username)
	}
	if err := db.Model(&domain.User{}).Where("email = ?", input.Email).Count(&count).Error; err == nil && count > 0 {
		return 0, Errf(KindDuplicateKey, "email", "email %q already exists", input.Email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, &ServiceError{Kind: KindTransaction, Message: "failed to hash password", Cause: err}
	}

	user := domain.User{
		Username: username,
		Email:    input.Email,
		Password: string(hash),
		FullName: input.FullName,
		Role:     role,
		District: input.District,
		Facility: input.Facility,
		IsActive: true,
	}
	if err := db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, Errf(KindDuplicateKey, "username", "username or email already exists")
		}
		return 0, &ServiceError{Kind: KindTransaction, Message: "failed to create user", Cause: err}
	}

	logrus.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
	}).Info("User created")
	return user.ID, nil
}

// ListUsers returns all accounts ordered newest first, for the admin screen.
// Password hashes are excluded by the model's json tag.
func ListUsers(db *gorm.DB, principal auth.Principal) ([]domain.User, error) {
	if err := requireAction(principal, auth.ActionManageUsers); err != nil {
		return nil, err
	}
	var users []domain.User
	if err := db.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, &ServiceError{Kind: KindTransaction, Message: "failed to list users", Cause: err}
	}
	return users, nil
}

// requireAction gates a service call on the policy table, distinguishing a
// missing principal from an insufficient role.
func requireAction(principal auth.Principal, action auth.Action) error {
	if !principal.IsAuthenticated() {
		return Errf(KindUnauthenticated, "", "authentication required")
	}
	if !auth.CanPerform(principal.Role, action) {
		return Errf(KindForbidden, "", "role %q may not %s", principal.Role, action)
	}
	return nil
}
