package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/you/authsvc/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepositoryImpl implements domain.UserRepository using GORM
type UserRepositoryImpl struct {
	db *gorm.DB
}

// DBUser represents the database model for User (with GORM tags)
type DBUser struct {
	ID               uint       `gorm:"primaryKey"`
	Name             string     `gorm:"column:name_user;size:50;not null"`
	Email            string     `gorm:"column:email_user;uniqueIndex;size:255;not null"`
	PasswordHash     string     `gorm:"column:password_login;not null"`
	OTPCode          *string    `gorm:"column:otp_code;size:6"`
	OTPExpiry        *time.Time `gorm:"column:otp_expiry"`
	LastLogin        time.Time  `gorm:"column:last_login"`
	CreatedAt        time.Time  `gorm:"column:created_at"`
	UpdatedAt        time.Time  `gorm:"column:updated_at"`
	ResetToken       *string    `gorm:"column:reset_token"`
	ResetTokenExpiry *time.Time `gorm:"column:reset_token_expiry"`
	IsActive         bool       `gorm:"column:is_active;not null"`
}

// TableName returns the table name for GORM
func (DBUser) TableName() string {
	return "users"
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &UserRepositoryImpl{db: db}
}

// Create implements domain.UserRepository
func (r *UserRepositoryImpl) Create(ctx context.Context, user *domain.User) error {
	dbUser := r.domainToDB(user)
	if err := r.db.WithContext(ctx).Create(dbUser).Error; err != nil {
		if isDuplicate(err) {
			return domain.ErrDuplicateAccount
		}
		return err
	}
	user.ID = dbUser.ID
	return nil
}

// FindByEmail implements domain.UserRepository
func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.first(r.db.WithContext(ctx).Where("email_user = ?", email))
}

// FindByEmailForUpdate implements domain.UserRepository. On Postgres the row
// stays locked until the transaction ends; the SQLite dialect drops the
// locking clause and relies on its single writer.
func (r *UserRepositoryImpl) FindByEmailForUpdate(ctx context.Context, email string) (*domain.User, error) {
	return r.first(r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("email_user = ?", email))
}

// FindByID implements domain.UserRepository
func (r *UserRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id))
}

// CountByEmail implements domain.UserRepository
func (r *UserRepositoryImpl) CountByEmail(ctx context.Context, email string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&DBUser{}).Where("email_user = ?", email).Count(&count).Error
	return count, err
}

// SetOTP implements domain.UserRepository. Any previous challenge is replaced.
func (r *UserRepositoryImpl) SetOTP(ctx context.Context, userID uint, code string, expiry, now time.Time) error {
	res := r.db.WithContext(ctx).Model(&DBUser{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"otp_code":   code,
		"otp_expiry": expiry,
		"updated_at": now,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// ClearOTP implements domain.UserRepository
func (r *UserRepositoryImpl) ClearOTP(ctx context.Context, userID uint, code string, now time.Time) error {
	res := r.db.WithContext(ctx).Model(&DBUser{}).
		Where("id = ? AND otp_code = ?", userID, code).
		Updates(map[string]interface{}{
			"otp_code":   nil,
			"otp_expiry": nil,
			"last_login": now,
			"updated_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrOTPInvalid
	}
	return nil
}

// TouchLogin implements domain.UserRepository
func (r *UserRepositoryImpl) TouchLogin(ctx context.Context, userID uint, now time.Time) error {
	return r.db.WithContext(ctx).Model(&DBUser{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"last_login": now,
		"updated_at": now,
	}).Error
}

// WithTx implements domain.UserRepository
func (r *UserRepositoryImpl) WithTx(ctx context.Context, fn func(tx domain.UserRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UserRepositoryImpl{db: tx})
	})
}

func (r *UserRepositoryImpl) first(q *gorm.DB) (*domain.User, error) {
	var dbUser DBUser
	if err := q.First(&dbUser).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbUser), nil
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}

// domainToDB converts domain user to database user
func (r *UserRepositoryImpl) domainToDB(user *domain.User) *DBUser {
	return &DBUser{
		ID:               user.ID,
		Name:             user.Name,
		Email:            user.Email,
		PasswordHash:     user.PasswordHash,
		OTPCode:          user.OTPCode,
		OTPExpiry:        user.OTPExpiry,
		LastLogin:        user.LastLogin,
		CreatedAt:        user.CreatedAt,
		UpdatedAt:        user.UpdatedAt,
		ResetToken:       user.ResetToken,
		ResetTokenExpiry: user.ResetTokenExpiry,
		IsActive:         user.IsActive,
	}
}

// dbToDomain converts database user to domain user
func (r *UserRepositoryImpl) dbToDomain(dbUser *DBUser) *domain.User {
	return &domain.User{
		ID:               dbUser.ID,
		Name:             dbUser.Name,
		Email:            dbUser.Email,
		PasswordHash:     dbUser.PasswordHash,
		OTPCode:          dbUser.OTPCode,
		OTPExpiry:        dbUser.OTPExpiry,
		LastLogin:        dbUser.LastLogin,
		CreatedAt:        dbUser.CreatedAt,
		UpdatedAt:        dbUser.UpdatedAt,
		ResetToken:       dbUser.ResetToken,
		ResetTokenExpiry: dbUser.ResetTokenExpiry,
		IsActive:         dbUser.IsActive,
	}
}
