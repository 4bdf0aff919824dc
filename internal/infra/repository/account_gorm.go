package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/supplier-directory/internal/domain/account"
	"github.com/BruksfildServices01/supplier-directory/internal/httperr"
	"github.com/BruksfildServices01/supplier-directory/internal/models"
)

type AccountGormRepository struct {
	db *gorm.DB
}

func NewAccountGormRepository(db *gorm.DB) *AccountGormRepository {
	return &AccountGormRepository{db: db}
}

// --------------------------------------------------
// User
// --------------------------------------------------

func (r *AccountGormRepository) GetUser(
	ctx context.Context,
	id uint,
) (*models.User, error) {

	var u models.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *AccountGormRepository) UpdateProfile(ctx context.Context, u *models.User) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", u.ID).
		Updates(map[string]any{
			"name":          u.Name,
			"phone":         u.Phone,
			"password_hash": u.PasswordHash,
		}).Error
}

func (r *AccountGormRepository) SetFavorites(ctx context.Context, userID uint, ids []uint) error {
	if ids == nil {
		ids = []uint{}
	}
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("favorites", datatypes.JSONSlice[uint](ids)).Error
}

// --------------------------------------------------
// Subscription
// --------------------------------------------------

func (r *AccountGormRepository) GetSubscription(
	ctx context.Context,
	userID uint,
) (*models.Subscription, error) {

	var sub models.Subscription
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&sub).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *AccountGormRepository) FindSubscriptionByPayment(
	ctx context.Context,
	paymentID string,
) (*models.Subscription, error) {

	var sub models.Subscription
	err := r.db.WithContext(ctx).
		Where("last_payment_id = ?", paymentID).
		First(&sub).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *AccountGormRepository) UpdateSelectedCategories(
	ctx context.Context,
	userID uint,
	ids []uint,
	check func(current *models.Subscription) error,
) (*models.Subscription, error) {

	if ids == nil {
		ids = []uint{}
	}

	var sub models.Subscription
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).
			First(&sub).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return httperr.ErrBusiness("subscription_not_found")
		}
		if err != nil {
			return err
		}

		if err := check(&sub); err != nil {
			return err
		}

		sub.SelectedCategories = ids
		return tx.Model(&models.Subscription{}).
			Where("id = ?", sub.ID).
			Update("selected_categories", datatypes.JSONSlice[uint](ids)).Error
	})
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *AccountGormRepository) SaveSubscriptionAndPlan(
	ctx context.Context,
	sub *models.Subscription,
	planType string,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(sub).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).
			Where("id = ?", sub.UserID).
			Update("plan", planType).Error
	})
}

func (r *AccountGormRepository) ListExpiredSubscriptions(
	ctx context.Context,
	now time.Time,
) ([]models.Subscription, error) {

	var subs []models.Subscription
	if err := r.db.WithContext(ctx).
		Where("status = ? AND end_date IS NOT NULL AND end_date <= ?", "active", now).
		Order("end_date ASC").
		Limit(500).
		Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

// Compile-time check
var _ domain.Repository = (*AccountGormRepository)(nil)
