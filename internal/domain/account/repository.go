package account

import (
	"context"
	"time"

	"github.com/BruksfildServices01/supplier-directory/internal/models"
)

type Repository interface {
	// -------- User --------
	GetUser(
		ctx context.Context,
		id uint,
	) (*models.User, error)

	// UpdateProfile grava só os campos que o próprio usuário edita
	// (nome, telefone, senha); role, plano e genius ficam intactos.
	UpdateProfile(ctx context.Context, u *models.User) error

	SetFavorites(ctx context.Context, userID uint, ids []uint) error

	// -------- Subscription --------

	// GetSubscription devolve (nil, nil) quando o usuário nunca assinou.
	GetSubscription(
		ctx context.Context,
		userID uint,
	) (*models.Subscription, error)

	FindSubscriptionByPayment(
		ctx context.Context,
		paymentID string,
	) (*models.Subscription, error)

	// UpdateSelectedCategories trava a assinatura, chama check com o
	// registro atual e grava apenas selected_categories.
	UpdateSelectedCategories(
		ctx context.Context,
		userID uint,
		ids []uint,
		check func(current *models.Subscription) error,
	) (*models.Subscription, error)

	// SaveSubscriptionAndPlan grava a assinatura e o plano do usuário
	// na mesma transação.
	SaveSubscriptionAndPlan(
		ctx context.Context,
		sub *models.Subscription,
		planType string,
	) error

	ListExpiredSubscriptions(
		ctx context.Context,
		now time.Time,
	) ([]models.Subscription, error)
}
