// Package catalog monta as visões de fornecedores que cada visitante pode ver.
package catalog

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/supplier-directory/internal/cache"
	"github.com/BruksfildServices01/supplier-directory/internal/domain/access"
	"github.com/BruksfildServices01/supplier-directory/internal/domain/account"
	domain "github.com/BruksfildServices01/supplier-directory/internal/domain/catalog"
	"github.com/BruksfildServices01/supplier-directory/internal/domain/plan"
	"github.com/BruksfildServices01/supplier-directory/internal/domain/subscription"
	"github.com/BruksfildServices01/supplier-directory/internal/httperr"
	"github.com/BruksfildServices01/supplier-directory/internal/logger"
	"github.com/BruksfildServices01/supplier-directory/internal/models"
	"github.com/BruksfildServices01/supplier-directory/internal/retry"
)

type Aggregator struct {
	catalog  domain.Repository
	accounts account.Repository
	cache    cache.Cache
	cacheTTL time.Duration
	retry    retry.Policy
	now      func() time.Time
}

func NewAggregator(
	catalog domain.Repository,
	accounts account.Repository,
	c cache.Cache,
	cacheTTL time.Duration,
) *Aggregator {
	return &Aggregator{
		catalog:  catalog,
		accounts: accounts,
		cache:    c,
		cacheTTL: cacheTTL,
		retry:    retry.Default,
		now:      time.Now,
	}
}

// WithRetry troca a política de leitura (os testes usam uma sem espera).
func (a *Aggregator) WithRetry(p retry.Policy) *Aggregator {
	a.retry = p
	return a
}

// ======================================================
// VIEWER
// ======================================================

// ResolveViewer carrega perfil e assinatura do usuário. userID zero é o
// visitante anônimo e devolve (nil, nil, nil).
func (a *Aggregator) ResolveViewer(
	ctx context.Context,
	userID uint,
) (*access.Viewer, *access.Grant, error) {

	if userID == 0 {
		return nil, nil, nil
	}

	var user *models.User
	err := retry.Read(ctx, a.retry, func() error {
		var err error
		user, err = a.accounts.GetUser(ctx, userID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	v := &access.Viewer{
		UserID: user.ID,
		Role:   user.Role,
		Plan:   plan.Parse(user.Plan),
	}
	if user.GeniusStatus != nil {
		v.GeniusStatus = *user.GeniusStatus
	}
	if user.GeniusCoupon != nil {
		v.GeniusCoupon = *user.GeniusCoupon
	}

	// admin vê tudo; a assinatura não muda nada
	if access.IsAdminRole(v.Role) {
		return v, nil, nil
	}

	sub, err := a.Subscription(ctx, userID)
	if err != nil {
		return v, nil, err
	}

	if !subscription.IsCurrent(sub, a.now()) {
		// plano pago sem assinatura vigente não libera nada
		if plan.IsPaid(v.Plan) {
			v.Plan = plan.Free
		}
		return v, nil, nil
	}

	return v, &access.Grant{
		PlanType:           plan.Parse(sub.PlanType),
		SelectedCategories: append([]uint(nil), sub.SelectedCategories...),
	}, nil
}

// Subscription lê a assinatura passando pelo cache. (nil, nil) quando o
// usuário nunca assinou.
func (a *Aggregator) Subscription(ctx context.Context, userID uint) (*models.Subscription, error) {
	key := cache.KeySubscription(userID)

	var cached models.Subscription
	if ok, err := a.cache.GetJSON(ctx, key, &cached); err != nil {
		logger.Log.Warn("subscription cache read failed", zap.Uint("user_id", userID), zap.Error(err))
	} else if ok {
		return &cached, nil
	}

	var sub *models.Subscription
	err := retry.Read(ctx, a.retry, func() error {
		var err error
		sub, err = a.accounts.GetSubscription(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if sub != nil {
		if err := a.cache.SetJSON(ctx, key, sub, a.cacheTTL); err != nil {
			logger.Log.Warn("subscription cache write failed", zap.Uint("user_id", userID), zap.Error(err))
		}
	}
	return sub, nil
}

// ======================================================
// READS
// ======================================================

func (a *Aggregator) Categories(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	if ok, err := a.cache.GetJSON(ctx, cache.KeyCategories, &cats); err == nil && ok {
		return cats, nil
	}

	err := retry.Read(ctx, a.retry, func() error {
		var err error
		cats, err = a.catalog.ListCategories(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := a.cache.SetJSON(ctx, cache.KeyCategories, cats, a.cacheTTL); err != nil {
		logger.Log.Warn("categories cache write failed", zap.Error(err))
	}
	return cats, nil
}

func (a *Aggregator) Highlights(ctx context.Context) ([]models.Highlight, error) {
	var hs []models.Highlight
	err := retry.Read(ctx, a.retry, func() error {
		var err error
		hs, err = a.catalog.ListHighlights(ctx)
		return err
	})
	return hs, err
}

// ListAccessibleSuppliers devolve só o que o usuário pode ver. Se o perfil
// ou a assinatura não puderem ser lidos, devolve apenas os gratuitos.
func (a *Aggregator) ListAccessibleSuppliers(
	ctx context.Context,
	userID uint,
	filter domain.SupplierFilter,
) ([]models.Supplier, error) {

	all, err := a.listSuppliers(ctx, filter)
	if err != nil {
		return nil, err
	}

	v, g, err := a.ResolveViewer(ctx, userID)
	if err != nil {
		logger.Log.Warn("viewer lookup failed, serving free suppliers only",
			zap.Uint("user_id", userID),
			zap.Error(err),
		)
		return access.FreeOnly(all), nil
	}

	return access.FilterAccessible(v, g, all), nil
}

// GetSupplier é a guarda da página de detalhe.
func (a *Aggregator) GetSupplier(
	ctx context.Context,
	userID uint,
	supplierID uint,
) (*models.Supplier, error) {

	var s *models.Supplier
	err := retry.Read(ctx, a.retry, func() error {
		var err error
		s, err = a.catalog.GetSupplier(ctx, supplierID)
		return err
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrBusiness("supplier_not_found")
	}
	if err != nil {
		return nil, err
	}

	v, g, err := a.ResolveViewer(ctx, userID)
	if err != nil {
		logger.Log.Warn("viewer lookup failed on supplier detail",
			zap.Uint("user_id", userID),
			zap.Uint("supplier_id", supplierID),
			zap.Error(err),
		)
		v, g = nil, nil
		if userID != 0 {
			// logado mas sem perfil legível: só o que é gratuito
			if s.IsFreeSupplier {
				return s, nil
			}
			return nil, httperr.ErrBusiness("supplier_locked")
		}
	}

	switch d := access.Decide(v, g, s); {
	case d.Allowed():
		return s, nil
	case d == access.DeniedLoginRequired:
		return nil, httperr.ErrBusiness("login_required")
	default:
		return nil, httperr.ErrBusiness("supplier_locked")
	}
}

func (a *Aggregator) listSuppliers(
	ctx context.Context,
	filter domain.SupplierFilter,
) ([]models.Supplier, error) {

	var all []models.Supplier
	err := retry.Read(ctx, a.retry, func() error {
		var err error
		all, err = a.catalog.ListSuppliers(ctx, filter)
		return err
	})
	return all, err
}

// ======================================================
// CACHE
// ======================================================

func (a *Aggregator) InvalidateCategories(ctx context.Context) {
	if err := a.cache.Delete(ctx, cache.KeyCategories); err != nil {
		logger.Log.Warn("categories cache invalidation failed", zap.Error(err))
	}
}

func (a *Aggregator) InvalidateSubscription(ctx context.Context, userID uint) {
	if err := a.cache.Delete(ctx, cache.KeySubscription(userID)); err != nil {
		logger.Log.Warn("subscription cache invalidation failed", zap.Uint("user_id", userID), zap.Error(err))
	}
}
