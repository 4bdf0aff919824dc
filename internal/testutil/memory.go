// Package testutil traz repositórios em memória para os testes dos casos de uso.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/supplier-directory/internal/domain/account"
	"github.com/BruksfildServices01/supplier-directory/internal/domain/catalog"
	"github.com/BruksfildServices01/supplier-directory/internal/domain/rating"
	"github.com/BruksfildServices01/supplier-directory/internal/httperr"
	"github.com/BruksfildServices01/supplier-directory/internal/models"
)

// ===============================
// Catalog
// ===============================

type CatalogRepo struct {
	mu sync.Mutex

	Categories map[uint]*models.Category
	Suppliers  map[uint]*models.Supplier
	Ratings    map[uint][]models.Rating
	Highlights []models.Highlight

	// falhas injetadas
	ListSuppliersErr error
	GetSupplierErr   error

	ListSuppliersCalls int
	nextID             uint
}

func NewCatalogRepo() *CatalogRepo {
	return &CatalogRepo{
		Categories: map[uint]*models.Category{},
		Suppliers:  map[uint]*models.Supplier{},
		Ratings:    map[uint][]models.Rating{},
		nextID:     100,
	}
}

func (r *CatalogRepo) id() uint {
	r.nextID++
	return r.nextID
}

func (r *CatalogRepo) AddCategory(id uint, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Categories[id] = &models.Category{ID: id, Name: name}
}

func (r *CatalogRepo) AddSupplier(s models.Supplier) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := s
	r.Suppliers[s.ID] = &cp
}

func (r *CatalogRepo) ListCategories(context.Context) ([]models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.Category, 0, len(r.Categories))
	for _, c := range r.Categories {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *CatalogRepo) GetCategory(_ context.Context, id uint) (*models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.Categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *CatalogRepo) CreateCategory(_ context.Context, c *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c.ID = r.id()
	cp := *c
	r.Categories[c.ID] = &cp
	return nil
}

func (r *CatalogRepo) UpdateCategory(_ context.Context, c *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *c
	r.Categories[c.ID] = &cp
	return nil
}

func (r *CatalogRepo) DeleteCategory(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.Categories[id]; !ok {
		return httperr.ErrBusiness("category_not_found")
	}
	delete(r.Categories, id)
	return nil
}

func (r *CatalogRepo) CountSuppliersInCategory(_ context.Context, categoryID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, s := range r.Suppliers {
		for _, c := range s.Categories {
			if c.ID == categoryID {
				n++
				break
			}
		}
	}
	return n, nil
}

func (r *CatalogRepo) FindCategories(_ context.Context, ids []uint) ([]models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Category
	for _, id := range ids {
		if c, ok := r.Categories[id]; ok {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *CatalogRepo) ListSuppliers(_ context.Context, f catalog.SupplierFilter) ([]models.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ListSuppliersCalls++
	if r.ListSuppliersErr != nil {
		return nil, r.ListSuppliersErr
	}

	var out []models.Supplier
	for _, s := range r.Suppliers {
		if f.CategoryID != 0 && !hasCategory(s, f.CategoryID) {
			continue
		}
		if q := strings.ToLower(f.Query); q != "" &&
			!strings.Contains(strings.ToLower(s.Name), q) &&
			!strings.Contains(strings.ToLower(s.City), q) {
			continue
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *CatalogRepo) GetSupplier(_ context.Context, id uint) (*models.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.GetSupplierErr != nil {
		return nil, r.GetSupplierErr
	}
	s, ok := r.Suppliers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	cp.Ratings = append([]models.Rating(nil), r.Ratings[id]...)
	return &cp, nil
}

func (r *CatalogRepo) CreateSupplier(_ context.Context, s *models.Supplier) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s.ID = r.id()
	cp := *s
	r.Suppliers[s.ID] = &cp
	return nil
}

func (r *CatalogRepo) UpdateSupplier(_ context.Context, s *models.Supplier) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.Suppliers[s.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *s
	cp.AverageRating = old.AverageRating
	r.Suppliers[s.ID] = &cp
	return nil
}

func (r *CatalogRepo) DeleteSupplier(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.Suppliers[id]; !ok {
		return httperr.ErrBusiness("supplier_not_found")
	}
	delete(r.Suppliers, id)
	delete(r.Ratings, id)
	return nil
}

func (r *CatalogRepo) ListRatings(_ context.Context, supplierID uint) ([]models.Rating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Rating(nil), r.Ratings[supplierID]...), nil
}

func (r *CatalogRepo) UpdateRatings(
	_ context.Context,
	supplierID uint,
	mutate catalog.RatingsMutation,
) (*models.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.Suppliers[supplierID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}

	next, err := mutate(append([]models.Rating(nil), r.Ratings[supplierID]...))
	if err != nil {
		return nil, err
	}

	r.Ratings[supplierID] = next
	s.AverageRating = rating.Average(next)

	cp := *s
	cp.Ratings = append([]models.Rating(nil), next...)
	return &cp, nil
}

func (r *CatalogRepo) ListHighlights(context.Context) ([]models.Highlight, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Highlight(nil), r.Highlights...), nil
}

func hasCategory(s *models.Supplier, id uint) bool {
	for _, c := range s.Categories {
		if c.ID == id {
			return true
		}
	}
	return false
}

// ===============================
// Account
// ===============================

type AccountRepo struct {
	mu sync.Mutex

	Users         map[uint]*models.User
	Subscriptions map[uint]*models.Subscription

	GetUserErr         error
	GetSubscriptionErr error

	GetSubscriptionCalls int
}

func NewAccountRepo() *AccountRepo {
	return &AccountRepo{
		Users:         map[uint]*models.User{},
		Subscriptions: map[uint]*models.Subscription{},
	}
}

func (r *AccountRepo) AddUser(u models.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := u
	r.Users[u.ID] = &cp
}

func (r *AccountRepo) AddSubscription(s models.Subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := s
	r.Subscriptions[s.UserID] = &cp
}

func (r *AccountRepo) GetUser(_ context.Context, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.GetUserErr != nil {
		return nil, r.GetUserErr
	}
	u, ok := r.Users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *AccountRepo) UpdateProfile(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.Users[u.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Name = u.Name
	stored.Phone = u.Phone
	stored.PasswordHash = u.PasswordHash
	return nil
}

func (r *AccountRepo) SetFavorites(_ context.Context, userID uint, ids []uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.Users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Favorites = append([]uint{}, ids...)
	return nil
}

func (r *AccountRepo) GetSubscription(_ context.Context, userID uint) (*models.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.GetSubscriptionCalls++
	if r.GetSubscriptionErr != nil {
		return nil, r.GetSubscriptionErr
	}
	s, ok := r.Subscriptions[userID]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *AccountRepo) FindSubscriptionByPayment(_ context.Context, paymentID string) (*models.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.Subscriptions {
		if s.LastPaymentID == paymentID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *AccountRepo) UpdateSelectedCategories(
	_ context.Context,
	userID uint,
	ids []uint,
	check func(current *models.Subscription) error,
) (*models.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.Subscriptions[userID]
	if !ok {
		return nil, httperr.ErrBusiness("subscription_not_found")
	}

	current := *stored
	if err := check(&current); err != nil {
		return nil, err
	}

	stored.SelectedCategories = append([]uint{}, ids...)
	cp := *stored
	cp.SelectedCategories = append([]uint{}, ids...)
	return &cp, nil
}

func (r *AccountRepo) SaveSubscriptionAndPlan(_ context.Context, sub *models.Subscription, planType string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.save(sub)
	if u, ok := r.Users[sub.UserID]; ok {
		u.Plan = planType
	}
	return nil
}

func (r *AccountRepo) ListExpiredSubscriptions(_ context.Context, now time.Time) ([]models.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Subscription
	for _, s := range r.Subscriptions {
		if s.Status == "active" && s.EndDate != nil && !s.EndDate.After(now) {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (r *AccountRepo) save(sub *models.Subscription) {
	if sub.ID == 0 {
		sub.ID = uint(len(r.Subscriptions) + 1)
	}
	cp := *sub
	cp.SelectedCategories = append([]uint(nil), sub.SelectedCategories...)
	r.Subscriptions[sub.UserID] = &cp
}

var (
	_ catalog.Repository = (*CatalogRepo)(nil)
	_ account.Repository = (*AccountRepo)(nil)
)
