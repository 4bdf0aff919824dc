package catalog

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/BruksfildServices01/supplier-directory/internal/domain/access"
	domain "github.com/BruksfildServices01/supplier-directory/internal/domain/catalog"
	"github.com/BruksfildServices01/supplier-directory/internal/domain/plan"
	"github.com/BruksfildServices01/supplier-directory/internal/logger"
	"github.com/BruksfildServices01/supplier-directory/internal/models"
)

type Dashboard struct {
	Categories []models.Category  `json:"categories"`
	Suppliers  []models.Supplier  `json:"suppliers"`
	Highlights []models.Highlight `json:"highlights"`

	Plan               plan.ID `json:"plan"`
	SelectedCategories []uint  `json:"selected_categories"`
}

// LoadDashboard busca categorias, fornecedores, destaques e o perfil em
// paralelo. Falha no perfil não derruba o grupo: cai para os gratuitos.
func (a *Aggregator) LoadDashboard(ctx context.Context, userID uint) (*Dashboard, error) {
	var (
		cats       []models.Category
		suppliers  []models.Supplier
		highlights []models.Highlight

		viewer    *access.Viewer
		grant     *access.Grant
		viewerErr error
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		cats, err = a.Categories(gctx)
		return err
	})

	g.Go(func() error {
		var err error
		suppliers, err = a.listSuppliers(gctx, domain.SupplierFilter{})
		return err
	})

	g.Go(func() error {
		var err error
		highlights, err = a.Highlights(gctx)
		return err
	})

	g.Go(func() error {
		viewer, grant, viewerErr = a.ResolveViewer(gctx, userID)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	d := &Dashboard{
		Categories: cats,
		Highlights: highlights,
		Plan:       plan.Free,
	}

	if viewerErr != nil {
		logger.Log.Warn("viewer lookup failed on dashboard, serving free suppliers only",
			zap.Uint("user_id", userID),
			zap.Error(viewerErr),
		)
		d.Suppliers = access.FreeOnly(suppliers)
		return d, nil
	}

	d.Suppliers = access.FilterAccessible(viewer, grant, suppliers)
	if viewer != nil {
		d.Plan = viewer.Plan
	}
	if grant != nil {
		d.SelectedCategories = grant.SelectedCategories
	}
	return d, nil
}
