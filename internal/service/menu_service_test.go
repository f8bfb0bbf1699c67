package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asquebay/meal-ticket-service/internal/eligibility"
	"github.com/asquebay/meal-ticket-service/internal/lib/logger"
	"github.com/asquebay/meal-ticket-service/internal/model"
	"github.com/asquebay/meal-ticket-service/internal/repository/cache"
)

func TestMenuService_GetShiftMenu_UsesCache(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first, err := f.menus.GetShiftMenu(ctx, lunch)
	require.NoError(t, err)
	second, err := f.menus.GetShiftMenu(ctx, lunch)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, f.menuRepo.calls)

	f.menus.Invalidate(lunch)
	_, err = f.menus.GetShiftMenu(ctx, lunch)
	require.NoError(t, err)
	assert.Equal(t, 2, f.menuRepo.calls)
}

func TestMenuService_LogsMenuWarnings(t *testing.T) {
	var buf bytes.Buffer
	menu := []model.MenuItem{
		{ID: 1, Name: "Arroz", Category: sides, MaxOrder: model.IntPtr(3), IsActive: true},
		{ID: 2, Name: "Ensalada", Category: sides, IsActive: true},
	}
	repo := &fakeMenuRepo{menus: map[int64][]model.MenuItem{lunch: menu}}
	svc := NewMenuService(repo, cache.NewMenuCache(), eligibility.New(eligibility.ByName), logger.NewWithWriter(&buf, "debug", "text"))

	_, err := svc.GetShiftMenu(context.Background(), lunch)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), eligibility.WarnUnboundedQuantity)
	assert.Contains(t, buf.String(), "Guarnición")
}

func TestMenuService_RestoreCache(t *testing.T) {
	f := newFixture()

	require.NoError(t, f.menus.RestoreCache(context.Background()))

	_, err := f.menus.GetShiftMenu(context.Background(), lunch)
	require.NoError(t, err)
	assert.Zero(t, f.menuRepo.calls, "menu served from warmed cache")
}

func TestMenuService_RestoreCache_Error(t *testing.T) {
	f := newFixture()
	f.menuRepo.err = errors.New("db down")

	assert.ErrorIs(t, f.menus.RestoreCache(context.Background()), f.menuRepo.err)
}
