package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/asquebay/meal-ticket-service/internal/eligibility"
	"github.com/asquebay/meal-ticket-service/internal/model"
)

// MenuService отдаёт меню смен и следит за кэшем снимков
type MenuService struct {
	repo   MenuRepository
	cache  MenuCache
	engine *eligibility.Engine
	log    *slog.Logger
}

// NewMenuService создаёт новый экземпляр сервиса меню
func NewMenuService(repo MenuRepository, cache MenuCache, engine *eligibility.Engine, log *slog.Logger) *MenuService {
	return &MenuService{
		repo:   repo,
		cache:  cache,
		engine: engine,
		log:    log,
	}
}

// GetShiftMenu возвращает активные позиции смены
// сначала ищет в кэше, и только если там нет — обращается к БД
func (s *MenuService) GetShiftMenu(ctx context.Context, shiftID int64) ([]model.MenuItem, error) {
	const op = "service.MenuService.GetShiftMenu"
	log := s.log.With(slog.String("op", op), slog.Int64("shift_id", shiftID))

	if items, found := s.cache.Get(shiftID); found {
		log.Debug("menu found in cache")
		return items, nil
	}

	items, err := s.repo.GetShiftMenu(ctx, shiftID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.lint(log, items)
	s.cache.Set(shiftID, items)
	log.Info("menu loaded from repository and cached", slog.Int("items_count", len(items)))

	return items, nil
}

// Invalidate сбрасывает снимок меню смены, следующий запрос пойдёт в БД
func (s *MenuService) Invalidate(shiftID int64) {
	s.cache.Invalidate(shiftID)
	s.log.Info("menu cache invalidated", slog.Int64("shift_id", shiftID))
}

// RestoreCache прогревает кэш меню всех смен при старте
func (s *MenuService) RestoreCache(ctx context.Context) error {
	const op = "service.MenuService.RestoreCache"
	log := s.log.With(slog.String("op", op))

	log.Info("starting menu cache restoration from database")

	menus, err := s.repo.GetAllMenus(ctx)
	if err != nil {
		log.Error("failed to get menus from repository", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, err)
	}

	for shiftID, items := range menus {
		s.lint(log.With(slog.Int64("shift_id", shiftID)), items)
	}
	s.cache.LoadAll(menus)

	log.Info("menu cache restored successfully", slog.Int("shifts_count", len(menus)))
	return nil
}

// lint пишет в лог предупреждения о данных меню, на которых правила ведут себя неочевидно
func (s *MenuService) lint(log *slog.Logger, items []model.MenuItem) {
	for _, w := range s.engine.Lint(items) {
		log.Warn("menu data warning",
			slog.String("code", w.Code),
			slog.String("category", w.Category),
			slog.String("detail", w.Message),
		)
	}
}
