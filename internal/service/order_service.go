package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/asquebay/meal-ticket-service/internal/eligibility"
	"github.com/asquebay/meal-ticket-service/internal/model"
	"github.com/asquebay/meal-ticket-service/internal/repository/postgres"

	"github.com/google/uuid"
)

// SelectionResult — корзина после операции и доступность кнопок "добавить"
type SelectionResult struct {
	Selection model.Selection `json:"selection"`
	CanAdd    map[int64]bool  `json:"can_add"`
	// Applied == false, если операция оказалась no-op
	Applied bool `json:"applied"`
}

// OrderService инкапсулирует бизнес-логику сборки и оформления заказов
type OrderService struct {
	menus     MenuProvider
	repo      OrderRepository
	cache     OrderCache
	publisher EventPublisher
	engine    *eligibility.Engine
	log       *slog.Logger
}

// NewOrderService создаёт новый экземпляр сервиса заказов
func NewOrderService(
	menus MenuProvider,
	repo OrderRepository,
	cache OrderCache,
	publisher EventPublisher,
	engine *eligibility.Engine,
	log *slog.Logger,
) *OrderService {
	return &OrderService{
		menus:     menus,
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		engine:    engine,
		log:       log,
	}
}

// AddItem добавляет одну единицу позиции в корзину клиента
// запрещённое добавление не ошибка: корзина возвращается без изменений и Applied == false
func (s *OrderService) AddItem(ctx context.Context, shiftID int64, sel model.Selection, itemID int64) (SelectionResult, error) {
	const op = "service.OrderService.AddItem"

	items, sel, err := s.prepare(ctx, shiftID, sel)
	if err != nil {
		return SelectionResult{}, fmt.Errorf("%s: %w", op, err)
	}

	item, ok := findItem(items, itemID)
	if !ok {
		return SelectionResult{}, fmt.Errorf("%s: item %d: %w", op, itemID, eligibility.ErrUnknownItem)
	}

	next := s.engine.AddOne(item, sel, items)
	return SelectionResult{
		Selection: next,
		CanAdd:    s.engine.Eligibility(next, items),
		Applied:   next.Qty(itemID) != sel.Qty(itemID),
	}, nil
}

// RemoveItem убирает одну единицу позиции из корзины клиента
func (s *OrderService) RemoveItem(ctx context.Context, shiftID int64, sel model.Selection, itemID int64) (SelectionResult, error) {
	const op = "service.OrderService.RemoveItem"

	items, sel, err := s.prepare(ctx, shiftID, sel)
	if err != nil {
		return SelectionResult{}, fmt.Errorf("%s: %w", op, err)
	}

	next := s.engine.RemoveOne(itemID, sel)
	return SelectionResult{
		Selection: next,
		CanAdd:    s.engine.Eligibility(next, items),
		Applied:   next.Qty(itemID) != sel.Qty(itemID),
	}, nil
}

// Eligibility вычисляет доступность всех позиций меню для текущей корзины
func (s *OrderService) Eligibility(ctx context.Context, shiftID int64, sel model.Selection) (SelectionResult, error) {
	const op = "service.OrderService.Eligibility"

	items, sel, err := s.prepare(ctx, shiftID, sel)
	if err != nil {
		return SelectionResult{}, fmt.Errorf("%s: %w", op, err)
	}

	return SelectionResult{
		Selection: sel,
		CanAdd:    s.engine.Eligibility(sel, items),
	}, nil
}

// prepare загружает меню смены и проверяет корзину, пришедшую от клиента
func (s *OrderService) prepare(ctx context.Context, shiftID int64, sel model.Selection) ([]model.MenuItem, model.Selection, error) {
	items, err := s.menus.GetShiftMenu(ctx, shiftID)
	if err != nil {
		return nil, nil, err
	}

	normalized, err := s.engine.Normalize(sel, items)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidSelection, err)
	}

	return items, normalized, nil
}

// SubmitOrder оформляет заказ
// присланные ID заново прогоняются через правила по актуальному меню смены,
// затем заказ сохраняется в БД, кладётся в кэш и публикуется в кафку
func (s *OrderService) SubmitOrder(ctx context.Context, req model.SubmitRequest) (model.Order, error) {
	const op = "service.OrderService.SubmitOrder"
	log := s.log.With(
		slog.String("op", op),
		slog.Int64("shift_id", req.ShiftID),
		slog.String("customer_id", req.CustomerID),
	)

	if err := req.Validate(); err != nil {
		return model.Order{}, fmt.Errorf("%s: %w: %w", op, ErrInvalidRequest, err)
	}

	// 1. Актуальное меню смены — источник правды для правил
	items, err := s.menus.GetShiftMenu(ctx, req.ShiftID)
	if err != nil {
		return model.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	// 2. Повторная проверка правил на сервере
	sel, err := s.engine.Replay(req.ItemIDs, items)
	if err != nil {
		log.Info("order rejected", slog.String("reason", err.Error()))
		return model.Order{}, fmt.Errorf("%s: %w: %w", op, ErrOrderRejected, err)
	}

	source := req.Source
	if source == "" {
		source = model.SourceWeb
	}

	order := model.Order{
		OrderUID:    uuid.NewString(),
		ShiftID:     req.ShiftID,
		CustomerID:  req.CustomerID,
		Source:      source,
		ItemIDs:     eligibility.Flatten(sel),
		DateCreated: time.Now().UTC(),
	}
	log = log.With(slog.String("order_uid", order.OrderUID))

	if err := order.Validate(); err != nil {
		return model.Order{}, fmt.Errorf("%s: %w: %w", op, ErrInvalidRequest, err)
	}

	// 3. Сохраняем в БД, это основной источник правды
	if err := s.repo.CreateOrder(ctx, order); err != nil {
		log.Error("failed to save order to repository", slog.String("error", err.Error()))
		return model.Order{}, fmt.Errorf("%s: %w", op, err)
	}
	s.cache.Set(order)

	// 4. Заказ уже сохранён, поэтому ошибку публикации только логируем
	if err := s.publisher.PublishAccepted(ctx, order.Event()); err != nil {
		log.Error("failed to publish accepted order", slog.String("error", err.Error()))
	}

	log.Info("order accepted", slog.Int("units", len(order.ItemIDs)))
	return order, nil
}

// GetOrderByUID получает заказ по его ID
// сначала ищет в кэше, и только если там нет — обращается к БД
func (s *OrderService) GetOrderByUID(ctx context.Context, uid string) (model.Order, error) {
	const op = "service.OrderService.GetOrderByUID"
	log := s.log.With(slog.String("op", op), slog.String("order_uid", uid))

	if order, found := s.cache.Get(uid); found {
		log.Debug("order found in cache")
		return order, nil
	}

	order, err := s.repo.GetOrderByUID(ctx, uid)
	if err != nil {
		// не логируем как ошибку, если просто не найдено
		if !errors.Is(err, postgres.ErrOrderNotFound) {
			log.Error("failed to get order from repository", slog.String("error", err.Error()))
		}
		return model.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	s.cache.Set(order)
	log.Debug("order found in repository and now cached")

	return order, nil
}

func findItem(items []model.MenuItem, id int64) (model.MenuItem, bool) {
	for _, item := range items {
		if item.ID == id {
			return item, true
		}
	}
	return model.MenuItem{}, false
}
