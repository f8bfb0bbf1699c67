package service

import (
	"context"

	"github.com/asquebay/meal-ticket-service/internal/model"
)

// MenuRepository определяет контракт для хранилища меню смен
type MenuRepository interface {
	GetShiftMenu(ctx context.Context, shiftID int64) ([]model.MenuItem, error)
	GetAllMenus(ctx context.Context) (map[int64][]model.MenuItem, error)
}

// MenuCache определяет контракт для in-memory кэша меню
type MenuCache interface {
	Set(shiftID int64, items []model.MenuItem)
	Get(shiftID int64) ([]model.MenuItem, bool)
	Invalidate(shiftID int64)
	LoadAll(menus map[int64][]model.MenuItem)
}

// MenuProvider отдаёт актуальное меню смены, им пользуется сервис заказов
type MenuProvider interface {
	GetShiftMenu(ctx context.Context, shiftID int64) ([]model.MenuItem, error)
}

// OrderRepository определяет контракт для хранилища заказов в БД
type OrderRepository interface {
	CreateOrder(ctx context.Context, order model.Order) error
	GetOrderByUID(ctx context.Context, uid string) (model.Order, error)
}

// OrderCache определяет контракт для in-memory кэша заказов
type OrderCache interface {
	Set(order model.Order)
	Get(orderUID string) (model.Order, bool)
}

// EventPublisher публикует события о принятых заказах
type EventPublisher interface {
	PublishAccepted(ctx context.Context, event model.AcceptedEvent) error
}
