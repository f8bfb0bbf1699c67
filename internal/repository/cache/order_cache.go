package cache

import (
	"sync"

	"github.com/asquebay/meal-ticket-service/internal/model"
)

// OrderCache — потокобезопасный in-memory кэш принятых заказов
type OrderCache struct {
	// ключ — string (OrderUID), значение — model.Order
	storage sync.Map
}

// NewOrderCache создаёт новый экземпляр кэша
func NewOrderCache() *OrderCache {
	return &OrderCache{}
}

// Set добавляет или обновляет заказ в кэше
func (c *OrderCache) Set(order model.Order) {
	c.storage.Store(order.OrderUID, order)
}

// Get извлекает заказ из кэша по его UID
func (c *OrderCache) Get(orderUID string) (model.Order, bool) {
	value, ok := c.storage.Load(orderUID)
	if !ok {
		return model.Order{}, false
	}

	order, ok := value.(model.Order)
	return order, ok
}
