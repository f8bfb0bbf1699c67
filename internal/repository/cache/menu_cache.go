package cache

import (
	"sync"

	"github.com/asquebay/meal-ticket-service/internal/model"
)

// MenuCache хранит снимки меню смен: ID смены -> активные позиции
// снимок считается неизменяемым, при правке меню его надо сбросить через Invalidate
type MenuCache struct {
	storage sync.Map
}

// NewMenuCache создаёт новый экземпляр кэша меню
func NewMenuCache() *MenuCache {
	return &MenuCache{}
}

// Set сохраняет снимок меню смены
// срез копируется, чтобы вызывающий код не мог поменять кэш задним числом
func (c *MenuCache) Set(shiftID int64, items []model.MenuItem) {
	snapshot := make([]model.MenuItem, len(items))
	copy(snapshot, items)
	c.storage.Store(shiftID, snapshot)
}

// Get возвращает снимок меню смены
func (c *MenuCache) Get(shiftID int64) ([]model.MenuItem, bool) {
	value, ok := c.storage.Load(shiftID)
	if !ok {
		return nil, false
	}

	items, ok := value.([]model.MenuItem)
	return items, ok
}

// Invalidate удаляет снимок меню смены
func (c *MenuCache) Invalidate(shiftID int64) {
	c.storage.Delete(shiftID)
}

// LoadAll загружает в кэш меню нескольких смен
// используется для первоначального заполнения кэша при старте сервиса
func (c *MenuCache) LoadAll(menus map[int64][]model.MenuItem) {
	for shiftID, items := range menus {
		c.Set(shiftID, items)
	}
}
