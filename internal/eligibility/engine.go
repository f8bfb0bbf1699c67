// Package eligibility решает, можно ли добавить позицию меню в корзину.
//
// Поведение категории (exclusive, quantity, unlimited) выводится из MaxOrder
// всех позиций категории в меню смены. Проверка всегда идёт в одном порядке:
// сначала собственный лимит позиции, потом правило категории.
//
// Все функции пакета чистые: корзина на входе никогда не изменяется.
package eligibility

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/asquebay/meal-ticket-service/internal/model"
)

// CategoryKey задаёт, по какому полю позиции группируются в категории
type CategoryKey int

const (
	// ByName группирует по имени категории (точное совпадение строк)
	// две разные категории с одинаковым именем сливаются в одну
	ByName CategoryKey = iota
	// ByID группирует по ID категории
	ByID
)

// ParseCategoryKey разбирает значение category_match из конфига
func ParseCategoryKey(s string) (CategoryKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "name":
		return ByName, nil
	case "id":
		return ByID, nil
	default:
		return ByName, fmt.Errorf("unknown category match %q", s)
	}
}

// Engine — движок правил заказа
// состояния не хранит, поэтому безопасен для конкурентного использования
type Engine struct {
	key CategoryKey
}

// New создаёт движок с заданной стратегией группировки категорий
func New(key CategoryKey) *Engine {
	return &Engine{key: key}
}

var std = New(ByName)

// Classify вычисляет поведение категории по имени
func Classify(categoryName string, items []model.MenuItem) Behavior {
	return std.Classify(categoryName, items)
}

// CanAdd сообщает, можно ли сейчас добавить позицию в корзину
func CanAdd(item model.MenuItem, sel model.Selection, items []model.MenuItem) bool {
	return std.CanAdd(item, sel, items)
}

// AddOne добавляет одну единицу позиции, если это разрешено
func AddOne(item model.MenuItem, sel model.Selection, items []model.MenuItem) model.Selection {
	return std.AddOne(item, sel, items)
}

// RemoveOne убирает одну единицу позиции из корзины
func RemoveOne(itemID int64, sel model.Selection) model.Selection {
	return std.RemoveOne(itemID, sel)
}

// KeyOf возвращает ключ категории позиции и false, если категории нет
func (e *Engine) KeyOf(item model.MenuItem) (string, bool) {
	if item.Category == nil {
		return "", false
	}
	if e.key == ByID {
		return strconv.FormatInt(item.Category.ID, 10), true
	}
	return item.Category.Name, true
}

// Classify вычисляет поведение категории с ключом key по всем позициям меню
//
// таблица решений (первое совпадение):
//   - в категории нет позиций: Unlimited
//   - у всех позиций MaxOrder == 1: Exclusive
//   - ни у одной позиции нет MaxOrder: Unlimited
//   - max(MaxOrder), где nil считается бесконечностью, больше 1: Quantity(max)
//   - иначе: Unlimited
//
// одна позиция без MaxOrder снимает лимит со всей категории: Quantity(Unbounded)
//
// строка "ни у одной позиции нет MaxOrder" проверяется раньше редукции max:
// без неё такая категория получила бы Quantity(Unbounded). CanAdd для обоих
// вариантов ведёт себя одинаково, разница видна только в Kind, который
// отдаётся клиенту в списке категорий меню
func (e *Engine) Classify(key string, items []model.MenuItem) Behavior {
	var (
		matched int
		allOne  = true
		capped  bool
		rawMax  int
	)

	for _, item := range items {
		k, ok := e.KeyOf(item)
		if !ok || k != key {
			continue
		}
		matched++

		if item.MaxOrder == nil {
			allOne = false
			rawMax = Unbounded
			continue
		}

		capped = true
		if *item.MaxOrder != 1 {
			allOne = false
		}
		if *item.MaxOrder > rawMax {
			rawMax = *item.MaxOrder
		}
	}

	switch {
	case matched == 0:
		return unlimited()
	case allOne:
		return exclusive()
	case !capped:
		return unlimited()
	case rawMax > 1:
		return quantity(rawMax)
	default:
		return unlimited()
	}
}

// ClassifyItem вычисляет поведение категории, к которой относится позиция
// для позиции без категории возвращает Unlimited
func (e *Engine) ClassifyItem(item model.MenuItem, items []model.MenuItem) Behavior {
	key, ok := e.KeyOf(item)
	if !ok {
		return unlimited()
	}
	return e.Classify(key, items)
}

// CanAdd сообщает, можно ли добавить ещё одну единицу позиции
// порядок проверок важен: лимит позиции проверяется до правила категории,
// поэтому повторное добавление той же exclusive-позиции блокирует её MaxOrder
func (e *Engine) CanAdd(item model.MenuItem, sel model.Selection, items []model.MenuItem) bool {
	return e.canAdd(item, sel, e.newMenuIndex(items))
}

func (e *Engine) canAdd(item model.MenuItem, sel model.Selection, menu *menuIndex) bool {
	current := sel.Qty(item.ID)
	if item.MaxOrder != nil && current >= *item.MaxOrder {
		return false
	}

	key, ok := e.KeyOf(item)
	if !ok {
		return true
	}

	behavior := menu.behavior(key)
	switch behavior.Kind {
	case Exclusive:
		// слот категории уже занят, в том числе другой позицией
		return e.categoryQty(key, sel, menu) == 0
	case Quantity:
		return e.categoryQty(key, sel, menu) < behavior.Limit
	default:
		return true
	}
}

// AddOne возвращает новую корзину с позицией, увеличенной на 1
// если добавление запрещено, возвращается та же самая корзина
func (e *Engine) AddOne(item model.MenuItem, sel model.Selection, items []model.MenuItem) model.Selection {
	if !e.CanAdd(item, sel, items) {
		return sel
	}

	next := sel.Clone()
	next[item.ID]++
	return next
}

// RemoveOne возвращает новую корзину с позицией, уменьшенной на 1
// нулевое количество не хранится: ключ удаляется
func (e *Engine) RemoveOne(itemID int64, sel model.Selection) model.Selection {
	if sel.Qty(itemID) <= 0 {
		return sel
	}

	next := sel.Clone()
	if next[itemID] > 1 {
		next[itemID]--
	} else {
		delete(next, itemID)
	}
	return next
}

// Eligibility вычисляет CanAdd для каждой позиции меню
// используется UI, чтобы за один вызов включить или выключить кнопки "добавить"
func (e *Engine) Eligibility(sel model.Selection, items []model.MenuItem) map[int64]bool {
	menu := e.newMenuIndex(items)
	out := make(map[int64]bool, len(items))
	for _, item := range items {
		out[item.ID] = e.canAdd(item, sel, menu)
	}
	return out
}

// menuIndex — меню смены, разобранное один раз на всю серию проверок
type menuIndex struct {
	byID      map[int64]model.MenuItem
	behaviors map[string]Behavior
}

func (e *Engine) newMenuIndex(items []model.MenuItem) *menuIndex {
	return &menuIndex{
		byID:      indexByID(items),
		behaviors: e.Behaviors(items),
	}
}

// behavior возвращает поведение категории; категории без позиций в меню Unlimited
func (m *menuIndex) behavior(key string) Behavior {
	if b, ok := m.behaviors[key]; ok {
		return b
	}
	return unlimited()
}

// categoryQty суммирует количества выбранных позиций категории key
// ID, которых нет в меню, не учитываются
func (e *Engine) categoryQty(key string, sel model.Selection, menu *menuIndex) int {
	sum := 0
	for id, qty := range sel {
		if qty <= 0 {
			continue
		}
		item, ok := menu.byID[id]
		if !ok {
			continue
		}
		if k, ok := e.KeyOf(item); ok && k == key {
			sum += qty
		}
	}
	return sum
}

// indexByID строит индекс позиций по ID, при дублях побеждает первая
func indexByID(items []model.MenuItem) map[int64]model.MenuItem {
	index := make(map[int64]model.MenuItem, len(items))
	for _, item := range items {
		if _, exists := index[item.ID]; !exists {
			index[item.ID] = item
		}
	}
	return index
}

// Behaviors вычисляет поведение каждой категории, встречающейся в меню
func (e *Engine) Behaviors(items []model.MenuItem) map[string]Behavior {
	out := make(map[string]Behavior)
	for _, item := range items {
		key, ok := e.KeyOf(item)
		if !ok {
			continue
		}
		if _, done := out[key]; !done {
			out[key] = e.Classify(key, items)
		}
	}
	return out
}
