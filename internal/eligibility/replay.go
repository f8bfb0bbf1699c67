package eligibility

import (
	"errors"
	"fmt"

	"github.com/asquebay/meal-ticket-service/internal/model"
)

var (
	ErrUnknownItem  = errors.New("item is not on the shift menu")
	ErrNotEligible  = errors.New("item cannot be added to the selection")
	ErrTooManyUnits = errors.New("selection has too many units")
)

// MaxUnits — предел единиц в одной корзине или заявке
// ограничивает работу Replay и размер развёрнутого списка ID
const MaxUnits = 200

// ItemError указывает на позицию заявки, на которой остановилась проверка
type ItemError struct {
	Position int
	ItemID   int64
	Err      error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("item %d at position %d: %v", e.ItemID, e.Position, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

// Flatten разворачивает корзину в список ID: каждый ID повторяется по числу единиц
// ID идут по возрастанию, чтобы результат был детерминированным;
// нулевые и отрицательные количества пропускаются
// корзину от клиента сначала нужно пропустить через Normalize
func Flatten(sel model.Selection) []int64 {
	out := make([]int64, 0, min(sel.Total(), MaxUnits))
	for _, id := range sel.IDs() {
		for n := 0; n < sel[id]; n++ {
			out = append(out, id)
		}
	}
	return out
}

// Replay заново собирает корзину из присланных ID, добавляя их по одному
// через те же проверки, что и UI; первая запрещённая или неизвестная позиция
// возвращается как *ItemError
func (e *Engine) Replay(itemIDs []int64, items []model.MenuItem) (model.Selection, error) {
	if len(itemIDs) > MaxUnits {
		return nil, &ItemError{Position: MaxUnits, ItemID: itemIDs[MaxUnits], Err: ErrTooManyUnits}
	}

	menu := e.newMenuIndex(items)
	sel := make(model.Selection, len(itemIDs))

	for pos, id := range itemIDs {
		item, ok := menu.byID[id]
		if !ok {
			return nil, &ItemError{Position: pos, ItemID: id, Err: ErrUnknownItem}
		}
		if !e.canAdd(item, sel, menu) {
			return nil, &ItemError{Position: pos, ItemID: id, Err: ErrNotEligible}
		}
		// корзина локальная, копировать её на каждом шаге незачем
		sel[id]++
	}

	return sel, nil
}

// Normalize проверяет корзину, пришедшую извне, и возвращает её чистую копию
// без нулевых и отрицательных количеств
//
// до разворачивания каждая запись проверяется отдельно: ID есть в меню,
// количество не больше MaxOrder позиции, сумма не больше MaxUnits.
// Position в *ItemError считается по развёрнутому списку ID
func (e *Engine) Normalize(sel model.Selection, items []model.MenuItem) (model.Selection, error) {
	index := indexByID(items)

	units := 0
	for _, id := range sel.IDs() {
		qty := sel[id]
		if qty <= 0 {
			continue
		}

		item, ok := index[id]
		if !ok {
			return nil, &ItemError{Position: units, ItemID: id, Err: ErrUnknownItem}
		}
		if item.MaxOrder != nil && qty > *item.MaxOrder {
			return nil, &ItemError{Position: units + *item.MaxOrder, ItemID: id, Err: ErrNotEligible}
		}
		if qty > MaxUnits-units {
			return nil, &ItemError{Position: MaxUnits, ItemID: id, Err: ErrTooManyUnits}
		}
		units += qty
	}

	return e.Replay(Flatten(sel), items)
}
