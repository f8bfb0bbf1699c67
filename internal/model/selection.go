package model

import (
	"math"
	"sort"
)

// Selection — корзина, собираемая до оформления заказа: ID позиции -> количество
// нулевые количества никогда не хранятся, отсутствие ключа означает ноль
type Selection map[int64]int

// Qty возвращает количество позиции в корзине
func (s Selection) Qty(itemID int64) int {
	return s[itemID]
}

// Clone возвращает независимую копию корзины
func (s Selection) Clone() Selection {
	out := make(Selection, len(s))
	for id, qty := range s {
		out[id] = qty
	}
	return out
}

// Total — общее количество единиц в корзине
// нулевые и отрицательные количества не учитываются, при переполнении возвращается math.MaxInt
func (s Selection) Total() int {
	total := 0
	for _, qty := range s {
		if qty <= 0 {
			continue
		}
		if qty > math.MaxInt-total {
			return math.MaxInt
		}
		total += qty
	}
	return total
}

// IDs возвращает ключи корзины по возрастанию
func (s Selection) IDs() []int64 {
	ids := make([]int64, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
