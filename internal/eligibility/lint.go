package eligibility

import (
	"fmt"
	"sort"

	"github.com/asquebay/meal-ticket-service/internal/model"
)

const (
	// WarnUnboundedQuantity — позиция без MaxOrder снимает лимит с quantity-категории
	WarnUnboundedQuantity = "unbounded-quantity-category"
	// WarnSharedCategoryName — разные категории с одним именем сливаются при группировке по имени
	WarnSharedCategoryName = "shared-category-name"
)

// Warning — замечание к данным меню, которое меняет поведение правил
type Warning struct {
	Code     string
	Category string
	Message  string
}

// Lint ищет в меню данные, на которых правила ведут себя неочевидно
func (e *Engine) Lint(items []model.MenuItem) []Warning {
	type group struct {
		hasNil     bool
		finiteOver int
		ids        map[int64]struct{}
	}

	groups := make(map[string]*group)
	for _, item := range items {
		key, ok := e.KeyOf(item)
		if !ok {
			continue
		}
		g, ok := groups[key]
		if !ok {
			g = &group{ids: make(map[int64]struct{})}
			groups[key] = g
		}
		g.ids[item.Category.ID] = struct{}{}
		if item.MaxOrder == nil {
			g.hasNil = true
		} else if *item.MaxOrder > 1 {
			g.finiteOver++
		}
	}

	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var warnings []Warning
	for _, key := range keys {
		g := groups[key]
		if g.hasNil && g.finiteOver > 0 {
			warnings = append(warnings, Warning{
				Code:     WarnUnboundedQuantity,
				Category: key,
				Message:  "an item without max_order disables the category quantity cap",
			})
		}
		if e.key == ByName && len(g.ids) > 1 {
			warnings = append(warnings, Warning{
				Code:     WarnSharedCategoryName,
				Category: key,
				Message:  fmt.Sprintf("%d categories share this name and are treated as one", len(g.ids)),
			})
		}
	}

	return warnings
}
