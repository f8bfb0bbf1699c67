package eligibility

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/asquebay/meal-ticket-service/internal/model"
)

func TestLint(t *testing.T) {
	twin := &model.MenuCategory{ID: 42, Name: "Bebida"}
	items := []model.MenuItem{
		newItem(1, drinks, 1),
		newItem(2, twin, 1),
		newItem(3, sides, 3),
		newItem(4, sides, 0),
		newItem(5, dessert, 1),
		newItem(6, dessert, 0),
		newItem(7, nil, 0),
	}

	got := std.Lint(items)

	assert.Equal(t, []Warning{
		{
			Code:     WarnSharedCategoryName,
			Category: "Bebida",
			Message:  "2 categories share this name and are treated as one",
		},
		{
			Code:     WarnUnboundedQuantity,
			Category: "Guarnición",
			Message:  "an item without max_order disables the category quantity cap",
		},
	}, got)
}

func TestLint_ByIDSkipsSharedNames(t *testing.T) {
	twin := &model.MenuCategory{ID: 42, Name: "Bebida"}
	items := []model.MenuItem{newItem(1, drinks, 1), newItem(2, twin, 1)}

	assert.Empty(t, New(ByID).Lint(items))
}
