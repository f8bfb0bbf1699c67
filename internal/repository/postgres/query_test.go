package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asquebay/meal-ticket-service/internal/model"
)

func TestMenuRepository_ShiftMenuQuery(t *testing.T) {
	r := NewMenuRepository(nil)

	sql, args, err := r.shiftMenuQuery(7)
	require.NoError(t, err)

	assert.Contains(t, sql, "FROM menu_items mi")
	assert.Contains(t, sql, "JOIN shift_menu_items smi ON smi.menu_item_id = mi.id")
	assert.Contains(t, sql, "LEFT JOIN menu_categories mc ON mc.id = mi.category_id")
	assert.Contains(t, sql, "mi.is_active = $1")
	assert.Contains(t, sql, "smi.shift_id = $2")
	assert.Contains(t, sql, "ORDER BY mi.id")
	assert.Equal(t, []any{true, int64(7)}, args)
}

func TestMenuRepository_AllMenusQuery(t *testing.T) {
	r := NewMenuRepository(nil)

	sql, args, err := r.allMenusQuery()
	require.NoError(t, err)

	assert.NotContains(t, sql, "smi.shift_id =")
	assert.Contains(t, sql, "ORDER BY smi.shift_id, mi.id")
	assert.Equal(t, []any{true}, args)
}

func TestOrderRepository_InsertQueries(t *testing.T) {
	r := NewOrderRepository(nil)
	created := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	order := model.Order{
		OrderUID:    "0b6f4c2e-3d0a-4c1e-9a57-1f0f7c7a2b10",
		ShiftID:     3,
		CustomerID:  "emp-17",
		Source:      model.SourceWeb,
		ItemIDs:     []int64{4, 4, 9},
		DateCreated: created,
	}

	sql, args, err := r.insertOrderQuery(order)
	require.NoError(t, err)
	assert.Contains(t, sql, "INSERT INTO orders")
	assert.Equal(t, []any{order.OrderUID, int64(3), "emp-17", "web", created}, args)

	sql, args, err = r.insertItemsQuery(order)
	require.NoError(t, err)
	assert.Contains(t, sql, "INSERT INTO order_items")
	assert.Contains(t, sql, "($7,$8,$9)")
	assert.Equal(t, []any{
		order.OrderUID, 0, int64(4),
		order.OrderUID, 1, int64(4),
		order.OrderUID, 2, int64(9),
	}, args)
}
