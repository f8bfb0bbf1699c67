package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/asquebay/meal-ticket-service/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrShiftNotFound = errors.New("shift not found")

// MenuRepository читает меню смен из БД
type MenuRepository struct {
	db *pgxpool.Pool
	sq squirrel.StatementBuilderType
}

// NewMenuRepository создает новый экземпляр репозитория меню
func NewMenuRepository(db *pgxpool.Pool) *MenuRepository {
	return &MenuRepository{
		db: db,
		sq: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// menuSelect — общая часть запросов меню: позиция, её категория (может быть NULL) и смена
func (r *MenuRepository) menuSelect() squirrel.SelectBuilder {
	return r.sq.Select(
		"smi.shift_id", "mi.id", "mi.name", "mi.icon_name", "mi.max_order", "mi.is_active",
		"mc.id", "mc.name",
	).
		From("menu_items mi").
		Join("shift_menu_items smi ON smi.menu_item_id = mi.id").
		LeftJoin("menu_categories mc ON mc.id = mi.category_id").
		Where(squirrel.Eq{"mi.is_active": true})
}

func (r *MenuRepository) shiftMenuQuery(shiftID int64) (string, []any, error) {
	return r.menuSelect().
		Where(squirrel.Eq{"smi.shift_id": shiftID}).
		OrderBy("mi.id").
		ToSql()
}

func (r *MenuRepository) allMenusQuery() (string, []any, error) {
	return r.menuSelect().
		OrderBy("smi.shift_id", "mi.id").
		ToSql()
}

// GetShiftMenu возвращает активные позиции меню смены
// неактивные позиции отфильтровываются здесь, движок правил их уже не проверяет
func (r *MenuRepository) GetShiftMenu(ctx context.Context, shiftID int64) ([]model.MenuItem, error) {
	const op = "repository.postgres.menu.GetShiftMenu"

	// 1. Проверяем, что смена существует, иначе пустое меню было бы неотличимо от несуществующей смены
	var id int64
	err := r.db.QueryRow(ctx, `SELECT id FROM shifts WHERE id = $1`, shiftID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrShiftNotFound)
		}
		return nil, fmt.Errorf("%s: failed to query shift: %w", op, err)
	}

	// 2. Получаем позиции
	sql, args, err := r.shiftMenuQuery(shiftID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build menu query: %w", op, err)
	}

	menus, err := r.queryMenus(ctx, sql, args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	items := menus[shiftID]
	if items == nil {
		items = []model.MenuItem{}
	}
	return items, nil
}

// GetAllMenus извлекает меню всех смен
// предназначен для прогрева кэша при старте
func (r *MenuRepository) GetAllMenus(ctx context.Context) (map[int64][]model.MenuItem, error) {
	const op = "repository.postgres.menu.GetAllMenus"

	sql, args, err := r.allMenusQuery()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build menu query: %w", op, err)
	}

	menus, err := r.queryMenus(ctx, sql, args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return menus, nil
}

func (r *MenuRepository) queryMenus(ctx context.Context, sql string, args []any) (map[int64][]model.MenuItem, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query menu items: %w", err)
	}
	defer rows.Close()

	menus := make(map[int64][]model.MenuItem)
	for rows.Next() {
		var (
			shiftID      int64
			item         model.MenuItem
			categoryID   *int64
			categoryName *string
		)
		err := rows.Scan(
			&shiftID, &item.ID, &item.Name, &item.IconName, &item.MaxOrder, &item.IsActive,
			&categoryID, &categoryName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan menu item row: %w", err)
		}

		if categoryID != nil && categoryName != nil {
			item.Category = &model.MenuCategory{ID: *categoryID, Name: *categoryName}
		}
		menus[shiftID] = append(menus[shiftID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate menu item rows: %w", err)
	}

	return menus, nil
}
