package model

// Shift — именованное окно обслуживания (завтрак, обед и т.д.) со своим меню
type Shift struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// MenuCategory — справочная категория меню
// поведение категории при заказе вычисляется по её имени, а не по ID
type MenuCategory struct {
	ID   int64  `json:"id" validate:"required"`
	Name string `json:"name" validate:"required"`
}

// MenuItem представляет одну позицию меню смены
// MaxOrder == nil означает, что у самой позиции нет ограничения на количество
type MenuItem struct {
	ID       int64         `json:"id" validate:"required"`
	Name     string        `json:"name" validate:"required"`
	IconName string        `json:"icon_name"`
	Category *MenuCategory `json:"category,omitempty"`
	MaxOrder *int          `json:"max_order,omitempty" validate:"omitempty,gte=1"`
	IsActive bool          `json:"is_active"`
}

// CategoryName возвращает имя категории позиции и false, если категории нет
func (i MenuItem) CategoryName() (string, bool) {
	if i.Category == nil {
		return "", false
	}
	return i.Category.Name, true
}

// Validate проверяет корректность позиции меню на основе тегов validate
func (i *MenuItem) Validate() error {
	return validate.Struct(i)
}

// IntPtr — хелпер для заполнения MaxOrder
func IntPtr(v int) *int {
	return &v
}
