package eligibility

import (
	"fmt"
	"math"
)

// Kind — тип поведения категории при заказе
type Kind int

const (
	// Unlimited — ограничения на уровне категории нет, действуют только MaxOrder позиций
	Unlimited Kind = iota
	// Exclusive — из категории можно выбрать не больше одной единицы одной позиции
	Exclusive
	// Quantity — суммарное количество позиций категории не больше Limit
	Quantity
)

// Unbounded — лимит Quantity-категории, в которой есть позиция без MaxOrder
const Unbounded = math.MaxInt

func (k Kind) String() string {
	switch k {
	case Exclusive:
		return "exclusive"
	case Quantity:
		return "quantity"
	default:
		return "unlimited"
	}
}

// Behavior — вычисленное (не хранимое) поведение категории
type Behavior struct {
	Kind  Kind
	Limit int
}

// Bounded сообщает, ограничивает ли категория суммарное количество
func (b Behavior) Bounded() bool {
	return b.Kind != Unlimited && b.Limit != Unbounded
}

func (b Behavior) String() string {
	switch {
	case b.Kind == Quantity && b.Limit == Unbounded:
		return "quantity(unbounded)"
	case b.Kind == Quantity:
		return fmt.Sprintf("quantity(%d)", b.Limit)
	default:
		return b.Kind.String()
	}
}

func unlimited() Behavior {
	return Behavior{Kind: Unlimited}
}

func exclusive() Behavior {
	return Behavior{Kind: Exclusive, Limit: 1}
}

func quantity(limit int) Behavior {
	return Behavior{Kind: Quantity, Limit: limit}
}
