package eligibility

import (
	"reflect"
	"testing"

	"pgregory.net/rapid"

	"github.com/asquebay/meal-ticket-service/internal/model"
)

var categoryPool = []*model.MenuCategory{nil, drinks, sides, dessert}

// genMenu draws a small catalog with unique ids; categories and caps are random.
func genMenu(t *rapid.T) []model.MenuItem {
	n := rapid.IntRange(1, 8).Draw(t, "menu-size")
	items := make([]model.MenuItem, 0, n)
	for i := 0; i < n; i++ {
		cat := rapid.SampledFrom(categoryPool).Draw(t, "category")
		maxOrder := rapid.IntRange(0, 3).Draw(t, "max-order")
		items = append(items, newItem(int64(i+1), cat, maxOrder))
	}
	return items
}

// checkInvariants fails the run when a selection breaks any ordering rule.
func checkInvariants(t *rapid.T, sel model.Selection, items []model.MenuItem) {
	index := indexByID(items)
	perCategory := make(map[string]int)
	distinct := make(map[string]int)

	for id, qty := range sel {
		if qty < 1 {
			t.Fatalf("stored quantity %d for item %d", qty, id)
		}
		item := index[id]
		if item.MaxOrder != nil && qty > *item.MaxOrder {
			t.Fatalf("item %d has %d units over its cap %d", id, qty, *item.MaxOrder)
		}
		if name, ok := item.CategoryName(); ok {
			perCategory[name] += qty
			distinct[name]++
		}
	}

	for name, sum := range perCategory {
		b := Classify(name, items)
		switch b.Kind {
		case Exclusive:
			if distinct[name] > 1 || sum > 1 {
				t.Fatalf("exclusive category %q holds %d items, %d units", name, distinct[name], sum)
			}
		case Quantity:
			if sum > b.Limit {
				t.Fatalf("category %q holds %d units over limit %d", name, sum, b.Limit)
			}
		}
	}
}

func sameMap(a, b model.Selection) bool {
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}

func TestProperty_RandomWalkKeepsInvariants(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		items := genMenu(t)
		sel := model.Selection{}

		steps := rapid.IntRange(1, 40).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			item := rapid.SampledFrom(items).Draw(t, "item")

			if rapid.Bool().Draw(t, "add") {
				allowed := CanAdd(item, sel, items)
				next := AddOne(item, sel, items)
				if !allowed && !sameMap(next, sel) {
					t.Fatalf("blocked add of %d returned a new selection", item.ID)
				}
				if allowed && next.Qty(item.ID) != sel.Qty(item.ID)+1 {
					t.Fatalf("allowed add of %d did not increment", item.ID)
				}
				sel = next
			} else {
				next := RemoveOne(item.ID, sel)
				for id := range next {
					if _, ok := sel[id]; !ok {
						t.Fatalf("remove introduced key %d", id)
					}
				}
				sel = next
			}

			checkInvariants(t, sel, items)
		}
	})
}

func TestProperty_ClassifyIsDeterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		items := genMenu(t)
		cat := rapid.SampledFrom(categoryPool[1:]).Draw(t, "category")

		first := Classify(cat.Name, items)
		for i := 0; i < 3; i++ {
			if got := Classify(cat.Name, items); got != first {
				t.Fatalf("classify changed from %v to %v", first, got)
			}
		}
	})
}

func TestProperty_UncategorizedUncappedAlwaysAddable(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		items := genMenu(t)
		free := model.MenuItem{ID: 1000, Name: "free", IsActive: true}
		items = append(items, free)

		sel := model.Selection{}
		for _, item := range items {
			sel[item.ID] = rapid.IntRange(0, 5).Draw(t, "qty")
		}
		sel[free.ID] = rapid.IntRange(1, 100).Draw(t, "free-qty")

		if !CanAdd(free, sel, items) {
			t.Fatalf("item without category or cap was blocked")
		}
	})
}

func TestProperty_ReplayOfReachableSelection(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		items := genMenu(t)
		sel := model.Selection{}
		for i := rapid.IntRange(0, 20).Draw(t, "adds"); i > 0; i-- {
			sel = AddOne(rapid.SampledFrom(items).Draw(t, "item"), sel, items)
		}

		got, err := std.Replay(Flatten(sel), items)
		if err != nil {
			t.Fatalf("replay of reachable selection failed: %v", err)
		}
		if !reflect.DeepEqual(got, sel) {
			t.Fatalf("replay gave %v, want %v", got, sel)
		}
	})
}

func TestProperty_NormalizeArbitrarySelection(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		items := genMenu(t)
		sel := rapid.MapOf(
			rapid.Int64Range(0, 10),
			rapid.OneOf(rapid.IntRange(-3, 5), rapid.IntRange(1<<30, 1<<62)),
		).Draw(t, "selection")

		got, err := std.Normalize(sel, items)
		if err != nil {
			if got != nil {
				t.Fatalf("rejected selection returned %v", got)
			}
			return
		}
		if got.Total() > MaxUnits {
			t.Fatalf("normalized selection holds %d units", got.Total())
		}
		checkInvariants(t, got, items)
	})
}
