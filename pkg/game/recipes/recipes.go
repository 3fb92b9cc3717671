package recipes

import (
	"sort"

	"github.com/dnextcom/overcooked-clone/pkg/game/types"
)

// Recipe types. The wire carries these strings verbatim.
const (
	TypeSalad  = "Salad"
	TypeBurger = "Burger"
)

type Recipe struct {
	Name        string
	Ingredients []string
	Score       int
}

var Recipes = map[string]Recipe{
	TypeSalad: {
		Name:        "House Salad",
		Ingredients: []string{types.IngredientChoppedLettuce, types.IngredientChoppedTomato},
		Score:       20,
	},
	TypeBurger: {
		Name:        "Just A Burger",
		Ingredients: []string{types.IngredientBurger},
		Score:       30,
	},
}

// Types returns the known recipe types in a stable order.
func Types() []string {
	keys := make([]string, 0, len(Recipes))
	for key := range Recipes {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Validate matches a plate's ingredient kinds against the recipe table,
// independent of ordering. It returns the recipe type and true on a match.
func Validate(plateIngredients []string) (string, bool) {
	plate := append([]string{}, plateIngredients...)
	sort.Strings(plate)

	for key, recipe := range Recipes {
		wanted := append([]string{}, recipe.Ingredients...)
		sort.Strings(wanted)
		if equal(plate, wanted) {
			return key, true
		}
	}
	return "", false
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
