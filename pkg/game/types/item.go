package types

// Ingredient kinds that can appear in a held-item descriptor or on a plate.
const (
	IngredientTomato         = "tomato"
	IngredientLettuce        = "lettuce"
	IngredientMeat           = "meat"
	IngredientChoppedTomato  = "chopped_tomato"
	IngredientChoppedLettuce = "chopped_lettuce"
	IngredientChoppedMeat    = "chopped_meat"
	IngredientBurger         = "burger"
)

// ItemKindPlate is the container kind whose Ingredients list is meaningful.
const ItemKindPlate = "plate"

// Item is a held-item descriptor. It is a value type: it is always re-derived
// from authoritative or locally-computed state, never shared by reference.
type Item struct {
	Kind        string   `json:"kind"`
	Ingredients []string `json:"ingredients,omitempty"`
}

func (i *Item) Copy() *Item {
	if i == nil {
		return nil
	}
	copy := &Item{
		Kind: i.Kind,
	}
	if i.Ingredients != nil {
		copy.Ingredients = append([]string{}, i.Ingredients...)
	}
	return copy
}

// SameKind reports whether two descriptors are of the same kind.
// Either side may be nil (no item).
func (i *Item) SameKind(other *Item) bool {
	if i == nil || other == nil {
		return i == nil && other == nil
	}
	return i.Kind == other.Kind
}
