package recipes

import (
	"testing"

	"github.com/dnextcom/overcooked-clone/pkg/game/types"
	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		plate       []string
		wantType    string
		wantMatched bool
	}{
		{
			name:        "identifies a salad",
			plate:       []string{types.IngredientChoppedLettuce, types.IngredientChoppedTomato},
			wantType:    TypeSalad,
			wantMatched: true,
		},
		{
			name:        "identifies a burger",
			plate:       []string{types.IngredientBurger},
			wantType:    TypeBurger,
			wantMatched: true,
		},
		{
			name:        "incomplete salad does not match",
			plate:       []string{types.IngredientChoppedLettuce},
			wantMatched: false,
		},
		{
			name:        "single chopped tomato does not match",
			plate:       []string{types.IngredientChoppedTomato},
			wantMatched: false,
		},
		{
			name:        "mixed nonsense does not match",
			plate:       []string{types.IngredientChoppedLettuce, types.IngredientBurger},
			wantMatched: false,
		},
		{
			name:        "matching is order independent",
			plate:       []string{types.IngredientChoppedTomato, types.IngredientChoppedLettuce},
			wantType:    TypeSalad,
			wantMatched: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotType, matched := Validate(tt.plate)
			assert.Equal(t, tt.wantMatched, matched)
			assert.Equal(t, tt.wantType, gotType)
		})
	}
}

func TestTypesIsStable(t *testing.T) {
	assert.Equal(t, Types(), Types())
	assert.Contains(t, Types(), TypeSalad)
	assert.Contains(t, Types(), TypeBurger)
}
