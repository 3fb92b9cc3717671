package orders

import (
	"testing"

	"github.com/dnextcom/overcooked-clone/pkg/game/recipes"
	"github.com/dnextcom/overcooked-clone/pkg/game/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderBookDefaults(t *testing.T) {
	book := NewOrderBook()
	assert.Empty(t, book.Orders)
	assert.Equal(t, 0, book.Score)
	assert.Equal(t, DefaultMaxOrders, book.MaxOrders)
}

func TestOrderBookSpawnsWhenIntervalElapses(t *testing.T) {
	book := NewOrderBook()
	book.spawnTimer = book.SpawnInterval

	book.Update(0.1)

	require.Len(t, book.Orders, 1)
	assert.Equal(t, 0.0, book.spawnTimer)
}

func TestOrderBookDoesNotSpawnAtMaxOrders(t *testing.T) {
	book := NewOrderBook()
	for i := 0; i < book.MaxOrders; i++ {
		book.Orders = append(book.Orders, NewOrder(recipes.TypeSalad))
	}
	book.spawnTimer = book.SpawnInterval

	book.Update(0.1)

	assert.Len(t, book.Orders, book.MaxOrders)
}

func TestOrderBookDoesNotSpawnWhenDisabled(t *testing.T) {
	book := NewOrderBook()
	book.DisableSpawning = true
	book.spawnTimer = book.SpawnInterval

	book.Update(10)

	assert.Empty(t, book.Orders)
}

func TestOrderBookExpiresOrdersAndPenalizes(t *testing.T) {
	book := NewOrderBook()
	book.Orders = append(book.Orders, &types.Order{
		ID:            "123",
		RecipeType:    recipes.TypeSalad,
		RemainingTime: 0.1,
	})

	book.Update(0.2)

	assert.Empty(t, book.Orders)
	assert.Equal(t, -ExpiryPenalty, book.Score)
}

func TestDeliverPlate(t *testing.T) {
	salad := []string{types.IngredientChoppedLettuce, types.IngredientChoppedTomato}

	t.Run("succeeds when delivery matches an active order", func(t *testing.T) {
		book := NewOrderBook()
		book.Orders = append(book.Orders, &types.Order{
			ID:            "1",
			RecipeType:    recipes.TypeSalad,
			RemainingTime: 60,
		})

		result := book.DeliverPlate(salad)

		require.True(t, result.Success)
		assert.Equal(t, "1", result.OrderID)
		// recipe score (20) + time bonus (60)
		assert.Equal(t, 80, result.Score)
		assert.Equal(t, 80, book.Score)
		assert.Empty(t, book.Orders)
	})

	t.Run("fails when no order matches the recipe", func(t *testing.T) {
		book := NewOrderBook()
		book.Orders = append(book.Orders, &types.Order{
			ID:            "1",
			RecipeType:    recipes.TypeBurger,
			RemainingTime: 60,
		})

		result := book.DeliverPlate(salad)

		assert.False(t, result.Success)
		assert.Len(t, book.Orders, 1)
		assert.Equal(t, 0, book.Score)
	})

	t.Run("fails when the plate is not a valid recipe", func(t *testing.T) {
		book := NewOrderBook()
		book.Orders = append(book.Orders, &types.Order{
			ID:            "1",
			RecipeType:    recipes.TypeSalad,
			RemainingTime: 60,
		})

		result := book.DeliverPlate([]string{types.IngredientTomato})

		assert.False(t, result.Success)
		assert.Len(t, book.Orders, 1)
	})
}

func TestNewOrderIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewOrderID()
		assert.False(t, seen[id])
		seen[id] = true
	}
}
