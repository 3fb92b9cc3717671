package orders

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/dnextcom/overcooked-clone/pkg/game/recipes"
	"github.com/dnextcom/overcooked-clone/pkg/game/types"
	"github.com/dnextcom/overcooked-clone/pkg/log"
)

const (
	DefaultMaxOrders     = 5
	DefaultSpawnInterval = 8.0 // seconds
	DefaultOrderDuration = 60.0
	// ExpiryPenalty applies only in the local (non-networked) book. The
	// authoritative session loop drops expired orders with no score change.
	ExpiryPenalty = 10
)

// NewOrderID generates an order id from the current time with a random
// tie-break. Uniqueness is not cryptographic; collisions are negligible
// for session lifetimes.
func NewOrderID() string {
	return fmt.Sprintf("%d-%d", time.Now().UnixMilli(), rand.Uint32())
}

// NewOrder creates an order of the given recipe type with the default duration.
func NewOrder(recipeType string) *types.Order {
	return &types.Order{
		ID:            NewOrderID(),
		RecipeType:    recipeType,
		Duration:      DefaultOrderDuration,
		RemainingTime: DefaultOrderDuration,
	}
}

// RandomOrder creates an order of a uniformly-random recipe type.
func RandomOrder() *types.Order {
	kinds := recipes.Types()
	return NewOrder(kinds[rand.Intn(len(kinds))])
}

// DeliveryResult reports the outcome of a local plate delivery.
type DeliveryResult struct {
	Success bool
	OrderID string
	// Score is the absolute total after the delivery, the value a
	// goal-completion claim must carry (overwrite semantics).
	Score int
}

// OrderBook is the client-local order state used in non-networked play and as
// the local delivery validator. Once snapshots arrive, spawning is disabled
// and the book's order list is overwritten by the server's.
type OrderBook struct {
	Orders          []*types.Order
	MaxOrders       int
	SpawnInterval   float64
	DisableSpawning bool
	Score           int

	spawnTimer float64
}

func NewOrderBook() *OrderBook {
	return &OrderBook{
		MaxOrders:     DefaultMaxOrders,
		SpawnInterval: DefaultSpawnInterval,
	}
}

// Update advances local order timers by dt seconds: spawns when the interval
// elapses and the queue has room, then expires orders, applying the local
// score penalty.
func (b *OrderBook) Update(dt float64) {
	if !b.DisableSpawning {
		b.spawnTimer += dt
		if b.spawnTimer >= b.SpawnInterval {
			b.spawnTimer = 0
			if len(b.Orders) < b.MaxOrders {
				b.generateOrder()
			}
		}
	}

	remaining := b.Orders[:0]
	for _, order := range b.Orders {
		order.RemainingTime -= dt
		if order.RemainingTime <= 0 {
			log.Debug("Order %s expired", order.ID)
			b.Score -= ExpiryPenalty
			continue
		}
		remaining = append(remaining, order)
	}
	b.Orders = remaining
}

func (b *OrderBook) generateOrder() {
	order := RandomOrder()
	b.Orders = append(b.Orders, order)
	log.Debug("New order %s: %s", order.ID, recipes.Recipes[order.RecipeType].Name)
}

// DeliverPlate validates a plate's ingredients against the recipe table and
// the active orders. On success the matching order is removed and the score
// is credited with the recipe score plus the floored remaining time.
func (b *OrderBook) DeliverPlate(plateIngredients []string) DeliveryResult {
	recipeType, ok := recipes.Validate(plateIngredients)
	if !ok {
		return DeliveryResult{}
	}

	for i, order := range b.Orders {
		if order.RecipeType != recipeType {
			continue
		}
		points := recipes.Recipes[recipeType].Score + int(math.Floor(order.RemainingTime))
		b.Score += points
		b.Orders = append(b.Orders[:i], b.Orders[i+1:]...)
		log.Debug("Order %s complete: +%d pts", order.ID, points)
		return DeliveryResult{
			Success: true,
			OrderID: order.ID,
			Score:   b.Score,
		}
	}

	return DeliveryResult{}
}
