package types

// Order is one time-limited goal. Orders are created by the server's session
// loop and removed the instant they expire or are completed, never both.
// Clients only propose completion.
type Order struct {
	ID            string  `json:"id"`
	RecipeType    string  `json:"recipeType"`
	Duration      float64 `json:"duration"`
	RemainingTime float64 `json:"remainingTime"`
}

func (o *Order) Copy() *Order {
	copy := *o
	return &copy
}
