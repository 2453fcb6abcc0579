package domain

// CraftingRecipe is one entry offered by a crafting bench.
type CraftingRecipe struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	// Ingredients maps item name to quantity. A quantity below 1 is a share of
	// a single item's durability rather than a unit count.
	Ingredients map[string]float64 `json:"ingredients"`
	Duration    int                `json:"duration"` // milliseconds, 0 means the queue default
	Count       int                `json:"count"`
	Slot        int                `json:"slot"`
}

// IsDurabilityConsumptionRule reports whether an ingredient quantity means
// "consume this fraction of one item's durability" instead of a unit count.
func IsDurabilityConsumptionRule(quantity float64) bool {
	return quantity < 1
}

// QueueEntry is one job in the crafting queue.
type QueueEntry struct {
	Recipe   CraftingRecipe `json:"recipe"`
	Quantity int            `json:"quantity"`
	// RecipeIndex is the zero-based position of the recipe on the bench.
	RecipeIndex int `json:"recipeIndex"`
}

// CraftHandoffEntry is the serialized form of a queue entry handed to the host
// when the bench closes.
type CraftHandoffEntry struct {
	RecipeID            int     `json:"recipeId"`
	Quantity            int     `json:"quantity"`
	Duration            int     `json:"duration"`
	IsCurrentlyCrafting bool    `json:"isCurrentlyCrafting"`
	CurrentProgress     float64 `json:"currentProgress"`
}

// CraftResult is the host's answer to a completed craft.
type CraftResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}
