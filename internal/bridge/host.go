// Package bridge is the contract between the HUD and the authoritative game
// host, with a websocket implementation and a permissive stub.
package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/osse101/InventoryHUD_Go/internal/domain"
)

// Host is everything the HUD may ask of the game host.
type Host interface {
	UILoaded(ctx context.Context) error
	FetchSlotRestrictions(ctx context.Context) (json.RawMessage, error)
	// GetItemData returns nil when the host does not know the item.
	GetItemData(ctx context.Context, name string) (*domain.ItemData, error)
	GetSettings(ctx context.Context) (domain.Settings, error)

	RemoveComponent(ctx context.Context, component string, slot int) error
	RemoveAmmo(ctx context.Context, slot int) error
	UseButton(ctx context.Context, id, slot int) error

	BuyItems(ctx context.Context, items []domain.PurchaseLine, method domain.PayMethod) error
	CraftFromCraftingInventory(ctx context.Context, benchID domain.InventoryID, recipeID, quantity int) (domain.CraftResult, error)
	StartCraftQueue(ctx context.Context, benchID domain.InventoryID, queue []domain.CraftHandoffEntry) error

	ValidateMove(ctx context.Context, req domain.MoveRequest) (domain.MoveResult, error)
	GetPhoneKey(ctx context.Context) (string, error)
}

// Request payloads
type (
	itemDataArgs struct {
		Name string `json:"name"`
	}
	removeComponentArgs struct {
		Component string `json:"component"`
		Slot      int    `json:"slot"`
	}
	removeAmmoArgs struct {
		Slot int `json:"slot"`
	}
	useButtonArgs struct {
		ID   int `json:"id"`
		Slot int `json:"slot"`
	}
	buyItemsArgs struct {
		Items  []domain.PurchaseLine `json:"items"`
		Method domain.PayMethod      `json:"method"`
	}
	craftArgs struct {
		BenchID  domain.InventoryID `json:"benchId"`
		RecipeID int                `json:"recipeId"`
		Quantity int                `json:"quantity"`
	}
	craftQueueArgs struct {
		BenchID domain.InventoryID         `json:"benchId"`
		Queue   []domain.CraftHandoffEntry `json:"queue"`
	}
)

var jsonNull = []byte("null")

func isNull(data json.RawMessage) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, jsonNull)
}

// ParseMoveResult reads the host's answer to a move: false rejects, a number
// accepts and carries the container weight, anything else accepts.
func ParseMoveResult(data json.RawMessage) domain.MoveResult {
	if isNull(data) {
		return domain.MoveResult{Accepted: true}
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		return domain.MoveResult{Accepted: b}
	}
	var w float64
	if err := json.Unmarshal(data, &w); err == nil {
		return domain.MoveResult{Accepted: true, ContainerWeight: &w}
	}
	return domain.MoveResult{Accepted: true}
}

func parseItemData(data json.RawMessage) (*domain.ItemData, error) {
	if isNull(data) {
		return nil, nil
	}
	var item domain.ItemData
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, fmt.Errorf("failed to decode item data: %w", err)
	}
	if item.Name == "" {
		return nil, nil
	}
	return &item, nil
}

func parseSettings(data json.RawMessage) (domain.Settings, error) {
	var s domain.Settings
	if isNull(data) {
		return s, nil
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return domain.Settings{}, fmt.Errorf("failed to decode settings: %w", err)
	}
	return s, nil
}

func parsePhoneKey(data json.RawMessage) string {
	var key string
	if err := json.Unmarshal(data, &key); err != nil || key == "" {
		return DefaultPhoneKey
	}
	return key
}
