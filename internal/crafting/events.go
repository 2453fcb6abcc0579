package crafting

import (
	"context"

	"github.com/osse101/InventoryHUD_Go/internal/domain"
	"github.com/osse101/InventoryHUD_Go/internal/event"
	"github.com/osse101/InventoryHUD_Go/internal/logger"
)

func (q *Queue) publish(ctx context.Context, evt event.Event) {
	if q.bus == nil {
		return
	}
	if err := q.bus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "type", evt.Type, "error", err)
	}
}

func (q *Queue) publishCompleted(ctx context.Context, entry domain.QueueEntry, res domain.CraftResult) {
	q.publish(ctx, event.New(event.CraftCompleted, event.CraftCompletedPayload{
		RecipeID: entry.RecipeIndex + 1,
		Name:     entry.Recipe.Name,
		Quantity: entry.Quantity,
		Success:  res.Success,
		Error:    res.Error,
	}, event.SourceLocal))
}

func (q *Queue) publishProgress(ctx context.Context, progress float64) {
	q.publish(ctx, event.New(event.CraftProgress, event.CraftProgressPayload{
		Index:    0,
		Progress: progress,
	}, event.SourceLocal))
}
