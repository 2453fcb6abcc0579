package economy

// Formatted error messages
const (
	ErrMsgNotPurchasableFmt    = "%s in slot %d: %w"
	ErrMsgCartItemNotFoundFmt  = "%s: %w"
	ErrMsgInvalidPayMethodFmt  = "%q: %w"
	ErrMsgBuyItemsFailed       = "failed to buy items: %w"
)

// Log messages
const (
	LogMsgCartItemAdded     = "Item added to cart"
	LogMsgCartItemRemoved   = "Item removed from cart"
	LogMsgNotPurchasable    = "Item cannot be purchased"
	LogMsgCheckoutEmpty     = "Checkout ignored, cart is empty"
	LogMsgCheckoutCompleted = "Checkout completed"
	LogMsgCheckoutFailed    = "Checkout failed"
)
