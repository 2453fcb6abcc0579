package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/osse101/InventoryHUD_Go/internal/domain"
	"github.com/osse101/InventoryHUD_Go/internal/logger"
	"github.com/osse101/InventoryHUD_Go/internal/metrics"
)

// PushHandler receives frames the host sends on its own initiative.
type PushHandler func(ctx context.Context, action string, data json.RawMessage)

// Request is an outbound frame
type Request struct {
	ID      string `json:"id"`
	Request string `json:"request"`
	Data    any    `json:"data,omitempty"`
}

// Message is an inbound frame. Frames with an action and no id are pushes;
// everything else answers a request.
type Message struct {
	ID     string          `json:"id,omitempty"`
	Status string          `json:"status,omitempty"`
	Error  string          `json:"error,omitempty"`
	Action string          `json:"action,omitempty"`
	Data   json.RawMessage `json:"data,omitempty"`
}

type pushFrame struct {
	action string
	data   json.RawMessage
}

// WSClient manages the WebSocket connection to the game host
type WSClient struct {
	url      string
	timeout  time.Duration
	push     PushHandler
	conn     *websocket.Conn
	mu       sync.RWMutex
	writeMu  sync.Mutex
	shutdown chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	// Connection state
	connected bool
	dormant   bool

	// Reconnection management
	wakeup         chan struct{}
	reconnectDelay time.Duration
	maxDelay       time.Duration
	maxFailures    int

	// Message handling
	responses map[string]chan *Message
	respMu    sync.RWMutex
	pushes    *pushQueue
}

// NewWSClient creates a client for url. push may be nil.
func NewWSClient(url string, timeout time.Duration, push PushHandler) *WSClient {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &WSClient{
		url:            url,
		timeout:        timeout,
		push:           push,
		shutdown:       make(chan struct{}),
		wakeup:         make(chan struct{}, 1),
		reconnectDelay: DefaultReconnectDelay,
		maxDelay:       MaxReconnectDelay,
		maxFailures:    MaxConsecutiveFailures,
		responses:      make(map[string]chan *Message),
		pushes:         newPushQueue(),
	}
}

// Start begins the WebSocket connection with auto-reconnect
func (c *WSClient) Start(ctx context.Context) {
	c.wg.Add(2)
	go c.connectLoop(ctx)
	go c.pushLoop(ctx)
}

// Stop closes the connection and waits for the background goroutines.
func (c *WSClient) Stop() {
	c.stopOnce.Do(func() {
		close(c.shutdown)
		c.mu.Lock()
		if c.conn != nil {
			_ = c.conn.Close()
		}
		c.mu.Unlock()
		c.wg.Wait()
	})
}

// IsConnected returns whether the client is currently connected
func (c *WSClient) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// IsDormant reports whether the client gave up reconnecting.
func (c *WSClient) IsDormant() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dormant
}

// CheckHealth reports whether host calls can currently be made.
func (c *WSClient) CheckHealth(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	switch {
	case c.dormant:
		return domain.ErrBridgeDormant
	case !c.connected:
		return domain.ErrBridgeNotConnected
	}
	return nil
}

func (c *WSClient) connectLoop(ctx context.Context) {
	defer c.wg.Done()
	log := logger.FromContext(ctx)

	backoff := c.reconnectDelay
	consecutiveFailures := 0

	for {
		select {
		case <-c.shutdown:
			log.Info(LogMsgClientStopped)
			return
		case <-ctx.Done():
			log.Info(LogMsgClientStopped)
			return
		default:
		}

		connected, err := c.connect(ctx)
		if connected {
			if consecutiveFailures > 0 {
				log.Info(LogMsgConnectionRestored, "after_failures", consecutiveFailures)
			}
			backoff = c.reconnectDelay
			consecutiveFailures = 0
			c.mu.Lock()
			c.dormant = false
			c.mu.Unlock()
		}
		if err == nil {
			continue
		}

		consecutiveFailures++
		if consecutiveFailures >= c.maxFailures {
			if stop := c.handleDormantMode(ctx, &consecutiveFailures, &backoff); stop {
				return
			}
			continue
		}

		// Only log first few failures and then periodically to avoid log spam
		if consecutiveFailures <= 3 || consecutiveFailures%100 == 0 {
			log.Warn(LogMsgReconnecting,
				"error", err,
				"backoff", backoff,
				"consecutive_failures", consecutiveFailures)
		}

		select {
		case <-time.After(backoff):
			backoff = time.Duration(float64(backoff) * ReconnectMultiplier)
			if backoff > c.maxDelay {
				backoff = c.maxDelay
			}
		case <-c.shutdown:
			return
		case <-ctx.Done():
			return
		}
	}
}

// handleDormantMode enters dormant mode after too many failures and waits for a wakeup signal
func (c *WSClient) handleDormantMode(ctx context.Context, consecutiveFailures *int, backoff *time.Duration) bool {
	log := logger.FromContext(ctx)

	c.mu.Lock()
	c.dormant = true
	c.mu.Unlock()

	log.Warn(LogMsgGivingUp,
		"consecutive_failures", *consecutiveFailures,
		"max_allowed", c.maxFailures)

	select {
	case <-c.wakeup:
		log.Info(LogMsgWakingUp)
		c.mu.Lock()
		c.dormant = false
		c.mu.Unlock()
		*backoff = c.reconnectDelay
		*consecutiveFailures = 0
		return false
	case <-c.shutdown:
		return true
	case <-ctx.Done():
		return true
	}
}

// connect dials and then reads until the connection drops. connected reports
// whether the dial succeeded.
func (c *WSClient) connect(ctx context.Context) (connected bool, err error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgConnecting, "url", c.url)

	dialer := websocket.Dialer{
		ReadBufferSize:   ReadBufferSize,
		WriteBufferSize:  WriteBufferSize,
		HandshakeTimeout: WriteTimeout,
	}

	conn, resp, err := dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		if resp != nil {
			return false, fmt.Errorf("failed to connect: %w (status: %s, code: %d)", err, resp.Status, resp.StatusCode)
		}
		return false, fmt.Errorf("failed to connect: %w", err)
	}

	c.mu.Lock()
	select {
	case <-c.shutdown:
		c.mu.Unlock()
		_ = conn.Close()
		return true, nil
	default:
	}
	c.conn = conn
	c.connected = true
	c.mu.Unlock()
	log.Info(LogMsgConnected, "url", c.url)

	err = c.readLoop(ctx, conn)

	c.mu.Lock()
	c.connected = false
	if c.conn == conn {
		c.conn = nil
	}
	c.mu.Unlock()
	_ = conn.Close()

	return true, err
}

func (c *WSClient) readLoop(ctx context.Context, conn *websocket.Conn) error {
	log := logger.FromContext(ctx)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-c.shutdown:
				return nil
			default:
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			log.Warn(LogMsgReadError, "error", err)
			return err
		}

		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			log.Debug(LogMsgFrameUnparseable, "error", err)
			continue
		}

		if msg.ID == "" {
			if msg.Action != "" {
				c.pushes.put(pushFrame{action: msg.Action, data: msg.Data})
			}
			continue
		}

		c.respMu.RLock()
		ch, ok := c.responses[msg.ID]
		c.respMu.RUnlock()
		if !ok {
			log.Debug(LogMsgUnroutedResponse, "id", msg.ID)
			continue
		}
		select {
		case ch <- &msg:
		default:
		}
	}
}

// pushLoop hands pushes to the handler in arrival order, off the read loop so
// a handler may itself call the host.
func (c *WSClient) pushLoop(ctx context.Context) {
	defer c.wg.Done()
	for {
		select {
		case <-c.pushes.ready:
			for _, f := range c.pushes.take() {
				if c.push != nil {
					c.push(ctx, f.action, f.data)
				}
			}
		case <-c.shutdown:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (c *WSClient) sendRequest(req Request) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()

	if conn == nil {
		return domain.ErrBridgeNotConnected
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(WriteTimeout))
	return conn.WriteJSON(req)
}

// call sends one request and waits for the matching response.
func (c *WSClient) call(ctx context.Context, name string, data any) (json.RawMessage, error) {
	if c.IsDormant() {
		logger.FromContext(ctx).Debug(LogMsgDormantRetry, "request", name)
		select {
		case c.wakeup <- struct{}{}:
		default:
			// Already waking up
		}
		return nil, domain.ErrBridgeDormant
	}
	if !c.IsConnected() {
		return nil, domain.ErrBridgeNotConnected
	}

	id := uuid.New().String()
	ctx = logger.WithRequestID(ctx, id)
	log := logger.FromContext(ctx)

	ch := make(chan *Message, 1)
	c.respMu.Lock()
	c.responses[id] = ch
	c.respMu.Unlock()
	defer func() {
		c.respMu.Lock()
		delete(c.responses, id)
		c.respMu.Unlock()
	}()

	start := time.Now()
	raw, err := c.await(ctx, id, name, data, ch)
	metrics.BridgeRequestDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.BridgeRequestErrors.WithLabelValues(name).Inc()
		log.Warn(LogMsgRequestFailed, "request", name, "error", err)
		return nil, err
	}
	return raw, nil
}

func (c *WSClient) await(ctx context.Context, id, name string, data any, ch <-chan *Message) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	logger.FromContext(ctx).Debug(LogMsgSendingRequest, "request", name)
	if err := c.sendRequest(Request{ID: id, Request: name, Data: data}); err != nil {
		return nil, fmt.Errorf("failed to send %s: %w", name, err)
	}

	select {
	case msg := <-ch:
		if msg.Status == StatusError {
			return nil, fmt.Errorf("%w: %s: %s", domain.ErrHostError, name, msg.Error)
		}
		return msg.Data, nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s after %s", domain.ErrBridgeTimeout, name, c.timeout)
		}
		return nil, ctx.Err()
	case <-c.shutdown:
		return nil, domain.ErrBridgeNotConnected
	}
}

// UILoaded tells the host the HUD is ready
func (c *WSClient) UILoaded(ctx context.Context) error {
	_, err := c.call(ctx, CallUILoaded, nil)
	return err
}

// FetchSlotRestrictions returns the raw utility-slot table
func (c *WSClient) FetchSlotRestrictions(ctx context.Context) (json.RawMessage, error) {
	return c.call(ctx, CallFetchSlotRestrictions, nil)
}

// GetItemData looks up one item definition
func (c *WSClient) GetItemData(ctx context.Context, name string) (*domain.ItemData, error) {
	raw, err := c.call(ctx, CallGetItemData, itemDataArgs{Name: name})
	if err != nil {
		return nil, err
	}
	return parseItemData(raw)
}

// GetSettings returns the host settings
func (c *WSClient) GetSettings(ctx context.Context) (domain.Settings, error) {
	raw, err := c.call(ctx, CallGetSettings, nil)
	if err != nil {
		return domain.Settings{}, err
	}
	return parseSettings(raw)
}

// RemoveComponent detaches a weapon component
func (c *WSClient) RemoveComponent(ctx context.Context, component string, slot int) error {
	_, err := c.call(ctx, CallRemoveComponent, removeComponentArgs{Component: component, Slot: slot})
	return err
}

// RemoveAmmo unloads a weapon
func (c *WSClient) RemoveAmmo(ctx context.Context, slot int) error {
	_, err := c.call(ctx, CallRemoveAmmo, removeAmmoArgs{Slot: slot})
	return err
}

// UseButton triggers an item's custom button
func (c *WSClient) UseButton(ctx context.Context, id, slot int) error {
	_, err := c.call(ctx, CallUseButton, useButtonArgs{ID: id, Slot: slot})
	return err
}

// BuyItems checks out a shop cart
func (c *WSClient) BuyItems(ctx context.Context, items []domain.PurchaseLine, method domain.PayMethod) error {
	_, err := c.call(ctx, CallBuyItems, buyItemsArgs{Items: items, Method: method})
	return err
}

// CraftFromCraftingInventory completes one crafting job on the host
func (c *WSClient) CraftFromCraftingInventory(ctx context.Context, benchID domain.InventoryID, recipeID, quantity int) (domain.CraftResult, error) {
	raw, err := c.call(ctx, CallCraftFromCraftingInventory, craftArgs{BenchID: benchID, RecipeID: recipeID, Quantity: quantity})
	if err != nil {
		return domain.CraftResult{}, err
	}
	var res domain.CraftResult
	if isNull(raw) {
		return res, nil
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return domain.CraftResult{}, fmt.Errorf("failed to decode craft result: %w", err)
	}
	return res, nil
}

// StartCraftQueue hands the unfinished queue to the host
func (c *WSClient) StartCraftQueue(ctx context.Context, benchID domain.InventoryID, queue []domain.CraftHandoffEntry) error {
	_, err := c.call(ctx, CallStartCraftQueue, craftQueueArgs{BenchID: benchID, Queue: queue})
	return err
}

// ValidateMove asks the host to confirm an optimistic move
func (c *WSClient) ValidateMove(ctx context.Context, req domain.MoveRequest) (domain.MoveResult, error) {
	raw, err := c.call(ctx, CallSwapItems, req)
	if err != nil {
		return domain.MoveResult{}, err
	}
	return ParseMoveResult(raw), nil
}

// GetPhoneKey returns the key bound to the phone
func (c *WSClient) GetPhoneKey(ctx context.Context) (string, error) {
	raw, err := c.call(ctx, CallGetPhoneKey, nil)
	if err != nil {
		return DefaultPhoneKey, err
	}
	return parsePhoneKey(raw), nil
}

var _ Host = (*WSClient)(nil)
