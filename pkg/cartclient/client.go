// Package cartclient is the Go SDK UI-side consumers embed to talk to the
// storefront cart API. It keeps a cached copy of the server-side cart,
// refreshes it from the canonical payload every mutation returns, and
// exposes the per-operation pending and error state a UI needs to render
// without ever computing totals itself. The wire types are defined here,
// not shared with the server, so the package is importable from outside
// this module.
package cartclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/sync/singleflight"
)

// Op names a cart operation for pending/error bookkeeping.
type Op string

const (
	OpFetch       Op = "fetch"
	OpAdd         Op = "add"
	OpSetQuantity Op = "setQuantity"
	OpRemove      Op = "remove"
	OpClear       Op = "clear"
)

const maxBodyBytes = 1 << 20

// Product is the denormalized product copy a cart line carries, as the
// server rendered it at resolution time.
type Product struct {
	ProductID     string    `json:"productId"`
	Name          string    `json:"name"`
	Brand         string    `json:"brand"`
	PriceCents    int64     `json:"priceCents"`
	MRPCents      int64     `json:"mrpCents"`
	ImageURL      string    `json:"imageUrl,omitempty"`
	InStock       bool      `json:"inStock"`
	StockQuantity int       `json:"stockQuantity"`
	ResolvedAt    time.Time `json:"resolvedAt"`
}

// Line is one cart line.
type Line struct {
	ID       string  `json:"id"`
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Totals are the server-computed order figures.
type Totals struct {
	SubtotalCents int64 `json:"subtotalCents"`
	ItemCount     int   `json:"itemCount"`
	ShippingCents int64 `json:"shippingCents"`
	DiscountCents int64 `json:"discountCents"`
	TaxCents      int64 `json:"taxCents"`
	TotalCents    int64 `json:"totalCents"`
}

// Cart mirrors the cart payload the server returns: the lines plus every
// derived figure. The client never computes totals locally.
type Cart struct {
	ID              string `json:"id"`
	Items           []Line `json:"items"`
	TotalItems      int    `json:"totalItems"`
	TotalLines      int    `json:"totalLines"`
	TotalPriceCents int64  `json:"totalPriceCents"`
	Totals          Totals `json:"totals"`
}

// Quantity returns the cached quantity of a product, 0 when absent.
func (c Cart) Quantity(productID string) int {
	for _, line := range c.Items {
		if line.Product.ProductID == productID {
			return line.Quantity
		}
	}
	return 0
}

// View is a point-in-time snapshot of the client's read model.
type View struct {
	Cart    Cart
	Loaded  bool
	Pending map[Op]bool
	Errors  map[Op]error
}

// Config configures a Client. Zero values get usable defaults.
type Config struct {
	BaseURL string
	Token   string

	HTTPClient *http.Client
	Logger     *log.Logger

	// Initial fetches retry transient failures with exponential backoff
	// until RetryMaxElapsed has passed.
	RetryInitialInterval time.Duration
	RetryMaxElapsed      time.Duration

	// Breaker settings; infrastructure failures past the ratio open the
	// circuit for BreakerTimeout.
	BreakerMinRequests  uint32
	BreakerFailureRatio float64
	BreakerTimeout      time.Duration
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type inflight struct {
	id     uint64
	cancel context.CancelFunc
}

// Client talks to the cart API on behalf of one session.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *log.Logger
	breaker *gobreaker.CircuitBreaker[*Cart]

	retryInitial time.Duration
	retryMax     time.Duration

	fetches singleflight.Group

	mu        sync.Mutex
	token     string
	view      View
	pending   map[Op]int
	stale     bool
	nextID    uint64
	mutations map[string]inflight
}

// New builds a Client. Token may be set later with SetToken once a session
// has been created.
func New(cfg Config) *Client {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard, "", 0)
	}
	if cfg.RetryInitialInterval <= 0 {
		cfg.RetryInitialInterval = 100 * time.Millisecond
	}
	if cfg.RetryMaxElapsed <= 0 {
		cfg.RetryMaxElapsed = 10 * time.Second
	}
	if cfg.BreakerMinRequests == 0 {
		cfg.BreakerMinRequests = 5
	}
	if cfg.BreakerFailureRatio <= 0 {
		cfg.BreakerFailureRatio = 0.5
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = 30 * time.Second
	}

	logger := cfg.Logger
	settings := gobreaker.Settings{
		Name:    "cart-api",
		Timeout: cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.BreakerMinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= cfg.BreakerFailureRatio
		},
		IsSuccessful: func(err error) bool {
			return !countsAsFailure(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Printf("circuit breaker %s: %s -> %s", name, from, to)
		},
	}

	return &Client{
		baseURL:      cfg.BaseURL,
		http:         cfg.HTTPClient,
		logger:       logger,
		breaker:      gobreaker.NewCircuitBreaker[*Cart](settings),
		retryInitial: cfg.RetryInitialInterval,
		retryMax:     cfg.RetryMaxElapsed,
		token:        cfg.Token,
		view: View{
			Errors: map[Op]error{},
		},
		pending:   map[Op]int{},
		mutations: map[string]inflight{},
	}
}

// SetToken swaps the session token and drops the cached cart, since a new
// session means a different cart.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
	c.view.Cart = Cart{}
	c.view.Loaded = false
	c.stale = true
}

// View returns a copy of the current read model. The maps are copied so
// callers can hold the snapshot without racing the client.
func (c *Client) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := View{
		Cart:    c.view.Cart,
		Loaded:  c.view.Loaded,
		Pending: make(map[Op]bool, len(c.pending)),
		Errors:  make(map[Op]error, len(c.view.Errors)),
	}
	for op, n := range c.pending {
		v.Pending[op] = n > 0
	}
	for op, err := range c.view.Errors {
		v.Errors[op] = err
	}
	return v
}

// Cart returns the cached cart, fetching from the server only when nothing
// valid is cached. Concurrent callers share a single fetch.
func (c *Client) Cart(ctx context.Context) (Cart, error) {
	c.mu.Lock()
	if c.view.Loaded && !c.stale {
		cart := c.view.Cart
		c.mu.Unlock()
		return cart, nil
	}
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// Refresh fetches the cart from the server unconditionally, retrying
// transient failures, and replaces the cached copy on success.
func (c *Client) Refresh(ctx context.Context) (Cart, error) {
	c.beginOp(OpFetch)
	v, err, _ := c.fetches.Do("cart", func() (interface{}, error) {
		return c.fetchWithRetry(ctx)
	})
	c.finishOp(OpFetch, err)
	if err != nil {
		return Cart{}, err
	}
	cart := v.(*Cart)
	c.mu.Lock()
	c.view.Cart = *cart
	c.view.Loaded = true
	c.stale = false
	c.mu.Unlock()
	return *cart, nil
}

func (c *Client) fetchWithRetry(ctx context.Context) (*Cart, error) {
	var cart *Cart
	attempt := func() error {
		var err error
		cart, err = c.do(ctx, http.MethodGet, "/cart/get", nil)
		if err == nil {
			return nil
		}
		if retryableFetchError(err) {
			c.logger.Printf("cart fetch failed, will retry: %v", err)
			return err
		}
		return backoff.Permanent(err)
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.retryInitial
	bo.MaxElapsedTime = c.retryMax
	if err := backoff.Retry(attempt, backoff.WithContext(bo, ctx)); err != nil {
		return nil, err
	}
	return cart, nil
}

// retryableFetchError: transient transport and 5xx failures are worth
// retrying; business rejections and an open breaker are not.
func retryableFetchError(err error) bool {
	if errors.Is(err, ErrCircuitOpen) || errors.Is(err, context.Canceled) {
		return false
	}
	return countsAsFailure(err)
}

type addRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type setQuantityRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Add asks the server to merge a quantity delta into the cart line for
// productID. A negative delta decrements; the server removes the line when
// it reaches zero.
func (c *Client) Add(ctx context.Context, productID string, quantity int) (Cart, error) {
	return c.mutate(ctx, OpAdd, productID, http.MethodPost, "/cart/add",
		addRequest{ProductID: productID, Quantity: quantity})
}

// SetQuantity replaces the line's quantity outright; zero removes the line.
func (c *Client) SetQuantity(ctx context.Context, productID string, quantity int) (Cart, error) {
	return c.mutate(ctx, OpSetQuantity, productID, http.MethodPut, "/cart/quantity",
		setQuantityRequest{ProductID: productID, Quantity: quantity})
}

// Remove deletes the line for productID. Removing an absent product is not
// an error.
func (c *Client) Remove(ctx context.Context, productID string) (Cart, error) {
	return c.mutate(ctx, OpRemove, productID, http.MethodDelete,
		"/cart/delete/"+url.PathEscape(productID), nil)
}

// Clear empties the cart.
func (c *Client) Clear(ctx context.Context) (Cart, error) {
	return c.mutate(ctx, OpClear, "*", http.MethodDelete, "/cart/clearAll", nil)
}

// mutate runs one cart mutation. Starting a mutation cancels any in-flight
// mutation for the same key, so rapid quantity clicks settle on the newest
// request instead of interleaving. The server responds with the canonical
// refreshed cart, which replaces the cached copy.
func (c *Client) mutate(ctx context.Context, op Op, key, method, path string, body interface{}) (Cart, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	id := c.beginMutation(op, key, cancel)

	cart, err := c.do(ctx, method, path, body)
	current := c.endMutation(key, id)

	if err != nil && !current && errors.Is(err, context.Canceled) {
		err = ErrSuperseded
	}
	c.finishOp(op, err)
	if err != nil {
		return Cart{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !current {
		// A newer mutation owns the cached cart now.
		if cart != nil {
			return *cart, nil
		}
		return c.view.Cart, nil
	}
	if cart == nil {
		c.stale = true
		return c.view.Cart, nil
	}
	c.view.Cart = *cart
	c.view.Loaded = true
	c.stale = false
	return *cart, nil
}

func (c *Client) beginMutation(op Op, key string, cancel context.CancelFunc) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, ok := c.mutations[key]; ok {
		prev.cancel()
	}
	c.nextID++
	id := c.nextID
	c.mutations[key] = inflight{id: id, cancel: cancel}
	c.pending[op]++
	return id
}

// endMutation reports whether this call is still the newest mutation for
// its key, and unregisters it if so.
func (c *Client) endMutation(key string, id uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	cur, ok := c.mutations[key]
	if !ok || cur.id != id {
		return false
	}
	delete(c.mutations, key)
	return true
}

func (c *Client) beginOp(op Op) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending[op]++
}

// finishOp releases the pending slot and records the operation's outcome.
// Superseded calls leave the error slate alone: their outcome belongs to
// the newer request.
func (c *Client) finishOp(op Op, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending[op] > 0 {
		c.pending[op]--
	}
	if errors.Is(err, ErrSuperseded) {
		return
	}
	if err != nil {
		c.view.Errors[op] = err
		return
	}
	delete(c.view.Errors, op)
}

// do performs one HTTP round trip through the circuit breaker and decodes
// the response envelope into a cart payload.
func (c *Client) do(ctx context.Context, method, path string, body interface{}) (*Cart, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(buf)
	}

	fullURL := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.breaker.Execute(func() (*Cart, error) {
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, &NetworkError{URL: fullURL, Err: err}
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return nil, &NetworkError{URL: fullURL, Err: err}
		}

		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, &ParseError{Err: err}
		}
		if resp.StatusCode >= 400 || !env.Success {
			return nil, mapServerError(resp.StatusCode, env.Message)
		}
		if len(env.Data) == 0 {
			return nil, nil
		}
		var cart Cart
		if err := json.Unmarshal(env.Data, &cart); err != nil {
			return nil, &ParseError{Err: err}
		}
		if cart.Items == nil {
			cart.Items = []Line{}
		}
		return &cart, nil
	})
}
