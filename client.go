package client

import (
	"context"
	"errors"
	"strings"

	"github.com/jsp-lqk/memcached-shim/internal"
)

const noServerMessage = "No server available."

// Client talks the memcached text protocol to the first registered server.
// It is not safe for concurrent use; callers share one instance behind their
// own lock or use one instance per goroutine.
type Client struct {
	cfg     Config
	servers *registry
	options optionTable
	session *internal.Session

	code    ResultCode
	message string
	err     error
}

func New(cfg Config) *Client {
	return &Client{
		cfg:     cfg.withDefaults(),
		servers: newRegistry(),
		options: defaultOptions(),
	}
}

// DefaultClient returns a client with the default configuration already
// registered against addr ("host[:port[:weight]]").
func DefaultClient(addr string) (*Client, error) {
	e, err := ParseServer(addr)
	if err != nil {
		return nil, err
	}
	c := New(Config{})
	c.AddServer(e.Host, e.Port, e.Weight)
	return c, c.Err()
}

// AddServer registers a server; port 0 means DefaultPort. It reports false
// only for a duplicate registration. A failed connection attempt still counts
// as a successful registration and is visible through ResultCode.
func (c *Client) AddServer(host string, port, weight int) bool {
	e := ServerEntry{Host: host, Port: port, Weight: weight}.withDefaults()
	if !c.servers.add(e) {
		c.record(ResFailure, "server already registered", nil)
		return false
	}
	c.record(ResSuccess, "", nil)
	c.connect()
	return true
}

// AddServers registers each server in order, filling a missing port with
// DefaultPort. Duplicates are skipped; the result is always true.
func (c *Client) AddServers(servers ...ServerEntry) bool {
	for _, s := range servers {
		c.AddServer(s.Host, s.Port, s.Weight)
	}
	return true
}

// ServerList returns registered servers in registration order.
func (c *Client) ServerList() []ServerEntry {
	return c.servers.list()
}

// connect dials the first registered server unless a connection exists.
func (c *Client) connect() bool {
	if c.session != nil {
		return false
	}
	first, ok := c.servers.first()
	if !ok {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.DialTimeout)
	defer cancel()
	s, err := internal.Dial(ctx, first.Addr(), c.cfg.Timeout)
	if err != nil {
		c.cfg.Logger.Error("connect to server failed", "addr", first.Addr(), "error", err)
		c.record(ResFailure, noServerMessage, err)
		return false
	}
	c.cfg.Logger.Debug("connected", "addr", first.Addr())
	c.session = s
	return true
}

// Shutdown closes the connection. Later operations fail with ResFailure.
func (c *Client) Shutdown() {
	if c.session == nil {
		return
	}
	if err := c.session.Shutdown(); err != nil {
		c.cfg.Logger.Debug("close connection failed", "addr", c.session.Addr(), "error", err)
	}
}

// ResultCode describes the last operation.
func (c *Client) ResultCode() ResultCode {
	return c.code
}

// ResultMessage is the human readable companion of ResultCode.
func (c *Client) ResultMessage() string {
	return c.message
}

// Err returns the error behind the last failed operation, or nil.
func (c *Client) Err() error {
	return c.err
}

// Key returns key with the configured OptPrefixKey prepended.
func (c *Client) Key(key string) string {
	prefix, _ := c.options[OptPrefixKey].(string)
	return prefix + key
}

var keyEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`, `"`, `\"`, "\x00", `\0`)

// wireKey is the key as transmitted: prefixed, then quote escaped.
func (c *Client) wireKey(key string) string {
	return keyEscaper.Replace(c.Key(key))
}

func (c *Client) ready() (*internal.Session, bool) {
	if c.session == nil {
		c.record(ResFailure, noServerMessage, internal.ErrNoServers)
		return nil, false
	}
	return c.session, true
}

// Set stores value under key for expiration seconds (0 never expires).
func (c *Client) Set(key string, value any, expiration int) bool {
	payload, err := c.cfg.Serializer.Marshal(value)
	if err != nil {
		c.record(ResPayloadFailure, ResPayloadFailure.String(), err)
		return false
	}
	return c.SetBytes(key, payload, expiration)
}

// SetBytes stores payload verbatim.
func (c *Client) SetBytes(key string, payload []byte, expiration int) bool {
	s, ok := c.ready()
	if !ok {
		return false
	}
	return c.fromError(s.Store(c.wireKey(key), payload, 0, expiration))
}

// Get decodes the value stored under key into out. It reports false on a
// miss as well as on any failure; ResultCode tells them apart.
func (c *Client) Get(key string, out any) bool {
	payload, ok := c.GetBytes(key)
	if !ok {
		return false
	}
	if err := c.cfg.Serializer.Unmarshal(payload, out); err != nil {
		c.record(ResPayloadFailure, ResPayloadFailure.String(), err)
		return false
	}
	return true
}

// GetBytes returns the raw payload stored under key.
func (c *Client) GetBytes(key string) ([]byte, bool) {
	s, ok := c.ready()
	if !ok {
		return nil, false
	}
	payload, err := s.Fetch(c.wireKey(key))
	if !c.fromError(err) {
		return nil, false
	}
	return payload, true
}

// Delete removes key. A missing key reports false with ResNotFound.
func (c *Client) Delete(key string) bool {
	s, ok := c.ready()
	if !ok {
		return false
	}
	return c.fromError(s.Delete(c.wireKey(key)))
}

// Increment adds offset to the integer at key. A missing key is created
// with value 0.
func (c *Client) Increment(key string, offset uint64) (uint64, bool) {
	return c.IncrementWithInitial(key, offset, 0, 0)
}

// IncrementWithInitial is Increment, except a missing key is created with
// initial and expiry and initial is returned.
func (c *Client) IncrementWithInitial(key string, offset, initial uint64, expiry int) (uint64, bool) {
	return c.arithmetic((*internal.Session).Incr, key, offset, initial, expiry)
}

// Decrement subtracts offset from the integer at key, stopping at zero.
func (c *Client) Decrement(key string, offset uint64) (uint64, bool) {
	return c.DecrementWithInitial(key, offset, 0, 0)
}

// DecrementWithInitial is Decrement, except a missing key is created with
// initial and expiry and initial is returned.
func (c *Client) DecrementWithInitial(key string, offset, initial uint64, expiry int) (uint64, bool) {
	return c.arithmetic((*internal.Session).Decr, key, offset, initial, expiry)
}

type arithmeticFunc func(s *internal.Session, key string, delta uint64) (uint64, error)

func (c *Client) arithmetic(op arithmeticFunc, key string, offset, initial uint64, expiry int) (uint64, bool) {
	s, ok := c.ready()
	if !ok {
		return 0, false
	}
	wk := c.wireKey(key)
	n, err := op(s, wk, offset)
	if !errors.Is(err, internal.ErrCacheMiss) {
		return n, c.fromError(err)
	}
	payload, err := c.cfg.Serializer.Marshal(initial)
	if err != nil {
		c.record(ResPayloadFailure, ResPayloadFailure.String(), err)
		return 0, false
	}
	err = s.Add(wk, payload, 0, expiry)
	if errors.Is(err, internal.ErrNotStored) {
		// created concurrently by someone else; apply the offset to theirs
		n, err = op(s, wk, offset)
		return n, c.fromError(err)
	}
	return initial, c.fromError(err)
}

func (c *Client) record(code ResultCode, message string, err error) {
	c.code, c.message, c.err = code, message, err
}

// fromError records the result code for err and reports whether it is nil.
func (c *Client) fromError(err error) bool {
	var te *internal.TransportError
	switch {
	case err == nil:
		c.record(ResSuccess, "", nil)
		return true
	case errors.Is(err, internal.ErrCacheMiss):
		c.record(ResNotFound, ResNotFound.String(), err)
	case errors.Is(err, internal.ErrNotStored):
		c.record(ResNotStored, ResNotStored.String(), err)
	case errors.Is(err, internal.ErrMalformedKey):
		c.record(ResBadKeyProvided, ResBadKeyProvided.String(), err)
	case errors.Is(err, internal.ErrClientError):
		c.record(ResClientError, err.Error(), err)
	case errors.Is(err, internal.ErrServerError):
		c.record(ResServerError, err.Error(), err)
	case errors.Is(err, internal.ErrProtocol):
		c.record(ResProtocolError, err.Error(), err)
	case errors.As(err, &te) && te.Timeout():
		c.record(ResTimeout, ResTimeout.String(), err)
	case errors.As(err, &te) && te.Op == "write":
		c.record(ResWriteFailure, ResWriteFailure.String(), err)
	case errors.As(err, &te):
		c.record(ResUnknownReadFailure, ResUnknownReadFailure.String(), err)
	default:
		c.record(ResFailure, err.Error(), err)
	}
	return false
}
