package client

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/edwingeng/deque/v2"
)

// DefaultPort is used whenever a server is registered without a port.
const DefaultPort = 11211

// ServerEntry is a registered cache server.
type ServerEntry struct {
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
	Weight int    `yaml:"weight"`
}

// Key is the identity used to deduplicate registrations.
func (e ServerEntry) Key() string {
	return fmt.Sprintf("%s:%d:%d", e.Host, e.Port, e.Weight)
}

// Addr is the dial address of the server.
func (e ServerEntry) Addr() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

func (e ServerEntry) withDefaults() ServerEntry {
	if e.Port == 0 {
		e.Port = DefaultPort
	}
	return e
}

// ParseServer reads "host", "host:port" or "host:port:weight".
func ParseServer(s string) (ServerEntry, error) {
	parts := strings.Split(s, ":")
	if len(parts) > 3 || parts[0] == "" {
		return ServerEntry{}, fmt.Errorf("invalid server %q", s)
	}
	e := ServerEntry{Host: parts[0]}
	var err error
	if len(parts) > 1 {
		if e.Port, err = strconv.Atoi(parts[1]); err != nil {
			return ServerEntry{}, fmt.Errorf("invalid port in %q: %w", s, err)
		}
	}
	if len(parts) > 2 {
		if e.Weight, err = strconv.Atoi(parts[2]); err != nil {
			return ServerEntry{}, fmt.Errorf("invalid weight in %q: %w", s, err)
		}
	}
	return e.withDefaults(), nil
}

// registry keeps servers in registration order, each identity at most once.
type registry struct {
	seen  map[string]struct{}
	order *deque.Deque[ServerEntry]
}

func newRegistry() *registry {
	return &registry{
		seen:  make(map[string]struct{}),
		order: deque.NewDeque[ServerEntry](),
	}
}

func (r *registry) add(e ServerEntry) bool {
	k := e.Key()
	if _, ok := r.seen[k]; ok {
		return false
	}
	r.seen[k] = struct{}{}
	r.order.PushBack(e)
	return true
}

func (r *registry) first() (ServerEntry, bool) {
	return r.order.Front()
}

func (r *registry) list() []ServerEntry {
	return r.order.Dump()
}
