package internal

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// MaxKeyLength is the longest key the server accepts.
const MaxKeyLength = 250

// MaxItemSize bounds the data block a VALUE header may announce.
const MaxItemSize = 1 << 30

// CheckKey rejects keys that would break the command line framing.
func CheckKey(key string) error {
	if len(key) == 0 || len(key) > MaxKeyLength {
		return fmt.Errorf("%w: length %d", ErrMalformedKey, len(key))
	}
	for i := 0; i < len(key); i++ {
		if key[i] <= ' ' || key[i] == 0x7f {
			return fmt.Errorf("%w: %q", ErrMalformedKey, key)
		}
	}
	return nil
}

// Store sends "set" for key. flags are opaque to the server.
func (s *Session) Store(key string, payload []byte, flags uint32, exptime int) error {
	return s.storage("set", key, payload, flags, exptime)
}

// Add stores payload only if the key is not already present.
func (s *Session) Add(key string, payload []byte, flags uint32, exptime int) error {
	return s.storage("add", key, payload, flags, exptime)
}

func (s *Session) storage(verb, key string, payload []byte, flags uint32, exptime int) error {
	if err := CheckKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(); err != nil {
		return err
	}
	command := fmt.Sprintf("%s %s %d %d %d", verb, key, flags, exptime, len(payload))
	if _, err := s.writeLine([]byte(command), false); err != nil {
		return fmt.Errorf("%s %s: %w", verb, key, err)
	}
	line, err := s.writeLine(payload, true)
	if err != nil {
		return fmt.Errorf("%s %s: %w", verb, key, err)
	}
	switch line {
	case "STORED":
		return nil
	case "NOT_STORED":
		return ErrNotStored
	}
	if err := replyError(line); err != nil {
		return err
	}
	return fmt.Errorf("%w: unexpected %s reply %q", ErrProtocol, verb, line)
}

// Fetch sends "get" for key and returns the item's payload. A first reply
// line that is not a VALUE header is a miss.
func (s *Session) Fetch(key string) ([]byte, error) {
	if err := CheckKey(key); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(); err != nil {
		return nil, err
	}
	head, err := s.writeLine([]byte("get "+key), true)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	header := strings.Fields(head)
	if len(header) == 0 || header[0] != "VALUE" {
		if err := replyError(head); err != nil {
			return nil, err
		}
		return nil, ErrCacheMiss
	}
	if len(header) < 4 {
		return nil, s.fail(fmt.Errorf("%w: invalid value header %q", ErrProtocol, head))
	}
	size, err := strconv.Atoi(header[3])
	if err != nil || size < 0 || size > MaxItemSize {
		return nil, s.fail(fmt.Errorf("%w: invalid value size %q", ErrProtocol, header[3]))
	}
	value := make([]byte, size+2)
	if _, err := io.ReadFull(s.rw, value); err != nil {
		return nil, s.fail(&TransportError{Op: "read", Err: err})
	}
	if string(value[size:]) != crlf {
		return nil, s.fail(fmt.Errorf("%w: data block not terminated", ErrProtocol))
	}
	value = value[:size]
	// the terminator line closes the reply and is never part of the value
	for {
		line, err := s.readLine()
		if err != nil {
			return nil, fmt.Errorf("get %s: %w", key, err)
		}
		if line == "END" {
			return value, nil
		}
	}
}

// Delete removes key from the server.
func (s *Session) Delete(key string) error {
	if err := CheckKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(); err != nil {
		return err
	}
	line, err := s.writeLine([]byte("delete "+key), true)
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	switch line {
	case "DELETED":
		return nil
	case "NOT_FOUND":
		return ErrCacheMiss
	}
	if err := replyError(line); err != nil {
		return err
	}
	return fmt.Errorf("%w: unexpected delete reply %q", ErrProtocol, line)
}

// Incr adds delta to the decimal value stored at key.
func (s *Session) Incr(key string, delta uint64) (uint64, error) {
	return s.arithmetic("incr", key, delta)
}

// Decr subtracts delta; the server clamps the result at zero.
func (s *Session) Decr(key string, delta uint64) (uint64, error) {
	return s.arithmetic("decr", key, delta)
}

func (s *Session) arithmetic(verb, key string, delta uint64) (uint64, error) {
	if err := CheckKey(key); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(); err != nil {
		return 0, err
	}
	line, err := s.writeLine([]byte(fmt.Sprintf("%s %s %d", verb, key, delta)), true)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", verb, key, err)
	}
	if line == "NOT_FOUND" {
		return 0, ErrCacheMiss
	}
	if err := replyError(line); err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(line, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: unexpected %s reply %q", ErrProtocol, verb, line)
	}
	return n, nil
}
