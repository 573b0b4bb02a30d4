package internal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"
)

const crlf = "\r\n"

// Session is a single synchronous text protocol connection. Each command is
// written and its reply fully read while holding mu, so requests never
// interleave on the wire.
type Session struct {
	addr    string
	timeout time.Duration

	mu     sync.Mutex
	conn   net.Conn
	rw     *bufio.ReadWriter
	broken error
}

// Dial opens a session to addr. timeout bounds every later read and write;
// zero disables the deadline.
func Dial(ctx context.Context, addr string, timeout time.Duration) (*Session, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s - %w", addr, err)
	}
	return NewSession(conn, timeout), nil
}

// NewSession wraps an established connection.
func NewSession(conn net.Conn, timeout time.Duration) *Session {
	return &Session{
		addr:    conn.RemoteAddr().String(),
		timeout: timeout,
		conn:    conn,
		rw:      bufio.NewReadWriter(bufio.NewReader(conn), bufio.NewWriter(conn)),
	}
}

func (s *Session) Addr() string {
	return s.addr
}

// Err returns the transport failure that broke the session, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.broken
}

func (s *Session) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.broken == nil {
		s.broken = ErrBrokenConn
	}
	return s.conn.Close()
}

// begin must be called with mu held.
func (s *Session) begin() error {
	if errors.Is(s.broken, ErrBrokenConn) {
		return s.broken
	}
	if s.broken != nil {
		return fmt.Errorf("%w: %v", ErrBrokenConn, s.broken)
	}
	if s.timeout > 0 {
		if err := s.conn.SetDeadline(time.Now().Add(s.timeout)); err != nil {
			return s.fail(&TransportError{Op: "set deadline", Err: err})
		}
	}
	return nil
}

// fail marks the session broken. Only transport errors and unparsable
// replies go through here; ordinary protocol replies leave the stream usable.
func (s *Session) fail(err error) error {
	if s.broken == nil {
		s.broken = err
	}
	return err
}

// readLine reads one reply line without its terminator or surrounding
// whitespace.
func (s *Session) readLine() (string, error) {
	line, err := s.rw.ReadString('\n')
	if err != nil {
		return "", s.fail(&TransportError{Op: "read", Err: err})
	}
	return strings.TrimSpace(line), nil
}

// writeLine writes b followed by CRLF and flushes. With reply set it then
// reads back a single response line.
func (s *Session) writeLine(b []byte, reply bool) (string, error) {
	if _, err := s.rw.Write(b); err != nil {
		return "", s.fail(&TransportError{Op: "write", Err: err})
	}
	if _, err := s.rw.WriteString(crlf); err != nil {
		return "", s.fail(&TransportError{Op: "write", Err: err})
	}
	if err := s.rw.Flush(); err != nil {
		return "", s.fail(&TransportError{Op: "write", Err: err})
	}
	if !reply {
		return "", nil
	}
	return s.readLine()
}

// replyError converts the generic error replies into errors. It returns nil
// for any other line.
func replyError(line string) error {
	switch {
	case line == "ERROR":
		return fmt.Errorf("%w: %s", ErrProtocol, line)
	case strings.HasPrefix(line, "CLIENT_ERROR"):
		return fmt.Errorf("%w: %s", ErrClientError, strings.TrimSpace(strings.TrimPrefix(line, "CLIENT_ERROR")))
	case strings.HasPrefix(line, "SERVER_ERROR"):
		return fmt.Errorf("%w: %s", ErrServerError, strings.TrimSpace(strings.TrimPrefix(line, "SERVER_ERROR")))
	}
	return nil
}
