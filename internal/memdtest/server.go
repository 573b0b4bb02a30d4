// Package memdtest runs an in-memory memcached text protocol server on a
// loopback port. It understands the subset of commands the client issues
// (plus gets, for interop tests) and records every command line it reads.
package memdtest

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
)

type item struct {
	flags uint32
	value []byte
	cas   uint64
}

type Server struct {
	ln net.Listener
	wg sync.WaitGroup

	mu       sync.Mutex
	items    map[string]item
	commands []string
	conns    map[net.Conn]struct{}
	closed   bool
	nextCas  uint64
}

// Start listens on 127.0.0.1 and stops the server when the test ends.
func Start(t testing.TB) *Server {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	s := &Server{
		ln:    ln,
		items: make(map[string]item),
		conns: make(map[net.Conn]struct{}),
	}
	s.wg.Add(1)
	go s.accept()
	t.Cleanup(s.Close)
	return s
}

func (s *Server) Addr() string {
	return s.ln.Addr().String()
}

func (s *Server) Host() string {
	return s.ln.Addr().(*net.TCPAddr).IP.String()
}

func (s *Server) Port() int {
	return s.ln.Addr().(*net.TCPAddr).Port
}

// Close stops accepting and drops every open connection.
func (s *Server) Close() {
	s.ln.Close()
	s.mu.Lock()
	s.closed = true
	for c := range s.conns {
		c.Close()
	}
	s.mu.Unlock()
	s.wg.Wait()
}

// Item returns the raw payload stored under key.
func (s *Server) Item(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[key]
	return it.value, ok
}

// Commands returns every command line received so far, data blocks excluded.
func (s *Server) Commands() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.commands...)
}

func (s *Server) accept() {
	defer s.wg.Done()
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			conn.Close()
			return
		}
		s.conns[conn] = struct{}{}
		s.mu.Unlock()
		s.wg.Add(1)
		go s.serve(conn)
	}
}

func (s *Server) serve(conn net.Conn) {
	defer s.wg.Done()
	defer func() {
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
		conn.Close()
	}()
	rw := bufio.NewReadWriter(bufio.NewReader(conn), bufio.NewWriter(conn))
	for {
		line, err := rw.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimRight(line, "\r\n")
		s.mu.Lock()
		s.commands = append(s.commands, line)
		s.mu.Unlock()
		if err := s.handle(rw, strings.Fields(line)); err != nil {
			return
		}
		if err := rw.Flush(); err != nil {
			return
		}
	}
}

func (s *Server) handle(rw *bufio.ReadWriter, args []string) error {
	if len(args) == 0 {
		_, err := rw.WriteString("ERROR\r\n")
		return err
	}
	switch args[0] {
	case "set", "add", "replace":
		return s.storage(rw, args)
	case "get", "gets":
		return s.retrieve(rw, args)
	case "delete":
		return s.delete(rw, args)
	case "incr", "decr":
		return s.arithmetic(rw, args)
	}
	_, err := rw.WriteString("ERROR\r\n")
	return err
}

func (s *Server) storage(rw *bufio.ReadWriter, args []string) error {
	if len(args) < 5 {
		_, err := rw.WriteString("ERROR\r\n")
		return err
	}
	flags, ferr := strconv.ParseUint(args[2], 10, 32)
	size, serr := strconv.Atoi(args[4])
	if ferr != nil || serr != nil || size < 0 {
		_, err := rw.WriteString("CLIENT_ERROR bad command line format\r\n")
		return err
	}
	data := make([]byte, size+2)
	if _, err := io.ReadFull(rw, data); err != nil {
		return err
	}
	if string(data[size:]) != "\r\n" {
		_, err := rw.WriteString("CLIENT_ERROR bad data chunk\r\n")
		return err
	}
	key := args[1]
	s.mu.Lock()
	_, exists := s.items[key]
	stored := args[0] == "set" || (args[0] == "add" && !exists) || (args[0] == "replace" && exists)
	if stored {
		s.nextCas++
		s.items[key] = item{flags: uint32(flags), value: data[:size], cas: s.nextCas}
	}
	s.mu.Unlock()
	reply := "NOT_STORED\r\n"
	if stored {
		reply = "STORED\r\n"
	}
	_, err := rw.WriteString(reply)
	return err
}

func (s *Server) retrieve(rw *bufio.ReadWriter, args []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range args[1:] {
		it, ok := s.items[key]
		if !ok {
			continue
		}
		if args[0] == "gets" {
			fmt.Fprintf(rw, "VALUE %s %d %d %d\r\n", key, it.flags, len(it.value), it.cas)
		} else {
			fmt.Fprintf(rw, "VALUE %s %d %d\r\n", key, it.flags, len(it.value))
		}
		rw.Write(it.value)
		rw.WriteString("\r\n")
	}
	_, err := rw.WriteString("END\r\n")
	return err
}

func (s *Server) delete(rw *bufio.ReadWriter, args []string) error {
	if len(args) < 2 {
		_, err := rw.WriteString("ERROR\r\n")
		return err
	}
	s.mu.Lock()
	_, ok := s.items[args[1]]
	delete(s.items, args[1])
	s.mu.Unlock()
	reply := "NOT_FOUND\r\n"
	if ok {
		reply = "DELETED\r\n"
	}
	_, err := rw.WriteString(reply)
	return err
}

func (s *Server) arithmetic(rw *bufio.ReadWriter, args []string) error {
	if len(args) < 3 {
		_, err := rw.WriteString("ERROR\r\n")
		return err
	}
	delta, err := strconv.ParseUint(args[2], 10, 64)
	if err != nil {
		_, err := rw.WriteString("CLIENT_ERROR invalid numeric delta argument\r\n")
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[args[1]]
	if !ok {
		_, err := rw.WriteString("NOT_FOUND\r\n")
		return err
	}
	n, err := strconv.ParseUint(string(it.value), 10, 64)
	if err != nil {
		_, err := rw.WriteString("CLIENT_ERROR cannot increment or decrement non-numeric value\r\n")
		return err
	}
	if args[0] == "incr" {
		n += delta
	} else if delta > n {
		n = 0
	} else {
		n -= delta
	}
	s.nextCas++
	it.value = []byte(strconv.FormatUint(n, 10))
	it.cas = s.nextCas
	s.items[args[1]] = it
	_, err = fmt.Fprintf(rw, "%d\r\n", n)
	return err
}
