package redis

import (
	"bufio"
	"fmt"
	"net"
	"strings"
	"sync"
)

// mockRedisServer is a simple TCP server that mimics enough of Redis to
// satisfy go-redis: the HELLO handshake plus the handful of commands the
// cache adapter issues. The store is shared across connections so pooled
// clients observe one coherent keyspace.
type mockRedisServer struct {
	listener net.Listener
	wg       sync.WaitGroup
	quit     chan struct{}
	conns    sync.Map

	mu    sync.Mutex
	store map[string]string
}

func newMockRedisServer() (*mockRedisServer, error) {
	l, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		return nil, err
	}
	s := &mockRedisServer{
		listener: l,
		quit:     make(chan struct{}),
		store:    make(map[string]string),
	}
	s.wg.Add(1)
	go s.serve()
	return s, nil
}

// Addr returns the host:port the server listens on.
func (s *mockRedisServer) Addr() string {
	return s.listener.Addr().String()
}

func (s *mockRedisServer) serve() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.quit:
				return
			default:
				continue
			}
		}
		s.wg.Add(1)
		s.conns.Store(conn, struct{}{})
		go s.handleConn(conn)
	}
}

func (s *mockRedisServer) handleConn(c net.Conn) {
	defer s.wg.Done()
	defer func() {
		c.Close()
		s.conns.Delete(c)
	}()
	reader := bufio.NewReader(c)

	for {
		select {
		case <-s.quit:
			return
		default:
		}

		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}

		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "*") {
			continue
		}
		var numArgs int
		fmt.Sscanf(line, "*%d", &numArgs)

		var args []string
		for i := 0; i < numArgs; i++ {
			// Length line, then value line.
			if _, err := reader.ReadString('\n'); err != nil {
				return
			}
			val, err := reader.ReadString('\n')
			if err != nil {
				return
			}
			args = append(args, strings.TrimSpace(val))
		}
		if len(args) == 0 {
			continue
		}

		switch strings.ToUpper(args[0]) {
		case "HELLO":
			// RESP3 map; go-redis only insists the reply is a map.
			c.Write([]byte("%1\r\n$7\r\nversion\r\n$5\r\n6.0.0\r\n"))
		case "PING":
			c.Write([]byte("+PONG\r\n"))
		case "SET":
			if len(args) >= 3 {
				s.mu.Lock()
				s.store[args[1]] = args[2]
				s.mu.Unlock()
			}
			c.Write([]byte("+OK\r\n"))
		case "GET":
			var v string
			var ok bool
			if len(args) >= 2 {
				s.mu.Lock()
				v, ok = s.store[args[1]]
				s.mu.Unlock()
			}
			if !ok {
				c.Write([]byte("$-1\r\n"))
				break
			}
			fmt.Fprintf(c, "$%d\r\n%s\r\n", len(v), v)
		case "DEL":
			var n int
			s.mu.Lock()
			for _, k := range args[1:] {
				if _, ok := s.store[k]; ok {
					delete(s.store, k)
					n++
				}
			}
			s.mu.Unlock()
			fmt.Fprintf(c, ":%d\r\n", n)
		case "FLUSHDB":
			s.mu.Lock()
			s.store = make(map[string]string)
			s.mu.Unlock()
			c.Write([]byte("+OK\r\n"))
		case "INFO":
			content := "# Server\r\nredis_version:6.0.0\r\n"
			fmt.Fprintf(c, "$%d\r\n%s\r\n", len(content), content)
		default:
			// CLIENT SETINFO, COMMAND, SELECT and friends.
			c.Write([]byte("+OK\r\n"))
		}
	}
}

func (s *mockRedisServer) Stop() {
	close(s.quit)
	s.listener.Close()
	s.conns.Range(func(key, value interface{}) bool {
		key.(net.Conn).Close()
		return true
	})
	s.wg.Wait()
}
