package nexus

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/DrC0ns0le/net-ping/internal/measure"
	"github.com/DrC0ns0le/net-ping/internal/system"
	"github.com/DrC0ns0le/net-ping/pkg/logging"
)

var (
	socketPath              = flag.String("socket.path", "/run/net-ping/net-ping.sock", "path for unix socket")
	socketConnectionTimeout = flag.Duration("socket.timeout", 30*time.Second, "idle timeout for socket connections")
)

// SocketServer answers a line protocol on a unix socket:
//
//	PING <host> [count] [timeoutMs]  ->  OK <rtt>
//	TRAFFIC                          ->  OK rx=<total> tx=<total> rxRate=<rate> txRate=<rate>
//
// Failures are written as "ERROR <code>: <message>".
type SocketServer struct {
	socketPath string
	timeout    time.Duration

	pinger  Pinger
	traffic TrafficSampler

	mu       sync.Mutex
	listener net.Listener
	logger   logging.Logger
}

func NewSocketServer(global *system.Node) *SocketServer {
	return &SocketServer{
		socketPath: *socketPath,
		timeout:    *socketConnectionTimeout,
		pinger:     global.Pinger,
		traffic:    global.Traffic,
		logger:     global.Logger.With("component", "socket"),
	}
}

func (s *SocketServer) Start() error {
	if err := os.RemoveAll(s.socketPath); err != nil {
		return fmt.Errorf("error removing existing socket: %w", err)
	}

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	s.logger.Infof("socket listening at %s", s.socketPath)
	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				if errors.Is(err, net.ErrClosed) {
					return
				}
				s.logger.Errorf("error accepting connection: %v", err)
				continue
			}
			go s.handleConnection(conn)
		}
	}()

	return nil
}

func (s *SocketServer) Stop() error {
	s.mu.Lock()
	listener := s.listener
	s.listener = nil
	s.mu.Unlock()

	if listener == nil {
		return nil
	}
	if err := listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		return fmt.Errorf("error closing socket: %w", err)
	}
	if err := os.Remove(s.socketPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("error removing socket: %w", err)
	}
	return nil
}

func (s *SocketServer) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	for {
		conn.SetReadDeadline(time.Now().Add(s.timeout))

		message, err := reader.ReadString('\n')
		if err != nil {
			if err != io.EOF && !errors.Is(err, os.ErrDeadlineExceeded) {
				s.logger.Errorf("error reading from socket: %v", err)
			}
			return
		}

		message = strings.TrimSpace(message)
		if message == "" {
			continue
		}
		s.logger.Debugf("received message from socket: %s", message)

		conn.Write([]byte(s.execute(context.Background(), message) + "\n"))
	}
}

func (s *SocketServer) execute(ctx context.Context, message string) string {
	fields := strings.Fields(message)

	switch strings.ToUpper(fields[0]) {
	case "PING":
		var host, count, timeout string
		if len(fields) > 1 {
			host = fields[1]
		}
		if len(fields) > 2 {
			count = fields[2]
		}
		if len(fields) > 3 {
			timeout = fields[3]
		}

		opts, err := parseOptions(count, timeout)
		if err != nil {
			return "ERROR InvalidOptions: " + err.Error()
		}

		rtt, err := s.pinger.Ping(ctx, host, opts)
		if err != nil {
			return formatSocketError(err)
		}
		return "OK " + strconv.FormatInt(rtt, 10)

	case "TRAFFIC":
		report, err := s.traffic.Sample(ctx)
		if err != nil {
			return formatSocketError(err)
		}
		return fmt.Sprintf("OK rx=%s tx=%s rxRate=%s txRate=%s",
			report.ReceivedTotal, report.SentTotal, report.ReceivedRate, report.SentRate)

	default:
		return "ERROR: invalid message format"
	}
}

func formatSocketError(err error) string {
	return fmt.Sprintf("ERROR %s: %v", measure.KindOf(err).Code(), err)
}
