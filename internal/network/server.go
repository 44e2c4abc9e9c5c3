package network

import (
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vskvj3/geomys-list/internal/core"
	"github.com/vskvj3/geomys-list/internal/utils"
)

// maxAcceptDelay caps the backoff after consecutive Accept failures.
const maxAcceptDelay = time.Second

type Server struct {
	CommandHandler *core.CommandHandler
	Port           string

	mu       sync.Mutex
	listener net.Listener
	conns    map[net.Conn]struct{}
	closed   bool
	wg       sync.WaitGroup
}

func NewServer(port string, handler *core.CommandHandler) (*Server, error) {
	if handler == nil || handler.Database == nil {
		return nil, fmt.Errorf("database is not initialized")
	}
	return &Server{
		CommandHandler: handler,
		Port:           port,
		conns:          make(map[net.Conn]struct{}),
	}, nil
}

// Start binds the configured port (or a random one when it is taken) and
// serves until Close is called.
func (s *Server) Start() error {
	logger := utils.GetLogger()

	// Attempt to bind to the configured port
	listener, err := net.Listen("tcp", ":"+s.Port)
	if err != nil {
		logger.Warn("Port " + s.Port + " unavailable. Selecting a random port...")
		listener, err = net.Listen("tcp", ":0")
		if err != nil {
			return fmt.Errorf("error starting server: %w", err)
		}
	}
	return s.Serve(listener)
}

// Serve accepts connections on listener until Close is called.
func (s *Server) Serve(listener net.Listener) error {
	logger := utils.GetLogger()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		listener.Close()
		return net.ErrClosed
	}
	s.listener = listener
	s.mu.Unlock()
	logger.Info("Server is listening on " + listener.Addr().String())

	// Accept incoming connections
	var retryDelay time.Duration
	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			if retryDelay == 0 {
				retryDelay = 5 * time.Millisecond
			} else {
				retryDelay = min(2*retryDelay, maxAcceptDelay)
			}
			logger.Error("Error accepting connection: " + err.Error() + "; retrying in " + retryDelay.String())
			time.Sleep(retryDelay)
			continue
		}
		retryDelay = 0
		if !s.track(conn) {
			conn.Close()
			return nil
		}
		logger.Info("Accepted client: " + conn.RemoteAddr().String())

		go func() {
			defer s.wg.Done()
			s.HandleConnection(conn)
		}()
	}
}

// Addr returns the bound address, or nil before Serve.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Close stops accepting, drops open connections and waits for their handlers.
func (s *Server) Close() error {
	s.mu.Lock()
	s.closed = true
	var err error
	if s.listener != nil {
		err = s.listener.Close()
	}
	for conn := range s.conns {
		conn.Close()
	}
	s.mu.Unlock()

	s.wg.Wait()
	return err
}

func (s *Server) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.conns[conn] = struct{}{}
	s.wg.Add(1)
	return true
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, conn)
}

// Handle an incoming client connection
func (s *Server) HandleConnection(conn net.Conn) {
	logger := utils.GetLogger().WithField("client", conn.RemoteAddr().String())
	defer func() {
		logger.Info("Client disconnected")
		s.untrack(conn)
		conn.Close()
	}()

	decoder := msgpack.NewDecoder(conn)
	for {
		var request map[string]interface{}
		if err := decoder.Decode(&request); err != nil {
			switch {
			case errors.Is(err, io.EOF):
				logger.Info("Client closed the connection")
			case errors.Is(err, net.ErrClosed):
			default:
				logger.Error("Error reading from client: " + err.Error())
			}
			return
		}
		logger.Debug("Received request from client")

		response, err := s.CommandHandler.HandleCommand(request)
		if err != nil {
			s.sendError(conn, err.Error())
			continue
		}
		s.sendResponse(conn, response)
	}
}

// sendResponse serializes the response and sends it to the client
func (s *Server) sendResponse(conn net.Conn, response map[string]interface{}) {
	logger := utils.GetLogger()
	data, err := utils.EncodeResponse(response)
	if err != nil {
		logger.Error("Failed to encode response: " + err.Error())
		return
	}
	_, err = conn.Write(data)
	if err != nil {
		logger.Error("Failed to send response: " + err.Error())
	}
}

// sendError sends an error message to the client
func (s *Server) sendError(conn net.Conn, errorMessage string) {
	response := map[string]interface{}{"status": "ERROR", "message": errorMessage}
	s.sendResponse(conn, response)
}
