package persistence

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// ErrNoData is returned when the log holds no requests.
var ErrNoData = errors.New("no data found in binary log")

// Persistence manages the append-only request log. Every record is one
// msgpack encoded request map.
type Persistence struct {
	mu   sync.Mutex
	file *os.File
}

// NewPersistence opens (or creates) the log at path.
func NewPersistence(path string) (*Persistence, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create persistence directory: %w", err)
	}

	// Open the file in append mode, create if needed
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("open persistence file: %w", err)
	}

	return &Persistence{file: file}, nil
}

// DefaultPath returns ~/.geomys/binlog.dat.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".geomys", "binlog.dat"), nil
}

// LogRequest writes a request into the disk
func (p *Persistence) LogRequest(req map[string]interface{}) error {
	data, err := msgpack.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	_, err = p.file.Write(data)
	return err
}

// LoadRequests reads the log from the start and returns the requests in
// the order they were written. A truncated trailing record is ignored.
func (p *Persistence) LoadRequests() ([]map[string]interface{}, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	// Move file pointer to start
	if _, err := p.file.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	var requests []map[string]interface{}
	decoder := msgpack.NewDecoder(p.file)
	for {
		var req map[string]interface{}
		if err := decoder.Decode(&req); err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, fmt.Errorf("decode request %d: %w", len(requests), err)
			}
			break
		}
		requests = append(requests, req)
	}

	if len(requests) == 0 {
		return nil, ErrNoData
	}
	return requests, nil
}

// Close closes the persistence file.
func (p *Persistence) Close() error {
	return p.file.Close()
}
