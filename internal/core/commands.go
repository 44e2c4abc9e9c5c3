package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vskvj3/geomys-list/internal/persistence"
	"github.com/vskvj3/geomys-list/internal/utils"
)

// RequestLog records write requests and returns them for replay.
type RequestLog interface {
	LogRequest(req map[string]interface{}) error
	LoadRequests() ([]map[string]interface{}, error)
}

type CommandHandler struct {
	Database    *Database
	Persistence RequestLog
	// DefaultTTL in milliseconds applies to SET requests without 'exp'; 0 never expires.
	DefaultTTL  int64
}

// Create a new CommandHandler instance. log may be nil to disable persistence.
func NewCommandHandler(db *Database, log RequestLog) *CommandHandler {
	return &CommandHandler{Database: db, Persistence: log}
}

// IsWriteCommand reports whether command mutates the database.
func IsWriteCommand(command string) bool {
	switch strings.ToUpper(command) {
	case "SET", "INCR", "PUSH", "RPUSH", "LPUSH", "LPOP", "RPOP":
		return true
	}
	return false
}

// HandleCommand processes a client request and returns the response to send.
// Errors are meant to be reported to the client as an ERROR response.
func (h *CommandHandler) HandleCommand(request map[string]interface{}) (map[string]interface{}, error) {
	command, ok := request["command"].(string)
	if !ok {
		return nil, errors.New("invalid or missing 'command' field")
	}
	command = strings.ToUpper(command)

	if command == "SET" {
		var err error
		if request, err = h.withDeadline(request); err != nil {
			return nil, err
		}
	}

	if IsWriteCommand(command) && h.Persistence != nil {
		if err := h.Persistence.LogRequest(request); err != nil {
			utils.GetLogger().Error("Request logging to disk failed: " + err.Error())
			return nil, errors.New("request logging to disk failed")
		}
	}
	return h.execute(command, request)
}

// Replay re-executes every logged write request. A missing or empty log
// is not an error.
func (h *CommandHandler) Replay() (int, error) {
	if h.Persistence == nil {
		return 0, nil
	}
	requests, err := h.Persistence.LoadRequests()
	if errors.Is(err, persistence.ErrNoData) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("load requests: %w", err)
	}

	logger := utils.GetLogger()
	for _, request := range requests {
		command, _ := request["command"].(string)
		if _, err := h.execute(strings.ToUpper(command), request); err != nil {
			logger.Debug("Replay of " + command + " failed: " + err.Error())
		}
	}
	return len(requests), nil
}

// withDeadline returns a copy of a SET request whose relative 'exp' (or the
// default TTL) is replaced by an absolute 'expAt' in unix milliseconds, so a
// replayed SET expires when the original would have.
func (h *CommandHandler) withDeadline(request map[string]interface{}) (map[string]interface{}, error) {
	ttlMs := h.DefaultTTL
	if exp, ok := request["exp"]; ok {
		var err error
		if ttlMs, err = utils.ToInt64(exp); err != nil {
			return nil, fmt.Errorf("invalid TTL: %w", err)
		}
	}

	normalized := make(map[string]interface{}, len(request))
	for k, v := range request {
		if k != "exp" {
			normalized[k] = v
		}
	}
	if ttlMs > 0 {
		normalized["expAt"] = time.Now().UnixMilli() + ttlMs
	}
	return normalized, nil
}

func (h *CommandHandler) execute(command string, request map[string]interface{}) (map[string]interface{}, error) {
	switch command {
	case "PING":
		return map[string]interface{}{"status": "OK", "message": "PONG"}, nil

	case "ECHO":
		message, ok := request["message"].(string)
		if !ok {
			return nil, errors.New("ECHO requires a 'message' field")
		}
		return map[string]interface{}{"status": "OK", "message": message}, nil

	case "SET":
		key, keyOk := request["key"].(string)
		value, valueOk := request["value"].(string)
		if !keyOk || !valueOk {
			return nil, errors.New("SET requires 'key', 'value' fields")
		}

		var deadline int64
		if expAt, ok := request["expAt"]; ok {
			var err error
			if deadline, err = utils.ToInt64(expAt); err != nil {
				return nil, fmt.Errorf("invalid expiry: %w", err)
			}
		} else if exp, ok := request["exp"]; ok {
			ttlMs, err := utils.ToInt64(exp)
			if err != nil {
				return nil, fmt.Errorf("invalid TTL: %w", err)
			}
			if ttlMs > 0 {
				deadline = time.Now().UnixMilli() + ttlMs
			}
		}

		if err := h.Database.SetUntil(key, value, deadline); err != nil {
			return nil, err
		}
		return map[string]interface{}{"status": "OK"}, nil

	case "GET":
		key, ok := request["key"].(string)
		if !ok {
			return nil, errors.New("GET requires a 'key' field")
		}
		value, err := h.Database.Get(key)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"status": "OK", "value": value}, nil

	case "INCR":
		key, ok := request["key"].(string)
		if !ok {
			return nil, errors.New("INCR requires a 'key' field")
		}
		rawOffset, ok := request["offset"]
		if !ok {
			return nil, errors.New("INCR requires an 'offset' field (integer)")
		}
		offset, err := utils.ToInt(rawOffset)
		if err != nil {
			return nil, err
		}

		newValue, err := h.Database.Incr(key, offset)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"status": "OK", "value": newValue}, nil

	case "PUSH", "RPUSH", "LPUSH":
		key, keyOk := request["key"].(string)
		value, valueOk := request["value"].(string)
		if !keyOk || !valueOk {
			return nil, fmt.Errorf("%s requires 'key', 'value' fields", command)
		}

		push := h.Database.Push
		if command == "LPUSH" {
			push = h.Database.LPush
		}
		if err := push(key, value); err != nil {
			return nil, err
		}
		return map[string]interface{}{"status": "OK"}, nil

	case "LPOP", "RPOP":
		key, ok := request["key"].(string)
		if !ok {
			return nil, fmt.Errorf("%s requires a 'key' field", command)
		}

		pop := h.Database.Lpop
		if command == "RPOP" {
			pop = h.Database.Rpop
		}
		value, err := pop(key)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"status": "OK", "value": value}, nil

	case "LRANGE":
		key, ok := request["key"].(string)
		if !ok {
			return nil, errors.New("LRANGE requires a 'key' field")
		}
		start, stop := 0, -1
		if raw, ok := request["start"]; ok {
			var err error
			if start, err = utils.ToInt(raw); err != nil {
				return nil, fmt.Errorf("invalid start: %w", err)
			}
		}
		if raw, ok := request["stop"]; ok {
			var err error
			if stop, err = utils.ToInt(raw); err != nil {
				return nil, fmt.Errorf("invalid stop: %w", err)
			}
		}

		values, err := h.Database.LRange(key, start, stop)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"status": "OK", "value": values}, nil

	case "LINDEX":
		key, ok := request["key"].(string)
		if !ok {
			return nil, errors.New("LINDEX requires a 'key' field")
		}
		rawIndex, ok := request["index"]
		if !ok {
			return nil, errors.New("LINDEX requires an 'index' field (integer)")
		}
		index, err := utils.ToInt(rawIndex)
		if err != nil {
			return nil, fmt.Errorf("invalid index: %w", err)
		}

		value, err := h.Database.LIndex(key, index)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"status": "OK", "value": value}, nil

	case "LLEN":
		key, ok := request["key"].(string)
		if !ok {
			return nil, errors.New("LLEN requires a 'key' field")
		}
		length, err := h.Database.LLen(key)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"status": "OK", "value": length}, nil

	default:
		return nil, errors.New("unknown command")
	}
}
