package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgParser(t *testing.T) {
	testCases := []struct {
		input    string
		expected map[string]interface{}
	}{
		{"ping", map[string]interface{}{"command": "PING"}},
		{"echo hello world", map[string]interface{}{"command": "ECHO", "message": "hello world"}},
		{"set k v 500", map[string]interface{}{"command": "SET", "key": "k", "value": "v", "exp": int64(500)}},
		{"incr counter", map[string]interface{}{"command": "INCR", "key": "counter", "offset": "1"}},
		{"lpush jobs first job", map[string]interface{}{"command": "LPUSH", "key": "jobs", "value": "first job"}},
		{"lrange jobs 0 -1", map[string]interface{}{"command": "LRANGE", "key": "jobs", "start": "0", "stop": "-1"}},
		{"lindex jobs -1", map[string]interface{}{"command": "LINDEX", "key": "jobs", "index": "-1"}},
		{"rpop jobs", map[string]interface{}{"command": "RPOP", "key": "jobs"}},
	}
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			request, err := argParser(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, request)
		})
	}

	for _, input := range []string{"", "ping now", "set k", "lrange jobs 0", "lindex jobs", "fly away"} {
		_, err := argParser(input)
		assert.Error(t, err, input)
	}
}

func TestFormatResponse(t *testing.T) {
	assert.Equal(t, "Server: PONG", formatResponse(map[string]interface{}{"status": "OK", "message": "PONG"}))
	assert.Equal(t, "1) a\n2) b", formatResponse(map[string]interface{}{"status": "OK", "value": []interface{}{"a", "b"}}))
	assert.Equal(t, "Server: (empty list)", formatResponse(map[string]interface{}{"status": "OK", "value": []interface{}{}}))
	assert.Equal(t, "Server: 3", formatResponse(map[string]interface{}{"status": "OK", "value": int8(3)}))
	assert.Equal(t, "Server: OK", formatResponse(map[string]interface{}{"status": "OK"}))
	assert.Equal(t, "Server Error: key not found", formatResponse(map[string]interface{}{"status": "ERROR", "message": "key not found"}))
}
