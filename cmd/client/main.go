package main

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vmihailenco/msgpack/v5"
)

// argParser parses and validates the command and its arguments
func argParser(input string) (map[string]interface{}, error) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return nil, fmt.Errorf("no command entered")
	}

	command := strings.ToUpper(parts[0])
	request := map[string]interface{}{
		"command": command,
	}

	switch command {
	case "PING":
		// PING requires no additional arguments
		if len(parts) > 1 {
			return nil, fmt.Errorf("PING does not require any arguments")
		}

	case "ECHO":
		// ECHO requires a message
		if len(parts) < 2 {
			return nil, fmt.Errorf("ECHO requires a message")
		}
		request["message"] = strings.Join(parts[1:], " ")

	case "SET":
		// SET requires a key and a value, optionally a TTL in milliseconds
		if len(parts) < 3 {
			return nil, fmt.Errorf("SET requires a key and value")
		}
		request["key"] = parts[1]
		request["value"] = parts[2]
		if len(parts) > 3 {
			exp, err := strconv.ParseInt(parts[3], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("SET expiry must be an integer")
			}
			request["exp"] = exp
		}

	case "GET", "LPOP", "RPOP", "LLEN":
		if len(parts) != 2 {
			return nil, fmt.Errorf("%s requires a key", command)
		}
		request["key"] = parts[1]

	case "INCR":
		if len(parts) < 2 {
			return nil, fmt.Errorf("INCR requires a key")
		}
		request["key"] = parts[1]
		request["offset"] = "1"
		if len(parts) > 2 {
			request["offset"] = parts[2]
		}

	case "PUSH", "RPUSH", "LPUSH":
		if len(parts) < 3 {
			return nil, fmt.Errorf("%s requires a key and value", command)
		}
		request["key"] = parts[1]
		request["value"] = strings.Join(parts[2:], " ")

	case "LINDEX":
		if len(parts) != 3 {
			return nil, fmt.Errorf("LINDEX requires a key and an index")
		}
		request["key"] = parts[1]
		request["index"] = parts[2]

	case "LRANGE":
		if len(parts) != 2 && len(parts) != 4 {
			return nil, fmt.Errorf("LRANGE requires a key and optionally start and stop")
		}
		request["key"] = parts[1]
		if len(parts) == 4 {
			request["start"] = parts[2]
			request["stop"] = parts[3]
		}

	default:
		// Unknown command
		return nil, fmt.Errorf("unknown command: %s", command)
	}

	return request, nil
}

// formatResponse renders a decoded server response for the terminal.
func formatResponse(serverResponse map[string]interface{}) string {
	status, _ := serverResponse["status"].(string)
	switch status {
	case "OK":
		if message, ok := serverResponse["message"].(string); ok {
			return "Server: " + message
		}
		if values, ok := serverResponse["value"].([]interface{}); ok {
			if len(values) == 0 {
				return "Server: (empty list)"
			}
			lines := make([]string, 0, len(values))
			for i, v := range values {
				lines = append(lines, fmt.Sprintf("%d) %v", i+1, v))
			}
			return strings.Join(lines, "\n")
		}
		if value, ok := serverResponse["value"]; ok {
			return fmt.Sprint("Server: ", value)
		}
		return "Server: OK"
	case "ERROR":
		return fmt.Sprint("Server Error: ", serverResponse["message"])
	default:
		return fmt.Sprint("Unexpected server response: ", serverResponse)
	}
}

func repl(conn net.Conn, in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)
	decoder := msgpack.NewDecoder(conn)

	for {
		fmt.Fprint(out, ">> ")
		// Read user input
		input, err := reader.ReadString('\n')
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("error reading input: %w", err)
		}
		input = strings.TrimSpace(input)

		// Parse and validate the input
		request, err := argParser(input)
		if err != nil {
			fmt.Fprintln(out, "Error:", err)
			continue
		}

		// Serialize the request using MessagePack
		data, err := msgpack.Marshal(request)
		if err != nil {
			fmt.Fprintln(out, "Error serializing request:", err)
			continue
		}

		// Send the serialized request to the server
		if _, err = conn.Write(data); err != nil {
			return fmt.Errorf("error sending to server: %w", err)
		}

		var serverResponse map[string]interface{}
		if err := decoder.Decode(&serverResponse); err != nil {
			return fmt.Errorf("error reading from server: %w", err)
		}
		fmt.Fprintln(out, formatResponse(serverResponse))
	}
}

func main() {
	var addr string
	command := &cobra.Command{
		Use:          "geomys-client",
		Short:        "Interactive client for the geomys server",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := net.Dial("tcp", addr)
			if err != nil {
				return fmt.Errorf("error connecting to server: %w", err)
			}
			defer conn.Close()

			fmt.Fprintln(cmd.OutOrStdout(), "Connected to server. Type commands (e.g., PING, SET key value, PUSH key value, LRANGE key) and press Enter.")
			return repl(conn, os.Stdin, cmd.OutOrStdout())
		},
	}
	command.Flags().StringVar(&addr, "addr", "localhost:6379", "Address of the server")

	if err := command.Execute(); err != nil {
		os.Exit(1)
	}
}
