package daemon

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ErrClosed is returned when the daemon hangs up.
var ErrClosed = errors.New("connection closed")

// dialTimeout bounds how long Connect waits for the socket.
const dialTimeout = 2 * time.Second

// SocketPath returns the default speech daemon socket path.
func SocketPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "mukthiguru", "speech.sock")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "mukthiguru", "speech.sock")
}

// CommandError is a command the daemon answered with ok=false.
type CommandError struct {
	Cmd  string
	Code string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("daemon %s: %s", e.Cmd, e.Code)
}

// Client communicates with the speech daemon over a Unix socket.
type Client struct {
	conn    net.Conn
	scanner *bufio.Scanner
	mu      sync.Mutex
}

// Connect dials the daemon Unix socket.
func Connect(socketPath string) (*Client, error) {
	conn, err := net.DialTimeout("unix", socketPath, dialTimeout)
	if err != nil {
		return nil, fmt.Errorf("connect to daemon: %w", err)
	}

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	return &Client{conn: conn, scanner: scanner}, nil
}

// Close shuts down the connection.
func (c *Client) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// SendCommand sends a command and reads one response line.
func (c *Client) SendCommand(cmd Command) (Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := json.Marshal(cmd)
	if err != nil {
		return Response{}, fmt.Errorf("marshal command: %w", err)
	}

	data = append(data, '\n')
	if _, err := c.conn.Write(data); err != nil {
		return Response{}, fmt.Errorf("write command: %w", err)
	}

	line, err := c.readLine()
	if err != nil {
		return Response{}, fmt.Errorf("read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(line, &resp); err != nil {
		return Response{}, fmt.Errorf("unmarshal response: %w", err)
	}

	return resp, nil
}

// Call sends a command and turns an ok=false answer into a *CommandError.
func (c *Client) Call(cmd Command) (Response, error) {
	resp, err := c.SendCommand(cmd)
	if err != nil {
		return resp, err
	}
	if !resp.OK {
		return resp, &CommandError{Cmd: cmd.Cmd, Code: resp.Error}
	}
	return resp, nil
}

// ReadEvent reads the next NDJSON event line. Blocks until data arrives.
// After calling Subscribe, use this in a loop to receive events.
func (c *Client) ReadEvent() (Event, error) {
	line, err := c.readLine()
	if err != nil {
		return Event{}, fmt.Errorf("read event: %w", err)
	}

	var ev Event
	if err := json.Unmarshal(line, &ev); err != nil {
		return Event{}, fmt.Errorf("unmarshal event: %w", err)
	}

	return ev, nil
}

// Subscribe asks the daemon to stream the named events on this connection.
func (c *Client) Subscribe(events ...string) error {
	_, err := c.Call(Command{Cmd: CmdSubscribe, Events: events})
	return err
}

func (c *Client) readLine() ([]byte, error) {
	if !c.scanner.Scan() {
		if err := c.scanner.Err(); err != nil {
			return nil, err
		}
		return nil, ErrClosed
	}
	return c.scanner.Bytes(), nil
}
