package daemon

import (
	"bufio"
	"encoding/json"
	"net"
	"path/filepath"
	"sync"
	"testing"
)

// mockSpeechDaemon is a scriptable speech daemon. Every start command emits a
// recording status event followed by script.
type mockSpeechDaemon struct {
	t        *testing.T
	sockPath string
	ln       net.Listener
	wg       sync.WaitGroup

	mu       sync.Mutex
	conns    []net.Conn
	subs     []net.Conn
	commands []Command
	running  bool
	script   []Event
}

func startMockSpeechDaemon(t *testing.T, script ...Event) *mockSpeechDaemon {
	t.Helper()

	sockPath := filepath.Join(t.TempDir(), "speech.sock")
	ln, err := net.Listen("unix", sockPath)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	d := &mockSpeechDaemon{t: t, sockPath: sockPath, ln: ln, script: script}
	d.wg.Add(1)
	go d.accept()
	return d
}

func (d *mockSpeechDaemon) accept() {
	defer d.wg.Done()
	for {
		conn, err := d.ln.Accept()
		if err != nil {
			return
		}
		d.mu.Lock()
		d.conns = append(d.conns, conn)
		d.mu.Unlock()

		d.wg.Add(1)
		go d.serve(conn)
	}
}

func (d *mockSpeechDaemon) serve(conn net.Conn) {
	defer d.wg.Done()
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		var cmd Command
		if err := json.Unmarshal(scanner.Bytes(), &cmd); err != nil {
			return
		}
		d.handle(conn, cmd)
	}
}

func (d *mockSpeechDaemon) handle(conn net.Conn, cmd Command) {
	d.mu.Lock()
	d.commands = append(d.commands, cmd)

	var resp Response
	var events []Event
	switch cmd.Cmd {
	case CmdSubscribe:
		d.subs = append(d.subs, conn)
		resp = Response{OK: true}
	case CmdStart:
		if d.running {
			resp = Response{OK: false, Error: ErrCodeAlreadyStarted}
			break
		}
		d.running = true
		resp = Response{OK: true, SessionID: "cap-1", Recording: BoolPtr(true), Locale: cmd.Locale}
		events = append([]Event{{Event: EventStatus, Recording: BoolPtr(true)}}, d.script...)
	case CmdStop:
		wasRunning := d.running
		d.running = false
		resp = Response{OK: true, Recording: BoolPtr(false)}
		if wasRunning {
			events = []Event{{Event: EventStatus, Recording: BoolPtr(false)}}
		}
	case CmdAbort:
		d.running = false
		resp = Response{OK: true, Recording: BoolPtr(false)}
	case CmdStatus:
		resp = Response{OK: true, Recording: BoolPtr(d.running), Status: "ready"}
	default:
		resp = Response{OK: false, Error: "unknown command"}
	}
	subs := append([]net.Conn(nil), d.subs...)
	d.mu.Unlock()

	writeLine(conn, resp)
	for _, ev := range events {
		for _, sub := range subs {
			writeLine(sub, ev)
		}
	}
}

// emit pushes events to every subscriber.
func (d *mockSpeechDaemon) emit(events ...Event) {
	d.mu.Lock()
	subs := append([]net.Conn(nil), d.subs...)
	d.mu.Unlock()
	for _, ev := range events {
		for _, sub := range subs {
			writeLine(sub, ev)
		}
	}
}

// hangUp drops every subscriber connection.
func (d *mockSpeechDaemon) hangUp() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, sub := range d.subs {
		sub.Close()
	}
	d.subs = nil
}

func (d *mockSpeechDaemon) received() []Command {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Command(nil), d.commands...)
}

func (d *mockSpeechDaemon) Close() {
	d.ln.Close()
	d.mu.Lock()
	for _, c := range d.conns {
		c.Close()
	}
	d.mu.Unlock()
	d.wg.Wait()
}

func writeLine(conn net.Conn, v any) {
	data, _ := json.Marshal(v)
	conn.Write(append(data, '\n'))
}
