package daemon

import (
	"errors"
	"path/filepath"
	"testing"
)

func connectMock(t *testing.T, d *mockSpeechDaemon) *Client {
	t.Helper()
	client, err := Connect(d.sockPath)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestClientCallStartCarriesLocale(t *testing.T) {
	d := startMockSpeechDaemon(t)
	defer d.Close()
	client := connectMock(t, d)

	resp, err := client.Call(Command{Cmd: CmdStart, Locale: "hi-IN", Continuous: BoolPtr(true), MaxAlternatives: 1})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if resp.SessionID != "cap-1" || resp.Locale != "hi-IN" {
		t.Errorf("resp = %+v", resp)
	}
	if resp.Recording == nil || !*resp.Recording {
		t.Error("recording should be true after start")
	}

	got := d.received()
	if len(got) != 1 {
		t.Fatalf("daemon received %d commands, want 1", len(got))
	}
	if got[0].Locale != "hi-IN" || got[0].Continuous == nil || !*got[0].Continuous || got[0].MaxAlternatives != 1 {
		t.Errorf("command = %+v", got[0])
	}
}

func TestClientCallStatusFollowsCapture(t *testing.T) {
	d := startMockSpeechDaemon(t)
	defer d.Close()
	client := connectMock(t, d)

	resp, err := client.Call(Command{Cmd: CmdStatus})
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if resp.Status != "ready" || resp.Recording == nil || *resp.Recording {
		t.Errorf("idle status = %+v", resp)
	}

	if _, err := client.Call(Command{Cmd: CmdStart, Locale: "en-US"}); err != nil {
		t.Fatalf("start: %v", err)
	}
	resp, err = client.Call(Command{Cmd: CmdStatus})
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if resp.Recording == nil || !*resp.Recording {
		t.Errorf("status while capturing = %+v", resp)
	}
}

func TestClientCallAlreadyStarted(t *testing.T) {
	d := startMockSpeechDaemon(t)
	defer d.Close()
	client := connectMock(t, d)

	if _, err := client.Call(Command{Cmd: CmdStart, Locale: "ta-IN"}); err != nil {
		t.Fatalf("first start: %v", err)
	}

	resp, err := client.Call(Command{Cmd: CmdStart, Locale: "ta-IN"})
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("err = %v, want *CommandError", err)
	}
	if cmdErr.Cmd != CmdStart || cmdErr.Code != ErrCodeAlreadyStarted {
		t.Errorf("cmdErr = %+v", cmdErr)
	}
	if resp.OK {
		t.Error("response should carry ok=false")
	}

	// SendCommand leaves the ok flag to the caller.
	resp, err = client.SendCommand(Command{Cmd: CmdStart})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if resp.OK || resp.Error != ErrCodeAlreadyStarted {
		t.Errorf("resp = %+v", resp)
	}
}

func TestClientCallUnknownCommand(t *testing.T) {
	d := startMockSpeechDaemon(t)
	defer d.Close()
	client := connectMock(t, d)

	_, err := client.Call(Command{Cmd: "rewind"})
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) || cmdErr.Cmd != "rewind" {
		t.Fatalf("err = %v, want *CommandError for rewind", err)
	}
}

func TestClientConnectFailure(t *testing.T) {
	_, err := Connect(filepath.Join(t.TempDir(), "missing", "speech.sock"))
	if err == nil {
		t.Error("expected error connecting to a missing socket")
	}
}

func TestClientSubscribeStreamsCapture(t *testing.T) {
	seq := 3
	d := startMockSpeechDaemon(t,
		Event{Event: EventPartial, Text: "hello"},
		Event{Event: EventSegment, Text: "hello guru", SequenceNumber: &seq},
	)
	defer d.Close()

	sub := connectMock(t, d)
	if err := sub.Subscribe(EventStatus, EventPartial, EventSegment); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	ctl := connectMock(t, d)
	if _, err := ctl.Call(Command{Cmd: CmdStart, Locale: "en-US"}); err != nil {
		t.Fatalf("start: %v", err)
	}

	ev, err := sub.ReadEvent()
	if err != nil {
		t.Fatalf("read status: %v", err)
	}
	if ev.Event != EventStatus || ev.Recording == nil || !*ev.Recording {
		t.Errorf("first event = %+v, want recording status", ev)
	}

	ev, err = sub.ReadEvent()
	if err != nil {
		t.Fatalf("read partial: %v", err)
	}
	if ev.Event != EventPartial || ev.Text != "hello" {
		t.Errorf("partial = %+v", ev)
	}

	ev, err = sub.ReadEvent()
	if err != nil {
		t.Fatalf("read segment: %v", err)
	}
	if ev.Event != EventSegment || ev.SequenceNumber == nil || *ev.SequenceNumber != 3 {
		t.Errorf("segment = %+v", ev)
	}

	if _, err := ctl.Call(Command{Cmd: CmdStop}); err != nil {
		t.Fatalf("stop: %v", err)
	}
	ev, err = sub.ReadEvent()
	if err != nil {
		t.Fatalf("read stop status: %v", err)
	}
	if ev.Event != EventStatus || ev.Recording == nil || *ev.Recording {
		t.Errorf("stop event = %+v, want idle status", ev)
	}

	got := d.received()
	if len(got) == 0 || got[0].Cmd != CmdSubscribe || len(got[0].Events) != 3 {
		t.Errorf("subscribe command = %+v", got)
	}

	d.hangUp()
	if _, err := sub.ReadEvent(); !errors.Is(err, ErrClosed) {
		t.Errorf("read after hangup = %v, want ErrClosed", err)
	}
}
