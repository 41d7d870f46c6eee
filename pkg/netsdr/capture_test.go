package netsdr

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSession_NewCapture_EndToEnd(t *testing.T) {
	p := newPeer(t)
	s := p.session(t)

	path := filepath.Join(t.TempDir(), "iq.bin")
	c := s.NewCapture(CaptureConfig{FrequencyHz: 7100000, Output: path},
		WithRecord(NewFileRecordRepository()),
	)

	payload := bytes.Repeat([]byte{0xA5, 0x5A}, 5000)
	peerErr := make(chan error, 1)
	go func() {
		conn := <-p.conns
		defer conn.Close()
		conn.SetDeadline(time.Now().Add(10 * time.Second))

		want := "SET_FREQ 7100000\nSTART_IQ\n"
		buf := make([]byte, len(want))
		if _, err := io.ReadFull(conn, buf); err != nil || string(buf) != want {
			peerErr <- fmt.Errorf("commands = %q, %v", buf, err)
			return
		}
		conn.Write(payload)
		// Half-close so the session sees EOF and can still send STOP_IQ.
		conn.(*net.TCPConn).CloseWrite()

		buf = make([]byte, len("STOP_IQ\n"))
		if _, err := io.ReadFull(conn, buf); err != nil || string(buf) != "STOP_IQ\n" {
			peerErr <- fmt.Errorf("stop = %q, %v", buf, err)
			return
		}
		peerErr <- nil
	}()

	rec, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if err := <-peerErr; err != nil {
		t.Fatalf("peer: %v", err)
	}

	if c.Phase() != PhaseDone {
		t.Errorf("Phase() = %v, want Done", c.Phase())
	}
	if s.IsConnected() {
		t.Error("session still connected after capture")
	}
	if rec.Bytes != int64(len(payload)) {
		t.Errorf("Bytes = %d, want %d", rec.Bytes, len(payload))
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("capture file differs from payload")
	}

	saved, err := LoadCaptureRecord(context.Background(), path)
	if err != nil {
		t.Fatalf("LoadCaptureRecord() error = %v", err)
	}
	if saved.Bytes != rec.Bytes || saved.FrequencyHz != 7100000 || saved.StopReason != "peer_closed" {
		t.Errorf("saved record = %+v", saved)
	}
	if saved.Host != "127.0.0.1" {
		t.Errorf("saved Host = %q, want session host", saved.Host)
	}
}
