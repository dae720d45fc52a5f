package broker

import (
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	natstest "github.com/nats-io/nats-server/v2/test"
)

func runServer(t *testing.T) *server.Server {
	t.Helper()
	opts := natstest.DefaultTestOptions
	opts.Port = -1
	s := natstest.RunServer(&opts)
	t.Cleanup(s.Shutdown)
	return s
}

func TestOpenNATS_Success(t *testing.T) {
	s := runServer(t)

	nc, err := OpenNATS(s.ClientURL(), "loan-origination-test")
	if err != nil {
		t.Fatalf("OpenNATS: %v", err)
	}
	defer nc.Close()

	if !nc.IsConnected() {
		t.Fatalf("expected connected client")
	}
	if err := nc.FlushTimeout(time.Second); err != nil {
		t.Fatalf("flush: %v", err)
	}
}

func TestOpenNATS_Failure(t *testing.T) {
	if _, err := OpenNATS("nats://127.0.0.1:1", "x"); err == nil {
		t.Fatal("expected error, got nil")
	}
}
