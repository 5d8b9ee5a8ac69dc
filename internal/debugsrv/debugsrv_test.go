package debugsrv

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/perrottam/networks-proj3/internal/addr"
	"github.com/perrottam/networks-proj3/internal/message"
	"github.com/perrottam/networks-proj3/internal/neighbor"
	"github.com/perrottam/networks-proj3/internal/router"
	"github.com/perrottam/networks-proj3/internal/transport"
)

func TestServerAnswersShowCommands(t *testing.T) {
	custA, err := addr.Parse("192.168.0.2")
	if err != nil {
		t.Fatal(err)
	}

	neighbors, err := neighbor.NewTable([]neighbor.Neighbor{{Handle: custA, Relationship: neighbor.Customer}})
	if err != nil {
		t.Fatal(err)
	}

	r := router.New(neighbors, 1, nil)
	if _, err := r.Dispatch(custA, message.Envelope{
		Src: custA, Type: message.Update,
		Body: message.UpdateBody{Network: "10.0.0.0", Netmask: "255.0.0.0", LocalPref: 100, Origin: "IGP"},
	}); err != nil {
		t.Fatal(err)
	}

	sock := filepath.Join(t.TempDir(), "ctl.sock")
	srv := New(sock, r)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ctx) }()

	var conn *transport.FramedConn
	for i := 0; i < 50; i++ {
		conn, err = transport.DialUnix(sock)
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("failed to dial debug socket: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteMessage([]byte("show routes")); err != nil {
		t.Fatal(err)
	}
	reply, err := conn.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(reply), "10.0.0.0/8") {
		t.Errorf("got reply %q, want it to mention the announced route", reply)
	}

	if err := conn.WriteMessage([]byte("show neighbors")); err != nil {
		t.Fatal(err)
	}
	reply, err = conn.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(reply), "192.168.0.2") || !strings.Contains(string(reply), "cust") {
		t.Errorf("got reply %q, want it to list the customer neighbor", reply)
	}

	cancel()
	select {
	case <-errCh:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for server to shut down")
	}
}
