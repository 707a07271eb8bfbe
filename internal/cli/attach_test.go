package cli

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"
)

// devtoolsStub answers every DevTools call with an empty result and
// reports when the client drops the connection.
func devtoolsStub(t *testing.T) (string, <-chan struct{}) {
	t.Helper()
	closed := make(chan struct{})
	srv := httptest.NewServer(websocket.Server{
		Handshake: func(*websocket.Config, *http.Request) error { return nil },
		Handler: func(conn *websocket.Conn) {
			defer close(closed)
			for {
				var msg string
				if err := websocket.Message.Receive(conn, &msg); err != nil {
					return
				}
				var req struct {
					ID     int    `json:"id"`
					Method string `json:"method"`
				}
				if err := sonic.UnmarshalString(msg, &req); err != nil {
					return
				}
				result := `{}`
				if req.Method == "Target.getTargets" {
					result = `{"targetInfos":[]}`
				}
				reply := fmt.Sprintf(`{"id":%d,"result":%s}`, req.ID, result)
				if err := websocket.Message.Send(conn, reply); err != nil {
					return
				}
			}
		},
	})
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/devtools/browser/stub", closed
}

func TestAttachReleasesConnectionWithoutPages(t *testing.T) {
	url, closed := devtoolsStub(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	backend, release, err := attach(ctx, url)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no open pages")
	assert.Nil(t, backend)
	assert.Nil(t, release)

	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("devtools connection left open")
	}
}

func TestAttachUnreachableBrowser(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/devtools/browser/gone"
	srv.Close()

	_, _, err := attach(context.Background(), url)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect to browser")
}
