package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	. "github.com/smartystreets/goconvey/convey"
)

// dialTestConn 通过 httptest 建立一条真实的 websocket 连接
func dialTestConn(t *testing.T, userID string) (*Connection, func()) {
	t.Helper()

	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}))

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial websocket: %v", err)
	}

	conn := NewConnection(userID, ws)
	return conn, func() {
		conn.Close(websocket.CloseNormalClosure, "bye")
		srv.Close()
	}
}

func TestConnectionSend(t *testing.T) {
	Convey("连接投递", t, func() {
		Convey("关闭后的投递只返回错误", func() {
			conn, cleanup := dialTestConn(t, "alice")
			defer cleanup()
			conn.Start()

			conn.Close(websocket.CloseNormalClosure, "bye")

			for i := 0; i < 256; i++ {
				So(conn.Send([]byte("late")), ShouldNotBeNil)
			}
		})

		Convey("重复关闭是幂等的", func() {
			conn, cleanup := dialTestConn(t, "alice")
			defer cleanup()

			conn.Close(websocket.CloseNormalClosure, "bye")
			conn.Close(websocket.CloseGoingAway, "again")

			So(conn.Send([]byte("late")), ShouldNotBeNil)
		})

		Convey("缓冲写满时断开连接而不是阻塞", func() {
			conn, cleanup := dialTestConn(t, "alice")
			defer cleanup()
			// 不启动写循环，缓冲不会被消费

			var err error
			for i := 0; i < 256 && err == nil; i++ {
				err = conn.Send([]byte("payload"))
			}

			So(err, ShouldNotBeNil)
			So(conn.Send([]byte("after")), ShouldNotBeNil)
		})

		Convey("空负载被拒绝", func() {
			conn, cleanup := dialTestConn(t, "alice")
			defer cleanup()

			So(conn.Send(nil), ShouldNotBeNil)
		})
	})
}

func TestHubSessionReplace(t *testing.T) {
	Convey("同一用户的新连接替换旧连接", t, func() {
		hub := NewHub()
		defer hub.Close()

		first, cleanupFirst := dialTestConn(t, "alice")
		defer cleanupFirst()
		second, cleanupSecond := dialTestConn(t, "alice")
		defer cleanupSecond()

		hub.Attach(first)
		hub.Attach(second)

		Convey("旧连接已关闭，向它投递不会崩溃", func() {
			So(first.Send([]byte("stale")), ShouldNotBeNil)
		})

		Convey("事件仍能送达新连接", func() {
			ev := NewEvent(EventMessageCreated, map[string]string{"id": "msg-1"})
			So(hub.NotifyUser("alice", ev), ShouldBeTrue)
		})

		Convey("摘除旧连接不影响新连接的跟踪", func() {
			hub.Detach(first)
			So(hub.Online("alice"), ShouldBeTrue)
		})
	})
}
