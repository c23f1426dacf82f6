package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"huddle/internal/pkg/ctxutil"
	"huddle/internal/realtime"
)

const (
	readLimit = 4096
	pongWait  = 60 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// 跨域校验交给 CORS 中间件与网关
	CheckOrigin: func(*http.Request) bool { return true },
}

// WSHandler 实时通道处理器
// 通道只用于服务端向客户端推送事件，入站帧仅用于保活
type WSHandler struct {
	hub *realtime.Hub
}

// NewWSHandler 创建实时通道处理器
func NewWSHandler(hub *realtime.Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

// Connect 建立 WebSocket 连接
// @Summary      建立实时通道
// @Description  每个用户保留一条连接，新连接会替换旧连接
// @Tags         实时
// @Security     BearerAuth
// @Success      101
// @Failure      401  {object}  model.ErrorResponse
// @Router       /api/v1/ws [get]
func (h *WSHandler) Connect(c *gin.Context) {
	userID, ok := ctxutil.GetUserID(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"code":    40101,
			"message": "未授权",
		})
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("websocket upgrade failed")
		return
	}

	conn := realtime.NewConnection(userID, ws)
	h.hub.Attach(conn)

	go h.readLoop(conn, ws)
}

// readLoop 消费入站帧直到连接断开，只处理 pong 保活
func (h *WSHandler) readLoop(conn *realtime.Connection, ws *websocket.Conn) {
	defer func() {
		h.hub.Detach(conn)
		conn.Close(websocket.CloseNormalClosure, "bye")
	}()

	ws.SetReadLimit(readLimit)
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			return
		}
	}
}
