package realtime

import (
	"sync"
)

// Hub 维护所有在线连接
// 每个用户同时只保留一条连接（私有通道），事件按参与者逐个投递
type Hub struct {
	mu          sync.RWMutex
	connections map[string]*Connection // userID -> connection
}

// NewHub 创建 Hub
func NewHub() *Hub {
	return &Hub{
		connections: make(map[string]*Connection),
	}
}

// Attach 注册用户连接；旧连接存在时先替换再关闭
func (h *Hub) Attach(conn *Connection) {
	h.mu.Lock()
	previous := h.connections[conn.UserID]
	h.connections[conn.UserID] = conn
	h.mu.Unlock()

	conn.Start()

	if previous != nil {
		previous.Close(4001, "session replaced")
	}
}

// Detach 摘除连接（只有当前连接仍被跟踪时才摘除）
func (h *Hub) Detach(conn *Connection) {
	h.mu.Lock()
	if current, ok := h.connections[conn.UserID]; ok && current.ID == conn.ID {
		delete(h.connections, conn.UserID)
	}
	h.mu.Unlock()
}

// NotifyUser 向用户的私有通道投递事件
// 投递是尽力而为：用户不在线或写失败都直接返回 false，不影响调用方
func (h *Hub) NotifyUser(userID string, ev Event) bool {
	h.mu.RLock()
	conn := h.connections[userID]
	h.mu.RUnlock()

	if conn == nil {
		return false
	}
	return conn.Send(ev.Encode()) == nil
}

// NotifyParticipants 向一组参与者逐个投递事件，返回成功投递数
func (h *Hub) NotifyParticipants(userIDs []string, ev Event) int {
	payload := ev.Encode()
	if payload == nil {
		return 0
	}

	h.mu.RLock()
	conns := make([]*Connection, 0, len(userIDs))
	for _, id := range userIDs {
		if conn := h.connections[id]; conn != nil {
			conns = append(conns, conn)
		}
	}
	h.mu.RUnlock()

	delivered := 0
	for _, conn := range conns {
		if err := conn.Send(payload); err == nil {
			delivered++
		}
	}
	return delivered
}

// Online 用户当前是否在线
func (h *Hub) Online(userID string) bool {
	h.mu.RLock()
	_, ok := h.connections[userID]
	h.mu.RUnlock()
	return ok
}

// Close 关闭全部连接并清空状态
func (h *Hub) Close() {
	h.mu.Lock()
	conns := make([]*Connection, 0, len(h.connections))
	for _, conn := range h.connections {
		conns = append(conns, conn)
	}
	h.connections = make(map[string]*Connection)
	h.mu.Unlock()

	for _, conn := range conns {
		conn.Close(1001, "hub shutdown")
	}
}
