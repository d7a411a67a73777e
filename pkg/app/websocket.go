package app

import (
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/lxzan/gws"
	"go.uber.org/zap"
)

const (
	WebSocketServerPingInterval = 25 * time.Second
	WebSocketServerPingWait     = 40 * time.Second
)

// WebSocketMessage is one text frame in the form Type|payload
// WebSocketMessage 文本帧，格式为 Type|payload
type WebSocketMessage struct {
	Type string
	Data []byte
}

// ParseWebSocketMessage splits a Type|payload frame
// ParseWebSocketMessage 拆分 Type|payload 帧
func ParseWebSocketMessage(raw string) (*WebSocketMessage, bool) {
	index := strings.Index(raw, "|")
	if index <= 0 {
		return nil, false
	}
	return &WebSocketMessage{Type: raw[:index], Data: []byte(raw[index+1:])}, true
}

type WebsocketServerConfig struct {
	GWSOption    gws.ServerOption
	PingInterval time.Duration
	PingWait     time.Duration
}

// WebsocketClient 每个 WebSocket 连接及其相关状态
type WebsocketClient struct {
	conn *gws.Conn
	done chan struct{}
	once sync.Once
	// Ctx is a copy of the upgrade request context, safe to keep after the handler returns
	Ctx *gin.Context
	// mu serializes writes and handler runs of one connection
	mu     sync.Mutex
	logger *zap.Logger
}

// PingLoop 定期发送 Ping 消息
func (c *WebsocketClient) PingLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			if err := c.conn.WritePing(nil); err != nil {
				c.logger.Warn("websocket ping failed", zap.Error(err))
				return
			}
		}
	}
}

// ToResponse encodes content with sonic and sends it as action|json
// ToResponse 使用 sonic 编码并以 action|json 发送
func (c *WebsocketClient) ToResponse(action string, content any) error {
	payload, err := sonic.Marshal(content)
	if err != nil {
		return err
	}
	frame := make([]byte, 0, len(action)+1+len(payload))
	frame = append(frame, action...)
	frame = append(frame, '|')
	frame = append(frame, payload...)
	return c.conn.WriteMessage(gws.OpcodeText, frame)
}

func (c *WebsocketClient) close() {
	c.once.Do(func() { close(c.done) })
}

// WebsocketHandler handles one message type
type WebsocketHandler func(c *WebsocketClient, msg *WebSocketMessage)

// WebsocketServer gws 事件处理与消息路由
type WebsocketServer struct {
	gws.BuiltinEventHandler

	handlers map[string]WebsocketHandler
	clients  map[*gws.Conn]*WebsocketClient
	mu       sync.Mutex
	up       *gws.Upgrader
	config   *WebsocketServerConfig
	logger   *zap.Logger
}

func NewWebsocketServer(c WebsocketServerConfig, logger *zap.Logger) *WebsocketServer {
	if c.PingInterval == 0 {
		c.PingInterval = WebSocketServerPingInterval
	}
	if c.PingWait == 0 {
		c.PingWait = WebSocketServerPingWait
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &WebsocketServer{
		handlers: make(map[string]WebsocketHandler),
		clients:  make(map[*gws.Conn]*WebsocketClient),
		config:   &c,
		logger:   logger,
	}
	w.up = gws.NewUpgrader(w, &w.config.GWSOption)
	return w
}

// Use 注册消息类型处理器
func (w *WebsocketServer) Use(action string, handler WebsocketHandler) {
	w.handlers[action] = handler
}

// Run 返回升级连接的 gin 处理函数
func (w *WebsocketServer) Run() gin.HandlerFunc {
	return func(c *gin.Context) {
		socket, err := w.up.Upgrade(c.Writer, c.Request)
		if err != nil {
			w.logger.Warn("websocket upgrade failed", zap.Error(err))
			return
		}
		client := &WebsocketClient{conn: socket, done: make(chan struct{}), Ctx: c.Copy(), logger: w.logger}
		w.addClient(client)
		go client.PingLoop(w.config.PingInterval)
		go socket.ReadLoop()
	}
}

// Count 返回在线连接数
func (w *WebsocketServer) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.clients)
}

func (w *WebsocketServer) getClient(conn *gws.Conn) *WebsocketClient {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.clients[conn]
}

func (w *WebsocketServer) addClient(c *WebsocketClient) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.clients[c.conn] = c
}

func (w *WebsocketServer) removeClient(conn *gws.Conn) *WebsocketClient {
	w.mu.Lock()
	defer w.mu.Unlock()
	c := w.clients[conn]
	delete(w.clients, conn)
	return c
}

func (w *WebsocketServer) OnOpen(conn *gws.Conn) {
	_ = conn.SetDeadline(time.Now().Add(w.config.PingWait))
}

func (w *WebsocketServer) OnClose(conn *gws.Conn, err error) {
	if c := w.removeClient(conn); c != nil {
		c.close()
	}
	w.logger.Debug("websocket client leave", zap.Error(err))
}

func (w *WebsocketServer) OnPing(socket *gws.Conn, payload []byte) {
	_ = socket.SetDeadline(time.Now().Add(w.config.PingWait))
	_ = socket.WritePong(nil)
}

func (w *WebsocketServer) OnPong(socket *gws.Conn, payload []byte) {
	_ = socket.SetDeadline(time.Now().Add(w.config.PingWait))
}

func (w *WebsocketServer) OnMessage(conn *gws.Conn, message *gws.Message) {
	defer message.Close()
	_ = conn.SetDeadline(time.Now().Add(w.config.PingWait))
	if message.Opcode != gws.OpcodeText {
		return
	}
	raw := message.Data.String()
	if raw == "close" {
		_ = conn.WriteClose(1000, []byte("ClientClose"))
		return
	}

	c := w.getClient(conn)
	if c == nil {
		return
	}
	msg, ok := ParseWebSocketMessage(raw)
	if !ok {
		w.logger.Warn("websocket illegal message")
		return
	}
	handler, exists := w.handlers[msg.Type]
	if !exists {
		w.logger.Warn("websocket unknown message type", zap.String("type", msg.Type))
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	handler(c, msg)
}
