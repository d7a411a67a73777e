// Package dto Defines data transfer objects (request parameters and response structs)
// Package dto 定义数据传输对象（请求参数和响应结构体）
package dto

// WebSocketAction WebSocket text message type
// WebSocket 文本消息类型
type WebSocketAction = string

const (
	// WSEvent browser event sent by the client
	// WSEvent 客户端发送的浏览器事件
	WSEvent WebSocketAction = "Event"
	// WSPatch page patch answered by the server
	// WSPatch 服务端返回的页面补丁
	WSPatch WebSocketAction = "Patch"
	// WSError error answered by the server
	// WSError 服务端返回的错误
	WSError WebSocketAction = "Error"
)

const (
	// ValuePrefix form field prefix carrying input values, v.<component id>
	// ValuePrefix 表单中输入组件取值的字段前缀，v.<组件 ID>
	ValuePrefix = "v."
	// FilePrefix form field prefix carrying uploads, f.<component id>
	// FilePrefix 表单中文件字段前缀，f.<组件 ID>
	FilePrefix = "f."
)

// EventRequest One browser event, posted as a form or sent as an Event|json frame
// EventRequest 一个浏览器事件，以表单提交或 Event|json 帧发送
type EventRequest struct {
	ID     string              `json:"id" form:"id" binding:"required,max=255"`
	Event  string              `json:"event" form:"event" binding:"required,max=64"`
	Value  string              `json:"value" form:"value"`
	Values map[string][]string `json:"values" form:"-"`
}
