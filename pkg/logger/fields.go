package logger

// 统一的日志字段命名常量
// 用于确保整个项目中日志字段命名的一致性，便于日志查询和分析
const (
	// FieldTraceID 追踪 ID 字段
	FieldTraceID = "traceId"

	// FieldUID 用户 ID 字段
	FieldUID = "uid"

	// FieldSessionID 会话 ID 字段
	FieldSessionID = "sessionId"

	// FieldComponentID 组件 ID 字段
	FieldComponentID = "componentId"

	// FieldEvent 事件名称字段
	FieldEvent = "event"

	// FieldHandler 处理器名称字段
	FieldHandler = "handler"

	// FieldNoteID 笔记 ID 字段
	FieldNoteID = "noteId"

	// FieldBucket 存储桶名称字段
	FieldBucket = "bucket"

	// FieldFileKey 文件键字段
	FieldFileKey = "fileKey"
)
