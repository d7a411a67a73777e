package code

import "net/http"

var (
	Success = NewSuss(1, lang{en: "Success", zh_cn: "成功"})

	ErrorServerInternal  = NewError(500, lang{en: "Internal server error", zh_cn: "服务器内部错误"}, http.StatusInternalServerError)
	ErrorInvalidParams   = NewError(400, lang{en: "Invalid parameters", zh_cn: "参数错误"}, http.StatusBadRequest)
	ErrorNotFound        = NewError(404, lang{en: "Resource not found", zh_cn: "资源不存在"}, http.StatusNotFound)
	ErrorTooManyRequests = NewError(429, lang{en: "Too many requests", zh_cn: "请求过多"}, http.StatusTooManyRequests)
	ErrorDBQuery         = NewError(501, lang{en: "Database query failed", zh_cn: "数据库查询失败"}, http.StatusInternalServerError)

	// 会话
	ErrorSessionInvalid = NewError(1001, lang{en: "Session is missing or expired, please reload the page", zh_cn: "会话不存在或已过期，请刷新页面"}, http.StatusUnauthorized)
	ErrorEventQueueFull = NewError(1002, lang{en: "Too many pending events for this session", zh_cn: "当前会话待处理事件过多"}, http.StatusServiceUnavailable)
	ErrorEventTimeout   = NewError(1003, lang{en: "Event handling timed out", zh_cn: "事件处理超时"}, http.StatusGatewayTimeout)

	// 组件树
	ErrorComponentNotFound = NewError(2001, lang{en: "Component not found", zh_cn: "组件不存在"}, http.StatusBadRequest)
	ErrorHandlerNotFound   = NewError(2002, lang{en: "Event handler not found", zh_cn: "事件处理器不存在"}, http.StatusBadRequest)
	ErrorDuplicateID       = NewError(2003, lang{en: "Component id already in use", zh_cn: "组件 ID 已被占用"}, http.StatusInternalServerError)

	// 用户
	ErrorUserNotFound            = NewError(3001, lang{en: "User not found", zh_cn: "用户不存在"})
	ErrorUserAlreadyExists       = NewError(3002, lang{en: "User already exists", zh_cn: "用户已存在"})
	ErrorUserLoginPasswordFailed = NewError(3003, lang{en: "Username and password don't match!", zh_cn: "用户名和密码不匹配！"})
	ErrorUserInactive            = NewError(3004, lang{en: "Your account is not active!", zh_cn: "您的账号未激活！"})
	ErrorUserUsernameInvalid     = NewError(3005, lang{en: "Username is invalid", zh_cn: "用户名不合法"})
	ErrorUserPasswordTooShort    = NewError(3006, lang{en: "Password must be at least 6 characters", zh_cn: "密码至少 6 位"})
	ErrorNotLoggedIn             = NewError(3007, lang{en: "You must be logged in to save notes!", zh_cn: "请先登录再保存笔记！"})

	// 笔记
	ErrorNoteNotFound      = NewError(4001, lang{en: "Note doesn't exist!", zh_cn: "笔记不存在！"})
	ErrorNoteInvalidForm   = NewError(4002, lang{en: "Please correct the indicated errors!", zh_cn: "请修正标出的错误！"})
	ErrorTagNotFound       = NewError(4003, lang{en: "Tag doesn't exist!", zh_cn: "标签不存在！"})
	ErrorFileUploadFailed  = NewError(4004, lang{en: "File upload failed", zh_cn: "文件上传失败"})
	ErrorFileTooLarge      = NewError(4005, lang{en: "File is too large", zh_cn: "文件过大"})
	ErrorNoteTitleRequired = NewError(4006, lang{en: "Title is required!", zh_cn: "标题不能为空！"})
	ErrorNoteTitleTooLong  = NewError(4007, lang{en: "Title must be at most 50 characters!", zh_cn: "标题最多 50 个字符！"})
	ErrorNoteTextRequired  = NewError(4008, lang{en: "Text is required!", zh_cn: "正文不能为空！"})

	// 存储
	ErrorInvalidStorageType = NewError(5001, lang{en: "Invalid storage type", zh_cn: "无效的存储类型"})
	ErrorStorageDisabled    = NewError(5002, lang{en: "Storage is disabled", zh_cn: "存储未启用"})

	// 提示
	SuccessLogin        = NewSuss(6001, lang{en: "You are logged in!", zh_cn: "登录成功！"})
	SuccessLogout       = NewSuss(6002, lang{en: "You are logged out!", zh_cn: "已退出登录！"})
	SuccessNoteAdded    = NewSuss(6003, lang{en: "Note has been added!", zh_cn: "笔记已添加！"})
	SuccessNoteDeleted  = NewSuss(6004, lang{en: "Note has been deleted!", zh_cn: "笔记已删除！"})
	SuccessNoteModified = NewSuss(6005, lang{en: "Note has been modified!", zh_cn: "笔记已修改！"})
)
