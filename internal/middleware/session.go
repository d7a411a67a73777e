package middleware

import (
	"net/http"
	"time"

	"github.com/haierkeys/fast-note-web/internal/session"
	"github.com/haierkeys/fast-note-web/pkg/app"
	"github.com/haierkeys/fast-note-web/pkg/code"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionKey gin 上下文中的会话
const SessionKey = "session"

// SessionCookie 会话 Cookie 配置
type SessionCookie struct {
	Name   string
	Path   string
	Secure bool
	MaxAge time.Duration
}

// SessionOptions 会话中间件依赖
type SessionOptions struct {
	Sessions *session.Manager
	Tokens   app.TokenManager
	Cookie   SessionCookie
	// Create starts a new session when the cookie is missing or stale;
	// otherwise the request is rejected with ErrorSessionInvalid.
	// Create 为 true 时在 Cookie 缺失或失效时创建新会话，否则以 ErrorSessionInvalid 拒绝请求。
	Create bool
	Logger *zap.Logger
}

// Session resolves the browser session from the signed session cookie
// Session 从签名的会话 Cookie 解析浏览器会话
func Session(opts SessionOptions) gin.HandlerFunc {
	if opts.Cookie.Name == "" {
		opts.Cookie.Name = "fast_note_session"
	}
	if opts.Cookie.Path == "" {
		opts.Cookie.Path = "/"
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		if sess, ok := lookupSession(c, opts); ok {
			c.Set(SessionKey, sess)
			c.Next()
			return
		}

		if !opts.Create {
			app.NewResponse(c).ToResponse(code.ErrorSessionInvalid)
			c.Abort()
			return
		}

		sess := opts.Sessions.Create()
		token, err := opts.Tokens.Generate(sess.ID, app.GetRequestIP(c))
		if err != nil {
			opts.Sessions.Remove(sess.ID)
			opts.Logger.Error("session token generate failed", zap.Error(err))
			app.NewResponse(c).ToResponse(code.ErrorServerInternal.WithDetails(err.Error()))
			c.Abort()
			return
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(opts.Cookie.Name, token, int(opts.Cookie.MaxAge.Seconds()), opts.Cookie.Path, "", opts.Cookie.Secure, true)
		c.Set(SessionKey, sess)
		c.Next()
	}
}

func lookupSession(c *gin.Context, opts SessionOptions) (*session.Session, bool) {
	token, err := c.Cookie(opts.Cookie.Name)
	if err != nil || token == "" {
		return nil, false
	}
	claims, err := opts.Tokens.Parse(token)
	if err != nil {
		opts.Logger.Debug("session token rejected", zap.String("ip", c.ClientIP()), zap.Error(err))
		return nil, false
	}
	return opts.Sessions.Get(claims.SessionID)
}

// GetSession 返回会话中间件解析出的会话
func GetSession(c *gin.Context) (*session.Session, bool) {
	v, ok := c.Get(SessionKey)
	if !ok {
		return nil, false
	}
	sess, ok := v.(*session.Session)
	return sess, ok
}
