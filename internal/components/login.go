package components

import (
	"strings"

	"github.com/haierkeys/fast-note-web/pkg/cba"
	"github.com/haierkeys/fast-note-web/pkg/code"
	"go.uber.org/zap"
)

const (
	IDUsername    = "username"
	IDPassword    = "password"
	IDLoginButton = "login-button"
)

func (c *Components) newLogin() *cba.Node {
	form := cba.NewNode(cba.KindForm, IDLogin).WithClass("cba-login").Append(
		cba.NewNode(cba.KindHeading, "").WithText("Login"),
		cba.NewNode(cba.KindTextInput, IDUsername).WithLabel("Username"),
		cba.NewNode(cba.KindPassword, IDPassword).WithLabel("Password"),
		cba.NewNode(cba.KindButton, IDLoginButton).WithText("Login").On("click", "handle_login"),
	)
	form.Handle("handle_login", c.handleLogin)
	return form
}

func (c *Components) handleLogin(cc *cba.Context) error {
	if l := c.deps.LoginLimiter; l != nil && !l.Allow(cc.ClientIP) {
		cc.Error(msg(cc, code.ErrorTooManyRequests))
		return nil
	}

	username := strings.TrimSpace(cc.FormValue(IDUsername))
	password := cc.FormValue(IDPassword)
	if pw, ok := cc.Tree.Find(IDPassword); ok {
		pw.Value = ""
	}

	user, err := c.deps.Users.Login(cc, username, password)
	if err != nil {
		c.deps.Logger.Info("login failed", zap.String("username", username), zap.String("clientIp", cc.ClientIP), zap.Error(err))
		return notify(cc, err)
	}

	cc.Identity.Login(user.UID, user.Username)
	cc.State.Clear()
	if err := c.rebuild(cc); err != nil {
		return err
	}
	cc.Success(msg(cc, code.SuccessLogin))
	return nil
}
