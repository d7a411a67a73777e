package components

import (
	"github.com/haierkeys/fast-note-web/pkg/cba"
	"github.com/haierkeys/fast-note-web/pkg/code"
)

const (
	IDMenuAddNote = "menu-add-note"
	IDMenuAbout   = "menu-about"
	IDMenuLogout  = "menu-logout"
)

const aboutText = "Fast Note keeps your notes, tags and images in one place. " +
	"Every click is handled on the server and only the changed parts of the page are sent back."

func (c *Components) newMainMenu(username string) *cba.Node {
	menu := cba.NewNode(cba.KindMenu, IDMainMenu).WithLabel("Fast Note").Append(
		cba.NewNode(cba.KindMenuItem, IDMenuAddNote).WithText("Add note").On("click", "handle_add_note"),
		cba.NewNode(cba.KindMenuItem, IDMenuAbout).WithText("About us").On("click", "handle_about"),
		cba.NewNode(cba.KindMenuItem, IDMenuLogout).WithText("Logout ("+username+")").On("click", "handle_logout"),
	)
	menu.Handle("handle_add_note", c.handleAddNote)
	menu.Handle("handle_about", c.handleAbout)
	menu.Handle("handle_logout", c.handleLogout)
	return menu
}

func (c *Components) handleAbout(cc *cba.Context) error {
	if _, open := cc.Tree.Find(IDAboutUs); open {
		return nil
	}
	modal := cba.NewModal(IDAboutUs, "About us", cba.NewNode(cba.KindText, "").WithText(aboutText))
	if err := cc.Tree.Add(IDOverlay, modal); err != nil {
		return err
	}
	cc.Tree.Refresh(IDOverlay)
	return nil
}

func (c *Components) handleLogout(cc *cba.Context) error {
	cc.Identity.Logout()
	cc.State.Clear()
	if err := c.rebuild(cc); err != nil {
		return err
	}
	cc.Success(msg(cc, code.SuccessLogout))
	return nil
}
