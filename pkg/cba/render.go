package cba

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/pkg/errors"
)

type child struct {
	Kind Kind
	HTML template.HTML
}

type view struct {
	*Node
	ID     string
	Events string
	Kids   []child
}

var funcs = template.FuncMap{
	"has": func(list []string, s string) bool {
		for _, v := range list {
			if v == s {
				return true
			}
		}
		return false
	},
}

const nodeTemplates = `
{{define "attrs"}} id="{{.ID}}"{{with .Events}} data-cba-id="{{$.ID}}" data-cba-events="{{.}}"{{end}}{{with .Node.Value}} data-cba-value="{{.}}"{{end}}{{end}}
{{define "kids"}}{{range .Kids}}{{.HTML}}{{end}}{{end}}
{{define "field-open"}}<div id="{{.ID}}" class="cba-field{{with .Class}} {{.}}{{end}}{{if .Error}} cba-has-error{{end}}">{{with .Label}}<label for="{{$.ID}}-input">{{.}}</label>{{end}}{{end}}
{{define "field-close"}}{{with .Error}}<span class="cba-error">{{.}}</span>{{end}}</div>{{end}}
{{define "input-events"}}{{with .Events}} data-cba-id="{{$.ID}}" data-cba-events="{{.}}"{{end}}{{end}}

{{define "group"}}<div{{template "attrs" .}}{{with .Class}} class="{{.}}"{{end}}>{{template "kids" .}}</div>{{end}}
{{define "grid"}}<div{{template "attrs" .}} class="cba-grid{{with .Class}} {{.}}{{end}}">{{template "kids" .}}</div>{{end}}
{{define "column"}}<div{{template "attrs" .}} class="cba-column{{with .Class}} {{.}}{{end}}">{{template "kids" .}}</div>{{end}}
{{define "heading"}}<h2{{template "attrs" .}}{{with .Class}} class="{{.}}"{{end}}>{{.Text}}</h2>{{end}}
{{define "text"}}<span{{template "attrs" .}}{{with .Class}} class="{{.}}"{{end}}>{{.Text}}</span>{{end}}
{{define "html"}}<div{{template "attrs" .}}{{with .Class}} class="{{.}}"{{end}}>{{.HTML}}</div>{{end}}
{{define "form"}}<form{{template "attrs" .}} class="cba-form{{with .Class}} {{.}}{{end}}" onsubmit="return false">{{template "kids" .}}</form>{{end}}

{{define "text-input"}}{{template "field-open" .}}<input type="text" id="{{.ID}}-input" name="{{.ID}}" data-cba-input="{{.ID}}" value="{{.Node.Value}}"{{with .Placeholder}} placeholder="{{.}}"{{end}}{{template "input-events" .}}>{{template "field-close" .}}{{end}}
{{define "password"}}{{template "field-open" .}}<input type="password" id="{{.ID}}-input" name="{{.ID}}" data-cba-input="{{.ID}}" value=""{{with .Placeholder}} placeholder="{{.}}"{{end}}{{template "input-events" .}}>{{template "field-close" .}}{{end}}
{{define "textarea"}}{{template "field-open" .}}<textarea id="{{.ID}}-input" name="{{.ID}}" data-cba-input="{{.ID}}" rows="12"{{with .Placeholder}} placeholder="{{.}}"{{end}}{{template "input-events" .}}>{{.Node.Value}}</textarea>{{template "field-close" .}}{{end}}
{{define "hidden"}}<input type="hidden" id="{{.ID}}" name="{{.ID}}" data-cba-input="{{.ID}}" value="{{.Node.Value}}">{{end}}
{{define "select"}}{{template "field-open" .}}<select id="{{.ID}}-input" name="{{.ID}}" data-cba-input="{{.ID}}"{{if .Multiple}} multiple{{end}}{{template "input-events" .}}>{{range .Options}}<option value="{{.Value}}"{{if $.Multiple}}{{if has $.Values .Value}} selected{{end}}{{else if eq $.Node.Value .Value}} selected{{end}}>{{.Label}}</option>{{end}}</select>{{template "field-close" .}}{{end}}
{{define "file-input"}}{{template "field-open" .}}<input type="file" id="{{.ID}}-input" name="{{.ID}}" data-cba-file="{{.ID}}"{{if .Multiple}} multiple{{end}}>{{with .Existing}}<ul class="cba-files">{{range .}}<li><a href="{{.Value}}" target="_blank">{{.Label}}</a></li>{{end}}</ul>{{end}}{{template "field-close" .}}{{end}}
{{define "button"}}<button type="button"{{template "attrs" .}} class="cba-button{{with .Class}} {{.}}{{end}}">{{.Text}}</button>{{end}}

{{define "menu"}}<nav{{template "attrs" .}} class="cba-menu{{with .Class}} {{.}}{{end}}">{{with .Label}}<strong class="cba-brand">{{.}}</strong>{{end}}<ul>{{template "kids" .}}</ul></nav>{{end}}
{{define "menu-item"}}<li{{template "attrs" .}} class="cba-menu-item{{with .Class}} {{.}}{{end}}">{{.Text}}</li>{{end}}
{{define "list"}}<ul{{template "attrs" .}} class="cba-list{{with .Class}} {{.}}{{end}}">{{template "kids" .}}</ul>{{end}}
{{define "list-item"}}<li{{template "attrs" .}} class="cba-list-item{{if .Selected}} active{{end}}{{with .Class}} {{.}}{{end}}">{{.Text}}{{template "kids" .}}</li>{{end}}

{{define "table"}}<div{{template "attrs" .}} class="cba-table{{with .Class}} {{.}}{{end}}"><table><thead><tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr></thead><tbody>{{range .Kids}}{{if eq .Kind "table-row"}}{{.HTML}}{{end}}{{end}}</tbody></table>{{range .Kids}}{{if ne .Kind "table-row"}}{{.HTML}}{{end}}{{end}}</div>{{end}}
{{define "table-row"}}<tr{{template "attrs" .}} class="cba-row{{if .Selected}} selected{{end}}{{with .Class}} {{.}}{{end}}">{{template "kids" .}}</tr>{{end}}
{{define "table-cell"}}<td{{template "attrs" .}}{{with .Class}} class="{{.}}"{{end}}>{{.Text}}{{template "kids" .}}</td>{{end}}

{{define "modal"}}<div{{template "attrs" .}} class="cba-modal{{with .Class}} {{.}}{{end}}"><div class="cba-modal-box">{{with .Label}}<h3>{{.}}</h3>{{end}}{{with .Text}}<p>{{.}}</p>{{end}}{{template "kids" .}}</div></div>{{end}}
{{define "confirm-modal"}}<div id="{{.ID}}" class="cba-modal cba-confirm{{with .Class}} {{.}}{{end}}"><div class="cba-modal-box"><p>{{.Text}}</p><div class="cba-actions">{{template "kids" .}}</div></div></div>{{end}}

{{define "page"}}<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<link rel="stylesheet" href="{{.StaticPrefix}}/cba.css">
<script src="{{.StaticPrefix}}/cba.js" defer></script>
</head>
<body data-cba-endpoint="{{.Endpoint}}"{{with .WSEndpoint}} data-cba-ws="{{.}}"{{end}}>
<div id="cba-messages" class="cba-messages"></div>
{{.Body}}
</body>
</html>{{end}}
`

var templates = template.Must(template.New("cba").Funcs(funcs).Parse(nodeTemplates))

// Render returns the HTML of the subtree rooted at id
// Render 返回以 id 为根的子树 HTML
func (t *Tree) Render(id string) (template.HTML, error) {
	n, ok := t.nodes[id]
	if !ok {
		return "", errors.Wrapf(ErrComponentNotFound, "render %q", id)
	}

	v := view{Node: n, ID: n.id, Events: strings.Join(n.events(), " ")}
	for _, cid := range n.children {
		html, err := t.Render(cid)
		if err != nil {
			return "", err
		}
		v.Kids = append(v.Kids, child{Kind: t.nodes[cid].Kind, HTML: html})
	}

	if templates.Lookup(string(n.Kind)) == nil {
		return "", errors.Errorf("cba: no template for kind %q", n.Kind)
	}
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, string(n.Kind), v); err != nil {
		return "", errors.Wrapf(err, "render %q", id)
	}
	return template.HTML(buf.String()), nil
}

// Page 整页渲染参数
type Page struct {
	Title        string
	Lang         string
	Endpoint     string
	WSEndpoint   string
	StaticPrefix string
	Body         template.HTML
}

// RenderPage renders the whole tree into an HTML document
// RenderPage 将整棵树渲染为 HTML 文档
func (t *Tree) RenderPage(p Page) ([]byte, error) {
	body, err := t.Render(RootID)
	if err != nil {
		return nil, err
	}
	p.Body = body
	if p.Lang == "" {
		p.Lang = "en"
	}
	if p.StaticPrefix == "" {
		p.StaticPrefix = "/static"
	}
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "page", p); err != nil {
		return nil, errors.Wrap(err, "render page")
	}
	t.ResetDirty()
	return buf.Bytes(), nil
}
