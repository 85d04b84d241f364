package format

import (
	"text/template"

	"github.com/manifoldco/promptui"
	"github.com/vx-labs/roster/roster"
)

var FuncMap = template.FuncMap{
	"role": func(r int32) string { return roster.Role(r).String() },
	"shorten": func(s string) string {
		if len(s) < 8 {
			return s
		}
		return s[0:8]
	},
}

func ParseTemplate(body string) *template.Template {
	tpl, err := template.New("").Funcs(promptui.FuncMap).Funcs(FuncMap).Parse(body)
	if err != nil {
		panic(err)
	}
	return tpl
}
