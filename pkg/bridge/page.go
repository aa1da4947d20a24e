package bridge

import (
	"fmt"
	"io"

	"github.com/vango-dev/navshell/pkg/component"
)

// PageData contains what the bootstrap page needs.
type PageData struct {
	// Title is the page title.
	Title string

	// Lang is the html lang attribute. Defaults to "en".
	Lang string

	// ClientScript is the thin client URL. Defaults to ClientScriptPath.
	ClientScript string

	// StyleSheets are stylesheet URLs linked from the head.
	StyleSheets []string
}

// RenderPage writes the bootstrap document: an empty root mount point and
// the thin client.
func RenderPage(w io.Writer, p PageData) error {
	if p.Lang == "" {
		p.Lang = "en"
	}
	if p.ClientScript == "" {
		p.ClientScript = ClientScriptPath
	}

	var err error
	write := func(format string, args ...any) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}

	write("<!DOCTYPE html>\n<html lang=\"%s\">\n<head>\n", component.EscapeAttr(p.Lang))
	write("<meta charset=\"utf-8\">\n")
	write("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
	write("<title>%s</title>\n", component.Escape(p.Title))
	for _, href := range p.StyleSheets {
		write("<link rel=\"stylesheet\" href=\"%s\">\n", component.EscapeAttr(href))
	}
	write("</head>\n<body>\n")
	write("<div id=\"%s\"></div>\n", RootTarget)
	write("<noscript>This application requires JavaScript.</noscript>\n")
	write("<script src=\"%s\" defer></script>\n", component.EscapeAttr(p.ClientScript))
	write("</body>\n</html>\n")
	return err
}
