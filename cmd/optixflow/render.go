package main

import (
	"strings"

	"golang.org/x/net/html"
)

func renderHTML(node *html.Node) (string, error) {
	var sb strings.Builder
	if err := html.Render(&sb, node); err != nil {
		return "", err
	}

	return sb.String(), nil
}
