package render

import (
	"fmt"
	"io"
	"strings"
)

// inlineClasses are drawn on a single line.
var inlineClasses = map[string]bool{
	"item-group": true,
	"total-row":  true,
}

// WriteText draws the tree as plain text for a terminal.
func WriteText(w io.Writer, n *Node) error {
	var b strings.Builder
	writeNode(&b, n, 0)
	_, err := io.WriteString(w, b.String())
	return err
}

func writeNode(b *strings.Builder, n *Node, depth int) {
	indent := strings.Repeat("  ", depth)

	if inlineClasses[n.Class] {
		b.WriteString(indent + strings.Join(inlineParts(n), " ") + "\n")
		return
	}

	switch n.Type {
	case "h1":
		fmt.Fprintf(b, "%s%s\n%s%s\n", indent, n.Text, indent, strings.Repeat("=", len([]rune(n.Text))))
		return
	case "h2":
		fmt.Fprintf(b, "\n%s-- %s --\n", indent, n.Text)
		return
	case "li":
		fmt.Fprintf(b, "%s* %s\n", indent, n.Text)
		return
	case "input":
		fmt.Fprintf(b, "%s> %s\n", indent, n.Attrs["value"])
		return
	case "button":
		b.WriteString(indent + button(n) + "\n")
		return
	}

	childDepth := depth
	if n.Text != "" {
		b.WriteString(indent + n.Text + "\n")
		childDepth = depth + 1
	}
	for _, c := range n.Children {
		writeNode(b, c, childDepth)
	}
}

// inlineParts flattens a subtree into words for a single-line rendering.
func inlineParts(n *Node) []string {
	var parts []string
	if id := n.Attrs["data-id"]; id != "" {
		parts = append(parts, "#"+id)
	}
	switch {
	case n.Type == "button" || n.OnClick != nil:
		parts = append(parts, button(n))
	case n.Class == "item-quantity":
		parts = append(parts, fmt.Sprintf("%2s", n.Text))
	case n.Text != "":
		parts = append(parts, strings.TrimSpace(n.Text))
	}
	for _, c := range n.Children {
		if c.Class == "item-description" {
			parts = append(parts, "- "+c.Text)
			continue
		}
		parts = append(parts, inlineParts(c)...)
	}
	return parts
}

func button(n *Node) string {
	if n.Disabled() {
		return "[" + n.Text + " (disabled)]"
	}
	return "[" + n.Text + "]"
}
