// Package preview renders the human-readable plan shown for a dry run.
package preview

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Plan describes what a real run would do.
type Plan struct {
	Files    []string // selected input files, in combination order
	Stdin    bool     // input comes from standard input instead of Files
	Output   string   // destination file
	Encoding string   // canonical encoding name
}

// Render writes the plan to w. colorize forces ANSI colours on or off.
func Render(w io.Writer, plan Plan, colorize bool) error {
	heading := color.New(color.FgCyan, color.Bold)
	value := color.New(color.FgGreen)
	muted := color.New(color.FgYellow)
	for _, c := range []*color.Color{heading, value, muted} {
		if colorize {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	var b strings.Builder
	muted.Fprintln(&b, "Dry run, nothing is written. Use --write or --std-out to combine.")
	heading.Fprint(&b, "Format:      ")
	value.Fprintln(&b, plan.Encoding)
	heading.Fprint(&b, "Destination: ")
	value.Fprintln(&b, plan.Output)
	heading.Fprint(&b, "Input:       ")

	switch {
	case plan.Stdin:
		value.Fprintln(&b, "standard input")
	case len(plan.Files) == 0:
		muted.Fprintln(&b, "no matching files")
	default:
		value.Fprintf(&b, "%d file(s)\n", len(plan.Files))
		b.WriteString(Tree(plan.Files))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// node is one path component. Children are kept in insertion order.
type node struct {
	name     string
	children []*node
}

// child returns the last child when it has the given name, otherwise a new
// one. A directory that reappears after another branch gets a branch of its
// own, so the tree always reads in path order.
func (n *node) child(name string) *node {
	if last := len(n.children) - 1; last >= 0 && n.children[last].name == name {
		return n.children[last]
	}
	c := &node{name: name}
	n.children = append(n.children, c)
	return c
}

// Tree draws paths as a directory tree in the given order. Consecutive paths
// share their common directories; directories that only contain one
// directory are folded into a single line.
func Tree(paths []string) string {
	root := &node{}
	for _, p := range paths {
		p = filepath.ToSlash(filepath.Clean(p))
		cur := root
		for i, part := range strings.Split(p, "/") {
			if part == "" && i == 0 {
				part = "/"
			}
			if part == "" {
				continue
			}
			cur = cur.child(part)
		}
	}

	var lines []string
	drawChildren(root, "", &lines)
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

func drawChildren(n *node, prefix string, lines *[]string) {
	for i, c := range n.children {
		connector := "├── "
		extension := "│   "
		if i == len(n.children)-1 {
			connector = "└── "
			extension = "    "
		}

		name := c.name
		for len(c.children) == 1 && len(c.children[0].children) > 0 {
			c = c.children[0]
			name = strings.TrimSuffix(name, "/") + "/" + c.name
		}
		if len(c.children) > 0 {
			name = strings.TrimSuffix(name, "/") + "/"
		}

		*lines = append(*lines, fmt.Sprintf("%s%s%s", prefix, connector, name))
		drawChildren(c, prefix+extension, lines)
	}
}
