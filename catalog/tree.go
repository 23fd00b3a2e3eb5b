package catalog

import (
	"sort"
	"strings"
)

// Node is a directory or file in the tree built from a flat listing
type Node struct {
	Name     string
	Path     string // slash-separated path from the root, without a leading slash
	Dir      bool
	Entry    *FileEntry // nil for directories
	Index    int        // position in the listing, -1 for directories
	Children []*Node
}

// BuildTree turns a flat listing into a nested tree under an unnamed root.
// Directories sort before files; siblings of the same kind sort by name.
// Entries with an empty path are ignored.
func BuildTree(entries []FileEntry) *Node {
	root := &Node{Dir: true, Index: -1}
	dirs := map[string]*Node{"": root}

	for i := range entries {
		entry := entries[i]
		segments := splitPath(entry.Path)
		if len(segments) == 0 {
			continue
		}

		parent := root
		dirPath := ""
		for _, seg := range segments[:len(segments)-1] {
			dirPath = joinPath(dirPath, seg)
			dir, ok := dirs[dirPath]
			if !ok {
				dir = &Node{Name: seg, Path: dirPath, Dir: true, Index: -1}
				parent.Children = append(parent.Children, dir)
				dirs[dirPath] = dir
			}
			parent = dir
		}

		name := segments[len(segments)-1]
		parent.Children = append(parent.Children, &Node{
			Name:  name,
			Path:  joinPath(dirPath, name),
			Entry: &entry,
			Index: i,
		})
	}

	sortTree(root)
	return root
}

func splitPath(p string) []string {
	var segments []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

func joinPath(dir, name string) string {
	if dir == "" {
		return name
	}
	return dir + "/" + name
}

func sortTree(n *Node) {
	sort.SliceStable(n.Children, func(i, j int) bool {
		a, b := n.Children[i], n.Children[j]
		if a.Dir != b.Dir {
			return a.Dir
		}
		return a.Name < b.Name
	})
	for _, c := range n.Children {
		if c.Dir {
			sortTree(c)
		}
	}
}

// Walk visits nodes depth-first in display order. Returning false from fn
// skips the node's children.
func (n *Node) Walk(fn func(node *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int) bool, depth int) {
	for _, c := range n.Children {
		if fn(c, depth) && c.Dir {
			c.walk(fn, depth+1)
		}
	}
}

// Files counts the file nodes under n
func (n *Node) Files() int {
	count := 0
	n.Walk(func(node *Node, _ int) bool {
		if !node.Dir {
			count++
		}
		return true
	})
	return count
}
