// Package filetree turns the flat entry list of a recursive git tree listing
// into a sorted forest of nodes.
package filetree

import (
	"cmp"
	"slices"
	"strings"
)

// EntryType is the kind of a tree entry.
type EntryType string

const (
	TypeBlob EntryType = "blob"
	TypeTree EntryType = "tree"
)

// Entry is one item of a flat repository listing.
type Entry struct {
	Path string    `json:"path"`
	Type EntryType `json:"type"`
	SHA  string    `json:"sha"`
	URL  string    `json:"url"`
}

// Node is a file or directory in the built tree. Children is never nil and is
// always empty for blobs.
type Node struct {
	Name        string    `json:"name"`
	Path        string    `json:"path"`
	Type        EntryType `json:"type"`
	SHA         string    `json:"sha"`
	URL         string    `json:"url"`
	Placeholder bool      `json:"placeholder,omitempty"`
	Children    []*Node   `json:"children"`
}

// Report lists the integrity problems found while building a tree.
type Report struct {
	// Synthesized holds directories that had children but no entry of their
	// own. They appear in the tree as placeholder nodes.
	Synthesized []string
	// Duplicates holds paths listed more than once. The first entry wins.
	Duplicates []string
	// Dropped holds entries whose parent path names a blob.
	Dropped []string
}

// Clean reports whether the build saw no integrity problems.
func (r Report) Clean() bool {
	return len(r.Synthesized) == 0 && len(r.Duplicates) == 0 && len(r.Dropped) == 0
}

// BuildFileTree builds the forest for entries and discards the report.
func BuildFileTree(entries []Entry) []*Node {
	roots, _ := Build(entries)
	return roots
}

// MissingDirectories returns the directory paths that would be synthesized
// for entries, in the order they were first needed.
func MissingDirectories(entries []Entry) []string {
	_, report := Build(entries)
	return report.Synthesized
}

// Build indexes every entry by its cleaned path, synthesizes any missing
// parent directories, links each node to its parent and sorts every level
// with trees before blobs and then by byte-wise name.
func Build(entries []Entry) ([]*Node, Report) {
	var report Report

	index := make(map[string]*Node, len(entries))
	order := make([]string, 0, len(entries))

	for _, e := range entries {
		p := cleanPath(e.Path)
		if p == "" {
			continue
		}
		if _, ok := index[p]; ok {
			report.Duplicates = append(report.Duplicates, p)
			continue
		}
		index[p] = newNode(p, normalizeType(e.Type), e.SHA, e.URL)
		order = append(order, p)
	}

	// Parents are synthesized after every real entry is indexed so a
	// directory listed after its children is never mistaken for missing.
	for i := 0; i < len(order); i++ {
		parent, _ := splitPath(order[i])
		if parent == "" {
			continue
		}
		if _, ok := index[parent]; ok {
			continue
		}
		node := newNode(parent, TypeTree, "", "")
		node.Placeholder = true
		index[parent] = node
		order = append(order, parent)
		report.Synthesized = append(report.Synthesized, parent)
	}

	roots := make([]*Node, 0)
	for _, p := range order {
		node := index[p]
		parentPath, _ := splitPath(p)
		if parentPath == "" {
			roots = append(roots, node)
			continue
		}
		parent := index[parentPath]
		if parent.Type != TypeTree {
			report.Dropped = append(report.Dropped, p)
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	sortNodes(roots)
	return roots, report
}

func newNode(p string, t EntryType, sha, url string) *Node {
	_, name := splitPath(p)
	return &Node{
		Name:     name,
		Path:     p,
		Type:     t,
		SHA:      sha,
		URL:      url,
		Children: make([]*Node, 0),
	}
}

func sortNodes(nodes []*Node) {
	slices.SortFunc(nodes, func(a, b *Node) int {
		if a.Type != b.Type {
			if a.Type == TypeTree {
				return -1
			}
			return 1
		}
		return cmp.Compare(a.Name, b.Name)
	})
	for _, n := range nodes {
		sortNodes(n.Children)
	}
}

// cleanPath trims surrounding slashes and collapses empty segments.
func cleanPath(p string) string {
	if !strings.Contains(p, "//") {
		return strings.Trim(p, "/")
	}
	parts := strings.Split(p, "/")
	kept := parts[:0]
	for _, part := range parts {
		if part != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, "/")
}

func splitPath(p string) (parent, name string) {
	i := strings.LastIndexByte(p, '/')
	if i < 0 {
		return "", p
	}
	return p[:i], p[i+1:]
}

// normalizeType maps anything that is not a tree, such as submodule commits,
// to a leaf.
func normalizeType(t EntryType) EntryType {
	if t == TypeTree {
		return TypeTree
	}
	return TypeBlob
}
