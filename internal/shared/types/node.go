package types

import "time"

// NodeType discriminates the File and Folder variants of a Node
type NodeType string

const (
	NodeFile   NodeType = "file"
	NodeFolder NodeType = "folder"
)

// Node is a file or folder record identified by its absolute path.
//
// Folders hold their direct children as an ordered list of absolute paths,
// not as inlined nodes. Content and AssocApp are only meaningful for files,
// Children only for folders.
type Node struct {
	Type     NodeType  `json:"type"`
	Name     string    `json:"name"`
	Path     string    `json:"path"`
	MTime    time.Time `json:"mtime"`
	Tags     []string  `json:"tags,omitempty"`
	Preview  string    `json:"preview,omitempty"`
	Content  string    `json:"content,omitempty"`
	AssocApp string    `json:"assocApp,omitempty"`
	Children []string  `json:"children,omitempty"`
}

// NewFile builds a file node
func NewFile(path, name, content string, mtime time.Time) *Node {
	return &Node{
		Type:    NodeFile,
		Name:    name,
		Path:    path,
		MTime:   mtime,
		Content: content,
	}
}

// NewFolder builds a folder node with the given children
func NewFolder(path, name string, children []string, mtime time.Time) *Node {
	if children == nil {
		children = []string{}
	}
	return &Node{
		Type:     NodeFolder,
		Name:     name,
		Path:     path,
		MTime:    mtime,
		Children: children,
	}
}

// IsFile reports whether the node is a file
func (n *Node) IsFile() bool {
	return n != nil && n.Type == NodeFile
}

// IsFolder reports whether the node is a folder
func (n *Node) IsFolder() bool {
	return n != nil && n.Type == NodeFolder
}

// HasChild reports whether path is listed in the folder's children
func (n *Node) HasChild(path string) bool {
	for _, c := range n.Children {
		if c == path {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers never share slices with the store
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := *n
	if n.Tags != nil {
		c.Tags = append([]string(nil), n.Tags...)
	}
	if n.Children != nil {
		c.Children = append([]string{}, n.Children...)
	}
	return &c
}
