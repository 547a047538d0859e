package paths

import (
	"path"
	"strings"
)

// Root is the path of the root folder
const Root = "/"

// Standard top-level folders ensured by every initialization
const (
	ProgramFiles = "/Program Files"
	Users        = "/Users"
	Public       = "/Public"
	Drives       = "/Drives"
)

// StandardFolders lists the top-level folders in the order they are linked
// under the root
var StandardFolders = []string{ProgramFiles, Users, Public, Drives}

// First-boot layout
const (
	Home     = "/home"
	UserHome = "/home/user"
	Apps     = "/apps"
	Config   = "/config"
	Tmp      = "/tmp"
	Var      = "/var"
	Etc      = "/etc"
)

// Config files read during boot
const (
	AutoexecINI = "/config/autoexec.ini"
	ThemeINI    = "/config/theme.ini"
	Welcome     = "/home/user/Welcome.txt"
)

// Clean normalizes p to an absolute slash path without a trailing slash.
// An empty path resolves to the root.
func Clean(p string) string {
	if p == "" {
		return Root
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}

// IsRoot reports whether p is the root path
func IsRoot(p string) bool {
	return p == Root
}

// Parent returns the path with its last segment stripped. The root is its
// own parent.
func Parent(p string) string {
	i := strings.LastIndex(p, "/")
	if i <= 0 {
		return Root
	}
	return p[:i]
}

// Base returns the last segment of p, or "" for the root
func Base(p string) string {
	return p[strings.LastIndex(p, "/")+1:]
}

// Join appends a leaf name to a folder path
func Join(dir, name string) string {
	if dir == Root {
		return Root + name
	}
	return dir + "/" + name
}

// IsStandard reports whether p is the root or one of the standard folders
func IsStandard(p string) bool {
	if p == Root {
		return true
	}
	for _, s := range StandardFolders {
		if s == p {
			return true
		}
	}
	return false
}
