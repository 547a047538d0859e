// Package paths provides the path conventions of the virtual filesystem.
//
// Paths are absolute, '/'-delimited strings and double as the identity key of
// a node. There is no relative resolution at this layer: clients such as the
// terminal join their working directory before calling in.
//
// # Directory Structure
//
//	/
//	  ├── Program Files/   (standard, ensured by every init)
//	  ├── Users/           (standard)
//	  ├── Public/          (standard)
//	  ├── Drives/          (standard)
//	  ├── home/user/       (first boot)
//	  ├── apps/            (first boot)
//	  ├── config/          (first boot: autoexec.ini, theme.ini)
//	  ├── tmp/ var/ etc/   (first boot)
//
// # Usage
//
//	paths.Parent("/home/user/a.txt") // "/home/user"
//	paths.Base("/home/user/a.txt")   // "a.txt"
//	paths.Join(paths.Root, "tmp")    // "/tmp"
package paths
