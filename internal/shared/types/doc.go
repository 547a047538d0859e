// Package types provides shared data structures for the NyxOS backend.
//
// Core Types:
//   - Node: File or Folder record of the virtual filesystem
//   - Service, Tool, Parameter: Service provider definitions
//   - Context: Execution context for service calls
//   - Result: Standard service result
//
// Request Types:
//   - ExecuteRequest: Service tool execution
//   - WriteRequest, PathRequest, MoveRequest: Filesystem HTTP bodies
//
// Example Usage:
//
//	node := types.NewFile("/home/user/a.txt", "a.txt", "hello", time.Now())
//	if node.IsFile() {
//	    fmt.Println(node.Content)
//	}
package types
