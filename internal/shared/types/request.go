package types

// ExecuteRequest represents a service execution request
type ExecuteRequest struct {
	ToolID string                 `json:"tool_id" binding:"required"`
	Params map[string]interface{} `json:"params"`
	AppID  *string                `json:"app_id,omitempty"`
}

// WriteRequest carries a whole-file write
type WriteRequest struct {
	Path    string `json:"path" binding:"required"`
	Content string `json:"content"`
}

// PathRequest carries a single path
type PathRequest struct {
	Path string `json:"path" binding:"required"`
}

// MoveRequest carries a move or rename
type MoveRequest struct {
	Src  string `json:"src" binding:"required"`
	Dest string `json:"dest" binding:"required"`
}
