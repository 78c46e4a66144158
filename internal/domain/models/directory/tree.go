package directory

// TreeNode is the root of a department's directory tree as served to clients.
type TreeNode struct {
	DepartmentID string       `json:"department_id"`
	Entries      []*EntryNode `json:"entries"`
}

// EntryNode is a directory entry in the nested tree. Folders carry their
// children; frame placements are leaves and carry the frame id.
type EntryNode struct {
	ID        string       `json:"id"`
	ParentID  *string      `json:"parent_id"`
	FrameID   *string      `json:"frame_id,omitempty"`
	Name      string       `json:"name"`
	Slug      string       `json:"slug"`
	Emoji     *string      `json:"emoji,omitempty"`
	SortOrder *int         `json:"sort_order,omitempty"`
	Children  []*EntryNode `json:"children,omitempty"`
}
