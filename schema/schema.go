// Package schema has models, enums and helpers shared by all parts of clearance.
package schema

// LicenseRef identifies a license known to the license database.
type LicenseRef struct {
	ID        int64  `json:"id" yaml:"id"`
	ShortName string `json:"short_name" yaml:"short_name"`
	FullName  string `json:"full_name,omitempty" yaml:"full_name"`
}

// AgentRef identifies one run of a scanner agent.
// AgentID is unique per run, so two runs of the same agent share AgentName only.
type AgentRef struct {
	AgentID       int64  `json:"agent_id"`
	AgentName     string `json:"agent_name"`
	AgentRevision string `json:"agent_revision,omitempty"`
}

// LicenseMatch is one agent's detected license on one file.
type LicenseMatch struct {
	License       LicenseRef
	Agent         AgentRef
	LicenseFileID int64 // Identifier of the match row
	Percentage    *int  // Match percentage, nil when the agent does not report one
}

// ItemTreeBounds addresses an upload tree item and its subtree using nested-set bounds.
// A descendant d satisfies Left <= d.Left and d.Right <= Right.
type ItemTreeBounds struct {
	ItemID   int64 `json:"item_id"`
	UploadID int64 `json:"upload_id"`
	Left     int64 `json:"left"`
	Right    int64 `json:"right"`
}

// ContainsBounds reports whether other lies inside the subtree of b.
func (b ItemTreeBounds) ContainsBounds(other ItemTreeBounds) bool {
	return b.UploadID == other.UploadID && b.Left <= other.Left && other.Right <= b.Right
}

// IsFile reports whether the item has no children.
func (b ItemTreeBounds) IsFile() bool {
	return b.Right-b.Left == 1
}
