package schema

import "time"

// ImportDocument describes one upload to load into the clearing store.
// It is the YAML layout read by the import command.
type ImportDocument struct {
	Upload   ImportUpload  `yaml:"upload"`
	Licenses []LicenseRef  `yaml:"licenses"`
	Runs     []ImportRun   `yaml:"runs"`
	Events   []ImportEvent `yaml:"events"`
}

// ImportUpload is the upload and its file tree.
type ImportUpload struct {
	ID   int64      `yaml:"id"`
	Name string     `yaml:"name"`
	Root ImportItem `yaml:"root"`
}

// ImportItem is one node of the upload tree. Children make it a directory.
type ImportItem struct {
	ID       int64        `yaml:"id"`
	Name     string       `yaml:"name"`
	Children []ImportItem `yaml:"children"`
}

// ImportRun is one agent run over the upload with its matches.
type ImportRun struct {
	AgentID  int64         `yaml:"agent_id"`
	Agent    string        `yaml:"agent"`
	Revision string        `yaml:"revision"`
	Success  *bool         `yaml:"success"` // defaults to true
	Matches  []ImportMatch `yaml:"matches"`
}

// ImportMatch is a detected license on a tree item.
type ImportMatch struct {
	Item       int64  `yaml:"item"`
	License    string `yaml:"license"`
	Percentage *int   `yaml:"percentage"`
}

// ImportEvent is a human decision recorded with the upload.
type ImportEvent struct {
	Item     int64     `yaml:"item"`
	User     int64     `yaml:"user"`
	License  string    `yaml:"license"`
	Type     string    `yaml:"type"` // user (default), bulk or agent
	Removed  bool      `yaml:"removed"`
	Global   *bool     `yaml:"global"` // defaults to true
	DateTime time.Time `yaml:"date"`
	Comment  string    `yaml:"comment"`
}

// ImportSummary counts what an import wrote.
type ImportSummary struct {
	UploadID int64 `json:"upload_id"`
	Items    int   `json:"items"`
	Licenses int   `json:"licenses"`
	Runs     int   `json:"runs"`
	Matches  int   `json:"matches"`
	Events   int   `json:"events"`
}
