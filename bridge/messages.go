package bridge

// UpdateRequest is the payload of the update-document channel. Documents
// are addressed by location, never by id.
type UpdateRequest struct {
	Filename string `json:"filename" validate:"required"`
	Folder   string `json:"folder" validate:"required"`
	Content  string `json:"content"`
}

// SetupRequest is the payload of the setup-github-repo channel. An empty
// RemoteURL asks the host to open the repository creation page instead.
type SetupRequest struct {
	RemoteURL string `json:"remoteUrl,omitempty"`
}

type SetupResult struct {
	RemoteURL string `json:"remoteUrl,omitempty"`
	Opened    string `json:"opened,omitempty"`
}
