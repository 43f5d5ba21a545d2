package reposrepobridge

import "github.com/jrazmi/anchorboard/core/filetree"

type PinResponse struct {
	IsPinned bool `json:"isPinned"`
}

// TreeResponse is the built file tree of one ref.
type TreeResponse struct {
	Ref       string           `json:"ref"`
	SHA       string           `json:"sha"`
	Truncated bool             `json:"truncated"`
	Tree      []*filetree.Node `json:"tree"`
	// Synthesized lists directories the listing omitted.
	Synthesized []string `json:"synthesized,omitempty"`
}
