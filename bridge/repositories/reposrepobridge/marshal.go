package reposrepobridge

import (
	"github.com/jrazmi/anchorboard/core/filetree"
	"github.com/jrazmi/anchorboard/infrastructure/githubapi"
)

// MarshalTreeEntries converts a GitHub tree listing into builder entries.
// Submodule commits have no children and are kept as blobs.
func MarshalTreeEntries(entries []githubapi.TreeEntry) []filetree.Entry {
	out := make([]filetree.Entry, len(entries))
	for i, e := range entries {
		t := filetree.TypeBlob
		if e.Type == string(filetree.TypeTree) {
			t = filetree.TypeTree
		}
		out[i] = filetree.Entry{
			Path: e.Path,
			Type: t,
			SHA:  e.SHA,
			URL:  e.URL,
		}
	}
	return out
}
