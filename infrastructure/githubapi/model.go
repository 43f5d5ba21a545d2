package githubapi

// Owner is the account that owns a repository.
type Owner struct {
	Login string `json:"login"`
	ID    int64  `json:"id"`
}

// Repo is the subset of the GitHub repository payload the dashboard keeps.
type Repo struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	FullName      string  `json:"full_name"`
	Description   *string `json:"description"`
	HTMLURL       string  `json:"html_url"`
	DefaultBranch string  `json:"default_branch"`
	Private       bool    `json:"private"`
	Language      *string `json:"language"`
	Owner         Owner   `json:"owner"`
	UpdatedAt     string  `json:"updated_at"`
}

// TreeEntry is one item of a recursive git tree listing.
type TreeEntry struct {
	Path string `json:"path"`
	Mode string `json:"mode"`
	Type string `json:"type"`
	SHA  string `json:"sha"`
	Size int64  `json:"size,omitempty"`
	URL  string `json:"url"`
}

type Tree struct {
	SHA       string      `json:"sha"`
	URL       string      `json:"url"`
	Tree      []TreeEntry `json:"tree"`
	Truncated bool        `json:"truncated"`
}

// Content is an item returned by the contents endpoint.
type Content struct {
	Name        string  `json:"name"`
	Path        string  `json:"path"`
	SHA         string  `json:"sha"`
	Size        int64   `json:"size"`
	Type        string  `json:"type"`
	URL         string  `json:"url"`
	DownloadURL *string `json:"download_url"`
	Content     string  `json:"content,omitempty"`
	Encoding    string  `json:"encoding,omitempty"`
}
