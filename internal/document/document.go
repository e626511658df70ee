package document

// Raw is a document as handed over by the discovery layer.
// An empty Content means the content is absent; Path is analysed instead.
type Raw struct {
	Path    string `json:"path"`
	Name    string `json:"name,omitempty"`
	Content string `json:"content,omitempty"`
}

// Text returns the text used for feature extraction.
func (r Raw) Text() string {
	if r.Content == "" {
		return r.Path
	}
	return r.Content
}

// DisplayName returns Name, falling back to Path.
func (r Raw) DisplayName() string {
	if r.Name == "" {
		return r.Path
	}
	return r.Name
}

// Document is an enhanced document. It is never mutated after the
// enhancement pass; every cluster map and index shares the same pointer.
type Document struct {
	Path           string
	Name           string
	Content        string
	Concepts       []string
	Complexity     float64
	Tone           Tone
	Structure      Structure
	WordCount      int
	PrimaryCluster PrimaryCluster
	Vector         map[string]float64
}

// Label is the display label used for rendering and text filtering.
func (d *Document) Label() string {
	if d.Name == "" {
		return d.Path
	}
	return d.Name
}

// Paths returns the paths of docs in order.
func Paths(docs []*Document) []string {
	paths := make([]string, len(docs))
	for i, d := range docs {
		paths[i] = d.Path
	}
	return paths
}
