package posts

import "html/template"

// Compiled is a post together with the values derived from its source during
// a run. The orchestrator fills each field once; nothing changes afterwards.
type Compiled struct {
	*Post

	Content []byte         // markdown body, front matter removed
	Meta    map[string]any // front matter, if the source had any
	HTML    template.HTML  // rendered body
	Preview template.HTML  // rendered preview for listings
	Page    string         // the complete post page
}
