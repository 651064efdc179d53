package collector

// Instagram DOM selectors.
// Instagram changes its markup often; update these when extraction breaks.
const (
	// CommentContainer matches candidate comment nodes: the test-id marker,
	// or button-role blocks inside the main article.
	CommentContainer = `div[data-testid="comment"], article div[role="button"]`

	// CommentUsername is read from the first match inside a candidate.
	CommentUsername = `h3 a, div h3 a`

	// CommentText is read from the last match inside a candidate.
	CommentText = `span span, div span`
)

// Rendering waits for this element before the proxy returns the page.
const WaitForSelector = "article"
