package sitefinity

// Converter converts the rich-text HTML held in content item fields.
type Converter interface {
	// Convert transforms an HTML fragment into the target format.
	// Returns EINVALID for blank input.
	Convert(html string) (string, error)
}

// Field suffixes for converted sibling fields.
const (
	MarkdownSuffix  = "Markdown"
	PlainTextSuffix = "Text"
)
