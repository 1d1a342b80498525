package templateengine

// Resolver substitutes a context into template text. Implementations must be
// safe for concurrent use.
type Resolver interface {
	Render(text string, context map[string]interface{}) (string, error)
}
