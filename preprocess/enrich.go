package preprocess

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/interactive-solutions/go-template-engine/jsontree"
)

const (
	suffixDate = "Date"
	suffixTime = "Time"
)

// EnrichDateTimes adds a "<key>Time" sibling next to every non-blank "...Date"
// string so templates can print the same instant with a time component. Keys
// the caller already supplied are never overwritten, which makes the operation
// idempotent.
func EnrichDateTimes(tree map[string]interface{}, logger logrus.FieldLogger) {
	for _, leaf := range jsontree.Flatten(tree) {
		value, ok := leaf.AsString()
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}

		last := leaf.Path[len(leaf.Path)-1]
		if last.IsIndex || !strings.HasSuffix(last.Key, suffixDate) {
			continue
		}

		target, _ := leaf.Path.WithSuffix(suffixTime)

		if _, exists := jsontree.Lookup(tree, target); exists {
			continue
		}

		if err := jsontree.Set(tree, target, value); err != nil {
			logger.
				WithField("path", target.String()).
				WithError(err).
				Error("Failed to enrich context with date time")
		}
	}
}
