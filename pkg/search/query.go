package search

import "strings"

// BuildQuery derives a web search query from a video's summary and tags: the
// opening of the first summary sentence for the topic, the top two tags for
// context, and a content-type hint.
func BuildQuery(summary string, tags []string) string {
	topic, _, _ := strings.Cut(summary, ".")
	if len(topic) > 100 {
		topic = topic[:100]
	}

	context := tags
	if len(context) > 2 {
		context = context[:2]
	}

	return topic + " " + strings.Join(context, " ") + " tutorial article guide"
}
