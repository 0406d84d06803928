// Package docs holds the rebal user documentation, one markdown file per topic.
package docs

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
)

//go:embed *.md
var docs embed.FS

// Index is the topic listing the others.
const Index = "readme"

// GetTopic returns the content of a documentation topic, "*" being all
// topics.
func GetTopic(topic string) (string, error) {
	if topic == "*" {
		return GetTopics(AllTopics()...)
	}
	content, err := docs.ReadFile(topic + ".md")
	if err != nil {
		return "", fmt.Errorf("topic %q not found, see 'rebal topic': %w", topic, err)
	}
	return string(content), nil
}

// GetTopics returns the content of topics concatenated together.
func GetTopics(topics ...string) (string, error) {
	var b strings.Builder
	for _, topic := range topics {
		content, err := GetTopic(topic)
		if err != nil {
			return "", err
		}
		b.WriteString(content)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// AllTopics returns the sorted list of topics, the index excluded.
func AllTopics() []string {
	files, _ := fs.Glob(docs, "*.md")
	var topics []string
	for _, f := range files {
		if topic := strings.TrimSuffix(path.Base(f), ".md"); topic != Index {
			topics = append(topics, topic)
		}
	}
	slices.Sort(topics)
	return topics
}
