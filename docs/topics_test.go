package docs

import (
	"bufio"
	"os"
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/etnz/rebalance"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// targetsBlock is the info string of code blocks holding a targets file.
const targetsBlock = "yaml targets"

func TestTopics(t *testing.T) {
	// Every topic listed in readme.md can be loaded, and every topic is listed.
	file, err := os.Open(Index + ".md")
	if err != nil {
		t.Fatalf("failed to open the index: %v", err)
	}
	defer file.Close()

	var listed []string
	topicRegex := regexp.MustCompile(`^\*\s+([^:]+):.*$`)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if m := topicRegex.FindStringSubmatch(scanner.Text()); len(m) > 1 {
			listed = append(listed, strings.TrimSpace(m[1]))
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("error scanning the index: %v", err)
	}

	for _, topic := range listed {
		if _, err := GetTopic(topic); err != nil {
			t.Errorf("failed to get topic %q: %v", topic, err)
		}
	}
	for _, topic := range AllTopics() {
		if !slices.Contains(listed, topic) {
			t.Errorf("topic %q is not listed in %s.md", topic, Index)
		}
	}
	if _, err := GetTopic("nope"); err == nil {
		t.Error("GetTopic(nope) expected an error")
	}
}

func TestAllTopics(t *testing.T) {
	all, err := GetTopic("*")
	if err != nil {
		t.Fatalf("GetTopic(*) error = %v", err)
	}
	for _, topic := range AllTopics() {
		content, _ := GetTopic(topic)
		if !strings.Contains(all, content) {
			t.Errorf("GetTopic(*) does not contain topic %q", topic)
		}
	}
}

// TestTargetsExamples checks that the targets files shown in the
// documentation are valid.
func TestTargetsExamples(t *testing.T) {
	for _, topic := range AllTopics() {
		content, err := docs.ReadFile(topic + ".md")
		if err != nil {
			t.Fatal(err)
		}
		for _, block := range codeBlocks(content, targetsBlock) {
			weights, err := rebalance.ParseTargetWeights(strings.NewReader(block))
			if err != nil {
				t.Errorf("%s: invalid targets %q: %v", topic, block, err)
				continue
			}
			if err := weights.Validate(); err != nil {
				t.Errorf("%s: invalid targets %q: %v", topic, block, err)
			}
		}
	}
}

// codeBlocks returns the content of the fenced code blocks of source with the info string info.
func codeBlocks(source []byte, info string) []string {
	root := goldmark.DefaultParser().Parse(text.NewReader(source))

	var blocks []string
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !entering || !ok || fcb.Info == nil {
			return ast.WalkContinue, nil
		}
		if string(fcb.Info.Segment.Value(source)) != info {
			return ast.WalkContinue, nil
		}
		var b strings.Builder
		for i := 0; i < fcb.Lines().Len(); i++ {
			line := fcb.Lines().At(i)
			b.Write(line.Value(source))
		}
		blocks = append(blocks, b.String())
		return ast.WalkContinue, nil
	})
	return blocks
}
