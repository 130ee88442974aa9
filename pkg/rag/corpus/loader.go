// Package corpus turns the knowledge JSON document into embedded passages.
package corpus

import (
	"fmt"
	"os"
	"strings"

	"rmf-policy-be/pkg/utils"

	"golang.org/x/text/unicode/norm"
)

const (
	ChunkSize    = 2000
	ChunkOverlap = 250

	overviewKey      = "NIST_AI_RMF_Overview"
	riskSectionKey   = "5_How_Does_It_Address_and_Manage_Risks"
	coreFunctionsKey = "Core_Functions"
	subFunctionsKey  = "Sub_Functions"
)

// Passage is one chunk of section text ready to embed.
type Passage struct {
	Section    string
	Content    string
	ChunkIndex int
}

func LoadFile(path string) ([]Passage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus %s: %w", path, err)
	}
	defer f.Close()

	root, err := utils.DecodeOrdered(f)
	if err != nil {
		return nil, fmt.Errorf("decode corpus %s: %w", path, err)
	}
	return Build(root)
}

// Build flattens the document into sections in document order. Core
// functions of the framework overview become one section each with their
// sub-functions as lines; every other object becomes "key: value" lines.
func Build(root interface{}) ([]Passage, error) {
	obj, ok := root.(utils.Object)
	if !ok {
		return nil, fmt.Errorf("corpus root must be an object")
	}

	var passages []Passage
	add := func(section, text string) {
		for i, chunk := range utils.SplitText(text, ChunkSize, ChunkOverlap) {
			passages = append(passages, Passage{Section: section, Content: chunk, ChunkIndex: i})
		}
	}

	if overview, ok := objectAt(obj, overviewKey); ok {
		if risks, ok := objectAt(overview, riskSectionKey); ok {
			if core, ok := objectAt(risks, coreFunctionsKey); ok {
				for _, fn := range core {
					add(fn.Key, coreFunctionText(fn))
				}
			}
		}
		for _, f := range overview {
			if f.Key == riskSectionKey {
				continue
			}
			add(humanize(f.Key), sectionText(f))
		}
	}

	for _, f := range obj {
		if f.Key == overviewKey {
			continue
		}
		add(humanize(f.Key), sectionText(f))
	}

	return passages, nil
}

func coreFunctionText(fn utils.Field) string {
	var b strings.Builder
	b.WriteString(fn.Key + "\n")

	content, _ := fn.Value.(utils.Object)
	subs, _ := objectAt(content, subFunctionsKey)
	for _, s := range subs {
		fmt.Fprintf(&b, "%s: %s\n", humanize(s.Key), nfc(scalar(s.Value)))
	}
	return b.String()
}

func sectionText(f utils.Field) string {
	var b strings.Builder
	b.WriteString(humanize(f.Key) + "\n")

	switch v := f.Value.(type) {
	case utils.Object:
		for _, line := range flatten(v, "") {
			fmt.Fprintf(&b, "%s: %s\n", humanize(line.Key), nfc(scalar(line.Value)))
		}
	default:
		b.WriteString(nfc(scalar(v)) + "\n")
	}
	return b.String()
}

// flatten joins nested keys with "_" and lists with ", ".
func flatten(obj utils.Object, parent string) []utils.Field {
	var out []utils.Field
	for _, f := range obj {
		key := f.Key
		if parent != "" {
			key = parent + "_" + f.Key
		}
		switch v := f.Value.(type) {
		case utils.Object:
			out = append(out, flatten(v, key)...)
		case []interface{}:
			parts := make([]string, len(v))
			for i, item := range v {
				parts[i] = scalar(item)
			}
			out = append(out, utils.Field{Key: key, Value: strings.Join(parts, ", ")})
		default:
			out = append(out, utils.Field{Key: key, Value: v})
		}
	}
	return out
}

func objectAt(obj utils.Object, key string) (utils.Object, bool) {
	v, ok := obj.Get(key)
	if !ok {
		return nil, false
	}
	o, ok := v.(utils.Object)
	return o, ok
}

func scalar(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

func humanize(key string) string {
	return strings.ReplaceAll(key, "_", " ")
}

func nfc(s string) string {
	return norm.NFC.String(s)
}
