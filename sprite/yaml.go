package sprite

import (
	"encoding/base64"
	"fmt"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

const (
	binaryTag = "!!binary"
	strTag    = "!!str"
)

// yamlText is free text written double-quoted so leading and trailing
// whitespace survives. Text that isn't valid UTF-8 is left to the encoder,
// which writes it as !!binary.
type yamlText string

func (t yamlText) MarshalYAML() (interface{}, error) {
	if !utf8.ValidString(string(t)) {
		return string(t), nil
	}
	return &yaml.Node{
		Kind:  yaml.ScalarNode,
		Tag:   strTag,
		Style: yaml.DoubleQuotedStyle,
		Value: string(t),
	}, nil
}

func textPtr(s *string) *yamlText {
	if s == nil {
		return nil
	}
	t := yamlText(*s)
	return &t
}

// yamlBinary is written as a base64 !!binary scalar. A sequence of integers
// is also accepted when reading.
type yamlBinary []byte

func (b yamlBinary) MarshalYAML() (interface{}, error) {
	return &yaml.Node{
		Kind:  yaml.ScalarNode,
		Tag:   binaryTag,
		Value: base64.StdEncoding.EncodeToString(b),
	}, nil
}

func (b *yamlBinary) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.ShortTag() == "!!null" {
			*b = nil
			return nil
		}
		d, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(n.Value), ""))
		if err != nil {
			return fmt.Errorf("line %d: data: %w", n.Line, err)
		}
		*b = d
	case yaml.SequenceNode:
		var ints []int
		if err := n.Decode(&ints); err != nil {
			return err
		}
		d := make([]byte, len(ints))
		for i, v := range ints {
			if v < -128 || v > 255 {
				return fmt.Errorf("line %d: data: value %d out of range", n.Line, v)
			}
			d[i] = byte(v)
		}
		*b = d
	default:
		return fmt.Errorf("line %d: data: unexpected node", n.Line)
	}
	return nil
}

// yamlTags accepts either a sequence or a comma-separated string. Anything
// in a sequence that isn't a string or binary scalar is skipped.
type yamlTags []string

func (t *yamlTags) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.ShortTag() == strTag {
			*t = splitTags(n.Value)
		}
	case yaml.SequenceNode:
		tags := make([]string, 0, len(n.Content))
		for _, c := range n.Content {
			if c.Kind != yaml.ScalarNode {
				continue
			}
			switch c.ShortTag() {
			case strTag:
				tags = append(tags, c.Value)
			case binaryTag:
				var tag string
				if err := c.Decode(&tag); err != nil {
					return err
				}
				tags = append(tags, tag)
			}
		}
		*t = tags
	}
	return nil
}

type yamlIn struct {
	ID          string     `yaml:"id"`
	ULID        string     `yaml:"ulid"`
	DisplayName *string    `yaml:"displayName"`
	Author      string     `yaml:"author"`
	Description *string    `yaml:"description"`
	Data        yamlBinary `yaml:"data"`
	Palette     string     `yaml:"palette"`
	Tags        yamlTags   `yaml:"tags"`
}

type yamlOut struct {
	ID          string     `yaml:"id"`
	DisplayName yamlText   `yaml:"displayName"`
	Author      yamlText   `yaml:"author,omitempty"`
	Data        yamlBinary `yaml:"data"`
	Palette     string     `yaml:"palette"`
	Description *yamlText  `yaml:"description,omitempty"`
	Tags        []yamlText `yaml:"tags,omitempty"`
	Timestamp   string     `yaml:"timestamp"`
}

func decodeYAML(b []byte) (record, error) {
	var in yamlIn
	if err := yaml.Unmarshal(b, &in); err != nil {
		return record{}, err
	}

	id := in.ID
	if id == "" {
		// Older files use ulid
		id = in.ULID
	}

	return record{
		id:          id,
		displayName: in.DisplayName,
		author:      in.Author,
		description: in.Description,
		data:        in.Data,
		palette:     in.Palette,
		tags:        in.Tags,
	}, nil
}

func encodeYAML(s Sprite) ([]byte, error) {
	out := yamlOut{
		ID:          s.id.String(),
		DisplayName: yamlText(s.displayName),
		Data:        s.data,
		Palette:     s.paletteName,
		Description: textPtr(s.description),
		Timestamp:   timestamp(s),
	}
	if s.authorName != UnknownAuthor {
		out.Author = yamlText(s.authorName)
	}
	for _, t := range s.tags {
		out.Tags = append(out.Tags, yamlText(t))
	}
	return yaml.Marshal(&out)
}
