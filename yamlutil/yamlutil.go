// Package yamlutil edits YAML documents through the yaml.v3 node API, keeping
// comments and key order. Keys are addressed by dotted paths such as "features.ci".
package yamlutil

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/usetheodev/theo-boilerplate/generator"
)

// SetKey returns a transform that sets keyPath to value, creating intermediate
// mappings as needed. Empty input starts a new document. Setting a scalar to
// the value it already holds returns the input unchanged.
func SetKey(keyPath string, value any) generator.Transform {
	return func(src string) (string, error) {
		keys, err := splitPath(keyPath)
		if err != nil {
			return "", err
		}

		doc, err := parse(src)
		if err != nil {
			return "", err
		}

		var val yaml.Node
		if err := val.Encode(value); err != nil {
			return "", fmt.Errorf("failed to encode value for %s: %w", keyPath, err)
		}

		node := doc.Content[0]
		for i, key := range keys {
			last := i == len(keys)-1
			child := lookup(node, key)

			switch {
			case child == nil && last:
				appendPair(node, key, &val)
			case child == nil:
				child = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
				appendPair(node, key, child)
			case last:
				if sameScalar(child, &val) {
					return src, nil
				}
				val.HeadComment, val.LineComment, val.FootComment = child.HeadComment, child.LineComment, child.FootComment
				*child = val
			case isNull(child):
				*child = yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", LineComment: child.LineComment}
			case child.Kind != yaml.MappingNode:
				return "", fmt.Errorf("key %s is not a mapping", strings.Join(keys[:i+1], "."))
			}
			node = child
		}

		return encode(doc)
	}
}

// Lookup returns the node at keyPath, or ok=false when any segment is missing.
func Lookup(src, keyPath string) (node *yaml.Node, ok bool, err error) {
	keys, err := splitPath(keyPath)
	if err != nil {
		return nil, false, err
	}
	doc, err := parse(src)
	if err != nil {
		return nil, false, err
	}

	node = doc.Content[0]
	for _, key := range keys {
		if node.Kind != yaml.MappingNode {
			return nil, false, nil
		}
		if node = lookup(node, key); node == nil {
			return nil, false, nil
		}
	}
	return node, true, nil
}

// HasKey reports whether keyPath is present in src.
func HasKey(src, keyPath string) (bool, error) {
	_, ok, err := Lookup(src, keyPath)
	return ok, err
}

// KeyProbe passes when the YAML file at path has keyPath set. When want is
// non-empty the key must also be a scalar equal to want.
func KeyProbe(path, keyPath, want string) generator.Probe {
	desc := fmt.Sprintf("key: %s %s", path, keyPath)
	if want != "" {
		desc += "=" + want
	}
	return generator.NewProbe(desc, func(_ context.Context, tree *generator.Tree) (bool, error) {
		src, ok, err := tree.Read(path)
		if err != nil || !ok {
			return false, err
		}
		node, ok, err := Lookup(src, keyPath)
		if err != nil || !ok {
			return false, err
		}
		if want == "" {
			return true, nil
		}
		return node.Kind == yaml.ScalarNode && node.Value == want, nil
	})
}

func splitPath(keyPath string) ([]string, error) {
	keys := strings.Split(keyPath, ".")
	for _, k := range keys {
		if strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid key path %q", keyPath)
		}
	}
	return keys, nil
}

// parse returns a document node whose single child is a mapping.
func parse(src string) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(src), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if doc.Kind == 0 {
		doc.Kind = yaml.DocumentNode
	}
	if len(doc.Content) == 0 {
		doc.Content = []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}
	}
	if root := doc.Content[0]; root.Kind != yaml.MappingNode {
		if !isNull(root) {
			return nil, fmt.Errorf("document root is not a mapping")
		}
		doc.Content[0] = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	}
	return &doc, nil
}

func encode(doc *yaml.Node) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return "", fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("failed to encode YAML: %w", err)
	}
	return buf.String(), nil
}

func lookup(mapping *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

func appendPair(mapping *yaml.Node, key string, value *yaml.Node) {
	mapping.Content = append(mapping.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		value)
}

func sameScalar(a, b *yaml.Node) bool {
	return a.Kind == yaml.ScalarNode && b.Kind == yaml.ScalarNode &&
		a.Value == b.Value && a.ShortTag() == b.ShortTag()
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}
