package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// SetKeys updates scalar values in an existing config file, preserving its
// comments and layout. Keys use dotted paths ("view", "log.level"); missing
// keys and intermediate mappings are appended.
func SetKeys(configPath string, values map[string]string) error {
	info, err := os.Stat(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if root.Kind == 0 {
		// Empty file
		root = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}}
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return fmt.Errorf("invalid YAML document structure")
	}
	docNode := root.Content[0]
	if docNode.Kind != yaml.MappingNode {
		return fmt.Errorf("expected mapping at document root")
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if err := setPath(docNode, strings.Split(key, "."), values[key]); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}

	out, err := yaml.Marshal(&root)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}
	if err := os.WriteFile(configPath, out, info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// setPath walks (and creates) nested mappings and sets the final scalar.
func setPath(node *yaml.Node, path []string, value string) error {
	key := path[0]
	child := findMapValue(node, key)

	if len(path) == 1 {
		if child == nil {
			node.Content = append(node.Content, scalarNode(key), scalarNode(value))
			return nil
		}
		if child.Kind != yaml.ScalarNode {
			return fmt.Errorf("'%s' is not a plain value", key)
		}
		child.Value = value
		child.Tag = ""
		child.Style = 0
		return nil
	}

	if child == nil {
		child = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		node.Content = append(node.Content, scalarNode(key), child)
	}
	if child.Kind != yaml.MappingNode {
		return fmt.Errorf("'%s' is not a section", key)
	}
	return setPath(child, path[1:], value)
}

func scalarNode(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: value}
}

// findMapValue finds a value in a mapping node by key name.
func findMapValue(node *yaml.Node, key string) *yaml.Node {
	if node.Kind != yaml.MappingNode {
		return nil
	}

	for i := 0; i < len(node.Content)-1; i += 2 {
		keyNode := node.Content[i]
		valueNode := node.Content[i+1]

		if keyNode.Kind == yaml.ScalarNode && keyNode.Value == key {
			return valueNode
		}
	}

	return nil
}
