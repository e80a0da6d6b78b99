// Package rowsrc reads statement rows from YAML or JSON files.
//
// A document holds either one mapping or a sequence of mappings. Column
// order follows the document, and scalar values keep their YAML type: ints
// and floats become numbers, booleans become 1 or 0, null becomes NULL and
// strings go through the numeral check of statement.String.
package rowsrc

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hurou927/db-catalog/internal/statement"
)

// Load reads rows from the file at path. A path of "-" reads stdin.
func Load(path string) ([]statement.Row, error) {
	if path == "-" {
		return Decode(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening rows file: %w", err)
	}
	defer f.Close()

	rows, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// Decode reads rows from the first document in r. An empty input yields no
// rows.
func Decode(r io.Reader) ([]statement.Row, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("parsing rows: %w", err)
	}

	node := resolve(&doc)
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return nil, nil
		}
		node = resolve(node.Content[0])
	}

	switch node.Kind {
	case yaml.MappingNode:
		row, err := decodeRow(node)
		if err != nil {
			return nil, err
		}
		return []statement.Row{row}, nil
	case yaml.SequenceNode:
		rows := make([]statement.Row, 0, len(node.Content))
		for i, item := range node.Content {
			item = resolve(item)
			if item.Kind != yaml.MappingNode {
				return nil, fmt.Errorf("line %d: row %d is not a mapping", item.Line, i)
			}
			row, err := decodeRow(item)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i, err)
			}
			rows = append(rows, row)
		}
		return rows, nil
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("line %d: expected a mapping or a sequence of mappings", node.Line)
}

func decodeRow(node *yaml.Node) (statement.Row, error) {
	var row statement.Row
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := resolve(node.Content[i]), resolve(node.Content[i+1])
		if key.Kind != yaml.ScalarNode {
			return statement.Row{}, fmt.Errorf("line %d: column name must be a scalar", key.Line)
		}
		v, err := decodeValue(val)
		if err != nil {
			return statement.Row{}, fmt.Errorf("column %q: %w", key.Value, err)
		}
		row.Set(key.Value, v)
	}
	return row, nil
}

func decodeValue(node *yaml.Node) (statement.Value, error) {
	if node.Kind != yaml.ScalarNode {
		return statement.Value{}, fmt.Errorf("line %d: value must be a scalar", node.Line)
	}
	switch node.ShortTag() {
	case "!!null":
		return statement.Null(), nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return statement.Value{}, err
		}
		return statement.ValueOf(b), nil
	case "!!int":
		var i int64
		if err := node.Decode(&i); err == nil {
			return statement.Int(i), nil
		}
		var u uint64
		if err := node.Decode(&u); err != nil {
			return statement.Value{}, err
		}
		return statement.Uint(u), nil
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return statement.Value{}, err
		}
		return statement.Float(f), nil
	default:
		return statement.String(node.Value), nil
	}
}

func resolve(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}
