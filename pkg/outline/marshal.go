package outline

import (
	"encoding/json"
	"io"
	"os"
)

// Marshal serializes a tree to JSON.
func Marshal(n *Node) ([]byte, error) {
	return json.MarshalIndent(n, "", "  ")
}

// Unmarshal deserializes a tree from JSON.
func Unmarshal(data []byte) (*Node, error) {
	var n Node
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// Read deserializes a tree from a reader.
func Read(r io.Reader) (*Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Unmarshal(data)
}

// ReadFile deserializes a tree from a JSON file.
func ReadFile(path string) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Unmarshal(data)
}

// WriteFile serializes a tree to a JSON file.
func WriteFile(path string, n *Node) error {
	data, err := Marshal(n)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
