// Package structure loads the pane structure tree from a TOML file and
// turns it into resolvable nodes.
package structure

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/bnema/panectl/internal/domain/entity"
)

// Definition is the decoded structure file.
type Definition struct {
	Root      NodeDef           `toml:"root" json:"root"`
	Templates []entity.Template `toml:"templates" json:"templates,omitempty"`
}

// NodeDef declares one node of the structure tree.
type NodeDef struct {
	ID         string          `toml:"id" json:"id"`
	Title      string          `toml:"title" json:"title,omitempty"`
	Type       entity.NodeType `toml:"type" json:"type" jsonschema:"enum=list,enum=documentList,enum=document,enum=component"`
	SchemaType string          `toml:"schema_type" json:"schema_type,omitempty"`
	DocumentID string          `toml:"document_id" json:"document_id,omitempty"`
	// Live lists re-emit their children whenever the structure file changes.
	Live bool `toml:"live" json:"live,omitempty"`
	// Intents a documentList can open in place.
	Intents []string  `toml:"intents" json:"intents,omitempty"`
	Items   []NodeDef `toml:"items" json:"items,omitempty"`
}

var ErrInvalidStructure = errors.New("invalid structure")

// Parse decodes and validates a structure definition.
func Parse(data []byte) (*Definition, error) {
	var def Definition
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&def); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("%w: line %d column %d: %s", ErrInvalidStructure, row, col, derr.Error())
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidStructure, err)
	}
	if err := def.validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// LoadFile reads and parses the structure file at path.
func LoadFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read structure file: %w", err)
	}
	def, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

func (d *Definition) validate() error {
	if d.Root.ID == "" {
		return fmt.Errorf("%w: root needs an id", ErrInvalidStructure)
	}
	if d.Root.Type == "" {
		d.Root.Type = entity.NodeTypeList
	}
	if err := d.Root.validate("root"); err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(d.Templates))
	for i, tpl := range d.Templates {
		if tpl.ID == "" || tpl.SchemaType == "" {
			return fmt.Errorf("%w: templates[%d] needs id and schema_type", ErrInvalidStructure, i)
		}
		if _, dup := seen[tpl.ID]; dup {
			return fmt.Errorf("%w: duplicate template %q", ErrInvalidStructure, tpl.ID)
		}
		seen[tpl.ID] = struct{}{}
	}
	return nil
}

func (n *NodeDef) validate(where string) error {
	switch n.Type {
	case entity.NodeTypeList, entity.NodeTypeDocumentList, entity.NodeTypeDocument, entity.NodeTypeComponent:
	case "":
		n.Type = entity.NodeTypeList
	default:
		return fmt.Errorf("%w: %s: unknown type %q", ErrInvalidStructure, where, n.Type)
	}
	if n.Type == entity.NodeTypeDocumentList && n.SchemaType == "" {
		return fmt.Errorf("%w: %s: documentList needs a schema_type", ErrInvalidStructure, where)
	}

	ids := make(map[string]struct{}, len(n.Items))
	for i := range n.Items {
		item := &n.Items[i]
		if item.ID == "" {
			return fmt.Errorf("%w: %s.items[%d] needs an id", ErrInvalidStructure, where, i)
		}
		if _, dup := ids[item.ID]; dup {
			return fmt.Errorf("%w: %s: duplicate item %q", ErrInvalidStructure, where, item.ID)
		}
		ids[item.ID] = struct{}{}
		if err := item.validate(where + "/" + item.ID); err != nil {
			return err
		}
	}
	return nil
}

// find walks ids from the root definition.
func (d *Definition) find(ids []string) (*NodeDef, bool) {
	n := &d.Root
	for _, id := range ids {
		next, ok := n.item(id)
		if !ok {
			return nil, false
		}
		n = next
	}
	return n, true
}

func (n *NodeDef) item(id string) (*NodeDef, bool) {
	for i := range n.Items {
		if n.Items[i].ID == id {
			return &n.Items[i], true
		}
	}
	return nil, false
}

// TemplateType returns the type a template creates.
func (d *Definition) TemplateType(id string) (string, bool) {
	for _, tpl := range d.Templates {
		if tpl.ID == id {
			return tpl.SchemaType, true
		}
	}
	return "", false
}
