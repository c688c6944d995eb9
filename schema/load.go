package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	cverr "github.com/reproforge/reproconv/convert/errors"
)

// LoadBundle reads a document graph starting from a protocol schema file.
// Activity references resolve relative to the protocol file, item references
// relative to their activity file.
//
// A referenced document that does not exist on disk is left unresolved; the
// shape validator reports it as a dangling reference. A document that exists
// but cannot be parsed is a StructuralLoadFailure and aborts the load.
func LoadBundle(protocolFile string) (*DocumentSet, error) {
	var p Protocol
	if err := loadJSON(protocolFile, &p); err != nil {
		return nil, err
	}

	set := NewDocumentSet(&p)
	protoDir := filepath.Dir(protocolFile)

	for _, ref := range p.UI.Order {
		actFile := filepath.Join(protoDir, filepath.FromSlash(ref))
		if _, err := os.Stat(actFile); err != nil {
			continue // dangling; reported by validation
		}
		var a Activity
		if err := loadJSON(actFile, &a); err != nil {
			return nil, err
		}
		doc := set.AddActivity(ref, &a)
		if err := loadItems(doc, filepath.Dir(actFile)); err != nil {
			return nil, err
		}
	}
	return set, nil
}

// loadItems loads every item an activity references, from its order list and
// from compute entries that only appear in addProperties.
func loadItems(doc *ActivityDoc, actDir string) error {
	refs := make([]string, 0, len(doc.Activity.UI.Order))
	seen := make(map[string]bool)
	for _, ref := range doc.Activity.UI.Order {
		refs = append(refs, ref)
		seen[ref] = true
	}
	for _, c := range doc.Activity.Compute {
		for _, prop := range doc.Activity.UI.AddProperties {
			if prop.VariableName == c.VariableName && !seen[prop.IsAbout] {
				refs = append(refs, prop.IsAbout)
				seen[prop.IsAbout] = true
			}
		}
	}

	for _, ref := range refs {
		itemFile := filepath.Join(actDir, filepath.FromSlash(ref))
		if _, err := os.Stat(itemFile); err != nil {
			continue
		}
		var it Item
		if err := loadJSON(itemFile, &it); err != nil {
			return err
		}
		doc.AddItem(ref, &it)
	}
	return nil
}

func loadJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return cverr.New(cverr.StructuralLoadFailure, "", "", "cannot read %s: %v", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return cverr.New(cverr.StructuralLoadFailure, "", "", "cannot parse %s: %v", path, err)
	}
	return nil
}

// WriteBundle writes a document graph under root using the conventional
// layout: root/<protocol>/<protocol>_schema, root/activities/<name>/<name>_schema
// and root/activities/<name>/items/<id>.
func WriteBundle(set *DocumentSet, root string) error {
	protoName := strings.TrimSuffix(set.Protocol.ID, "_schema")
	protoDir := filepath.Join(root, protoName)
	if err := os.MkdirAll(protoDir, 0755); err != nil {
		return fmt.Errorf("failed to create protocol directory: %w", err)
	}
	if err := writeJSON(filepath.Join(protoDir, set.Protocol.ID), set.Protocol); err != nil {
		return err
	}

	for _, doc := range set.Activities {
		actName := strings.TrimSuffix(doc.Activity.ID, "_schema")
		actDir := filepath.Join(root, "activities", actName)
		if err := os.MkdirAll(filepath.Join(actDir, "items"), 0755); err != nil {
			return fmt.Errorf("failed to create activity directory: %w", err)
		}
		if err := writeJSON(filepath.Join(actDir, doc.Activity.ID), doc.Activity); err != nil {
			return err
		}
		for _, it := range doc.Items {
			if err := writeJSON(filepath.Join(actDir, "items", it.Item.ID), it.Item); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize %s: %w", path, err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
