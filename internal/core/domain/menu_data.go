package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
)

// MenuData is the nested groups -> items structure of a menu file.
// Groups and items keep the order in which they appear in the file.
type MenuData struct {
	Groups []MenuGroup
}

type MenuGroup struct {
	Name  string
	Items []MenuEntry
}

// MenuEntry is one item as written in the menu file. Price is in pounds.
type MenuEntry struct {
	Name        string
	ID          json.RawMessage     `json:"id"`
	Price       decimal.NullDecimal `json:"price"`
	Size        string              `json:"size"`
	Description string              `json:"description"`
}

// ParseMenu decodes menu JSON of the form {"groups": {group: {item: {...}}}}.
func ParseMenu(r io.Reader) (MenuData, error) {
	var m MenuData
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return MenuData{}, &MalformedCatalogError{Reason: err.Error()}
	}
	return m, nil
}

// LoadCatalog reads a menu file and builds its catalog.
func LoadCatalog(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	menu, err := ParseMenu(f)
	if err != nil {
		return nil, err
	}
	return BuildCatalog(menu)
}

func (m *MenuData) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	m.Groups = nil
	return decodeObject(dec, func(key string) error {
		if key != "groups" {
			var skip json.RawMessage
			return dec.Decode(&skip)
		}
		return decodeObject(dec, func(groupName string) error {
			group := MenuGroup{Name: groupName}
			err := decodeObject(dec, func(itemName string) error {
				entry := MenuEntry{Name: itemName}
				if err := dec.Decode(&entry); err != nil {
					return fmt.Errorf("item %s/%s: %w", groupName, itemName, err)
				}
				entry.Name = itemName
				group.Items = append(group.Items, entry)
				return nil
			})
			if err != nil {
				return err
			}
			m.Groups = append(m.Groups, group)
			return nil
		})
	})
}

// decodeObject walks a JSON object key by key, leaving each value for fn to consume.
func decodeObject(dec *json.Decoder, fn func(key string) error) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		if err := fn(key); err != nil {
			return err
		}
	}

	_, err = dec.Token()
	return err
}
