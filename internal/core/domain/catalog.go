package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"unicode"
)

// CatalogItem is a purchasable menu item. Price is in pence.
type CatalogItem struct {
	ID          string
	Name        string
	Price       int64
	Size        string
	Description string
	Group       string
}

// CatalogGroup lists item ids of one menu group in display order.
type CatalogGroup struct {
	Name    string
	ItemIDs []string
}

// Catalog is the read-only index of menu items, built once per menu load.
type Catalog struct {
	items  map[string]CatalogItem
	order  []string
	groups []CatalogGroup
}

// BuildCatalog flattens menu data into a catalog. Item ids supplied by the data are
// authoritative; an item without one gets an id derived from its group and name.
func BuildCatalog(menu MenuData) (*Catalog, error) {
	c := &Catalog{items: make(map[string]CatalogItem)}

	for _, g := range menu.Groups {
		if strings.TrimSpace(g.Name) == "" {
			return nil, &MalformedCatalogError{Reason: "group without a name"}
		}

		group := CatalogGroup{Name: g.Name}
		for _, e := range g.Items {
			item, err := buildItem(g.Name, e)
			if err != nil {
				return nil, err
			}
			if _, dup := c.items[item.ID]; dup {
				return nil, &MalformedCatalogError{Group: g.Name, Item: e.Name, Reason: "duplicate id " + item.ID}
			}
			c.items[item.ID] = item
			c.order = append(c.order, item.ID)
			group.ItemIDs = append(group.ItemIDs, item.ID)
		}
		c.groups = append(c.groups, group)
	}

	return c, nil
}

func buildItem(group string, e MenuEntry) (CatalogItem, error) {
	malformed := func(reason string) error {
		return &MalformedCatalogError{Group: group, Item: e.Name, Reason: reason}
	}

	if strings.TrimSpace(e.Name) == "" {
		return CatalogItem{}, malformed("missing name")
	}
	if !e.Price.Valid {
		return CatalogItem{}, malformed("missing price")
	}
	if e.Price.Decimal.IsNegative() {
		return CatalogItem{}, malformed("negative price")
	}
	pence, err := PenceFromPounds(e.Price.Decimal)
	if err != nil {
		return CatalogItem{}, malformed(err.Error())
	}

	id, err := entryID(e.ID)
	if err != nil {
		return CatalogItem{}, malformed(err.Error())
	}
	if id == "" {
		id = Slug(group) + "-" + Slug(e.Name)
	}

	return CatalogItem{
		ID:          id,
		Name:        e.Name,
		Price:       pence,
		Size:        e.Size,
		Description: e.Description,
		Group:       group,
	}, nil
}

// entryID accepts string and numeric ids. Null or absent yields "".
func entryID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s), nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), nil
	}
	return "", errInvalidID
}

var errInvalidID = errors.New("id must be a string or a number")

// Lookup resolves an id to its item.
func (c *Catalog) Lookup(id string) (CatalogItem, error) {
	item, ok := c.items[id]
	if !ok {
		return CatalogItem{}, &UnknownItemError{ID: id}
	}
	return item, nil
}

func (c *Catalog) Contains(id string) bool {
	_, ok := c.items[id]
	return ok
}

// IDs returns every item id in display order.
func (c *Catalog) IDs() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

func (c *Catalog) Groups() []CatalogGroup {
	out := make([]CatalogGroup, len(c.groups))
	for i, g := range c.groups {
		ids := make([]string, len(g.ItemIDs))
		copy(ids, g.ItemIDs)
		out[i] = CatalogGroup{Name: g.Name, ItemIDs: ids}
	}
	return out
}

func (c *Catalog) Len() int {
	return len(c.order)
}

// Slug lowercases s and replaces runs of anything but letters and digits with '-'.
func Slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
