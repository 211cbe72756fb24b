// Package render projects the catalog, quantities and totals into a display
// tree. Clickable nodes carry an Intent instead of a callback; whoever hosts
// the tree dispatches intents back to the order session.
package render

type IntentKind string

const (
	IntentIncrement   IntentKind = "increment"
	IntentDecrement   IntentKind = "decrement"
	IntentSubmit      IntentKind = "submit"
	IntentAcknowledge IntentKind = "acknowledge"
)

type Intent struct {
	Kind   IntentKind
	ItemID string
}

type Node struct {
	Type     string
	ID       string
	Class    string
	Text     string
	Attrs    map[string]string
	OnClick  *Intent
	Children []*Node
}

func (n *Node) Append(children ...*Node) *Node {
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

// Find returns the first node in the subtree with the given id.
func (n *Node) Find(id string) *Node {
	if n == nil {
		return nil
	}
	if n.ID == id {
		return n
	}
	for _, c := range n.Children {
		if found := c.Find(id); found != nil {
			return found
		}
	}
	return nil
}

// FindClass returns every node in the subtree with the given class, depth first.
func (n *Node) FindClass(class string) []*Node {
	var out []*Node
	n.walk(func(c *Node) {
		if c.Class == class {
			out = append(out, c)
		}
	})
	return out
}

func (n *Node) walk(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		c.walk(fn)
	}
}

func (n *Node) Disabled() bool {
	return n.Attrs["disabled"] == "disabled"
}

func el(typ, id, class, text string) *Node {
	return &Node{Type: typ, ID: id, Class: class, Text: text}
}

func (n *Node) attr(key, value string) *Node {
	if n.Attrs == nil {
		n.Attrs = make(map[string]string)
	}
	n.Attrs[key] = value
	return n
}

func (n *Node) onClick(i Intent) *Node {
	n.OnClick = &i
	return n
}
