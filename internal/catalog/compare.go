package catalog

import (
	"encoding/json"
	"fmt"

	"ougadgets/internal/model"
)

// MaxCompare is the most phones that can be compared at once.
const MaxCompare = 4

// CompareList is an ordered set of phone snapshots keyed by id. The zero
// value is an empty list. It is not safe for concurrent use.
type CompareList struct {
	items []model.Phone
}

// Add appends phone unless its id is already present or the list is full.
// It reports whether the list changed.
func (c *CompareList) Add(phone model.Phone) bool {
	if c.Contains(phone.ID) || len(c.items) >= MaxCompare {
		return false
	}
	c.items = append(c.items, phone)
	return true
}

// Remove drops the phone with id. It reports whether the list changed.
func (c *CompareList) Remove(id string) bool {
	for i, p := range c.items {
		if p.ID == id {
			c.items = append(c.items[:i:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// Clear empties the list.
func (c *CompareList) Clear() {
	c.items = nil
}

// Items returns a copy of the snapshots in insertion order.
func (c *CompareList) Items() []model.Phone {
	return append([]model.Phone{}, c.items...)
}

func (c *CompareList) Len() int {
	return len(c.items)
}

// Contains reports whether a phone with id is in the list.
func (c *CompareList) Contains(id string) bool {
	for _, p := range c.items {
		if p.ID == id {
			return true
		}
	}
	return false
}

func (c CompareList) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Items())
}

// UnmarshalJSON loads a persisted list, dropping duplicates and anything
// past MaxCompare.
func (c *CompareList) UnmarshalJSON(data []byte) error {
	var phones []model.Phone
	if err := json.Unmarshal(data, &phones); err != nil {
		return err
	}
	c.Clear()
	for _, p := range phones {
		c.Add(p)
	}
	return nil
}

// CompareRow is one line of the side-by-side table.
type CompareRow struct {
	Label  string
	Values []string
}

// CompareRows renders the comparison table from the held snapshots.
func CompareRows(list *CompareList) []CompareRow {
	items := list.Items()
	specs := []struct {
		label string
		value func(model.Phone) string
	}{
		{"Brand", func(p model.Phone) string { return p.Brand }},
		{"RAM", func(p model.Phone) string { return fmt.Sprintf("%d GB", p.RAM) }},
		{"Storage", func(p model.Phone) string { return fmt.Sprintf("%d GB", p.ROM) }},
		{"Battery", func(p model.Phone) string { return fmt.Sprintf("%d mAh", p.Battery) }},
		{"Main Camera", func(p model.Phone) string { return fmt.Sprintf("%d MP", p.Camera) }},
		{"Front Camera", func(p model.Phone) string { return fmt.Sprintf("%d MP", p.FrontCamera) }},
		{"Condition", func(p model.Phone) string { return p.Condition }},
		{"Market Price", func(p model.Phone) string { return FormatNaira(p.MarketPrice) }},
	}

	rows := make([]CompareRow, 0, len(specs))
	for _, s := range specs {
		row := CompareRow{Label: s.label, Values: make([]string, 0, len(items))}
		for _, p := range items {
			row.Values = append(row.Values, s.value(p))
		}
		rows = append(rows, row)
	}
	return rows
}
