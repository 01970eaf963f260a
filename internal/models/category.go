package models

import "github.com/google/uuid"

// Category is a user-defined event grouping. Categories carry a stable ID
// internally, but events reference them by name; renames therefore cascade
// over the event list (see RenameCategory). List order is the user's chosen
// display order.
type Category struct {
	CategoryID uuid.UUID `json:"category_id"`
	Name       string    `json:"name"`
	Color      Color     `json:"color"`
}

// NewCategory creates a category with a fresh identity.
func NewCategory(name string, color Color) Category {
	return Category{CategoryID: uuid.New(), Name: name, Color: color}
}

// FindCategory looks a category up by its unique name.
func FindCategory(categories []Category, name string) (Category, bool) {
	for _, c := range categories {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}

// RenameCategory renames the category called oldName and cascades the new
// name onto every event still carrying the old one. Events referencing other
// categories are untouched. Both inputs are returned unchanged when no such
// category exists.
func RenameCategory(categories []Category, events []Event, oldName, newName string) ([]Category, []Event) {
	if _, ok := FindCategory(categories, oldName); !ok {
		return categories, events
	}
	outCats := make([]Category, len(categories))
	copy(outCats, categories)
	for i := range outCats {
		if outCats[i].Name == oldName {
			outCats[i].Name = newName
		}
	}
	outEvents := make([]Event, len(events))
	copy(outEvents, events)
	for i := range outEvents {
		if outEvents[i].Category == oldName {
			outEvents[i].Category = newName
		}
	}
	return outCats, outEvents
}

// RecolorCategory sets the color of the named category.
func RecolorCategory(categories []Category, name string, color Color) []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	for i := range out {
		if out[i].Name == name {
			out[i].Color = color
		}
	}
	return out
}

// MoveCategory moves the category at index from to index to, preserving the
// order of everything else. Out-of-range indices are a no-op.
func MoveCategory(categories []Category, from, to int) []Category {
	if from < 0 || from >= len(categories) || to < 0 || to >= len(categories) {
		return categories
	}
	out := make([]Category, 0, len(categories))
	out = append(out, categories[:from]...)
	out = append(out, categories[from+1:]...)
	rest := append([]Category{}, out[to:]...)
	out = append(out[:to], categories[from])
	return append(out, rest...)
}

// RemoveCategory deletes the named category. Events keep their now-stale
// category string; category filters simply stop matching them.
func RemoveCategory(categories []Category, name string) []Category {
	out := make([]Category, 0, len(categories))
	for _, c := range categories {
		if c.Name != name {
			out = append(out, c)
		}
	}
	return out
}
