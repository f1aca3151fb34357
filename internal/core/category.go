package core

import "fmt"

// Category is the closed classification tag attached to an expense.
// Values outside the enumeration are a construction-time error: use
// ParseCategory at the boundary, never build ad-hoc Category values.
type Category string

const (
	CategoryStaff   Category = "STAFF"
	CategoryTravel  Category = "TRAVEL"
	CategoryFood    Category = "FOOD"
	CategoryUtility Category = "UTILITY"
)

// CategoryInfo carries the display metadata for one category.
type CategoryInfo struct {
	Label string
	Icon  string // icon identifier, opaque to the core
}

var categoryInfo = map[Category]CategoryInfo{
	CategoryStaff:   {Label: "Staff", Icon: "group"},
	CategoryTravel:  {Label: "Travel", Icon: "flight"},
	CategoryFood:    {Label: "Food", Icon: "restaurant"},
	CategoryUtility: {Label: "Utility", Icon: "bolt"},
}

// categoryOrder fixes the presentation order of the enumeration.
var categoryOrder = []Category{CategoryStaff, CategoryTravel, CategoryFood, CategoryUtility}

// ParseCategory returns the Category for s, or an error for any value
// outside the closed enumeration.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if _, ok := categoryInfo[c]; !ok {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

// Valid reports whether c is one of the enumerated categories.
func (c Category) Valid() bool {
	_, ok := categoryInfo[c]
	return ok
}

// Label returns the display name for c, or the raw value if unknown.
func (c Category) Label() string {
	if info, ok := categoryInfo[c]; ok {
		return info.Label
	}
	return string(c)
}

// Icon returns the icon identifier for c.
func (c Category) Icon() string {
	return categoryInfo[c].Icon
}

// Categories returns the enumeration in presentation order.
func Categories() []Category {
	out := make([]Category, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}
