package catalog

import (
	"fmt"
	"strings"

	"github.com/gogpu/glyphsvg"
)

// Family is one font family of the catalog.
type Family struct {
	Name     string            `json:"family"`
	Variants []string          `json:"variants"`
	Files    map[string]string `json:"files"`
	Category string            `json:"category,omitempty"`
	Subsets  []string          `json:"subsets,omitempty"`
}

// VariantURL returns the outline file URL of the named variant.
// Plain http URLs are upgraded to https.
func (f *Family) VariantURL(variant string) (string, error) {
	u, ok := f.Files[variant]
	if !ok || u == "" {
		return "", fmt.Errorf("%w: %q in family %q", glyphsvg.ErrUnknownVariant, variant, f.Name)
	}
	return upgradeScheme(u), nil
}

// Catalog is the ordered list of font families.
type Catalog struct {
	Families []Family `json:"items"`
}

// Len returns the number of families.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Families)
}

// Names returns the family names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, c.Len())
	for i := range names {
		names[i] = c.Families[i].Name
	}
	return names
}

// Family returns the family at index i.
func (c *Catalog) Family(i int) (*Family, error) {
	if c == nil {
		return nil, glyphsvg.ErrNoCatalog
	}
	if i < 0 || i >= len(c.Families) {
		return nil, fmt.Errorf("%w: index %d", glyphsvg.ErrUnknownFamily, i)
	}
	return &c.Families[i], nil
}

// Index returns the index of the family with the given name, or -1.
func (c *Catalog) Index(name string) int {
	for i := 0; i < c.Len(); i++ {
		if c.Families[i].Name == name {
			return i
		}
	}
	return -1
}

// VariantURL resolves the outline file URL of variant vi of family fi.
func (c *Catalog) VariantURL(fi, vi int) (string, error) {
	f, err := c.Family(fi)
	if err != nil {
		return "", err
	}
	if vi < 0 || vi >= len(f.Variants) {
		return "", fmt.Errorf("%w: index %d in family %q", glyphsvg.ErrUnknownVariant, vi, f.Name)
	}
	return f.VariantURL(f.Variants[vi])
}

// Filter returns the families whose name contains substr, ignoring case.
// An empty substr matches every family.
func (c *Catalog) Filter(substr string) []Family {
	needle := strings.ToLower(substr)
	var out []Family
	for i := 0; i < c.Len(); i++ {
		if strings.Contains(strings.ToLower(c.Families[i].Name), needle) {
			out = append(out, c.Families[i])
		}
	}
	return out
}

func upgradeScheme(u string) string {
	if rest, ok := strings.CutPrefix(u, "http://"); ok {
		return "https://" + rest
	}
	return u
}
