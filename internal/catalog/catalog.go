package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/arsenal-toolkit/pkg/models"
)

// Catalog holds every tool known to the launcher, grouped by category.
// The file format is a JSON object mapping category names to tool lists;
// entries are decoded as-is and bad files surface as decode errors.
type Catalog struct {
	categories map[string][]*models.Tool
	tools      map[string]*models.Tool
	order      []string
}

// Load reads and decodes a catalog file
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes catalog JSON
func Parse(data []byte) (*Catalog, error) {
	var raw map[string][]*models.Tool
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	c := &Catalog{
		categories: raw,
		tools:      make(map[string]*models.Tool),
	}

	for category, tools := range raw {
		c.order = append(c.order, category)
		for _, tool := range tools {
			tool.Category = category
			c.tools[strings.ToLower(tool.Name)] = tool
		}
	}
	sort.Strings(c.order)

	return c, nil
}

// Categories returns the category names in sorted order
func (c *Catalog) Categories() []string {
	return c.order
}

// ToolsIn returns the tools of one category, sorted by name
func (c *Catalog) ToolsIn(category string) []*models.Tool {
	tools := make([]*models.Tool, len(c.categories[category]))
	copy(tools, c.categories[category])
	sort.Slice(tools, func(i, j int) bool { return tools[i].Name < tools[j].Name })
	return tools
}

// All returns every tool, sorted by category then name
func (c *Catalog) All() []*models.Tool {
	var tools []*models.Tool
	for _, category := range c.order {
		tools = append(tools, c.ToolsIn(category)...)
	}
	return tools
}

// Find looks a tool up by name, case-insensitively
func (c *Catalog) Find(name string) (*models.Tool, bool) {
	tool, ok := c.tools[strings.ToLower(name)]
	return tool, ok
}

// ForPlatform returns every tool usable on the given profile
func (c *Catalog) ForPlatform(p models.PlatformProfile) []*models.Tool {
	var tools []*models.Tool
	for _, tool := range c.All() {
		if tool.SupportsPlatform(p) {
			tools = append(tools, tool)
		}
	}
	return tools
}

// Len returns the total number of tools in the catalog
func (c *Catalog) Len() int {
	return len(c.tools)
}
