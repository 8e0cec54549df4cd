package render

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/amaumene/videosync/internal/models"
)

var (
	listOpenTag  = regexp.MustCompile(`\[tag_(has|not)_([A-Za-z0-9_-]+)\s+index="(\d+)"\]`)
	listValueTag = regexp.MustCompile(`\[tag_([A-Za-z0-9_-]+)\s+index="(\d+)"\]`)
)

// ResolveListTags expands indexed references into comma-separated extra
// field values inside already rendered content:
//
//	[tag_actors index="2"]                       second element of "actors"
//	[tag_has_actors index="2"]...[/tag_has_actors] block kept when it exists
//	[tag_not_actors index="2"]...[/tag_not_actors] block kept when it does not
//
// Indexes are 1-based. Blocks may nest. An opening tag without its own
// closing tag is left untouched.
func ResolveListTags(content string, fields []models.ExtraField) string {
	values := make(map[string]string, len(fields))
	for _, f := range fields {
		if _, seen := values[f.Name]; !seen {
			values[f.Name] = f.Value
		}
	}

	content = resolveBlocks(content, values)

	return listValueTag.ReplaceAllStringFunc(content, func(match string) string {
		m := listValueTag.FindStringSubmatch(match)
		name, index := m[1], m[2]
		if strings.HasPrefix(name, "has_") || strings.HasPrefix(name, "not_") {
			return match
		}
		value, ok := values[name]
		if !ok {
			return ""
		}
		return element(value, index)
	})
}

// resolveBlocks walks opening tags right to left so inner blocks are settled
// before the blocks around them. Each opening tag pairs with the first closing
// tag of the same kind and name that follows it.
func resolveBlocks(content string, values map[string]string) string {
	opens := listOpenTag.FindAllStringSubmatchIndex(content, -1)
	for i := len(opens) - 1; i >= 0; i-- {
		loc := opens[i]
		kind, name, index := content[loc[2]:loc[3]], content[loc[4]:loc[5]], content[loc[6]:loc[7]]

		closing := "[/tag_" + kind + "_" + name + "]"
		end := strings.Index(content[loc[1]:], closing)
		if end < 0 {
			continue
		}
		end += loc[1]

		value, ok := values[name]
		present := ok && truthy(element(value, index))
		body := ""
		if (kind == "has") == present {
			body = content[loc[1]:end]
		}
		content = content[:loc[0]] + body + content[end+len(closing):]
	}
	return content
}

// element returns the 1-based index-th comma-separated item of value, or ""
func element(value, index string) string {
	n, err := strconv.Atoi(index)
	if err != nil || n < 1 {
		return ""
	}
	items := strings.Split(value, ",")
	if n > len(items) {
		return ""
	}
	return strings.TrimSpace(items[n-1])
}

func truthy(s string) bool {
	return s != "" && s != "0"
}
