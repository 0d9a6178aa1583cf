package configfile

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// KeyValueWriter renders flat "key = value" lines, the format ghostty and
// similar tools read. Keys are sorted; a list repeats its key once per
// element, in list order.
type KeyValueWriter struct{}

func (KeyValueWriter) Format() string { return "keyvalue" }

func (KeyValueWriter) Write(values map[string]any) ([]byte, error) {
	var b strings.Builder
	for _, k := range sortedKeys(values) {
		if err := writeKeyValue(&b, "", k, values[k]); err != nil {
			return nil, fmt.Errorf("keyvalue: %w", err)
		}
	}
	return []byte(b.String()), nil
}

func writeKeyValue(b *strings.Builder, indent, key string, v any) error {
	if list, ok := v.([]any); ok {
		for _, e := range list {
			if err := writeKeyValue(b, indent, key, e); err != nil {
				return err
			}
		}
		return nil
	}
	s, err := scalar(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	fmt.Fprintf(b, "%s%s = %s\n", indent, key, s)
	return nil
}

// INIWriter renders sectioned INI in the style of git config. Top-level
// scalars come first; each map becomes a [section]; a map nested one level
// deeper becomes a [section "subsection"]. Lists repeat their key.
type INIWriter struct{}

func (INIWriter) Format() string { return "ini" }

func (INIWriter) Write(values map[string]any) ([]byte, error) {
	var b strings.Builder
	var sections []string

	for _, k := range sortedKeys(values) {
		if _, ok := values[k].(map[string]any); ok {
			sections = append(sections, k)
			continue
		}
		if err := writeKeyValue(&b, "", k, values[k]); err != nil {
			return nil, fmt.Errorf("ini: %w", err)
		}
	}

	for _, name := range sections {
		if err := writeINISection(&b, name, "", values[name].(map[string]any)); err != nil {
			return nil, fmt.Errorf("ini: %w", err)
		}
	}
	return []byte(b.String()), nil
}

func writeINISection(b *strings.Builder, name, sub string, section map[string]any) error {
	var subsections []string
	var keys []string
	for _, k := range sortedKeys(section) {
		if _, ok := section[k].(map[string]any); ok {
			subsections = append(subsections, k)
		} else {
			keys = append(keys, k)
		}
	}
	if sub != "" && len(subsections) > 0 {
		return fmt.Errorf("%s.%s: sections nest at most two levels", name, sub)
	}

	if len(keys) > 0 || len(subsections) == 0 {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		if sub == "" {
			fmt.Fprintf(b, "[%s]\n", name)
		} else {
			fmt.Fprintf(b, "[%s %q]\n", name, sub)
		}
		for _, k := range keys {
			if err := writeKeyValue(b, "\t", k, section[k]); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
		}
	}

	for _, s := range subsections {
		if err := writeINISection(b, name, s, section[s].(map[string]any)); err != nil {
			return err
		}
	}
	return nil
}

// textListCommentColumn is the column inline comments start at.
const textListCommentColumn = 36

// TextListWriter renders one item per line, for plugin or ignore lists.
//
//	header: "# Global ignores"
//	sections:
//	  - name: Editors
//	    items:
//	      - "*.swp"
//	      - id: .idea/
//	        comment: JetBrains
//
// A flat "items" list may be used instead of "sections".
type TextListWriter struct{}

func (TextListWriter) Format() string { return "textlist" }

func (TextListWriter) Write(values map[string]any) ([]byte, error) {
	var b strings.Builder

	if header, ok := values["header"].(string); ok && header != "" {
		b.WriteString(header)
		if !strings.HasSuffix(header, "\n") {
			b.WriteString("\n")
		}
	}

	if sections, ok := values["sections"].([]any); ok {
		for i, s := range sections {
			section, ok := s.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("textlist: sections[%d] is not a mapping", i)
			}
			if i > 0 || b.Len() > 0 {
				b.WriteString("\n")
			}
			if name, ok := section["name"].(string); ok && name != "" {
				b.WriteString("# " + name + "\n")
			}
			if err := writeTextItems(&b, section["items"]); err != nil {
				return nil, err
			}
		}
		return []byte(b.String()), nil
	}

	if err := writeTextItems(&b, values["items"]); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}

func writeTextItems(b *strings.Builder, v any) error {
	if v == nil {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		return fmt.Errorf("textlist: items must be a list")
	}
	for _, item := range items {
		switch t := item.(type) {
		case string:
			b.WriteString(t + "\n")
		case map[string]any:
			id, _ := t["id"].(string)
			if id == "" {
				continue
			}
			b.WriteString(id)
			if comment, _ := t["comment"].(string); comment != "" {
				b.WriteString(strings.Repeat(" ", max(textListCommentColumn-len(id), 1)))
				b.WriteString("# " + comment)
			}
			b.WriteString("\n")
		default:
			return fmt.Errorf("textlist: unsupported item of type %T", item)
		}
	}
	return nil
}

// XMLWriter renders an element tree:
//
//	root: keymap
//	attrs: {version: "1"}
//	children:
//	  - element: action
//	    attrs: {id: GotoFile}
//	    children: [...]
//	  - element: option
//	    content: text
//
// Attributes are written in sorted order.
type XMLWriter struct{}

func (XMLWriter) Format() string { return "xml" }

func (w XMLWriter) Write(values map[string]any) ([]byte, error) {
	root, ok := values["root"].(string)
	if !ok || root == "" {
		return nil, fmt.Errorf("xml: 'root' element name is required")
	}

	var b strings.Builder
	b.WriteString(xml.Header)
	elem := map[string]any{"element": root, "attrs": values["attrs"], "children": values["children"]}
	if values["children"] == nil {
		delete(elem, "children")
	}
	if err := w.writeElement(&b, elem, 0); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}

func (w XMLWriter) writeElement(b *strings.Builder, elem map[string]any, depth int) error {
	name, ok := elem["element"].(string)
	if !ok || name == "" {
		return fmt.Errorf("xml: element without a name")
	}

	pad := strings.Repeat("  ", depth)
	b.WriteString(pad + "<" + name)
	if attrs, ok := elem["attrs"].(map[string]any); ok {
		for _, k := range sortedKeys(attrs) {
			s, err := scalar(attrs[k])
			if err != nil {
				return fmt.Errorf("xml: %s@%s: %w", name, k, err)
			}
			fmt.Fprintf(b, " %s=\"%s\"", k, xmlEscape(s))
		}
	}

	children, hasChildren := elem["children"].([]any)
	content, hasContent := elem["content"]
	if !hasChildren && !hasContent {
		b.WriteString("/>\n")
		return nil
	}
	b.WriteString(">")

	if hasContent {
		s, err := scalar(content)
		if err != nil {
			return fmt.Errorf("xml: %s: %w", name, err)
		}
		b.WriteString(xmlEscape(s))
	}
	if hasChildren {
		b.WriteString("\n")
		for i, c := range children {
			child, ok := c.(map[string]any)
			if !ok {
				return fmt.Errorf("xml: %s child %d is not a mapping", name, i)
			}
			if err := w.writeElement(b, child, depth+1); err != nil {
				return err
			}
		}
		b.WriteString(pad)
	}
	b.WriteString("</" + name + ">\n")
	return nil
}

func xmlEscape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

// RawWriter writes the "content" string verbatim.
type RawWriter struct{}

func (RawWriter) Format() string { return "raw" }

func (RawWriter) Write(values map[string]any) ([]byte, error) {
	content, ok := values["content"]
	if !ok {
		return []byte{}, nil
	}
	s, ok := content.(string)
	if !ok {
		return nil, fmt.Errorf("raw: 'content' must be a string, got %T", content)
	}
	return []byte(s), nil
}
