package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/microcosm-cc/bluemonday"

	"github.com/GriffinCanCode/domfinder/internal/finder"
)

var sanitizer = bluemonday.UGCPolicy()

// elementView is the printable form of a match
type elementView struct {
	Tag     string `json:"tag"`
	ID      string `json:"id,omitempty"`
	Name    string `json:"name,omitempty"`
	Text    string `json:"text"`
	Value   string `json:"value,omitempty"`
	Visible bool   `json:"visible"`
	HTML    string `json:"html,omitempty"`
}

func views(elements []*finder.Element, withHTML bool) []elementView {
	out := make([]elementView, 0, len(elements))
	for _, el := range elements {
		id, _ := el.Attr("id")
		name, _ := el.Attr("name")
		v := elementView{
			Tag:     el.TagName(),
			ID:      id,
			Name:    name,
			Text:    el.Text(),
			Value:   el.Value(),
			Visible: el.Visible(),
		}
		if withHTML {
			v.HTML = sanitizer.Sanitize(el.HTML())
		}
		out = append(out, v)
	}
	return out
}

func render(w io.Writer, items []elementView, asJSON bool) error {
	if asJSON {
		data, err := sonic.MarshalIndent(items, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode results: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	for _, v := range items {
		if _, err := fmt.Fprintln(w, v.String()); err != nil {
			return err
		}
		if v.HTML != "" {
			if _, err := fmt.Fprintln(w, "  "+v.HTML); err != nil {
				return err
			}
		}
	}
	return nil
}

// String renders tag#id[name] "text"
func (v elementView) String() string {
	var b strings.Builder
	b.WriteString(v.Tag)
	if v.ID != "" {
		b.WriteString("#" + v.ID)
	}
	if v.Name != "" {
		b.WriteString("[name=" + v.Name + "]")
	}
	if !v.Visible {
		b.WriteString(" (hidden)")
	}
	if v.Text != "" {
		fmt.Fprintf(&b, " %q", truncate(v.Text, 80))
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
