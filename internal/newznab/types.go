package newznab

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Category is one selectable entry of the flattened category taxonomy.
type Category struct {
	ID         string
	Name       string // "<parent> > <child>"
	ParentName string
}

// oneOrMany decodes a node that is either a single object or an array of
// them. Indexers that convert their XML feeds to JSON emit a bare object when
// a list holds exactly one element.
type oneOrMany[T any] []T

func (o *oneOrMany[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*o = nil
		return nil
	}
	if trimmed[0] == '[' {
		var many []T
		if err := json.Unmarshal(trimmed, &many); err != nil {
			return err
		}
		*o = many
		return nil
	}
	var one T
	if err := json.Unmarshal(trimmed, &one); err != nil {
		return err
	}
	*o = oneOrMany[T]{one}
	return nil
}

// flexString accepts a JSON string or a bare number.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*f = ""
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", trimmed)
	}
	*f = flexString(n.String())
	return nil
}

func (f flexString) String() string {
	return strings.TrimSpace(string(f))
}

// textNode is an element that may carry attributes, in which case the XML
// to JSON conversion moves its text under "#text".
type textNode string

func (t *textNode) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*t = ""
		return nil
	}
	if trimmed[0] == '{' {
		var obj struct {
			Text flexString `json:"#text"`
		}
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return err
		}
		*t = textNode(obj.Text)
		return nil
	}
	var s flexString
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return err
	}
	*t = textNode(s)
	return nil
}

// attributes holds the "@attributes" object some indexers nest element
// attributes under.
type attributes struct {
	ID   flexString `json:"id"`
	Name string     `json:"name"`
}

type capsResponse struct {
	Caps struct {
		Categories struct {
			Category oneOrMany[capsCategory] `json:"category"`
		} `json:"categories"`
	} `json:"caps"`
	Error *APIError `json:"error"`
}

type capsCategory struct {
	ID         flexString            `json:"id"`
	Name       string                `json:"name"`
	Attributes *attributes           `json:"@attributes"`
	Subcat     oneOrMany[capsSubcat] `json:"subcat"`
}

type capsSubcat struct {
	ID         flexString  `json:"id"`
	Name       string      `json:"name"`
	Attributes *attributes `json:"@attributes"`
}

func (c capsCategory) ident() (string, string) {
	return resolveIdent(c.ID, c.Name, c.Attributes)
}

func (s capsSubcat) ident() (string, string) {
	return resolveIdent(s.ID, s.Name, s.Attributes)
}

func resolveIdent(id flexString, name string, attrs *attributes) (string, string) {
	outID, outName := id.String(), strings.TrimSpace(name)
	if attrs != nil {
		if outID == "" {
			outID = attrs.ID.String()
		}
		if outName == "" {
			outName = strings.TrimSpace(attrs.Name)
		}
	}
	return outID, outName
}

type searchResponse struct {
	RSS struct {
		Channel struct {
			Items oneOrMany[rssItem] `json:"item"`
		} `json:"channel"`
	} `json:"rss"`
	Error *APIError `json:"error"`
}

type rssItem struct {
	Title       textNode           `json:"title"`
	GUID        textNode           `json:"guid"`
	Link        textNode           `json:"link"`
	Comments    textNode           `json:"comments"`
	PubDate     textNode           `json:"pubDate"`
	Category    textNode           `json:"category"`
	Description textNode           `json:"description"`
	Size        flexString         `json:"size"`
	Enclosure   *rssEnclosure      `json:"enclosure"`
	Attrs       oneOrMany[rssAttr] `json:"newznab:attr"`
	AltAttrs    oneOrMany[rssAttr] `json:"attr"`
}

type rssEnclosure struct {
	URL    string     `json:"url"`
	Length flexString `json:"length"`
	Type   string     `json:"type"`
}

type rssAttr struct {
	Name       string     `json:"name"`
	Value      flexString `json:"value"`
	Attributes *struct {
		Name  string     `json:"name"`
		Value flexString `json:"value"`
	} `json:"@attributes"`
}

func (a rssAttr) pair() (string, string) {
	if a.Attributes != nil {
		return strings.TrimSpace(a.Attributes.Name), a.Attributes.Value.String()
	}
	return strings.TrimSpace(a.Name), a.Value.String()
}
