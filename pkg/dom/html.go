package dom

import (
	"html"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// queryIDAttr carries the node id through serialization so selector matches
// can be mapped back to live elements. It is only emitted on the query path,
// never in OuterHTML.
const queryIDAttr = "data-curveui-id"

var voidTags = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

type writer struct {
	sb      strings.Builder
	withIDs bool
}

// OuterHTML serializes the element and its subtree.
func (e *Element) OuterHTML() string {
	w := &writer{}
	e.serialize(w)
	return w.sb.String()
}

// InnerHTML serializes only the element's children.
func (e *Element) InnerHTML() string {
	w := &writer{}
	for _, c := range e.children {
		c.serialize(w)
	}
	return w.sb.String()
}

func (e *Element) serialize(w *writer) {
	w.sb.WriteByte('<')
	w.sb.WriteString(e.tag)
	if w.withIDs {
		w.sb.WriteString(` ` + queryIDAttr + `="` + e.id + `"`)
	}
	// Deterministic attribute order keeps serialization stable for tests
	// and diff-friendly devserver output.
	names := make([]string, 0, len(e.attrs))
	for k := range e.attrs {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		w.sb.WriteByte(' ')
		w.sb.WriteString(k)
		w.sb.WriteString(`="`)
		w.sb.WriteString(html.EscapeString(e.attrs[k]))
		w.sb.WriteByte('"')
	}
	w.sb.WriteByte('>')
	if voidTags[e.tag] {
		return
	}
	for _, c := range e.children {
		c.serialize(w)
	}
	w.sb.WriteString("</")
	w.sb.WriteString(e.tag)
	w.sb.WriteByte('>')
}

func (t *Text) serialize(w *writer) {
	w.sb.WriteString(html.EscapeString(t.data))
}

// Query returns the first element in this subtree (including the element
// itself) matching a CSS selector, and whether a match was found. Matching
// is delegated to goquery over an id-tagged serialization of the subtree,
// then mapped back to the live node.
func (e *Element) Query(selector string) (*Element, bool) {
	doc, err := e.queryDoc()
	if err != nil {
		return nil, false
	}
	sel := doc.Find(selector).First()
	return e.resolve(sel)
}

// QueryAll returns every element in this subtree matching a CSS selector,
// in document order.
func (e *Element) QueryAll(selector string) []*Element {
	doc, err := e.queryDoc()
	if err != nil {
		return nil
	}
	var out []*Element
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		if el, ok := e.resolve(sel); ok {
			out = append(out, el)
		}
	})
	return out
}

func (e *Element) queryDoc() (*goquery.Document, error) {
	w := &writer{withIDs: true}
	e.serialize(w)
	return goquery.NewDocumentFromReader(strings.NewReader(w.sb.String()))
}

func (e *Element) resolve(sel *goquery.Selection) (*Element, bool) {
	id, ok := sel.Attr(queryIDAttr)
	if !ok {
		return nil, false
	}
	el := e.doc.lookup(id)
	return el, el != nil
}
