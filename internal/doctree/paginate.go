package doctree

import "github.com/formdoc/formdoc/internal/schema"

// Page is a derived, never-persisted slice of the top-level sequence
// between nextPage markers. Recomputed from the content on every render.
type Page []*schema.Node

// SplitPages partitions the content at nextPage markers. The marker itself
// belongs to no page. A sequence with no markers is exactly one page; a
// trailing marker still opens a (possibly empty) final page, so the page
// count is always marker count + 1.
func SplitPages(content []*schema.Node) []Page {
	pages := []Page{{}}
	for _, n := range content {
		if n.Type == schema.NodeNextPage {
			pages = append(pages, Page{})
			continue
		}
		pages[len(pages)-1] = append(pages[len(pages)-1], n)
	}
	return pages
}

// Nav is the respondent's position within the paginated form. PageIndex is
// always clamped to [0, PageCount-1].
type Nav struct {
	PageIndex int `json:"pageIndex"`
	PageCount int `json:"pageCount"`
}

// NewNav builds navigation state for the given page set, clamping index.
func NewNav(index, count int) Nav {
	if count < 1 {
		count = 1
	}
	if index < 0 {
		index = 0
	}
	if index > count-1 {
		index = count - 1
	}
	return Nav{PageIndex: index, PageCount: count}
}

// HasPrevious reports whether the "Previous" control is shown.
func (n Nav) HasPrevious() bool { return n.PageIndex > 0 }

// HasNext reports whether the "Next" control is shown; the final page shows
// "Submit" instead.
func (n Nav) HasNext() bool { return n.PageIndex < n.PageCount-1 }

// Last reports whether this is the submit page.
func (n Nav) Last() bool { return !n.HasNext() }

// Next advances by one page, clamped at the end.
func (n Nav) Next() Nav { return NewNav(n.PageIndex+1, n.PageCount) }

// Previous retreats by one page, clamped at the start.
func (n Nav) Previous() Nav { return NewNav(n.PageIndex-1, n.PageCount) }
