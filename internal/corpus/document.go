package corpus

import (
	"fmt"
	"strings"
	"time"
)

// Source identifies which external feed a document came from.
type Source string

const (
	SourceForum    Source = "reddit"
	SourceAcademic Source = "arxiv"
)

// ForumMeta carries the forum-specific payload of a document.
type ForumMeta struct {
	NumComments int `json:"num_comments"`
}

// AcademicMeta carries the academic-specific payload of a document.
type AcademicMeta struct {
	Authors []string `json:"authors"`
}

// Document is an immutable corpus entry. The common field set is shared by
// every variant; exactly one of the variant payloads is non-nil, selected
// by the Source tag.
type Document struct {
	ID     int       `json:"id"`
	Title  string    `json:"title"`
	Text   string    `json:"text"`
	Author string    `json:"author"`
	Date   time.Time `json:"date"`
	URL    string    `json:"url"`
	Source Source    `json:"source"`

	Forum    *ForumMeta    `json:"forum,omitempty"`
	Academic *AcademicMeta `json:"academic,omitempty"`
}

// UniqueID is the composite key used to index the similarity matrix.
func (d Document) UniqueID() string {
	return fmt.Sprintf("%s_%d", d.Source, d.ID)
}

// DisplayAuthor renders the author field for presentation. Academic
// documents may carry several authors.
func (d Document) DisplayAuthor() string {
	if d.Academic != nil && len(d.Academic.Authors) > 0 {
		return strings.Join(d.Academic.Authors, ", ")
	}
	return d.Author
}

func (d Document) String() string {
	s := fmt.Sprintf("%s, by Authors: %s, on Date: %s, at URL: %s, with Text: %s",
		d.Title, d.DisplayAuthor(), d.Date.Format("2006-01-02"), d.URL, d.Text)
	if d.Forum != nil {
		s += fmt.Sprintf(", with %d comments", d.Forum.NumComments)
	}
	return s
}
