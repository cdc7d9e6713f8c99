package corpus

import "fmt"

// Author groups the raw text bodies one writer has produced. Authors are
// discovered lazily as documents are added.
type Author struct {
	Name       string   `json:"name"`
	Production []string `json:"production"`
	DocCount   int      `json:"doc_count"`
}

// add appends one text body to the author's production.
func (a *Author) add(text string) {
	a.DocCount++
	a.Production = append(a.Production, text)
}

func (a *Author) String() string {
	return fmt.Sprintf("Author: %s\tNumber of docs: %d", a.Name, a.DocCount)
}
