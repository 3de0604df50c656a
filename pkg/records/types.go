package records

import "github.com/DeBrosOfficial/contacts/pkg/backend"

// Record is one contact row.
type Record = backend.Record

// Page is one slice of the contacts collection, newest first.
// Total and Items come from separate requests and may disagree under
// concurrent writes.
type Page struct {
	Items    []Record `json:"items"`
	Page     int      `json:"page"`
	PageSize int      `json:"page_size"`
	Total    int64    `json:"total"`
	Pages    int64    `json:"pages"`
}

// Session pairs the signed-in user with the issued token material.
type Session struct {
	User    *backend.User    `json:"user"`
	Session *backend.Session `json:"session"`
}

// pageCount is ceil(total/pageSize), or 0 when pageSize is not positive.
func pageCount(total int64, pageSize int) int64 {
	if pageSize <= 0 {
		return 0
	}
	size := int64(pageSize)
	return (total + size - 1) / size
}
