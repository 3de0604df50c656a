package records

import (
	"context"

	"github.com/DeBrosOfficial/contacts/pkg/backend"
)

// Insert stores record and returns the rows the backend echoed. The slice is
// non-nil on success even if the backend echoed nothing.
func (s *Service) Insert(ctx context.Context, record Record) []Record {
	client := s.clientFor(opInsert)
	if client == nil {
		return nil
	}

	resp, err := client.Table(s.table).Insert(record).Execute(ctx)
	if err != nil {
		s.fault(opInsert, err)
		return nil
	}
	return rowsOf(resp)
}

// ListPage returns page (1-indexed) of pageSize contacts, newest first, plus
// the collection total. The slice and the count are two separate requests.
func (s *Service) ListPage(ctx context.Context, page, pageSize int) *Page {
	client := s.clientFor(opListPage)
	if client == nil {
		return nil
	}

	start := (page - 1) * pageSize
	end := start + pageSize - 1

	resp, err := client.Table(s.table).
		Select("*").
		Order(columnCreatedAt, true).
		Range(start, end).
		Execute(ctx)
	if err != nil {
		s.fault(opListPage, err)
		return nil
	}

	countResp, err := client.Table(s.table).
		Select("*").
		Count(backend.CountExact).
		Head().
		Execute(ctx)
	if err != nil {
		s.fault(opListPage, err)
		return nil
	}

	var total int64
	if countResp != nil && countResp.Count != nil {
		total = *countResp.Count
	}

	return &Page{
		Items:    rowsOf(resp),
		Page:     page,
		PageSize: pageSize,
		Total:    total,
		Pages:    pageCount(total, pageSize),
	}
}

// GetByID returns the contact whose id equals id, or nil.
func (s *Service) GetByID(ctx context.Context, id any) Record {
	client := s.clientFor(opGetByID)
	if client == nil {
		return nil
	}

	resp, err := client.Table(s.table).
		Select("*").
		Eq(columnID, id).
		Limit(1).
		Execute(ctx)
	if err != nil {
		s.fault(opGetByID, err)
		return nil
	}
	return firstRow(resp)
}

// Update applies patch to the contact with the given id and returns the
// updated row, or nil if nothing matched.
func (s *Service) Update(ctx context.Context, id any, patch Record) Record {
	client := s.clientFor(opUpdate)
	if client == nil {
		return nil
	}

	resp, err := client.Table(s.table).
		Update(patch).
		Eq(columnID, id).
		Execute(ctx)
	if err != nil {
		s.fault(opUpdate, err)
		return nil
	}
	return firstRow(resp)
}

// Delete removes the contact with the given id. It reports true only when the
// backend echoed at least one deleted row.
func (s *Service) Delete(ctx context.Context, id any) bool {
	client := s.clientFor(opDelete)
	if client == nil {
		return false
	}

	resp, err := client.Table(s.table).
		Delete().
		Eq(columnID, id).
		Execute(ctx)
	if err != nil {
		s.fault(opDelete, err)
		return false
	}
	return resp != nil && len(resp.Data) > 0
}

func rowsOf(resp *backend.Response) []Record {
	if resp == nil || resp.Data == nil {
		return []Record{}
	}
	return resp.Data
}

func firstRow(resp *backend.Response) Record {
	if resp == nil || len(resp.Data) == 0 {
		return nil
	}
	return resp.Data[0]
}
