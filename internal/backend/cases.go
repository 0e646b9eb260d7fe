package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/saturnino-fabrica-de-software/facefind/internal/domain"
)

// CaseService wraps /casos
type CaseService struct {
	c *Client
}

// CaseFilter narrows List. Zero values are ignored.
type CaseFilter struct {
	Status domain.CaseStatus
	Query  string
}

// List returns cases, optionally filtered by normalized status
func (s *CaseService) List(ctx context.Context, filter CaseFilter) ([]domain.Case, error) {
	endpoint := "casos"
	if filter.Query != "" {
		endpoint += "?" + url.Values{"q": {filter.Query}}.Encode()
	}

	dtos, err := doGetJSON[[]caseDTO](ctx, s.c, endpoint)
	if err != nil {
		return nil, fmt.Errorf("list cases: %w", err)
	}

	cases := mapSlice(*dtos, caseDTO.toDomain)
	if filter.Status == "" {
		return cases, nil
	}

	filtered := cases[:0]
	for _, c := range cases {
		if c.Status == filter.Status {
			filtered = append(filtered, c)
		}
	}
	return filtered, nil
}

// Get returns a single case
func (s *CaseService) Get(ctx context.Context, id int) (*domain.Case, error) {
	dto, err := doGetJSON[caseDTO](ctx, s.c, "casos/"+strconv.Itoa(id))
	if err != nil {
		return nil, fmt.Errorf("get case %d: %w", id, err)
	}
	c := dto.toDomain()
	return &c, nil
}

// Create registers a new case
func (s *CaseService) Create(ctx context.Context, input CaseInput) (*domain.Case, error) {
	dto, err := doPostJSON[caseDTO](ctx, s.c, "casos", input)
	if err != nil {
		return nil, fmt.Errorf("create case: %w", err)
	}
	c := dto.toDomain()
	return &c, nil
}

// Update replaces a case
func (s *CaseService) Update(ctx context.Context, id int, input CaseInput) (*domain.Case, error) {
	dto, err := doPutJSON[caseDTO](ctx, s.c, "casos/"+strconv.Itoa(id), input)
	if err != nil {
		return nil, fmt.Errorf("update case %d: %w", id, err)
	}
	c := dto.toDomain()
	return &c, nil
}

// Delete removes a case
func (s *CaseService) Delete(ctx context.Context, id int) error {
	if err := doRaw(ctx, s.c, http.MethodDelete, "casos/"+strconv.Itoa(id), nil); err != nil {
		return fmt.Errorf("delete case %d: %w", id, err)
	}
	return nil
}
