package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/fivetwenty-io/pulse/internal/constants"
	"github.com/fivetwenty-io/pulse/pkg/pulse"
)

// resource implements the collection/member endpoints shared by most
// resource clients.
type resource struct {
	base *Base
	path string
	noun string
}

func newResource(base *Base, path, noun string) resource {
	return resource{base: base, path: path, noun: noun}
}

func (r resource) memberPath(id string) string {
	return r.path + "/" + url.PathEscape(id)
}

// List retrieves one page of resources.
func (r resource) List(ctx context.Context, params pulse.QueryParams) (*pulse.ListDocument[pulse.Attributes], error) {
	return listDocument[pulse.Attributes](ctx, r.base, r.path, params)
}

// ListAll retrieves every page of resources.
func (r resource) ListAll(ctx context.Context, params pulse.QueryParams) ([]pulse.Resource[pulse.Attributes], error) {
	return listAll[pulse.Attributes](ctx, r.base, r.path, params)
}

// Get retrieves a single resource.
func (r resource) Get(ctx context.Context, id string, params pulse.QueryParams) (*pulse.Document[pulse.Attributes], error) {
	if id == "" {
		return nil, fmt.Errorf("%w: %s id", pulse.ErrMissingParameter, r.noun)
	}

	return getDocument[pulse.Attributes](ctx, r.base, http.MethodGet, r.memberPath(id), nil, params)
}

// Create creates a resource.
func (r resource) Create(ctx context.Context, doc *pulse.Document[pulse.Attributes]) (*pulse.Document[pulse.Attributes], error) {
	return getDocument[pulse.Attributes](ctx, r.base, http.MethodPost, r.path, doc, nil)
}

// Update patches a resource.
func (r resource) Update(ctx context.Context, id string, doc *pulse.Document[pulse.Attributes]) (*pulse.Document[pulse.Attributes], error) {
	if id == "" {
		return nil, fmt.Errorf("%w: %s id", pulse.ErrMissingParameter, r.noun)
	}

	if doc != nil && doc.Data.ID == "" {
		doc.Data.ID = id
	}

	return getDocument[pulse.Attributes](ctx, r.base, http.MethodPatch, r.memberPath(id), doc, nil)
}

// Delete deletes a resource.
func (r resource) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: %s id", pulse.ErrMissingParameter, r.noun)
	}

	_, err := r.base.Request(ctx, http.MethodDelete, r.memberPath(id), nil, nil)

	return err
}

// getDocument performs a call returning a single-resource document.
func getDocument[A any](ctx context.Context, base *Base, method, path string, body interface{}, params pulse.QueryParams) (*pulse.Document[A], error) {
	var doc pulse.Document[A]

	err := base.RequestJSON(ctx, method, path, body, params, &doc)
	if err != nil {
		return nil, err
	}

	return &doc, nil
}

// listDocument performs a call returning a collection document.
func listDocument[A any](ctx context.Context, base *Base, path string, params pulse.QueryParams) (*pulse.ListDocument[A], error) {
	var doc pulse.ListDocument[A]

	err := base.RequestJSON(ctx, http.MethodGet, path, nil, params, &doc)
	if err != nil {
		return nil, err
	}

	if doc.Data == nil {
		doc.Data = []pulse.Resource[A]{}
	}

	return &doc, nil
}

// listAll walks the collection page by page. It follows the page number of
// links.next when the server sends pagination links and otherwise keeps going
// while full pages come back.
func listAll[A any](ctx context.Context, base *Base, path string, params pulse.QueryParams) ([]pulse.Resource[A], error) {
	page, size := pageWindow(params)

	var all []pulse.Resource[A]

	for range constants.MaxListAllPages {
		query := params.Clone().WithPage(page, size)

		doc, err := listDocument[A](ctx, base, path, query)
		if err != nil {
			return nil, fmt.Errorf("listing page %d: %w", page, err)
		}

		all = append(all, doc.Data...)

		if len(doc.Links) > 0 {
			next, ok := nextPageNumber(doc.NextLink())
			if !ok || next <= page {
				break
			}

			page = next

			continue
		}

		if len(doc.Data) < size {
			break
		}

		page++
	}

	if all == nil {
		all = []pulse.Resource[A]{}
	}

	return all, nil
}

func pageWindow(params pulse.QueryParams) (int, int) {
	page, size := 1, constants.DefaultPageSize

	if value, ok := params[pulse.PageNumberParam]; ok && len(value.Values) > 0 {
		if n, err := strconv.Atoi(value.Values[0]); err == nil && n > 0 {
			page = n
		}
	}

	if value, ok := params[pulse.PageSizeParam]; ok && len(value.Values) > 0 {
		if n, err := strconv.Atoi(value.Values[0]); err == nil && n > 0 {
			size = n
		}
	}

	return page, size
}

func nextPageNumber(link string) (int, bool) {
	if link == "" {
		return 0, false
	}

	parsed, err := url.Parse(link)
	if err != nil {
		return 0, false
	}

	n, err := strconv.Atoi(parsed.Query().Get(pulse.PageNumberParam))
	if err != nil {
		return 0, false
	}

	return n, true
}
