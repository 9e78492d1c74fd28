package operations

import (
	"context"

	"github.com/fivetwenty-io/pulse/pkg/pulse"
)

// crudClient is a resource client with the standard endpoint set.
type crudClient interface {
	pulse.ResourceClient
	pulse.CRUDClient
}

// entity names the operations and parameters of a CRUD resource.
type entity struct {
	// name is the operation suffix, e.g. "Talent" for getTalentList.
	name string
	// idParam is the parameter holding the resource id, e.g. "talentId".
	idParam string
	// jsonType is the JSON:API type of outgoing documents.
	jsonType string
}

// crudOperations builds create<X>, get<X>, get<X>List, update<X> and
// delete<X> for a CRUD resource.
func crudOperations[C crudClient](e entity) map[string]Operation {
	return map[string]Operation{
		"create" + e.name: bind(func(ctx context.Context, params Parameters, itemIndex int, client C) (interface{}, error) {
			doc, err := document(params, itemIndex, e.jsonType, "")
			if err != nil {
				return nil, err
			}

			return client.Create(ctx, doc)
		}),
		"get" + e.name: bind(func(ctx context.Context, params Parameters, itemIndex int, client C) (interface{}, error) {
			id, err := requiredString(params, e.idParam, itemIndex)
			if err != nil {
				return nil, err
			}

			query, err := queryParam(params, itemIndex)
			if err != nil {
				return nil, err
			}

			return client.Get(ctx, id, query)
		}),
		"get" + e.name + "List": bind(func(ctx context.Context, params Parameters, itemIndex int, client C) (interface{}, error) {
			return list(ctx, params, itemIndex, client.List, client.ListAll)
		}),
		"update" + e.name: bind(func(ctx context.Context, params Parameters, itemIndex int, client C) (interface{}, error) {
			id, err := requiredString(params, e.idParam, itemIndex)
			if err != nil {
				return nil, err
			}

			doc, err := document(params, itemIndex, e.jsonType, id)
			if err != nil {
				return nil, err
			}

			if len(doc.Data.Attributes) == 0 && len(doc.Data.Relationships) == 0 {
				return nil, pulse.ErrNoFieldsToUpdate
			}

			return client.Update(ctx, id, doc)
		}),
		"delete" + e.name: bind(func(ctx context.Context, params Parameters, itemIndex int, client C) (interface{}, error) {
			id, err := requiredString(params, e.idParam, itemIndex)
			if err != nil {
				return nil, err
			}

			err = client.Delete(ctx, id)
			if err != nil {
				return nil, err
			}

			return true, nil
		}),
	}
}

type listFunc func(ctx context.Context, params pulse.QueryParams) (*pulse.ListDocument[pulse.Attributes], error)

type listAllFunc func(ctx context.Context, params pulse.QueryParams) ([]pulse.Resource[pulse.Attributes], error)

// list serves a list operation. With returnAll every page is collected;
// otherwise a positive "limit" caps the page size unless the additional
// fields already paginate.
func list(ctx context.Context, params Parameters, itemIndex int, one listFunc, all listAllFunc) (interface{}, error) {
	query, err := queryParam(params, itemIndex)
	if err != nil {
		return nil, err
	}

	returnAll, err := boolParam(params, "returnAll", itemIndex)
	if err != nil {
		return nil, err
	}

	if returnAll && all != nil {
		return all(ctx, query)
	}

	limit, err := intParam(params, "limit", itemIndex, 0)
	if err != nil {
		return nil, err
	}

	if _, paginated := query[pulse.PageSizeParam]; limit > 0 && !paginated {
		query.WithPage(1, limit)
	}

	return one(ctx, query)
}

// merge combines operation tables.
func merge(tables ...map[string]Operation) map[string]Operation {
	out := map[string]Operation{}

	for _, table := range tables {
		for name, op := range table {
			out[name] = op
		}
	}

	return out
}
