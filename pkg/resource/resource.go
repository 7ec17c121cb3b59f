// Package resource shapes models into API representations before they leave
// the service. A Transformer decides which fields are exposed.
package resource

import (
	"net/http"

	"github.com/dlatelier/storefront/pkg/orm"
	"github.com/dlatelier/storefront/pkg/response"
)

// Transformer converts a model into its public representation.
type Transformer interface {
	ToArray() map[string]interface{}
}

// Resource wraps a transformed payload for responding. Single resources
// render under "item", collections under "items".
type Resource struct {
	key  string
	data interface{}
	meta *orm.Pagination
}

// New wraps a single transformer.
func New(t Transformer) *Resource {
	return &Resource{key: "item", data: t.ToArray()}
}

// CollectionOf transforms a slice of transformers.
func CollectionOf[T Transformer](items []T) *Resource {
	out := make([]map[string]interface{}, len(items))
	for i, item := range items {
		out[i] = item.ToArray()
	}
	return &Resource{key: "items", data: out}
}

// WithPagination attaches pagination metadata to a collection.
func (r *Resource) WithPagination(p orm.Pagination) *Resource {
	r.meta = &p
	return r
}

// Respond writes the resource as a success envelope.
func (r *Resource) Respond(w http.ResponseWriter) {
	body := map[string]interface{}{r.key: r.data}
	if r.meta != nil {
		body["pagination"] = r.meta
	}
	response.Success(w, body)
}
