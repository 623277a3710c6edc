package schemeitem

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/medscheme/medscheme/internal/domain/catalog"
)

// fallbackContentTypes mirrors the seeded registry. Used only when the
// live lookup fails; identifiers here must stay in sync with the
// migration seed.
var fallbackContentTypes = map[string]int{
	catalog.ModelBenefit:  11,
	catalog.ModelPlan:     12,
	catalog.ModelHospital: 13,
	catalog.ModelService:  14,
	catalog.ModelLabTest:  15,
	catalog.ModelMedicine: 16,
}

// ContentTypeLister is the slice of the catalog repository the resolver
// needs.
type ContentTypeLister interface {
	ListContentTypes(ctx context.Context) ([]*catalog.ContentType, error)
}

// ContentTypeResolver maps semantic model names to the numeric identifiers
// stored on assignment rows, and back. The registry is fetched once and
// cached until a catalog mutation invalidates it; a hardcoded fallback
// covers registry lookup failure, with a warning logged so the gap is
// visible.
type ContentTypeResolver struct {
	catalog ContentTypeLister

	mu      sync.Mutex
	byModel map[string]int
	byID    map[int]string
}

func NewContentTypeResolver(cat ContentTypeLister) *ContentTypeResolver {
	return &ContentTypeResolver{catalog: cat}
}

// Invalidate drops the cached registry so the next lookup re-fetches it.
// Wired to catalog mutation events.
func (r *ContentTypeResolver) Invalidate() {
	r.mu.Lock()
	r.byModel = nil
	r.byID = nil
	r.mu.Unlock()
}

func (r *ContentTypeResolver) load(ctx context.Context) {
	if r.byModel != nil {
		return
	}
	byModel := make(map[string]int)
	byID := make(map[int]string)

	cts, err := r.catalog.ListContentTypes(ctx)
	if err != nil || len(cts) == 0 {
		log.Warn().Err(err).Msg("content-type registry lookup failed, using fallback table")
		for model, id := range fallbackContentTypes {
			byModel[model] = id
			byID[id] = model
		}
	} else {
		for _, ct := range cts {
			byModel[ct.Model] = ct.ID
			byID[ct.ID] = ct.Model
		}
	}
	r.byModel = byModel
	r.byID = byID
}

// IDForModel resolves a semantic model name to its numeric identifier.
func (r *ContentTypeResolver) IDForModel(ctx context.Context, model string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.load(ctx)
	id, ok := r.byModel[model]
	if !ok {
		return 0, fmt.Errorf("unknown content type %q", model)
	}
	return id, nil
}

// ModelForID is the reverse mapping.
func (r *ContentTypeResolver) ModelForID(ctx context.Context, id int) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.load(ctx)
	model, ok := r.byID[id]
	if !ok {
		return "", fmt.Errorf("unknown content type id %d", id)
	}
	return model, nil
}
