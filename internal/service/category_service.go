package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/itsm-service/internal/domain"
	"github.com/spec-kit/itsm-service/internal/events"
	"github.com/spec-kit/itsm-service/internal/repository"
	"github.com/spec-kit/itsm-service/pkg/util"
)

// CategoryService owns the category tree of each tenant.
type CategoryService struct {
	categories repository.CategoryRepository
	tickets    repository.TicketRepository
	cache      *redis.Client
	cacheTTL   time.Duration
	dispatcher events.Dispatcher
}

// CategoryDependencies bundles construction inputs.
type CategoryDependencies struct {
	CategoryRepo repository.CategoryRepository
	TicketRepo   repository.TicketRepository
	Cache        *redis.Client
	CacheTTL     time.Duration
	Dispatcher   events.Dispatcher
}

// CategoryCreateInput describes category creation payload.
type CategoryCreateInput struct {
	Name        string
	Description *string
	ParentID    *string
}

// CategoryPatch describes a partial category update.
type CategoryPatch struct {
	Name        util.Optional[string]
	Description util.Optional[string]
	ParentID    util.Optional[string]
}

// NewCategoryService constructs the service.
func NewCategoryService(deps CategoryDependencies) *CategoryService {
	ttl := deps.CacheTTL
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &CategoryService{
		categories: deps.CategoryRepo,
		tickets:    deps.TicketRepo,
		cache:      deps.Cache,
		cacheTTL:   ttl,
		dispatcher: deps.Dispatcher,
	}
}

// List returns the tenant's categories, oldest first, with per-node ticket counts.
func (s *CategoryService) List(ctx context.Context, tenantID string) ([]domain.Category, error) {
	return s.categories.ListByTenant(ctx, tenantID)
}

// Tree returns the tenant's categories linked into a forest.
func (s *CategoryService) Tree(ctx context.Context, tenantID string) ([]*domain.CategoryNode, error) {
	categories, err := s.categories.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return domain.BuildTree(categories), nil
}

// Options returns the flattened, breadcrumb-labeled pick-list for the tenant.
// Results are cached per tenant; cache failures fall back to the database.
func (s *CategoryService) Options(ctx context.Context, tenantID string) ([]domain.CategoryOption, error) {
	key := optionsCacheKey(tenantID)
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, key).Bytes(); err == nil {
			var cached []domain.CategoryOption
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
		}
	}

	roots, err := s.Tree(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	options := domain.FlattenOptions(roots)

	if s.cache != nil {
		if raw, err := json.Marshal(options); err == nil {
			s.cache.Set(ctx, key, raw, s.cacheTTL)
		}
	}
	return options, nil
}

// Get returns one category with its direct ticket count and its tickets,
// newest first.
func (s *CategoryService) Get(ctx context.Context, tenantID, id string) (*domain.Category, []domain.Ticket, error) {
	category, err := s.categories.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, nil, err
	}
	tickets, err := s.tickets.List(ctx, tenantID, repository.TicketFilter{CategoryID: &id})
	if err != nil {
		return nil, nil, err
	}
	for i, j := 0, len(tickets)-1; i < j; i, j = i+1, j-1 {
		tickets[i], tickets[j] = tickets[j], tickets[i]
	}
	return category, tickets, nil
}

// AggregateTicketCount returns the number of tickets directly in the
// category, never including descendants.
func (s *CategoryService) AggregateTicketCount(ctx context.Context, tenantID, categoryID string) (int, error) {
	return s.categories.CountTickets(ctx, tenantID, categoryID)
}

// Create validates and stores a new category.
func (s *CategoryService) Create(ctx context.Context, tenantID string, input CategoryCreateInput) (*domain.Category, error) {
	name := strings.TrimSpace(input.Name)
	if len(name) < 2 {
		return nil, util.NewValidationError("name must be at least 2 characters", nil)
	}
	if input.ParentID != nil {
		if _, err := s.categories.GetByID(ctx, tenantID, *input.ParentID); err != nil {
			if util.IsNotFound(err) {
				return nil, util.NewValidationError("parent category not found", nil)
			}
			return nil, err
		}
	}

	category := &domain.Category{
		Name:        name,
		Description: input.Description,
		ParentID:    input.ParentID,
		TenantID:    tenantID,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	s.invalidateOptions(ctx, tenantID)
	return category, nil
}

// Update applies a partial patch. Reparenting is validated against the
// tenant's tree so a category can never become its own ancestor.
func (s *CategoryService) Update(ctx context.Context, tenantID, id string, patch CategoryPatch) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if patch.Name.Set {
		if patch.Name.Value == nil {
			return nil, util.NewValidationError("name cannot be cleared", nil)
		}
		name := strings.TrimSpace(*patch.Name.Value)
		if len(name) < 2 {
			return nil, util.NewValidationError("name must be at least 2 characters", nil)
		}
		category.Name = name
	}
	if patch.Description.Set {
		category.Description = patch.Description.Value
	}
	if patch.ParentID.Set {
		if patch.ParentID.Value == nil {
			category.ParentID = nil
		} else {
			parentID := *patch.ParentID.Value
			if parentID == id {
				return nil, util.NewValidationError("category cannot be its own parent", nil)
			}
			if _, err := s.categories.GetByID(ctx, tenantID, parentID); err != nil {
				if util.IsNotFound(err) {
					return nil, util.NewValidationError("parent category not found", nil)
				}
				return nil, err
			}
			if err := s.checkCycle(ctx, tenantID, id, parentID); err != nil {
				return nil, err
			}
			category.ParentID = &parentID
		}
	}

	if err := s.categories.Update(ctx, category); err != nil {
		return nil, err
	}
	s.invalidateOptions(ctx, tenantID)
	return category, nil
}

// Delete removes the category. Tickets in the category are removed with it
// and child categories re-root (storage-level cascade).
func (s *CategoryService) Delete(ctx context.Context, tenantID, actorID, id string) error {
	if _, err := s.categories.GetByID(ctx, tenantID, id); err != nil {
		return err
	}
	if err := s.categories.Delete(ctx, tenantID, id); err != nil {
		return err
	}
	s.invalidateOptions(ctx, tenantID)
	s.publish(ctx, events.Event{
		Type:     events.EventCategoryDeleted,
		TenantID: tenantID,
		ActorID:  actorID,
		Payload:  events.CategoryDeletedPayload{CategoryID: id},
	})
	return nil
}

// checkCycle walks ancestor links from newParentID and rejects the patch when
// it reaches categoryID. The visited set guards against pre-existing cycles.
func (s *CategoryService) checkCycle(ctx context.Context, tenantID, categoryID, newParentID string) error {
	categories, err := s.categories.ListByTenant(ctx, tenantID)
	if err != nil {
		return err
	}
	parents := make(map[string]*string, len(categories))
	for _, c := range categories {
		parents[c.ID] = c.ParentID
	}

	visited := make(map[string]bool)
	current := &newParentID
	for current != nil {
		if *current == categoryID {
			return util.NewValidationError("category cannot be its own ancestor", nil)
		}
		if visited[*current] {
			break
		}
		visited[*current] = true
		current = parents[*current]
	}
	return nil
}

func (s *CategoryService) invalidateOptions(ctx context.Context, tenantID string) {
	if s.cache == nil {
		return
	}
	s.cache.Del(ctx, optionsCacheKey(tenantID))
}

func (s *CategoryService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func optionsCacheKey(tenantID string) string {
	return "categories:options:" + tenantID
}
