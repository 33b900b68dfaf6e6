package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/mediaassoc/backend/internal/domain/content"
	"github.com/mediaassoc/backend/internal/domain/shared"
	"github.com/mediaassoc/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// contentTable describes how one content type maps onto its table
type contentTable[T content.Item, M any] struct {
	resource     string
	defaultOrder string
	sortColumns  sortColumns
	searchColumn string
	toDomain     func(*M) T
	fromDomain   func(T) *M
}

// GormContentRepository implements content.Repository for any content type.
// T is the domain pointer type and M the gorm model.
type GormContentRepository[T content.Item, M any] struct {
	db    *gorm.DB
	table contentTable[T, M]
}

// NewGormBlogPostRepository creates the repository for blog posts
func NewGormBlogPostRepository(db *gorm.DB) *GormContentRepository[*content.BlogPost, models.BlogPostModel] {
	return &GormContentRepository[*content.BlogPost, models.BlogPostModel]{db: db, table: contentTable[*content.BlogPost, models.BlogPostModel]{
		resource:     "blog post",
		defaultOrder: "published_at DESC, created_at DESC",
		sortColumns:  contentSortColumns.with("title", "published_at"),
		searchColumn: "title",
		toDomain:     (*models.BlogPostModel).ToDomain,
		fromDomain:   models.BlogPostModelFromDomain,
	}}
}

// NewGormEventRepository creates the repository for events
func NewGormEventRepository(db *gorm.DB) *GormContentRepository[*content.Event, models.EventModel] {
	return &GormContentRepository[*content.Event, models.EventModel]{db: db, table: contentTable[*content.Event, models.EventModel]{
		resource:     "event",
		defaultOrder: "starts_at DESC",
		sortColumns:  contentSortColumns.with("title", "starts_at", "location"),
		searchColumn: "title",
		toDomain:     (*models.EventModel).ToDomain,
		fromDomain:   models.EventModelFromDomain,
	}}
}

// NewGormResourceRepository creates the repository for library resources
func NewGormResourceRepository(db *gorm.DB) *GormContentRepository[*content.Resource, models.ResourceModel] {
	return &GormContentRepository[*content.Resource, models.ResourceModel]{db: db, table: contentTable[*content.Resource, models.ResourceModel]{
		resource:     "resource",
		defaultOrder: "created_at DESC",
		sortColumns:  contentSortColumns.with("title", "category"),
		searchColumn: "title",
		toDomain:     (*models.ResourceModel).ToDomain,
		fromDomain:   models.ResourceModelFromDomain,
	}}
}

// NewGormTeamMemberRepository creates the repository for team profiles
func NewGormTeamMemberRepository(db *gorm.DB) *GormContentRepository[*content.TeamMember, models.TeamMemberModel] {
	return &GormContentRepository[*content.TeamMember, models.TeamMemberModel]{db: db, table: contentTable[*content.TeamMember, models.TeamMemberModel]{
		resource:     "team member",
		defaultOrder: "sort_order ASC, name ASC",
		sortColumns:  contentSortColumns.with("name", "sort_order"),
		searchColumn: "name",
		toDomain:     (*models.TeamMemberModel).ToDomain,
		fromDomain:   models.TeamMemberModelFromDomain,
	}}
}

// Create inserts a new item
func (r *GormContentRepository[T, M]) Create(ctx context.Context, item T) error {
	return translateError(r.db.WithContext(ctx).Create(r.table.fromDomain(item)).Error, r.table.resource)
}

// Update overwrites every column of an existing item
func (r *GormContentRepository[T, M]) Update(ctx context.Context, item T) error {
	result := r.db.WithContext(ctx).
		Model(new(M)).
		Where("id = ?", item.GetID()).
		Select("*").
		Omit("id", "created_at").
		Updates(r.table.fromDomain(item))
	if result.Error != nil {
		return translateError(result.Error, r.table.resource)
	}
	if result.RowsAffected == 0 {
		return shared.NotFound(r.table.resource)
	}
	return nil
}

// Delete removes an item by ID
func (r *GormContentRepository[T, M]) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(new(M))
	if result.Error != nil {
		return translateError(result.Error, r.table.resource)
	}
	if result.RowsAffected == 0 {
		return shared.NotFound(r.table.resource)
	}
	return nil
}

// FindByID finds an item by ID
func (r *GormContentRepository[T, M]) FindByID(ctx context.Context, id uuid.UUID) (T, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindBySlug finds an item by slug
func (r *GormContentRepository[T, M]) FindBySlug(ctx context.Context, slug string) (T, error) {
	return r.findOne(ctx, "slug = ?", slug)
}

// FindAll returns one page of items and the total count
func (r *GormContentRepository[T, M]) FindAll(ctx context.Context, filter shared.Filter, publishedOnly bool) ([]T, int64, error) {
	filter = filter.Normalize()
	query := r.db.WithContext(ctx).Model(new(M))
	if publishedOnly {
		query = query.Where("published = ?", true)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where("LOWER("+r.table.searchColumn+") LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err, r.table.resource)
	}

	order := r.table.defaultOrder
	if !usesDefaultOrder(filter) {
		order = r.table.sortColumns.clause(filter.OrderBy, filter.OrderDir, "created_at")
	}

	var rows []M
	if err := query.
		Order(order).
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, translateError(err, r.table.resource)
	}

	out := make([]T, len(rows))
	for i := range rows {
		out[i] = r.table.toDomain(&rows[i])
	}
	return out, total, nil
}

func (r *GormContentRepository[T, M]) findOne(ctx context.Context, query string, args ...any) (T, error) {
	var zero T
	model := new(M)
	if err := r.db.WithContext(ctx).Where(query, args...).First(model).Error; err != nil {
		return zero, translateError(err, r.table.resource)
	}
	return r.table.toDomain(model), nil
}

var (
	_ content.Repository[*content.BlogPost]   = (*GormContentRepository[*content.BlogPost, models.BlogPostModel])(nil)
	_ content.Repository[*content.Event]      = (*GormContentRepository[*content.Event, models.EventModel])(nil)
	_ content.Repository[*content.Resource]   = (*GormContentRepository[*content.Resource, models.ResourceModel])(nil)
	_ content.Repository[*content.TeamMember] = (*GormContentRepository[*content.TeamMember, models.TeamMemberModel])(nil)
)

// usesDefaultOrder reports whether the caller left ordering unset, either
// blank or as shared.DefaultFilter fills it in
func usesDefaultOrder(filter shared.Filter) bool {
	orderBy := strings.TrimSpace(filter.OrderBy)
	if orderBy == "" {
		return true
	}
	def := shared.DefaultFilter()
	return orderBy == def.OrderBy && strings.EqualFold(strings.TrimSpace(filter.OrderDir), def.OrderDir)
}
