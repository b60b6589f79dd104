package menu

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/user941211/delivery-sub004/pkg/db/models"
)

// Repository loads menu snapshots from the catalog tables.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a repository to the provided DB handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the supplied transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Snapshot loads every menu entry of the restaurant with its option groups.
func (r *Repository) Snapshot(ctx context.Context, restaurantID uuid.UUID) (*Snapshot, error) {
	var rows []models.MenuItem
	err := r.db.WithContext(ctx).
		Preload("OptionGroups", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, name ASC")
		}).
		Preload("OptionGroups.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, name ASC")
		}).
		Where("restaurant_id = ?", restaurantID).
		Order("position ASC, name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return snapshotFromModels(restaurantID, rows), nil
}

func snapshotFromModels(restaurantID uuid.UUID, rows []models.MenuItem) *Snapshot {
	snap := &Snapshot{
		RestaurantID: restaurantID,
		Items:        make(map[uuid.UUID]Item, len(rows)),
	}
	for _, row := range rows {
		item := Item{
			ID:          row.ID,
			Name:        row.Name,
			Description: row.Description,
			Price:       row.Price,
			ImageURL:    row.ImageURL,
			IsAvailable: row.IsAvailable,
			Stock:       row.Stock,
			Groups:      make([]OptionGroup, 0, len(row.OptionGroups)),
		}
		for _, g := range row.OptionGroups {
			group := OptionGroup{
				ID:        g.ID,
				Name:      g.Name,
				Required:  g.Required,
				MinSelect: g.MinSelect,
				MaxSelect: g.MaxSelect,
				Options:   make([]Option, 0, len(g.Options)),
			}
			for _, o := range g.Options {
				group.Options = append(group.Options, Option{
					ID:              o.ID,
					Name:            o.Name,
					AdditionalPrice: o.AdditionalPrice,
					IsAvailable:     o.IsAvailable,
					Stock:           o.Stock,
				})
			}
			item.Groups = append(item.Groups, group)
		}
		snap.Items[row.ID] = item
	}
	return snap
}
