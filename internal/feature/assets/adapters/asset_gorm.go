// Package adapters provides the gorm-backed store for assets.
package adapters

import (
	"context"
	"errors"
	"maps"
	"slices"
	"strings"
	"time"

	"portfolio_backend/internal/feature/assets/domain"
	"portfolio_backend/internal/feature/assets/domain/entity"
	"portfolio_backend/internal/feature/assets/usecase"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type assetGorm struct {
	db *gorm.DB
}

var _ usecase.AssetRepository = (*assetGorm)(nil)

func NewAssetRepository(db *gorm.DB) *assetGorm {
	return &assetGorm{db: db}
}

type AssetModel struct {
	ID            string              `gorm:"primaryKey;size:36"`
	AssetClass    string              `gorm:"size:16;not null;index"`
	Symbol        string              `gorm:"size:20;not null;index"`
	DisplayName   string              `gorm:"size:100;not null"`
	Quantity      decimal.Decimal     `gorm:"type:numeric(15,4);not null"`
	PurchasePrice decimal.Decimal     `gorm:"type:numeric(15,2);not null"`
	CurrentPrice  decimal.NullDecimal `gorm:"type:numeric(15,2)"`
	PurchaseDate  time.Time           `gorm:"type:date;not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (AssetModel) TableName() string {
	return "assets"
}

// upsertColumns は競合時に上書きする列です。id と created_at は保持します。
var upsertColumns = []string{
	"asset_class", "symbol", "display_name", "quantity",
	"purchase_price", "current_price", "purchase_date", "updated_at",
}

func toModel(e *entity.Asset) AssetModel {
	return AssetModel{
		ID:            e.ID,
		AssetClass:    string(e.Class),
		Symbol:        e.Symbol,
		DisplayName:   e.DisplayName,
		Quantity:      e.Quantity,
		PurchasePrice: e.PurchasePrice,
		CurrentPrice:  e.CurrentPrice,
		PurchaseDate:  e.PurchaseDate,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

func toEntity(m AssetModel) entity.Asset {
	return entity.Asset{
		ID:            m.ID,
		Class:         entity.AssetClass(m.AssetClass),
		Symbol:        m.Symbol,
		DisplayName:   m.DisplayName,
		Quantity:      m.Quantity,
		PurchasePrice: m.PurchasePrice,
		CurrentPrice:  m.CurrentPrice,
		PurchaseDate:  m.PurchaseDate.UTC(),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func toEntities(rows []AssetModel) []entity.Asset {
	out := make([]entity.Asset, 0, len(rows))
	for _, m := range rows {
		out = append(out, toEntity(m))
	}
	return out
}

func (r *assetGorm) find(ctx context.Context, scope func(*gorm.DB) *gorm.DB) ([]entity.Asset, error) {
	var rows []AssetModel
	q := r.db.WithContext(ctx)
	if scope != nil {
		q = scope(q)
	}
	if err := q.Order("created_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toEntities(rows), nil
}

func (r *assetGorm) FindAll(ctx context.Context) ([]entity.Asset, error) {
	return r.find(ctx, nil)
}

func (r *assetGorm) FindByID(ctx context.Context, id string) (*entity.Asset, error) {
	var m AssetModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAssetNotFound
		}
		return nil, err
	}
	e := toEntity(m)
	return &e, nil
}

func (r *assetGorm) FindByClass(ctx context.Context, class entity.AssetClass) ([]entity.Asset, error) {
	return r.find(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("asset_class = ?", string(class))
	})
}

func (r *assetGorm) SearchBySymbol(ctx context.Context, fragment string) ([]entity.Asset, error) {
	return r.find(ctx, containsFold("symbol", fragment))
}

func (r *assetGorm) SearchByName(ctx context.Context, fragment string) ([]entity.Asset, error) {
	return r.find(ctx, containsFold("display_name", fragment))
}

// containsFold は大文字小文字を区別しない部分一致条件を返します。
// column must be a trusted identifier.
func containsFold(column, fragment string) func(*gorm.DB) *gorm.DB {
	pattern := "%" + escapeLike(strings.ToLower(fragment)) + "%"
	return func(q *gorm.DB) *gorm.DB {
		return q.Where("LOWER("+column+") LIKE ? ESCAPE '\\'", pattern)
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (r *assetGorm) Save(ctx context.Context, a *entity.Asset) (*entity.Asset, error) {
	m := toModel(a)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(upsertColumns),
	}).Create(&m).Error
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, m.ID)
}

func (r *assetGorm) SaveAll(ctx context.Context, assets []entity.Asset) error {
	if len(assets) == 0 {
		return nil
	}
	ms := make([]AssetModel, 0, len(assets))
	for i := range assets {
		ms = append(ms, toModel(&assets[i]))
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns(upsertColumns),
		}).Create(&ms).Error
	})
}

// Update は SELECT ... FOR UPDATE で行ロックを取得してから fn を適用します。
// SQLite does not support row locks; its single-writer transactions give the same guarantee.
func (r *assetGorm) Update(ctx context.Context, id string, fn func(a *entity.Asset) error) (*entity.Asset, error) {
	var out entity.Asset
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m AssetModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&m, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrAssetNotFound
			}
			return err
		}

		a := toEntity(m)
		if err := fn(&a); err != nil {
			return err
		}
		// id と作成日時は変更させない
		a.ID = m.ID
		a.CreatedAt = m.CreatedAt

		next := toModel(&a)
		if err := tx.Save(&next).Error; err != nil {
			return err
		}
		out = toEntity(next)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCurrentPrices writes only current_price, so concurrent edits of other fields survive.
// Ids that no longer exist are ignored. Rows are visited in id order to keep lock order stable.
func (r *assetGorm) UpdateCurrentPrices(ctx context.Context, prices map[string]decimal.Decimal) error {
	if len(prices) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, id := range slices.Sorted(maps.Keys(prices)) {
			p := decimal.NewNullDecimal(prices[id].Round(entity.PriceScale))
			if err := tx.Model(&AssetModel{}).Where("id = ?", id).Update("current_price", p).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *assetGorm) ExistsByID(ctx context.Context, id string) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&AssetModel{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *assetGorm) DeleteByID(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&AssetModel{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrAssetNotFound
	}
	return nil
}

func (r *assetGorm) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&AssetModel{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
