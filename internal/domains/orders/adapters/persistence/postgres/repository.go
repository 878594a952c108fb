package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Apurer/go-gin-order-processor/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-order-processor/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository reads orders and writes product stock in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a GORM-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&productRecord{}, &orderRecord{})
	}
	return repo
}

// productRecord maps a catalog product to the products table.
type productRecord struct {
	ID              int64      `gorm:"primaryKey;column:id"`
	Name            string     `gorm:"column:name"`
	Type            string     `gorm:"column:type;type:varchar(32);index"`
	Available       int        `gorm:"column:available"`
	LeadTime        int        `gorm:"column:lead_time"`
	ExpiryDate      *time.Time `gorm:"column:expiry_date"`
	SeasonStartDate *time.Time `gorm:"column:season_start_date"`
	SeasonEndDate   *time.Time `gorm:"column:season_end_date"`
}

func (productRecord) TableName() string { return "products" }

// orderRecord links an order to its products through the order_items join table.
type orderRecord struct {
	ID        int64           `gorm:"primaryKey;column:id"`
	CreatedAt time.Time       `gorm:"column:created_at"`
	Products  []productRecord `gorm:"many2many:order_items;joinForeignKey:OrderID;joinReferences:ProductID"`
}

func (orderRecord) TableName() string { return "orders" }

// FindOrderWithProducts loads the order and its products in one preloaded query pair.
func (r *Repository) FindOrderWithProducts(ctx context.Context, orderID int64) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	err := r.db.WithContext(ctx).
		Preload("Products", func(db *gorm.DB) *gorm.DB { return db.Order("products.id") }).
		First(&record, "id = ?", orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrOrderNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) FindProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record productRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrProductNotFound
		}
		return nil, err
	}
	product := record.toDomain()
	return &product, nil
}

// UpdateProduct writes every column of the row, zero values included. It never inserts.
func (r *Repository) UpdateProduct(ctx context.Context, product *domain.Product) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if product == nil {
		return errors.New("product is nil")
	}
	record := toProductRecord(product)
	result := r.db.WithContext(ctx).
		Model(&productRecord{}).
		Where("id = ?", record.ID).
		Select("*").
		Updates(&record)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrProductNotFound
	}
	return nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toProductRecord(p *domain.Product) productRecord {
	return productRecord{
		ID:              p.ID,
		Name:            p.Name,
		Type:            string(p.Type),
		Available:       p.Available,
		LeadTime:        p.LeadTime,
		ExpiryDate:      p.ExpiryDate,
		SeasonStartDate: p.SeasonStartDate,
		SeasonEndDate:   p.SeasonEndDate,
	}
}

func (r productRecord) toDomain() domain.Product {
	return domain.Product{
		ID:              r.ID,
		Name:            r.Name,
		Type:            domain.ProductType(r.Type),
		Available:       r.Available,
		LeadTime:        r.LeadTime,
		ExpiryDate:      r.ExpiryDate,
		SeasonStartDate: r.SeasonStartDate,
		SeasonEndDate:   r.SeasonEndDate,
	}
}

func (r orderRecord) toDomain() *domain.Order {
	order := &domain.Order{ID: r.ID, Products: make([]domain.Product, 0, len(r.Products))}
	for _, p := range r.Products {
		order.Products = append(order.Products, p.toDomain())
	}
	return order
}
