package migrations

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Run applies the order processing schema.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&productRecord{},
		&orderRecord{},
	)
}

// Product schema mirrors the orders Postgres adapter.
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

type orderRecord struct {
	ID        int64           `gorm:"primaryKey;column:id"`
	CreatedAt time.Time       `gorm:"column:created_at"`
	Products  []productRecord `gorm:"many2many:order_items;joinForeignKey:OrderID;joinReferences:ProductID"`
}

func (orderRecord) TableName() string { return "orders" }

// Seed loads a small demo catalog and one order per product type, relative to now.
// Existing rows are left untouched.
func Seed(ctx context.Context, db *gorm.DB, now time.Time) error {
	if db == nil {
		return nil
	}
	day := 24 * time.Hour
	at := func(d time.Duration) *time.Time {
		t := now.Add(d).UTC()
		return &t
	}
	products := []productRecord{
		{ID: 1, Name: "USB Cable", Type: "NORMAL", Available: 30, LeadTime: 15},
		{ID: 2, Name: "USB Dongle", Type: "NORMAL", Available: 0, LeadTime: 10},
		{ID: 3, Name: "Butter", Type: "EXPIRABLE", Available: 30, LeadTime: 15, ExpiryDate: at(26 * day)},
		{ID: 4, Name: "Milk", Type: "EXPIRABLE", Available: 30, LeadTime: 15, ExpiryDate: at(-2 * day)},
		{ID: 5, Name: "Watermelon", Type: "SEASONAL", Available: 30, LeadTime: 15, SeasonStartDate: at(-2 * day), SeasonEndDate: at(58 * day)},
		{ID: 6, Name: "Grapes", Type: "SEASONAL", Available: 30, LeadTime: 15, SeasonStartDate: at(180 * day), SeasonEndDate: at(240 * day)},
	}
	orders := []orderRecord{
		{ID: 1, Products: []productRecord{{ID: 1}, {ID: 2}}},
		{ID: 2, Products: []productRecord{{ID: 3}, {ID: 4}}},
		{ID: 3, Products: []productRecord{{ID: 5}, {ID: 6}}},
	}
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&products).Error; err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Omit("Products.*").Create(&orders).Error
	})
}
