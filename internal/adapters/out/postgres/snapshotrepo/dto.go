// Package snapshotrepo stores store snapshots in PostgreSQL through GORM.
//
// Every save writes a new snapshots row with one child row per account,
// history entry, merchant, catalog item, order and order line. Child rows
// keep their position so the store's insertion order survives a reload.
package snapshotrepo

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/snapshot"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SnapshotDTO struct {
	ID             uuid.UUID     `gorm:"type:uuid;primaryKey"`
	CreatedAt      time.Time     `gorm:"not null;index"`
	NextAccountID  int64         `gorm:"not null"`
	NextMerchantID int64         `gorm:"not null"`
	NextOrderID    int64         `gorm:"not null"`
	Accounts       []AccountDTO  `gorm:"foreignKey:SnapshotID;constraint:OnDelete:CASCADE"`
	Merchants      []MerchantDTO `gorm:"foreignKey:SnapshotID;constraint:OnDelete:CASCADE"`
	Orders         []OrderDTO    `gorm:"foreignKey:SnapshotID;constraint:OnDelete:CASCADE"`
}

func (SnapshotDTO) TableName() string {
	return "snapshots"
}

type AccountDTO struct {
	ID         uint                `gorm:"primaryKey"`
	SnapshotID uuid.UUID           `gorm:"type:uuid;not null;index"`
	Position   int                 `gorm:"not null"`
	AccountID  int64               `gorm:"not null"`
	Name       string              `gorm:"type:varchar(255);not null"`
	Email      string              `gorm:"type:varchar(255)"`
	Phone      string              `gorm:"type:varchar(64)"`
	Balance    decimal.Decimal     `gorm:"type:numeric;not null"`
	History    []AccountHistoryDTO `gorm:"foreignKey:AccountRowID;constraint:OnDelete:CASCADE"`
}

func (AccountDTO) TableName() string {
	return "accounts"
}

type AccountHistoryDTO struct {
	ID           uint  `gorm:"primaryKey"`
	AccountRowID uint  `gorm:"not null;index"`
	Position     int   `gorm:"not null"`
	OrderID      int64 `gorm:"not null"`
}

func (AccountHistoryDTO) TableName() string {
	return "account_history"
}

type MerchantDTO struct {
	ID         uint             `gorm:"primaryKey"`
	SnapshotID uuid.UUID        `gorm:"type:uuid;not null;index"`
	Position   int              `gorm:"not null"`
	MerchantID int64            `gorm:"not null"`
	Name       string           `gorm:"type:varchar(255);not null"`
	Address    string           `gorm:"type:varchar(255)"`
	Phone      string           `gorm:"type:varchar(64)"`
	Open       bool             `gorm:"not null"`
	Items      []CatalogItemDTO `gorm:"foreignKey:MerchantRowID;constraint:OnDelete:CASCADE"`
}

func (MerchantDTO) TableName() string {
	return "merchants"
}

type CatalogItemDTO struct {
	ID            uint            `gorm:"primaryKey"`
	MerchantRowID uint            `gorm:"not null;index"`
	Position      int             `gorm:"not null"`
	Name          string          `gorm:"type:varchar(255);not null"`
	Price         decimal.Decimal `gorm:"type:numeric;not null"`
	Description   string          `gorm:"type:text"`
	Category      string          `gorm:"type:varchar(255)"`
}

func (CatalogItemDTO) TableName() string {
	return "catalog_items"
}

type OrderDTO struct {
	ID         uint            `gorm:"primaryKey"`
	SnapshotID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position   int             `gorm:"not null"`
	OrderID    int64           `gorm:"not null"`
	AccountID  int64           `gorm:"not null"`
	MerchantID int64           `gorm:"not null"`
	Total      decimal.Decimal `gorm:"type:numeric;not null"`
	Status     string          `gorm:"type:varchar(32);not null"`
	// Order timestamps are domain data, not row bookkeeping.
	CreatedAt   time.Time  `gorm:"autoCreateTime:false;not null"`
	CompletedAt *time.Time
	Lines       []OrderLineDTO `gorm:"foreignKey:OrderRowID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

type OrderLineDTO struct {
	ID         uint   `gorm:"primaryKey"`
	OrderRowID uint   `gorm:"not null;index"`
	Position   int    `gorm:"not null"`
	Name       string `gorm:"type:varchar(255);not null"`
	Quantity   int    `gorm:"not null"`
}

func (OrderLineDTO) TableName() string {
	return "order_lines"
}

// models lists every table in creation order.
func models() []any {
	return []any{
		&SnapshotDTO{},
		&AccountDTO{},
		&AccountHistoryDTO{},
		&MerchantDTO{},
		&CatalogItemDTO{},
		&OrderDTO{},
		&OrderLineDTO{},
	}
}

func fromSnapshot(id uuid.UUID, createdAt time.Time, s snapshot.Snapshot) SnapshotDTO {
	dto := SnapshotDTO{
		ID:             id,
		CreatedAt:      createdAt,
		NextAccountID:  int64(s.Allocators.Account),
		NextMerchantID: int64(s.Allocators.Merchant),
		NextOrderID:    int64(s.Allocators.Order),
	}

	for i, a := range s.Accounts {
		acc := AccountDTO{
			Position:  i,
			AccountID: int64(a.ID),
			Name:      a.Name,
			Email:     a.Email,
			Phone:     a.Phone,
			Balance:   a.Balance,
		}
		for j, orderID := range a.History {
			acc.History = append(acc.History, AccountHistoryDTO{Position: j, OrderID: int64(orderID)})
		}
		dto.Accounts = append(dto.Accounts, acc)
	}

	for i, m := range s.Merchants {
		merchant := MerchantDTO{
			Position:   i,
			MerchantID: int64(m.ID),
			Name:       m.Name,
			Address:    m.Address,
			Phone:      m.Phone,
			Open:       m.Open,
		}
		for j, it := range m.Catalog {
			merchant.Items = append(merchant.Items, CatalogItemDTO{
				Position:    j,
				Name:        it.Name,
				Price:       it.Price,
				Description: it.Description,
				Category:    it.Category,
			})
		}
		dto.Merchants = append(dto.Merchants, merchant)
	}

	for i, o := range s.Orders {
		ord := OrderDTO{
			Position:    i,
			OrderID:     int64(o.ID),
			AccountID:   int64(o.AccountID),
			MerchantID:  int64(o.MerchantID),
			Total:       o.Total,
			Status:      o.Status.Code(),
			CreatedAt:   o.CreatedAt,
			CompletedAt: o.CompletedAt,
		}
		for j, l := range o.Lines {
			ord.Lines = append(ord.Lines, OrderLineDTO{Position: j, Name: l.Name, Quantity: l.Quantity})
		}
		dto.Orders = append(dto.Orders, ord)
	}

	return dto
}

// toSnapshot expects children preloaded in position order.
func toSnapshot(dto SnapshotDTO) (snapshot.Snapshot, error) {
	s := snapshot.Snapshot{
		Accounts:  make([]snapshot.Account, 0, len(dto.Accounts)),
		Merchants: make([]snapshot.Merchant, 0, len(dto.Merchants)),
		Orders:    make([]snapshot.Order, 0, len(dto.Orders)),
		Allocators: snapshot.Allocators{
			Account:  kernel.ID(dto.NextAccountID),
			Merchant: kernel.ID(dto.NextMerchantID),
			Order:    kernel.ID(dto.NextOrderID),
		},
	}

	for _, a := range dto.Accounts {
		history := make([]kernel.ID, 0, len(a.History))
		for _, h := range a.History {
			history = append(history, kernel.ID(h.OrderID))
		}
		s.Accounts = append(s.Accounts, snapshot.Account{
			ID:      kernel.ID(a.AccountID),
			Name:    a.Name,
			Email:   a.Email,
			Phone:   a.Phone,
			Balance: a.Balance,
			History: history,
		})
	}

	for _, m := range dto.Merchants {
		merchant := snapshot.Merchant{
			ID:      kernel.ID(m.MerchantID),
			Name:    m.Name,
			Address: m.Address,
			Phone:   m.Phone,
			Open:    m.Open,
			Catalog: make([]snapshot.Item, 0, len(m.Items)),
		}
		for _, it := range m.Items {
			merchant.Catalog = append(merchant.Catalog, snapshot.Item{
				Name:        it.Name,
				Price:       it.Price,
				Description: it.Description,
				Category:    it.Category,
			})
		}
		s.Merchants = append(s.Merchants, merchant)
	}

	for _, o := range dto.Orders {
		status, err := order.ParseStatus(o.Status)
		if err != nil {
			return snapshot.Snapshot{}, err
		}

		ord := snapshot.Order{
			ID:          kernel.ID(o.OrderID),
			AccountID:   kernel.ID(o.AccountID),
			MerchantID:  kernel.ID(o.MerchantID),
			Lines:       make([]snapshot.Line, 0, len(o.Lines)),
			Total:       o.Total,
			Status:      status,
			CreatedAt:   o.CreatedAt,
			CompletedAt: o.CompletedAt,
		}
		for _, l := range o.Lines {
			ord.Lines = append(ord.Lines, snapshot.Line{Name: l.Name, Quantity: l.Quantity})
		}
		s.Orders = append(s.Orders, ord)
	}

	return s, nil
}
