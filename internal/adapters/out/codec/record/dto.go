package record

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/snapshot"

	"github.com/shopspring/decimal"
)

type documentDTO struct {
	Accounts   []accountDTO   `json:"accounts"`
	Merchants  []merchantDTO  `json:"merchants"`
	Orders     []orderDTO     `json:"orders"`
	Allocators *allocatorsDTO `json:"allocators,omitempty"`
}

type allocatorsDTO struct {
	Account  int64 `json:"account,omitempty"`
	Merchant int64 `json:"merchant,omitempty"`
	Order    int64 `json:"order,omitempty"`
}

type accountDTO struct {
	ID      int64           `json:"id"`
	Name    string          `json:"name"`
	Email   string          `json:"email,omitempty"`
	Phone   string          `json:"phone,omitempty"`
	Balance decimal.Decimal `json:"balance"`
	// A missing history decodes to nil, an empty one to a non-nil slice.
	History []int64 `json:"history"`
}

type merchantDTO struct {
	ID      int64     `json:"id"`
	Name    string    `json:"name"`
	Address string    `json:"address,omitempty"`
	Phone   string    `json:"phone,omitempty"`
	Open    *bool     `json:"open,omitempty"`
	Catalog []itemDTO `json:"catalog"`
}

type itemDTO struct {
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category,omitempty"`
}

type orderDTO struct {
	ID          int64           `json:"id"`
	AccountID   int64           `json:"accountId"`
	MerchantID  int64           `json:"merchantId"`
	Items       []lineDTO       `json:"items"`
	Total       decimal.Decimal `json:"total"`
	Status      string          `json:"status,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	CompletedAt *time.Time      `json:"completedAt,omitempty"`
}

type lineDTO struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

func fromSnapshot(s snapshot.Snapshot) documentDTO {
	doc := documentDTO{
		Accounts:  make([]accountDTO, 0, len(s.Accounts)),
		Merchants: make([]merchantDTO, 0, len(s.Merchants)),
		Orders:    make([]orderDTO, 0, len(s.Orders)),
		Allocators: &allocatorsDTO{
			Account:  int64(s.Allocators.Account),
			Merchant: int64(s.Allocators.Merchant),
			Order:    int64(s.Allocators.Order),
		},
	}

	for _, a := range s.Accounts {
		history := make([]int64, 0, len(a.History))
		for _, id := range a.History {
			history = append(history, int64(id))
		}
		doc.Accounts = append(doc.Accounts, accountDTO{
			ID:      int64(a.ID),
			Name:    a.Name,
			Email:   a.Email,
			Phone:   a.Phone,
			Balance: a.Balance,
			History: history,
		})
	}

	for _, m := range s.Merchants {
		open := m.Open
		dto := merchantDTO{
			ID:      int64(m.ID),
			Name:    m.Name,
			Address: m.Address,
			Phone:   m.Phone,
			Open:    &open,
			Catalog: make([]itemDTO, 0, len(m.Catalog)),
		}
		for _, it := range m.Catalog {
			dto.Catalog = append(dto.Catalog, itemDTO(it))
		}
		doc.Merchants = append(doc.Merchants, dto)
	}

	for _, o := range s.Orders {
		dto := orderDTO{
			ID:          int64(o.ID),
			AccountID:   int64(o.AccountID),
			MerchantID:  int64(o.MerchantID),
			Items:       make([]lineDTO, 0, len(o.Lines)),
			Total:       o.Total,
			Status:      o.Status.Code(),
			CreatedAt:   o.CreatedAt,
			CompletedAt: o.CompletedAt,
		}
		for _, l := range o.Lines {
			dto.Items = append(dto.Items, lineDTO(l))
		}
		doc.Orders = append(doc.Orders, dto)
	}

	return doc
}

func (doc documentDTO) toSnapshot() (snapshot.Snapshot, error) {
	s := snapshot.Snapshot{
		Accounts:  make([]snapshot.Account, 0, len(doc.Accounts)),
		Merchants: make([]snapshot.Merchant, 0, len(doc.Merchants)),
		Orders:    make([]snapshot.Order, 0, len(doc.Orders)),
	}
	if doc.Allocators != nil {
		s.Allocators = snapshot.Allocators{
			Account:  kernel.ID(doc.Allocators.Account),
			Merchant: kernel.ID(doc.Allocators.Merchant),
			Order:    kernel.ID(doc.Allocators.Order),
		}
	}

	for _, a := range doc.Accounts {
		var history []kernel.ID
		if a.History != nil {
			history = make([]kernel.ID, 0, len(a.History))
			for _, id := range a.History {
				history = append(history, kernel.ID(id))
			}
		}
		s.Accounts = append(s.Accounts, snapshot.Account{
			ID:      kernel.ID(a.ID),
			Name:    a.Name,
			Email:   a.Email,
			Phone:   a.Phone,
			Balance: a.Balance,
			History: history,
		})
	}

	for _, m := range doc.Merchants {
		merchant := snapshot.Merchant{
			ID:      kernel.ID(m.ID),
			Name:    m.Name,
			Address: m.Address,
			Phone:   m.Phone,
			Open:    m.Open == nil || *m.Open,
			Catalog: make([]snapshot.Item, 0, len(m.Catalog)),
		}
		for _, it := range m.Catalog {
			merchant.Catalog = append(merchant.Catalog, snapshot.Item(it))
		}
		s.Merchants = append(s.Merchants, merchant)
	}

	for _, o := range doc.Orders {
		status := order.Created
		if o.Status != "" {
			parsed, err := order.ParseStatus(o.Status)
			if err != nil {
				return snapshot.Snapshot{}, err
			}
			status = parsed
		}

		restored := snapshot.Order{
			ID:          kernel.ID(o.ID),
			AccountID:   kernel.ID(o.AccountID),
			MerchantID:  kernel.ID(o.MerchantID),
			Lines:       make([]snapshot.Line, 0, len(o.Items)),
			Total:       o.Total,
			Status:      status,
			CreatedAt:   o.CreatedAt,
			CompletedAt: o.CompletedAt,
		}
		for _, l := range o.Items {
			restored.Lines = append(restored.Lines, snapshot.Line(l))
		}
		s.Orders = append(s.Orders, restored)
	}

	return s, nil
}
