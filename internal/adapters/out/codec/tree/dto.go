package tree

import (
	"encoding/xml"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/snapshot"

	"github.com/shopspring/decimal"
)

type documentXML struct {
	XMLName    xml.Name       `xml:"marketplace"`
	Accounts   []accountXML   `xml:"accounts>account"`
	Merchants  []merchantXML  `xml:"merchants>merchant"`
	Orders     []orderXML     `xml:"orders>order"`
	Allocators *allocatorsXML `xml:"allocators"`
}

type allocatorsXML struct {
	Account  int64 `xml:"account,omitempty"`
	Merchant int64 `xml:"merchant,omitempty"`
	Order    int64 `xml:"order,omitempty"`
}

type accountXML struct {
	ID      int64           `xml:"id"`
	Name    string          `xml:"name"`
	Email   string          `xml:"email,omitempty"`
	Phone   string          `xml:"phone,omitempty"`
	Balance decimal.Decimal `xml:"balance"`
	// History is nil when the element is missing.
	History *historyXML `xml:"history"`
}

type historyXML struct {
	Orders []int64 `xml:"order"`
}

type merchantXML struct {
	ID      int64     `xml:"id"`
	Name    string    `xml:"name"`
	Address string    `xml:"address,omitempty"`
	Phone   string    `xml:"phone,omitempty"`
	Open    *bool     `xml:"open"`
	Catalog []itemXML `xml:"catalog>item"`
}

type itemXML struct {
	Name        string          `xml:"name"`
	Price       decimal.Decimal `xml:"price"`
	Description string          `xml:"description,omitempty"`
	Category    string          `xml:"category,omitempty"`
}

type orderXML struct {
	ID          int64           `xml:"id"`
	AccountID   int64           `xml:"accountId"`
	MerchantID  int64           `xml:"merchantId"`
	Items       []lineXML       `xml:"items>item"`
	Total       decimal.Decimal `xml:"total"`
	Status      string          `xml:"status,omitempty"`
	CreatedAt   time.Time       `xml:"createdAt"`
	CompletedAt *time.Time      `xml:"completedAt"`
}

type lineXML struct {
	Name     string `xml:"name"`
	Quantity int    `xml:"quantity"`
}

func fromSnapshot(s snapshot.Snapshot) documentXML {
	doc := documentXML{
		Accounts:  make([]accountXML, 0, len(s.Accounts)),
		Merchants: make([]merchantXML, 0, len(s.Merchants)),
		Orders:    make([]orderXML, 0, len(s.Orders)),
		Allocators: &allocatorsXML{
			Account:  int64(s.Allocators.Account),
			Merchant: int64(s.Allocators.Merchant),
			Order:    int64(s.Allocators.Order),
		},
	}

	for _, a := range s.Accounts {
		history := &historyXML{Orders: make([]int64, 0, len(a.History))}
		for _, id := range a.History {
			history.Orders = append(history.Orders, int64(id))
		}
		doc.Accounts = append(doc.Accounts, accountXML{
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
		el := merchantXML{
			ID:      int64(m.ID),
			Name:    m.Name,
			Address: m.Address,
			Phone:   m.Phone,
			Open:    &open,
		}
		for _, it := range m.Catalog {
			el.Catalog = append(el.Catalog, itemXML(it))
		}
		doc.Merchants = append(doc.Merchants, el)
	}

	for _, o := range s.Orders {
		el := orderXML{
			ID:          int64(o.ID),
			AccountID:   int64(o.AccountID),
			MerchantID:  int64(o.MerchantID),
			Total:       o.Total,
			Status:      o.Status.Code(),
			CreatedAt:   o.CreatedAt,
			CompletedAt: o.CompletedAt,
		}
		for _, l := range o.Lines {
			el.Items = append(el.Items, lineXML(l))
		}
		doc.Orders = append(doc.Orders, el)
	}

	return doc
}

func (doc documentXML) toSnapshot() (snapshot.Snapshot, error) {
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
			history = make([]kernel.ID, 0, len(a.History.Orders))
			for _, id := range a.History.Orders {
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
