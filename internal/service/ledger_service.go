package service

import (
	"errors"
	"io"
	"time"

	"go-inventory-api/internal/model"
	"go-inventory-api/internal/repository"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type LedgerService interface {
	List(q LedgerQuery) (*LedgerPage, error)
	Get(id uuid.UUID) (*model.InventoryTransaction, error)
	Export(q LedgerQuery, w io.Writer) error
}

// LedgerQuery carries the raw query string values of a ledger read
type LedgerQuery struct {
	TransactionType string
	From            string
	To              string
	ProductID       string
	Page            int
	PageSize        int
}

type LedgerPage struct {
	Count   int64                        `json:"count"`
	Page    int                          `json:"page,omitempty"`
	Results []model.InventoryTransaction `json:"results"`
}

const dateLayout = "2006-01-02"

type ledgerService struct {
	repo repository.TransactionRepository
}

func NewLedgerService(repo repository.TransactionRepository) LedgerService {
	return &ledgerService{repo: repo}
}

func (s *ledgerService) List(q LedgerQuery) (*LedgerPage, error) {
	filter, err := q.filter()
	if err != nil {
		return nil, err
	}
	entries, total, err := s.repo.List(filter, repository.Page{Page: q.Page, Size: q.PageSize})
	if err != nil {
		return nil, err
	}
	page := &LedgerPage{Count: total, Results: entries}
	if q.PageSize > 0 {
		page.Page = max(q.Page, 1)
	}
	return page, nil
}

func (s *ledgerService) Get(id uuid.UUID) (*model.InventoryTransaction, error) {
	entry, err := s.repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTransactionNotFound
	}
	return entry, err
}

var ledgerHeader = []interface{}{"Timestamp", "Product", "SKU", "Type", "Quantity Change", "User", "Reason"}

// Export writes the filtered ledger as an XLSX workbook, ignoring pagination
func (s *ledgerService) Export(q LedgerQuery, w io.Writer) error {
	filter, err := q.filter()
	if err != nil {
		return err
	}
	entries, _, err := s.repo.List(filter, repository.Page{})
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Ledger"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A1", &ledgerHeader); err != nil {
		return err
	}

	for i, e := range entries {
		var productName, sku, username string
		if e.Product != nil {
			productName, sku = e.Product.Name, e.Product.SKU
		}
		if e.User != nil {
			username = e.User.Username
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			e.Timestamp.UTC().Format(time.RFC3339),
			productName,
			sku,
			string(e.TransactionType),
			e.QuantityChange,
			username,
			e.Reason,
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	return f.Write(w)
}

func (q LedgerQuery) filter() (repository.TransactionFilter, error) {
	var filter repository.TransactionFilter

	if q.TransactionType != "" {
		t := model.TransactionType(q.TransactionType)
		if !t.Valid() {
			return filter, &ValidationError{Field: "transaction_type", Message: "select a valid choice"}
		}
		filter.Type = t
	}
	if q.ProductID != "" {
		id, err := uuid.Parse(q.ProductID)
		if err != nil {
			return filter, &ValidationError{Field: "product_id", Message: "must be a valid UUID"}
		}
		filter.ProductID = id
	}
	if q.From != "" {
		from, err := parseBound(q.From, false)
		if err != nil {
			return filter, &ValidationError{Field: "timestamp__gte", Message: "enter a valid date/time"}
		}
		filter.From = &from
	}
	if q.To != "" {
		to, err := parseBound(q.To, true)
		if err != nil {
			return filter, &ValidationError{Field: "timestamp__lte", Message: "enter a valid date/time"}
		}
		filter.To = &to
	}
	return filter, nil
}

// parseBound accepts RFC3339 or a bare date. A bare upper bound covers the
// whole day.
func parseBound(v string, upper bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
		return t.UTC(), nil
	}
	d, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, err
	}
	if upper {
		return d.Add(24*time.Hour - time.Nanosecond), nil
	}
	return d, nil
}
