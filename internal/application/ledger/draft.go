package ledger

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/damon-houk/finance-tracker/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Field names a draft input
type Field string

const (
	FieldType        Field = "type"
	FieldAmount      Field = "amount"
	FieldCategory    Field = "category"
	FieldDescription Field = "description"
	FieldDate        Field = "date"
)

// Draft is the raw, not yet validated input for a transaction
type Draft struct {
	Type        entity.TransactionType
	Amount      string
	Category    string
	Description string
	Date        string
}

// DraftFromTransaction copies every field of tx into a draft
func DraftFromTransaction(tx entity.Transaction) Draft {
	return Draft{
		Type:        tx.Type,
		Amount:      tx.Amount.String(),
		Category:    tx.Category,
		Description: tx.Description,
		Date:        tx.Date.String(),
	}
}

// Validate checks the draft locally. It returns a *ValidationError naming every bad field.
func (d Draft) Validate() error {
	_, err := d.parse()
	return err
}

// Transaction validates the draft and converts it into a transaction carrying id
func (d Draft) Transaction(id string) (*entity.Transaction, error) {
	tx, err := d.parse()
	if err != nil {
		return nil, err
	}
	tx.ID = id
	return tx, nil
}

func (d Draft) parse() (*entity.Transaction, error) {
	verr := &ValidationError{}
	tx := &entity.Transaction{
		Type:        d.Type,
		Category:    d.Category,
		Description: strings.TrimSpace(d.Description),
	}

	if !d.Type.Valid() {
		verr.add(FieldType, "must be income or expense")
	}

	amount := strings.TrimSpace(d.Amount)
	if amount == "" {
		verr.add(FieldAmount, "required")
	} else if v, err := decimal.NewFromString(amount); err != nil {
		verr.add(FieldAmount, "must be a number")
	} else if v.IsNegative() {
		verr.add(FieldAmount, "must not be negative")
	} else {
		tx.Amount = v
	}

	switch {
	case d.Category == "":
		verr.add(FieldCategory, "required")
	case d.Type.Valid() && !entity.IsValidCategory(d.Type, d.Category):
		verr.add(FieldCategory, fmt.Sprintf("not allowed for %s", d.Type))
	}

	if tx.Description == "" {
		verr.add(FieldDescription, "required")
	}

	date := strings.TrimSpace(d.Date)
	if date == "" {
		verr.add(FieldDate, "required")
	} else if parsed, err := entity.ParseDate(date); err != nil {
		verr.add(FieldDate, "must be YYYY-MM-DD")
	} else {
		tx.Date = parsed
	}

	if !verr.empty() {
		return nil, verr
	}
	return tx, nil
}

// DraftForm stages the transaction being composed or edited.
// An empty editing id means the form creates a new transaction.
type DraftForm struct {
	now func() time.Time

	mu        sync.Mutex
	draft     Draft
	editingID string
	open      bool
}

// NewDraftForm creates a closed form; now supplies the default date
func NewDraftForm(now func() time.Time) *DraftForm {
	if now == nil {
		now = time.Now
	}
	f := &DraftForm{now: now}
	f.draft = f.defaults()
	return f
}

func (f *DraftForm) defaults() Draft {
	return Draft{
		Type: entity.TypeIncome,
		Date: entity.NewDate(f.now()).String(),
	}
}

// OpenForCreate resets the form to defaults and opens it in create mode
func (f *DraftForm) OpenForCreate() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.draft = f.defaults()
	f.editingID = ""
	f.open = true
}

// OpenForEdit populates the form from tx and opens it in edit mode
func (f *DraftForm) OpenForEdit(tx entity.Transaction) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.draft = DraftFromTransaction(tx)
	f.editingID = tx.ID
	f.open = true
}

// SetField updates one input. Changing the type clears the category.
func (f *DraftForm) SetField(name Field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch name {
	case FieldType:
		t, err := entity.ParseTransactionType(value)
		if err != nil {
			return err
		}
		if t != f.draft.Type {
			f.draft.Category = ""
		}
		f.draft.Type = t
	case FieldAmount:
		f.draft.Amount = value
	case FieldCategory:
		f.draft.Category = value
	case FieldDescription:
		f.draft.Description = value
	case FieldDate:
		f.draft.Date = value
	default:
		return fmt.Errorf("unknown field %q", name)
	}
	return nil
}

// Reset discards the draft and closes the form
func (f *DraftForm) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.draft = f.defaults()
	f.editingID = ""
	f.open = false
}

// Validate checks the staged draft
func (f *DraftForm) Validate() error {
	return f.Draft().Validate()
}

// Draft returns a copy of the staged draft
func (f *DraftForm) Draft() Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// EditingID returns the id under edit; ok is false in create mode
func (f *DraftForm) EditingID() (id string, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.editingID, f.editingID != ""
}

// IsOpen reports whether a create or edit session is active
func (f *DraftForm) IsOpen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.open
}
