package ledger

import (
	"errors"
	"testing"
	"time"

	"github.com/damon-houk/finance-tracker/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2024, 3, 9, 22, 15, 0, 0, time.UTC)
}

func validDraft() Draft {
	return Draft{
		Type:        entity.TypeIncome,
		Amount:      "5000000",
		Category:    "Salary",
		Description: "January pay",
		Date:        "2024-01-05",
	}
}

func TestOpenForCreateUsesDefaults(t *testing.T) {
	form := NewDraftForm(fixedClock)
	require.NoError(t, form.SetField(FieldDescription, "leftover"))

	form.OpenForCreate()

	assert.True(t, form.IsOpen())
	_, editing := form.EditingID()
	assert.False(t, editing)
	assert.Equal(t, Draft{Type: entity.TypeIncome, Date: "2024-03-09"}, form.Draft())
}

func TestOpenForEditCopiesTransaction(t *testing.T) {
	form := NewDraftForm(fixedClock)
	date, _ := entity.ParseDate("2024-02-01")
	tx := entity.Transaction{
		ID:          "17",
		Type:        entity.TypeExpense,
		Amount:      decimal.NewFromInt(45000),
		Category:    "Food",
		Description: "Groceries",
		Date:        date,
	}

	form.OpenForEdit(tx)

	id, editing := form.EditingID()
	assert.True(t, editing)
	assert.Equal(t, "17", id)
	assert.Equal(t, Draft{
		Type:        entity.TypeExpense,
		Amount:      "45000",
		Category:    "Food",
		Description: "Groceries",
		Date:        "2024-02-01",
	}, form.Draft())
}

func TestSetField(t *testing.T) {
	form := NewDraftForm(fixedClock)
	form.OpenForCreate()

	t.Run("Switching type clears category", func(t *testing.T) {
		require.NoError(t, form.SetField(FieldCategory, "Salary"))
		require.NoError(t, form.SetField(FieldType, "expense"))

		assert.Equal(t, entity.TypeExpense, form.Draft().Type)
		assert.Equal(t, "", form.Draft().Category)
	})

	t.Run("Same type keeps category", func(t *testing.T) {
		require.NoError(t, form.SetField(FieldCategory, "Food"))
		require.NoError(t, form.SetField(FieldType, "expense"))

		assert.Equal(t, "Food", form.Draft().Category)
	})

	t.Run("Unknown type is refused", func(t *testing.T) {
		assert.Error(t, form.SetField(FieldType, "transfer"))
		assert.Equal(t, entity.TypeExpense, form.Draft().Type)
	})

	t.Run("Unknown field is refused", func(t *testing.T) {
		assert.Error(t, form.SetField(Field("colour"), "red"))
	})
}

func TestResetClosesForm(t *testing.T) {
	form := NewDraftForm(fixedClock)
	form.OpenForEdit(entity.Transaction{ID: "1", Type: entity.TypeExpense, Category: "Bills"})

	form.Reset()

	assert.False(t, form.IsOpen())
	_, editing := form.EditingID()
	assert.False(t, editing)
	assert.Equal(t, entity.TypeIncome, form.Draft().Type)
}

func TestValidateRequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *Draft)
		fields []Field
	}{
		{"Amount empty", func(d *Draft) { d.Amount = "" }, []Field{FieldAmount}},
		{"Category empty", func(d *Draft) { d.Category = "" }, []Field{FieldCategory}},
		{"Description empty", func(d *Draft) { d.Description = "" }, []Field{FieldDescription}},
		{"Description blank", func(d *Draft) { d.Description = "   " }, []Field{FieldDescription}},
		{"Date empty", func(d *Draft) { d.Date = "" }, []Field{FieldDate}},
		{"Amount and date empty", func(d *Draft) { d.Amount, d.Date = "", "" }, []Field{FieldAmount, FieldDate}},
		{"Category and description empty", func(d *Draft) { d.Category, d.Description = "", "" }, []Field{FieldCategory, FieldDescription}},
		{"All empty", func(d *Draft) { *d = Draft{Type: entity.TypeIncome} },
			[]Field{FieldAmount, FieldCategory, FieldDescription, FieldDate}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.mutate(&d)

			err := d.Validate()

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.ElementsMatch(t, tt.fields, verr.Fields)
		})
	}
}

func TestValidateContent(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *Draft)
		field  Field
	}{
		{"Amount not a number", func(d *Draft) { d.Amount = "lots" }, FieldAmount},
		{"Amount negative", func(d *Draft) { d.Amount = "-1" }, FieldAmount},
		{"Date malformed", func(d *Draft) { d.Date = "05/01/2024" }, FieldDate},
		{"Category of other type", func(d *Draft) { d.Category = "Food" }, FieldCategory},
		{"Type unknown", func(d *Draft) { d.Type = "transfer" }, FieldType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.mutate(&d)

			var verr *ValidationError
			require.True(t, errors.As(d.Validate(), &verr))
			assert.True(t, verr.Has(tt.field))
			assert.Len(t, verr.Fields, 1)
		})
	}
}

func TestDraftTransaction(t *testing.T) {
	d := validDraft()
	d.Amount = "0"

	tx, err := d.Transaction("9")

	require.NoError(t, err)
	assert.Equal(t, "9", tx.ID)
	assert.True(t, tx.Amount.IsZero())
	assert.Equal(t, "2024-01-05", tx.Date.String())
	assert.NoError(t, tx.Validate())
}
