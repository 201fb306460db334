package customer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"courtly/internal/database/dbtest"
	"courtly/internal/pkg/apperr"
)

func newInput() Input {
	return Input{
		PhoneNumber:    "9876543210",
		FirstName:      "Asha",
		LastName:       "Rao",
		WhatsAppNumber: "9876543210",
		Address:        "12 MG Road",
	}
}

func TestUpsert_CreatesNewCustomer(t *testing.T) {
	db := dbtest.Open(t, &Customer{})

	c, err := Upsert(db, newInput())
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", c.FullName())

	var n int64
	require.NoError(t, db.Model(&Customer{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestUpsert_NewCustomerValidation(t *testing.T) {
	db := dbtest.Open(t, &Customer{})

	cases := []struct {
		name   string
		mutate func(*Input)
		msg    string
	}{
		{"first name", func(in *Input) { in.FirstName = "" }, "First name is required (max 50 chars)"},
		{"last name", func(in *Input) { in.LastName = " " }, "Last name is required (max 50 chars)"},
		{"whatsapp", func(in *Input) { in.WhatsAppNumber = "123" }, "WhatsApp number must be 10 digits"},
		{"address", func(in *Input) { in.Address = "" }, "Address is required (max 200 chars)"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := newInput()
			tc.mutate(&in)
			_, err := Upsert(db, in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperr.ErrValidation))
			assert.EqualError(t, err, tc.msg)
		})
	}
}

func TestUpsert_ExistingOverwritesOnlyProvidedFields(t *testing.T) {
	db := dbtest.Open(t, &Customer{})

	first, err := Upsert(db, newInput())
	require.NoError(t, err)

	again, err := Upsert(db, Input{PhoneNumber: "9876543210", Address: "7 Brigade Road"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	var stored Customer
	require.NoError(t, db.First(&stored, "id = ?", first.ID).Error)
	assert.Equal(t, "Asha", stored.FirstName)
	assert.Equal(t, "Rao", stored.LastName)
	assert.Equal(t, "7 Brigade Road", stored.Address)

	_, err = Upsert(db, Input{PhoneNumber: "9876543210", WhatsAppNumber: "12"})
	assert.EqualError(t, err, "WhatsApp number must be 10 digits")
}

func TestUpsert_InsideRolledBackTransaction(t *testing.T) {
	db := dbtest.Open(t, &Customer{})

	boom := errors.New("boom")
	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := Upsert(tx, newInput()); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var n int64
	require.NoError(t, db.Model(&Customer{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestUpsert_OutsideTransactionLeavesConnectionUsable(t *testing.T) {
	db := dbtest.Open(t, &Customer{})

	_, err := Upsert(db, newInput())
	require.NoError(t, err)

	other := newInput()
	other.PhoneNumber, other.WhatsAppNumber = "9123456780", "9123456780"
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		_, err := Upsert(tx, other)
		return err
	}))

	var n int64
	require.NoError(t, db.Model(&Customer{}).Count(&n).Error)
	assert.Equal(t, int64(2), n)
}

func TestFullName(t *testing.T) {
	assert.Equal(t, "Unknown", (*Customer)(nil).FullName())
	assert.Equal(t, "Unknown", (&Customer{}).FullName())
	assert.Equal(t, "Ravi", (&Customer{FirstName: "Ravi "}).FullName())
}
