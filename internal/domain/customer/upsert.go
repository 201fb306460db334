package customer

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"courtly/internal/database"
	"courtly/internal/pkg/apperr"
	"courtly/internal/pkg/validator"
)

const (
	maxNameLen    = 50
	maxAddressLen = 200
)

// Input carries the customer fields of a booking request. PhoneNumber is the key.
type Input struct {
	PhoneNumber    string
	FirstName      string
	LastName       string
	WhatsAppNumber string
	Address        string
}

func (in Input) trimmed() Input {
	return Input{
		PhoneNumber:    strings.TrimSpace(in.PhoneNumber),
		FirstName:      strings.TrimSpace(in.FirstName),
		LastName:       strings.TrimSpace(in.LastName),
		WhatsAppNumber: strings.TrimSpace(in.WhatsAppNumber),
		Address:        strings.TrimSpace(in.Address),
	}
}

// Upsert finds the customer by phone inside tx, creating them when new and
// overwriting only the non-empty fields when they exist.
func Upsert(tx *gorm.DB, in Input) (*Customer, error) {
	in = in.trimmed()

	var existing Customer
	err := tx.Where("phone_number = ?", in.PhoneNumber).First(&existing).Error
	switch {
	case err == nil:
		return updateExisting(tx, &existing, in)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, apperr.Persistence("find customer", err)
	}

	if err := validateNew(in); err != nil {
		return nil, err
	}

	c := &Customer{
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		PhoneNumber:    in.PhoneNumber,
		WhatsAppNumber: in.WhatsAppNumber,
		Address:        in.Address,
	}

	// a concurrent booking may have registered the same phone first. The nested
	// transaction is a savepoint inside tx and a real transaction otherwise.
	err = tx.Transaction(func(inner *gorm.DB) error {
		return inner.Create(c).Error
	})
	if err == nil {
		return c, nil
	}
	if !database.IsUniqueViolation(err) {
		return nil, apperr.Persistence("create customer", err)
	}
	if err := tx.Where("phone_number = ?", in.PhoneNumber).First(&existing).Error; err != nil {
		return nil, apperr.Persistence("find customer", err)
	}
	return updateExisting(tx, &existing, in)
}

func validateNew(in Input) error {
	if in.FirstName == "" || len(in.FirstName) > maxNameLen {
		return apperr.Validation("firstName", "First name is required (max 50 chars)")
	}
	if in.LastName == "" || len(in.LastName) > maxNameLen {
		return apperr.Validation("lastName", "Last name is required (max 50 chars)")
	}
	if !validator.IsPhone(in.WhatsAppNumber) {
		return apperr.Validation("whatsAppNumber", "WhatsApp number must be 10 digits")
	}
	if in.Address == "" || len(in.Address) > maxAddressLen {
		return apperr.Validation("address", "Address is required (max 200 chars)")
	}
	return nil
}

func validateExisting(in Input) error {
	if len(in.FirstName) > maxNameLen {
		return apperr.Validation("firstName", "First name too long")
	}
	if len(in.LastName) > maxNameLen {
		return apperr.Validation("lastName", "Last name too long")
	}
	if in.WhatsAppNumber != "" && !validator.IsPhone(in.WhatsAppNumber) {
		return apperr.Validation("whatsAppNumber", "WhatsApp number must be 10 digits")
	}
	if len(in.Address) > maxAddressLen {
		return apperr.Validation("address", "Address too long")
	}
	return nil
}

func updateExisting(tx *gorm.DB, c *Customer, in Input) (*Customer, error) {
	if err := validateExisting(in); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if in.FirstName != "" && in.FirstName != c.FirstName {
		c.FirstName = in.FirstName
		updates["first_name"] = in.FirstName
	}
	if in.LastName != "" && in.LastName != c.LastName {
		c.LastName = in.LastName
		updates["last_name"] = in.LastName
	}
	if in.WhatsAppNumber != "" && in.WhatsAppNumber != c.WhatsAppNumber {
		c.WhatsAppNumber = in.WhatsAppNumber
		updates["whats_app_number"] = in.WhatsAppNumber
	}
	if in.Address != "" && in.Address != c.Address {
		c.Address = in.Address
		updates["address"] = in.Address
	}
	if len(updates) == 0 {
		return c, nil
	}

	if err := tx.Model(&Customer{}).Where("id = ?", c.ID).Updates(updates).Error; err != nil {
		return nil, apperr.Persistence("update customer", err)
	}
	return c, nil
}
