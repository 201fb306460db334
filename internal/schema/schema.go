// Package schema lists every table the binaries migrate, in dependency order.
package schema

import (
	"courtly/internal/domain/billing"
	"courtly/internal/domain/booking"
	"courtly/internal/domain/court"
	"courtly/internal/domain/customer"
	"courtly/internal/domain/membership"
	"courtly/internal/domain/staff"
)

func Models() []any {
	m := []any{&court.Court{}, &customer.Customer{}, &staff.Staff{}}
	m = append(m, booking.Models()...)
	m = append(m, &billing.Billing{})
	m = append(m, membership.Models()...)
	return m
}
