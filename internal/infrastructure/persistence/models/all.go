package models

// All returns every persistence model, in creation order, for schema migration.
func All() []interface{} {
	return []interface{}{
		&CustomerModel{},
		&EventModel{},
		&ProductModel{},
		&OrderModel{},
		&OrderProductModel{},
		&TicketModel{},
	}
}
