package model

// All returns every persisted model, in migration order.
func All() []interface{} {
	return []interface{}{
		&Admin{},
		&Category{},
		&Product{},
		&Customer{},
		&Supplier{},
		&Order{},
		&OrderItem{},
		&ActivityLog{},
	}
}
