package domain

// Models lists every persisted entity in foreign key order.
func Models() []interface{} {
	return []interface{}{
		&Role{},
		&Stage{},
		&Opening{},
		&Candidate{},
		&Application{},
		&Experience{},
	}
}
