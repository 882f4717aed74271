package models

// All lists every model for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Order{},
		&OrderSequence{},
		&Message{},
		&Notification{},
	}
}
