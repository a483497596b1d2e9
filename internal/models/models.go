package models

// All lists every persisted model in migration order.
func All() []any {
	return []any{
		&User{},
		&Account{},
		&Session{},
		&Verification{},
		&Horse{},
		&Lesson{},
		&Billing{},
		&PerformedService{},
		&AuditLog{},
	}
}
