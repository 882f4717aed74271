package models

// OrderSequence is the per-year counter behind order numbers.
// LastValue only ever increases, so numbers are never reused even after deletes.
type OrderSequence struct {
	Year      int `gorm:"primaryKey;autoIncrement:false"`
	LastValue int `gorm:"not null;default:0"`
}

// TableName specifies the table name for the OrderSequence model
func (OrderSequence) TableName() string {
	return "order_sequences"
}
