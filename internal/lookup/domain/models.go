package domain

// Lookup is one row of the lookups table. Rows with Type = "Status" form the
// status vocabulary orders are validated against.
type Lookup struct {
	ID    int64  `gorm:"primaryKey;autoIncrement" json:"-"`
	Type  string `gorm:"column:type;type:text;not null;index" json:"type"`
	Value string `gorm:"column:value;type:text;not null" json:"value"`
}

func (Lookup) TableName() string { return "lookups" }

const TypeStatus = "Status"
