package models

// Measure is a unit a recipe line is measured in (grams, litres, pieces).
type Measure struct {
	ID   int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"uniqueIndex;size:100;not null"`
}

func (Measure) TableName() string {
	return "measure"
}

func (m Measure) GetID() int64 { return m.ID }

func (m Measure) GetName() string { return m.Name }

func (m *Measure) SetName(name string) { m.Name = name }
