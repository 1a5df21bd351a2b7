package models

type Mechanic struct {

	ID     uint    `gorm:"primaryKey" json:"id"`
	Name   string  `gorm:"not null" json:"name"`
	Email  string  `gorm:"uniqueIndex;not null" json:"email"`
	Phone  string  `gorm:"not null" json:"phone"`
	Salary float64 `gorm:"not null" json:"salary"`

	Tickets []ServiceTicket `gorm:"many2many:ticket_mechanic;" json:"-"`
}
