package models

type Inventory struct {

	ID    uint    `gorm:"primaryKey" json:"id"`
	Name  string  `gorm:"not null" json:"name"`
	Price float64 `gorm:"not null" json:"price"`

	Tickets []ServiceTicket `gorm:"many2many:ticket_inventory;" json:"-"`
}
