package models

type ServiceTicket struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	VIN         string `gorm:"size:17;not null" json:"VIN"`
	ServiceDate Date   `gorm:"not null" json:"service_date"`
	ServiceDesc string `gorm:"not null" json:"service_desc"`
	CustomerID  uint   `gorm:"index;not null" json:"customer_id"`

	Customer  Customer    `json:"customer"`
	Mechanics []Mechanic  `gorm:"many2many:ticket_mechanic;" json:"mechanics"`
	Parts     []Inventory `gorm:"many2many:ticket_inventory;" json:"parts"`
}
