package domain

// Card belongs to exactly one board. Position is the float ordering key
// for listings; ties are broken by primary id so the order stays stable.
type Card struct {
	BaseModel
	BoardID     uint    `gorm:"not null;index:idx_cards_board_position,priority:1" json:"board_id"`
	Title       string  `gorm:"type:varchar(255);not null" json:"title"`
	Description string  `gorm:"type:text" json:"description"`
	Position    float64 `gorm:"not null;index:idx_cards_board_position,priority:2" json:"position"`
	IsComplete  bool    `gorm:"default:false" json:"is_complete"`
	CreatedBy   uint    `gorm:"index:idx_cards_created_by" json:"created_by"`
}

// TableName specifies the table name for Card
func (Card) TableName() string {
	return "cards"
}
