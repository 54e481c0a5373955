package models

// 車位狀態。不變量：status 為 occupied 時必有一筆未結束的 booking 指向此車位
const (
	SpotStatusAvailable = "available"
	SpotStatusOccupied  = "occupied"
)

type ParkingSpot struct {
	SpotID           int        `json:"spot_id" gorm:"primaryKey;autoIncrement;type:INT"`
	LotID            int        `json:"lot_id" gorm:"index;not null;type:INT"`
	Status           string     `json:"status" gorm:"type:varchar(20);not null;default:'available'"`
	CurrentBookingID *int       `json:"current_booking_id" gorm:"type:INT;default:null"` // 目前佔用中的 booking，空位時為 null
	ParkingLot       ParkingLot `json:"-" gorm:"foreignKey:LotID;references:ParkingLotID"`
	Bookings         []Booking  `json:"-" gorm:"foreignKey:SpotID;references:SpotID"`
}

func (ParkingSpot) TableName() string {
	return "parking_spot"
}

type ParkingSpotResponse struct {
	SpotID           int    `json:"spot_id"`
	LotID            int    `json:"lot_id"`
	Status           string `json:"status"`
	CurrentBookingID *int   `json:"current_booking_id"`
}

func (p *ParkingSpot) ToResponse() ParkingSpotResponse {
	return ParkingSpotResponse{
		SpotID:           p.SpotID,
		LotID:            p.LotID,
		Status:           p.Status,
		CurrentBookingID: p.CurrentBookingID,
	}
}
