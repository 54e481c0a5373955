package models

import "time"

type Booking struct {
	BookingID        int        `json:"booking_id" gorm:"primaryKey;autoIncrement;type:INT"`
	UserID           int        `json:"user_id" gorm:"index;not null;type:INT"`
	SpotID           int        `json:"spot_id" gorm:"index;not null;type:INT"`
	LotID            int        `json:"lot_id" gorm:"index;not null;type:INT"`
	ParkingTimestamp time.Time  `json:"parking_timestamp" gorm:"type:datetime;not null"`                // 進場時間
	LeavingTimestamp *time.Time `json:"leaving_timestamp" gorm:"type:datetime;default:null"`            // 離場時間，null 表示仍在場內
	ParkingCost      float64    `json:"parking_cost" gorm:"type:decimal(10,2);not null" binding:"gte=0"` // 訂位當下的每小時費率快照
	TotalCost        *float64   `json:"total_cost" gorm:"type:decimal(10,2);default:null"`              // 離場結算後才寫入
	User             User       `json:"-" gorm:"foreignKey:UserID;references:UserID"`
	ParkingLot       ParkingLot `json:"-" gorm:"foreignKey:LotID;references:ParkingLotID"`
}

func (Booking) TableName() string {
	return "booking"
}

type BookingResponse struct {
	BookingID        int        `json:"booking_id"`
	UserID           int        `json:"user_id"`
	SpotID           int        `json:"spot_id"`
	LotID            int        `json:"lot_id"`
	LotName          string     `json:"lot_name"`
	ParkingTimestamp time.Time  `json:"parking_timestamp"`
	LeavingTimestamp *time.Time `json:"leaving_timestamp"`
	ParkingCost      float64    `json:"parking_cost"`
	TotalCost        *float64   `json:"total_cost"`
}

func (b *Booking) ToResponse() BookingResponse {
	return BookingResponse{
		BookingID:        b.BookingID,
		UserID:           b.UserID,
		SpotID:           b.SpotID,
		LotID:            b.LotID,
		LotName:          b.ParkingLot.PrimeLocationName,
		ParkingTimestamp: b.ParkingTimestamp,
		LeavingTimestamp: b.LeavingTimestamp,
		ParkingCost:      b.ParkingCost,
		TotalCost:        b.TotalCost,
	}
}

// BookingDetailResponse 管理員查詢單筆訂位時附帶會員名稱
type BookingDetailResponse struct {
	BookingResponse
	UserName string `json:"user_name"`
}

func (b *Booking) ToDetailResponse() BookingDetailResponse {
	return BookingDetailResponse{
		BookingResponse: b.ToResponse(),
		UserName:        b.User.Name,
	}
}
