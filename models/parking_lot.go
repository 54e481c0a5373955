package models

// ParkingLot 定義停車場模型
type ParkingLot struct {
	ParkingLotID         int           `json:"parking_lot_id" gorm:"primaryKey;autoIncrement;type:INT"`
	PrimeLocationName    string        `json:"prime_location_name" gorm:"type:varchar(100);not null" binding:"required,max=100"`
	Address              string        `json:"address" gorm:"type:varchar(200)" binding:"omitempty,max=200"`
	Pincode              string        `json:"pincode" gorm:"type:varchar(10)" binding:"omitempty,max=10"`
	Price                float64       `json:"price" gorm:"type:decimal(10,2);not null" binding:"gte=0"` // 每小時費率
	MaximumNumberOfSpots int           `json:"maximum_number_of_spots" gorm:"type:INT;not null" binding:"required,gt=0"`
	ParkingSpots         []ParkingSpot `json:"parking_spots,omitempty" gorm:"foreignKey:LotID;references:ParkingLotID"`
	RemainingSpots       int           `json:"-" gorm:"-"` // transient，不存DB，用於計算剩餘位子
}

func (ParkingLot) TableName() string {
	return "parking_lot"
}

// ParkingLotResponse 定義停車場回應結構
type ParkingLotResponse struct {
	ParkingLotID         int     `json:"parking_lot_id"`
	PrimeLocationName    string  `json:"prime_location_name"`
	Address              string  `json:"address"`
	Pincode              string  `json:"pincode"`
	Price                float64 `json:"price"`
	MaximumNumberOfSpots int     `json:"maximum_number_of_spots"`
	RemainingSpots       int     `json:"remaining_spots"`
}

func (p *ParkingLot) ToResponse() ParkingLotResponse {
	return ParkingLotResponse{
		ParkingLotID:         p.ParkingLotID,
		PrimeLocationName:    p.PrimeLocationName,
		Address:              p.Address,
		Pincode:              p.Pincode,
		Price:                p.Price,
		MaximumNumberOfSpots: p.MaximumNumberOfSpots,
		RemainingSpots:       p.RemainingSpots,
	}
}

// UpdateParkingLotRequest 用於 PUT 更新，未提供的欄位不變動
type UpdateParkingLotRequest struct {
	PrimeLocationName    *string  `json:"prime_location_name" binding:"omitempty,max=100"`
	Address              *string  `json:"address" binding:"omitempty,max=200"`
	Pincode              *string  `json:"pincode" binding:"omitempty,max=10"`
	Price                *float64 `json:"price" binding:"omitempty,gte=0"`
	MaximumNumberOfSpots *int     `json:"maximum_number_of_spots"` // 由 service 統一驗證車位數
}
