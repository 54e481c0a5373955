package handlers

import (
	"errors"
	"log"
	"net/http"
	"parkinglot/models"
	"parkinglot/services"
	"strconv"

	"github.com/gin-gonic/gin"
)

// BookInput 訂位輸入
type BookInput struct {
	LotID int `json:"lot_id" binding:"required,gt=0"`
}

// BookSpot 會員訂位：由系統在指定停車場挑一個空位
func BookSpot(c *gin.Context) {
	var input BookInput
	if err := c.ShouldBindJSON(&input); err != nil {
		log.Printf("Invalid input data: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "無效的輸入資料", "lot_id is required", "ERR_INVALID_INPUT")
		return
	}

	userID := c.GetInt("user_id")

	booking, err := services.OpenBooking(userID, input.LotID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAlreadyBooked):
			ErrorResponse(c, http.StatusConflict, "您已有進行中的訂位", err.Error(), "ERR_ALREADY_BOOKED")
		case errors.Is(err, services.ErrLotFull):
			ErrorResponse(c, http.StatusConflict, "此停車場目前沒有空位", err.Error(), "ERR_LOT_FULL")
		case errors.Is(err, services.ErrLotNotFound):
			ErrorResponse(c, http.StatusNotFound, "停車場不存在", err.Error(), "ERR_NOT_FOUND")
		default:
			log.Printf("Failed to open booking for user %d in lot %d: %v", userID, input.LotID, err)
			ErrorResponse(c, http.StatusInternalServerError, "訂位失敗", err.Error(), "ERR_INTERNAL")
		}
		return
	}

	SuccessResponse(c, http.StatusCreated, "訂位成功", booking.ToResponse())
}

// ReleaseSpot 會員離場結算
func ReleaseSpot(c *gin.Context) {
	userID := c.GetInt("user_id")

	booking, err := services.CloseBooking(userID)
	if err != nil {
		if errors.Is(err, services.ErrNoActiveBooking) {
			ErrorResponse(c, http.StatusNotFound, "目前沒有進行中的訂位", err.Error(), "ERR_NO_ACTIVE_BOOKING")
			return
		}
		log.Printf("Failed to close booking for user %d: %v", userID, err)
		ErrorResponse(c, http.StatusInternalServerError, "離場結算失敗", err.Error(), "ERR_INTERNAL")
		return
	}

	SuccessResponse(c, http.StatusOK, "離場成功", booking.ToResponse())
}

// GetUserBookings 查詢會員自己的訂位歷史
func GetUserBookings(c *gin.Context) {
	userID := c.GetInt("user_id")

	bookings, err := services.GetUserBookings(userID)
	if err != nil {
		log.Printf("Failed to get bookings for user %d: %v", userID, err)
		ErrorResponse(c, http.StatusInternalServerError, "查詢訂位紀錄失敗", err.Error(), "ERR_INTERNAL")
		return
	}

	bookingResponses := make([]models.BookingResponse, len(bookings))
	for i, booking := range bookings {
		bookingResponses[i] = booking.ToResponse()
	}

	SuccessResponse(c, http.StatusOK, "查詢成功", bookingResponses)
}

// GetBooking 管理員查詢單筆訂位
func GetBooking(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		log.Printf("Invalid booking ID: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "無效的訂位ID", err.Error(), "ERR_INVALID_ID")
		return
	}

	booking, err := services.GetBookingByID(id)
	if err != nil {
		if errors.Is(err, services.ErrBookingNotFound) {
			ErrorResponse(c, http.StatusNotFound, "訂位紀錄不存在", err.Error(), "ERR_NOT_FOUND")
			return
		}
		log.Printf("Failed to get booking %d: %v", id, err)
		ErrorResponse(c, http.StatusInternalServerError, "查詢訂位失敗", err.Error(), "ERR_INTERNAL")
		return
	}

	SuccessResponse(c, http.StatusOK, "查詢成功", booking.ToDetailResponse())
}
