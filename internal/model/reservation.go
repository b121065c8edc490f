package model

// ReserveRequest 預約請求（第一階段）
type ReserveRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required,phone"`
	Quantity    int    `json:"quantity" binding:"required,min=1"`
}

// ConfirmReservationRequest 預約確認（第二階段），數量會重新檢查
type ConfirmReservationRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required,phone"`
	Code        string `json:"code" binding:"required"`
	FullName    string `json:"fullName" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Quantity    int    `json:"quantity" binding:"required,min=1"`
}

type ConfirmDeletionRequest struct {
	Code string `json:"code" binding:"required"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ReservationResponse struct {
	Message string  `json:"message"`
	Ticket  *Ticket `json:"ticket"`
	Total   float64 `json:"total"`
}
