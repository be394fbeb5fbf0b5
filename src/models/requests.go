package models

// Request/response DTOs for the REST API.

type MSignupRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type MLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type MLoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

type MRegisterTickerRequest struct {
	Symbol      string `json:"symbol" binding:"required"`
	DisplayName string `json:"display_name"`
}

type MTradeRequest struct {
	Symbol   string `json:"symbol" binding:"required"`
	Quantity int64  `json:"quantity" binding:"required"`
}

// MTradeResponse reports the executed trade and the resulting cash.
type MTradeResponse struct {
	Action    string `json:"action"`
	Symbol    string `json:"symbol"`
	Quantity  int64  `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	Amount    int64  `json:"amount"` // cost on buy, revenue on sell
	Cash      int64  `json:"cash"`
}
