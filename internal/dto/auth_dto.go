package dto

type GenerateUserIdResponse struct {
	UserId string `json:"userId"`
}

type AuthStatusResponse struct {
	Authenticated bool   `json:"authenticated"`
	UserId        string `json:"userId,omitempty"`
}
