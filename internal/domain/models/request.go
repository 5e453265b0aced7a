package models

// PaperTradeRequest opens a manual simulated trade. Directional sanity of
// the levels (SL below entry for BUY, above for SELL) is checked in the
// use case before any network call.
type PaperTradeRequest struct {
	UserID   string  `json:"user_id" validate:"required"`
	Side     string  `json:"side" validate:"required,oneof=BUY SELL"`
	Entry    float64 `json:"entry" validate:"required,gt=0"`
	SL       float64 `json:"sl" validate:"required,gt=0"`
	TP       float64 `json:"tp" validate:"required,gt=0"`
	Notional float64 `json:"notional" validate:"gt=0" default:"100"`
	Signal   string  `json:"signal" default:"MANUAL"`
}

// RegisterUserRequest provisions a bot instance on the backend. Username
// becomes the Linux account and roster id; the wallet pair is handed to
// the provisioning script and never read back by this layer.
type RegisterUserRequest struct {
	Username    string `json:"username" validate:"required,lowercase,min=2,max=32"`
	DisplayName string `json:"display_name" validate:"required"`
	Wallet      string `json:"wallet" validate:"required,startswith=0x"`
	PrivateKey  string `json:"private_key" validate:"required,startswith=0x"`
}
