// AngelaMos | 2026
// dto.go

package gems

type PurchaseRequest struct {
	PaymentMethodID string `json:"paymentMethodId" validate:"required"`
	Amount          int    `json:"amount"          validate:"required,min=1"`
}

type PurchaseResponse struct {
	Message     string       `json:"message"`
	Transaction *Transaction `json:"transaction"`
}

type CreateIntentRequest struct {
	Amount int `json:"amount" validate:"required,min=1"`
}

type CreateIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

type FinalizeRequest struct {
	PaymentID string `json:"paymentId" validate:"required"`
	Amount    int    `json:"amount"    validate:"required,min=1"`
}

type FinalizeResponse struct {
	Message string `json:"message"`
}

type TransactionListResponse struct {
	Transactions []*Transaction `json:"transactions"`
}
