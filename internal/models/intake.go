package models

// IntakeRequest is a public quote/order submission. Required fields are name,
// phone, product type, and description. The structured product blobs arrive as
// raw JSON strings, one per product family, and are appended to the
// description as readable text; they never fail the submission.
type IntakeRequest struct {
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
	BusinessName    string `json:"businessName"`
	BusinessType    string `json:"businessType"`
	Address         string `json:"address"`
	City            string `json:"city"`
	State           string `json:"state"`
	Zip             string `json:"zip"`
	ProductType     string `json:"productType"`
	Quantity        string `json:"quantity"`
	Description     string `json:"description"`
	Turnaround      string `json:"turnaround"`
	DeliveryMethod  string `json:"deliveryMethod"`
	CardData        string `json:"cardData"`
	PenData         string `json:"penData"`
	LabelData       string `json:"labelData"`
	TumblerData     string `json:"tumblerData"`
	SignData        string `json:"signData"`
	CalculatedPrice string `json:"calculatedPrice"`
	IsOrder         string `json:"isOrder"`
}

// IntakeResult is the 201 response body for a quote/order submission.
type IntakeResult struct {
	Success     bool     `json:"success"`
	IsOrder     bool     `json:"isOrder"`
	OrderNumber *string  `json:"orderNumber"`
	PaymentURL  *string  `json:"paymentUrl"`
	Total       *float64 `json:"total"`
}
