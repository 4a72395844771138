package installment

// installmentPurchase is one sale as reported by the platform. It never leaves this package.
type installmentPurchase struct {
	Transaction string `json:"transaction"`
	Status      string `json:"status"`
	Product     struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"product"`
	Buyer struct {
		Email string `json:"email"`
	} `json:"buyer"`
	// ApprovedDate is a unix timestamp in milliseconds.
	ApprovedDate int64 `json:"approved_date"`
	Installments struct {
		Total int `json:"total"`
		Paid  int `json:"paid"`
	} `json:"installments"`
}

type salesHistoryResponse struct {
	Items    []installmentPurchase `json:"items"`
	PageInfo struct {
		NextPageToken string `json:"next_page_token"`
	} `json:"page_info"`
}

type installmentWebhook struct {
	ID    string `json:"id"`
	Event string `json:"event"`
	Data  struct {
		Buyer struct {
			Email string `json:"email"`
		} `json:"buyer"`
		Purchase struct {
			Transaction string `json:"transaction"`
			// ExternalReference carries our user ID when checkout was started from the app.
			ExternalReference string `json:"sck"`
		} `json:"purchase"`
	} `json:"data"`
}

const (
	statusApproved   = "APPROVED"
	statusComplete   = "COMPLETE"
	statusRefunded   = "REFUNDED"
	statusChargeback = "CHARGEBACK"
	statusCancelled  = "CANCELLED"
	statusProtested  = "PROTESTED"
)
