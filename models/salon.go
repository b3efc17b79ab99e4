package models

// Client is a salon customer.
type Client struct {
	Syncable

	Name  string `json:"name"`
	Phone string `json:"phone"`

	// ServiceHistory holds identifiers of the client's transactions.
	ServiceHistory []string `json:"serviceHistory"`
	Notes          string   `json:"notes"`
}

// Service is a billable salon service or a retail product. Products have a
// zero Duration.
type Service struct {
	Syncable

	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Duration int     `json:"duration"` // minutes
}

// IsProduct reports whether the service is a retail product.
func (s Service) IsProduct() bool {
	return s.Duration == 0
}

// Staff is a salon employee that services can be attributed to.
type Staff struct {
	Syncable

	Name string `json:"name"`
}

// Category groups services.
type Category struct {
	Syncable

	Name string `json:"name"`
}

// BillItem is a single line of a transaction. Price and Name are captured at
// billing time so later catalogue edits do not rewrite history.
type BillItem struct {
	ServiceID string  `json:"serviceId"`
	StaffID   string  `json:"staffId"`
	Price     float64 `json:"price"`
	Name      string  `json:"name"`
}

// DiscountType selects how Transaction.DiscountValue is interpreted.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountAmount     DiscountType = "amount"
)

// PaymentMethod is the tender used to settle a transaction.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "Cash"
	PaymentCard PaymentMethod = "Card"
	PaymentUPI  PaymentMethod = "UPI"
)

// Transaction is a settled bill.
type Transaction struct {
	Syncable

	ClientID *string    `json:"clientId"`
	Items    []BillItem `json:"items"`

	// ItemsSubtotal is the sum of item prices before any adjustment.
	ItemsSubtotal float64 `json:"itemsSubtotal"`
	// Subtotal is the effective base for discount and tax.
	Subtotal       float64       `json:"subtotal"`
	DiscountType   DiscountType  `json:"discountType"`
	DiscountValue  float64       `json:"discountValue"`
	DiscountAmount float64       `json:"discountAmount"`
	TaxAmount      float64       `json:"taxAmount"`
	Total          float64       `json:"total"`
	PaymentMethod  PaymentMethod `json:"paymentMethod"`
	Date           string        `json:"date"`
}

// AppointmentStatus is the lifecycle state of an appointment.
type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// Appointment is a booked slot for a client with one staff member.
type Appointment struct {
	Syncable

	ClientID   string            `json:"clientId"`
	StaffID    string            `json:"staffId"`
	ServiceIDs []string          `json:"serviceIds"`
	Start      string            `json:"start"`
	End        string            `json:"end"`
	Status     AppointmentStatus `json:"status"`
	Notes      string            `json:"notes,omitempty"`
}

// EnquiryStatus is the follow-up state of an enquiry.
type EnquiryStatus string

const (
	EnquiryPending    EnquiryStatus = "Pending"
	EnquiryFollowedUp EnquiryStatus = "Followed-up"
	EnquiryClosed     EnquiryStatus = "Closed"
)

// Enquiry is an inbound lead that is not yet a client.
type Enquiry struct {
	Syncable

	Name    string        `json:"name"`
	Phone   string        `json:"phone"`
	Details string        `json:"details"`
	Status  EnquiryStatus `json:"status"`
	Date    string        `json:"date"`
}

// Feedback is a client's rating of a visit.
type Feedback struct {
	Syncable

	ClientID   *string `json:"clientId"`
	ClientName string  `json:"clientName"`
	Rating     int     `json:"rating"` // 1 to 5
	Comments   string  `json:"comments"`
	Date       string  `json:"date"`
}
