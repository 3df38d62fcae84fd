package store

import "time"

// TimeLayout is the timestamp format the dashboard expects on every record.
const TimeLayout = "2006-01-02 15:04:05"

// Timestamp formats t the way the persisted document stores timestamps.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// Entity status values. These are the wire contract with the Hebrew
// dashboard UI and must not be translated.
const (
	ProjectStatusActive = "בתהליך"
	ProjectStatusDone   = "הושלם"

	TaskStatusOpen     = "פתוח"
	TaskStatusDone     = "הושלם"
	TaskPriorityNormal = "רגילה"

	LeadStatusNew       = "חדש"
	LeadStatusWorking   = "בטיפול"
	LeadStatusConverted = "הומר ללקוח"
)

// Client is a paying customer.
type Client struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Phone         string  `json:"phone"`
	Email         string  `json:"email"`
	Source        string  `json:"source"`
	DateAdded     string  `json:"date_added"`
	TotalPaid     float64 `json:"total_paid"`
	ProjectsCount int     `json:"projects_count"`
	Notes         string  `json:"notes"`
}

// Attachment is a file uploaded against a project.
type Attachment struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Path       string `json:"path"`
	Size       int64  `json:"size"`
	MimeType   string `json:"mimetype"`
	Extension  string `json:"extension"`
	IsCode     bool   `json:"isCode"`
	UploadDate string `json:"uploadDate"`
}

// Project is a unit of client work with a price and payment state.
type Project struct {
	ID            int64        `json:"id"`
	ClientID      int64        `json:"client_id"`
	ClientName    string       `json:"client_name"`
	Type          string       `json:"type"`
	Price         float64      `json:"price"`
	Description   string       `json:"description"`
	Deadline      string       `json:"deadline"`
	Status        string       `json:"status"`
	DateCreated   string       `json:"date_created"`
	DateCompleted string       `json:"date_completed"`
	Paid          bool         `json:"paid"`
	PaymentDate   string       `json:"payment_date"`
	Files         []Attachment `json:"files"`
}

// IncomeEntry records money received.
type IncomeEntry struct {
	ID       int64   `json:"id"`
	Amount   float64 `json:"amount"`
	Source   string  `json:"source"`
	Category string  `json:"category"`
	Date     string  `json:"date"`
}

// ExpenseEntry records money spent.
type ExpenseEntry struct {
	ID          int64   `json:"id"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
}

// Task is a standalone to-do item.
type Task struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Priority      string `json:"priority"`
	DueDate       string `json:"due_date"`
	Status        string `json:"status"`
	DateCreated   string `json:"date_created"`
	DateCompleted string `json:"date_completed"`
}

// Lead is a prospective client.
type Lead struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Source       string `json:"source"`
	Interest     string `json:"interest"`
	Notes        string `json:"notes"`
	Status       string `json:"status"`
	DateAdded    string `json:"date_added"`
	FollowUpDate string `json:"follow_up_date"`
}

// QuoteItem is one priced line inside a quote. Immutable once the
// quote is created.
type QuoteItem struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Discount    float64 `json:"discount"`
}

// Quote is a priced proposal with a validity window and a rendered
// point-in-time document snapshot.
type Quote struct {
	ID           int64       `json:"id"`
	QuoteNumber  string      `json:"quote_number"`
	ClientName   string      `json:"client_name"`
	ClientEmail  string      `json:"client_email"`
	ClientPhone  string      `json:"client_phone"`
	Items        []QuoteItem `json:"items"`
	Notes        string      `json:"notes"`
	ValidityDays int         `json:"validity_days"`
	DateCreated  string      `json:"date_created"`
	Subtotal     float64     `json:"subtotal"`
	Discount     float64     `json:"discount"`
	Total        float64     `json:"total"`
	HTMLContent  string      `json:"html_content"`
}

// Settings is the issuing-business profile.
type Settings struct {
	BusinessName string `json:"business_name"`
	Owner        string `json:"owner"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Website      string `json:"website"`
}

// Dataset is the whole persisted collection.
type Dataset struct {
	Clients  []Client       `json:"clients"`
	Projects []Project      `json:"projects"`
	Income   []IncomeEntry  `json:"income"`
	Expenses []ExpenseEntry `json:"expenses"`
	Tasks    []Task         `json:"tasks"`
	Leads    []Lead         `json:"leads"`
	Quotes   []Quote        `json:"quotes"`
	Settings Settings       `json:"settings"`
}

// NextID returns max existing id + 1, or 1 on an empty collection.
// Ids are never reused after deletion.
func NextID[T any](items []T, id func(T) int64) int64 {
	var max int64
	for _, item := range items {
		if v := id(item); v > max {
			max = v
		}
	}
	return max + 1
}
