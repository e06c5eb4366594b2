package inquiry

// RawRow is one spreadsheet row as delivered by the row source. Cells may be
// string, bool, float64 or nil depending on the source.
type RawRow []interface{}

// ReceiptType is the channel an inquiry came in through.
type ReceiptType string

const (
	ReceiptWired      ReceiptType = "유선"
	ReceiptChat       ReceiptType = "채팅"
	ReceiptOther      ReceiptType = "기타"
	ReceiptNotInquiry ReceiptType = "문의아님" // administratively excluded row
)

// Labels used when a grouping key is blank.
const (
	UnassignedAttorney = "미배정"
	OtherField         = "기타"
)

// Inquiry is a single customer inquiry derived from a sheet row.
type Inquiry struct {
	ID             string      `json:"id"`
	Date           string      `json:"date"` // YYYY-MM-DD
	Time           string      `json:"time,omitempty"`
	Field          string      `json:"field"`
	Attorney       string      `json:"attorney"`
	CustomerName   string      `json:"customerName"`
	Phone          string      `json:"phone"`
	Email          string      `json:"email,omitempty"`
	Receptionist   string      `json:"receptionist,omitempty"`
	ReceiptType    ReceiptType `json:"receiptType"`
	DetailSource   string      `json:"detailSource"`
	SourceCategory Category    `json:"sourceCategory"`
	IsContract     bool        `json:"isContract"`
	IsVisit        bool        `json:"isVisit"`
	IsReminder     bool        `json:"isReminder"`
	ContractDate   string      `json:"contractDate,omitempty"`
	AmountText     string      `json:"amountText,omitempty"`
}

// Contract is a conversion event, built only from rows with the contract flag set.
type Contract struct {
	ID             string      `json:"id"`
	Date           string      `json:"date"` // ContractDate if present, else InquiryDate
	InquiryDate    string      `json:"inquiryDate,omitempty"`
	ContractDate   string      `json:"contractDate,omitempty"`
	Attorney       string      `json:"attorney"`
	Client         string      `json:"client"`
	Phone          string      `json:"phone"`
	Field          string      `json:"field"`
	ReceiptType    ReceiptType `json:"receiptType"`
	DetailSource   string      `json:"detailSource"`
	SourceCategory Category    `json:"sourceCategory"`
	AmountText     string      `json:"amountText"`
	Amount         string      `json:"amount"` // digits of the parsed total
}

// AttorneyStat is the per-attorney conversion breakdown.
type AttorneyStat struct {
	Name      string  `json:"name"`
	Inquiries int     `json:"inquiries"`
	Contracts int     `json:"contracts"`
	Rate      float64 `json:"rate"`
}

// FieldStat is one slice of the per-field inquiry chart.
type FieldStat struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

// PeriodSummary holds the KPI numbers for one calendar period.
type PeriodSummary struct {
	Period         Period  `json:"period"`
	TotalInquiries int     `json:"totalInquiries"`
	TotalContracts int     `json:"totalContracts"`
	TotalRevenue   int64   `json:"totalRevenue"`
	Rate           float64 `json:"rate"`
}

// CategoryStat is the per-media-category breakdown.
type CategoryStat struct {
	Category  Category `json:"category"`
	Inquiries int      `json:"inquiries"`
	Contracts int      `json:"contracts"`
	Rate      float64  `json:"rate"`
}

// ChannelStat is the per-receipt-type breakdown.
type ChannelStat struct {
	ReceiptType ReceiptType `json:"receiptType"`
	Inquiries   int         `json:"inquiries"`
}

// FlagCounts tallies visit and reminder flags.
type FlagCounts struct {
	Visits    int `json:"visits"`
	Reminders int `json:"reminders"`
}
