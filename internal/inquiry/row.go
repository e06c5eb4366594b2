package inquiry

import (
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Sheet column positions. Only decodeRow reads them.
const (
	colDate         = 0
	colTime         = 1
	colReceiptType  = 2
	colDetailSource = 3
	colField        = 4
	colCustomerName = 5
	colPhone        = 6
	colEmail        = 7
	colReceptionist = 8
	colReminder     = 11
	colAttorney     = 12
	colVisit        = 14
	colContract     = 15
	colContractDate = 16
	colAmount       = 17
)

// SheetRow is a RawRow decoded into named fields. Text is trimmed and
// NFC-normalized so Hangul typed on different platforms compares equal.
type SheetRow struct {
	Date         string
	Time         string
	ReceiptType  string
	DetailSource string
	Field        string
	CustomerName string
	Phone        string
	Email        string
	Receptionist string
	Reminder     bool
	Attorney     string
	Visit        bool
	Contract     bool
	ContractDate string
	AmountText   string
}

func decodeRow(row RawRow) SheetRow {
	return SheetRow{
		Date:         textCell(row, colDate),
		Time:         textCell(row, colTime),
		ReceiptType:  textCell(row, colReceiptType),
		DetailSource: textCell(row, colDetailSource),
		Field:        textCell(row, colField),
		CustomerName: textCell(row, colCustomerName),
		Phone:        textCell(row, colPhone),
		Email:        textCell(row, colEmail),
		Receptionist: textCell(row, colReceptionist),
		Reminder:     flagCell(row, colReminder),
		Attorney:     textCell(row, colAttorney),
		Visit:        flagCell(row, colVisit),
		Contract:     flagCell(row, colContract),
		ContractDate: textCell(row, colContractDate),
		AmountText:   rawTextCell(row, colAmount),
	}
}

func cellAt(row RawRow, idx int) interface{} {
	if idx < 0 || idx >= len(row) {
		return nil
	}
	return row[idx]
}

// rawTextCell keeps inner line breaks, which separate amounts.
func rawTextCell(row RawRow, idx int) string {
	switch v := cellAt(row, idx).(type) {
	case nil:
		return ""
	case string:
		return norm.NFC.String(strings.TrimSpace(v))
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return ""
	}
}

func textCell(row RawRow, idx int) string {
	return strings.Join(strings.Fields(rawTextCell(row, idx)), " ")
}

// flagCell accepts a native boolean or the literal text "TRUE".
func flagCell(row RawRow, idx int) bool {
	switch v := cellAt(row, idx).(type) {
	case bool:
		return v
	case string:
		return strings.TrimSpace(v) == "TRUE"
	default:
		return false
	}
}
