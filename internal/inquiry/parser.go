package inquiry

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/ignite/inquiry-dashboard/internal/pkg/logger"
)

// ParseReport summarizes one parse pass for data-quality monitoring.
type ParseReport struct {
	Rows                 int            `json:"rows"`
	Inquiries            int            `json:"inquiries"`
	Contracts            int            `json:"contracts"`
	InquiryDrops         map[string]int `json:"inquiryDrops"`
	ContractDrops        map[string]int `json:"contractDrops"`
	ContractDateFallback int            `json:"contractDateFallback"`
	DegradedAmounts      int            `json:"degradedAmounts"`
}

// Parser turns sheet rows into Inquiry and Contract records.
type Parser struct {
	classifier *MediaClassifier
}

// NewParser creates a parser. A nil classifier uses DefaultClassifier.
func NewParser(classifier *MediaClassifier) *Parser {
	if classifier == nil {
		classifier = DefaultClassifier()
	}
	return &Parser{classifier: classifier}
}

// Classifier returns the classifier the parser applies.
func (p *Parser) Classifier() *MediaClassifier { return p.classifier }

// ParseInquiries returns one Inquiry per valid row, in input order.
func (p *Parser) ParseInquiries(rows []RawRow) []Inquiry {
	inqs, _ := p.parseInquiries(rows)
	return inqs
}

// ParseContracts returns one Contract per valid contract-flagged row, in input order.
func (p *Parser) ParseContracts(rows []RawRow) []Contract {
	contracts, _ := p.parseContracts(rows)
	return contracts
}

// ParseWithReport runs both passes and returns the diagnostics alongside.
func (p *Parser) ParseWithReport(rows []RawRow) ([]Inquiry, []Contract, ParseReport) {
	inqs, inqReport := p.parseInquiries(rows)
	contracts, conReport := p.parseContracts(rows)

	report := inqReport
	report.Contracts = conReport.Contracts
	report.ContractDrops = conReport.ContractDrops
	report.ContractDateFallback = conReport.ContractDateFallback
	report.DegradedAmounts = conReport.DegradedAmounts
	return inqs, contracts, report
}

func (p *Parser) parseInquiries(rows []RawRow) ([]Inquiry, ParseReport) {
	report := ParseReport{Rows: len(rows), InquiryDrops: map[string]int{}}
	out := make([]Inquiry, 0, len(rows))

	for _, raw := range rows {
		r := decodeRow(raw)
		date, err := p.checkInquiry(r)
		if err != nil {
			report.InquiryDrops[err.Error()]++
			continue
		}

		contractDate, _ := NormalizeDate(r.ContractDate)
		out = append(out, Inquiry{
			ID:             sequenceID(len(out) + 1),
			Date:           date,
			Time:           r.Time,
			Field:          r.Field,
			Attorney:       r.Attorney,
			CustomerName:   r.CustomerName,
			Phone:          r.Phone,
			Email:          r.Email,
			Receptionist:   r.Receptionist,
			ReceiptType:    ReceiptType(r.ReceiptType),
			DetailSource:   r.DetailSource,
			SourceCategory: p.classifier.Classify(r.DetailSource),
			IsContract:     r.Contract,
			IsVisit:        r.Visit,
			IsReminder:     r.Reminder,
			ContractDate:   contractDate,
			AmountText:     r.AmountText,
		})
	}

	report.Inquiries = len(out)
	logger.Info("inquiry rows parsed",
		"rows", report.Rows,
		"kept", report.Inquiries,
		"dropped_invalid_date", report.InquiryDrops[ErrInvalidDate.Error()],
		"dropped_missing_receipt_type", report.InquiryDrops[ErrMissingReceiptType.Error()],
		"dropped_hard_excluded", report.InquiryDrops[ErrHardExcluded.Error()],
	)
	return out, report
}

// checkInquiry returns the normalized date or the reason the row is dropped.
func (p *Parser) checkInquiry(r SheetRow) (string, error) {
	date, ok := NormalizeDate(r.Date)
	if !ok {
		return "", ErrInvalidDate
	}
	if r.ReceiptType == "" {
		return "", ErrMissingReceiptType
	}
	if p.isDoubleExcluded(r) {
		return "", ErrHardExcluded
	}
	return date, nil
}

// isDoubleExcluded requires both the receipt-type marker and a hard-excluded
// detail source.
func (p *Parser) isDoubleExcluded(r SheetRow) bool {
	return ReceiptType(r.ReceiptType) == ReceiptNotInquiry && p.classifier.IsHardExcluded(r.DetailSource)
}

func (p *Parser) parseContracts(rows []RawRow) ([]Contract, ParseReport) {
	report := ParseReport{Rows: len(rows), ContractDrops: map[string]int{}}
	out := make([]Contract, 0)

	for _, raw := range rows {
		r := decodeRow(raw)
		date, fallback, err := p.checkContract(r)
		if err != nil {
			if !errors.Is(err, ErrNotContract) {
				report.ContractDrops[err.Error()]++
			}
			continue
		}
		if fallback {
			report.ContractDateFallback++
		}

		inquiryDate, _ := NormalizeDate(r.Date)
		contractDate, _ := NormalizeDate(r.ContractDate)
		total, degraded := parseAmountSegments(r.AmountText)
		report.DegradedAmounts += degraded

		out = append(out, Contract{
			ID:             sequenceID(len(out) + 1),
			Date:           date,
			InquiryDate:    inquiryDate,
			ContractDate:   contractDate,
			Attorney:       r.Attorney,
			Client:         r.CustomerName,
			Phone:          r.Phone,
			Field:          r.Field,
			ReceiptType:    ReceiptType(r.ReceiptType),
			DetailSource:   r.DetailSource,
			SourceCategory: p.classifier.Classify(r.DetailSource),
			AmountText:     r.AmountText,
			Amount:         strconv.FormatInt(total, 10),
		})
	}

	report.Contracts = len(out)
	logger.Info("contract rows parsed",
		"rows", report.Rows,
		"kept", report.Contracts,
		"dropped_invalid_date", report.ContractDrops[ErrInvalidDate.Error()],
		"dropped_hard_excluded", report.ContractDrops[ErrHardExcluded.Error()],
		"date_fallback", report.ContractDateFallback,
		"degraded_amounts", report.DegradedAmounts,
	)
	return out, report
}

// checkContract picks the contract date, falling back to the inquiry date.
func (p *Parser) checkContract(r SheetRow) (date string, fallback bool, err error) {
	if !r.Contract {
		return "", false, ErrNotContract
	}
	if p.isDoubleExcluded(r) {
		return "", false, ErrHardExcluded
	}
	if d, ok := NormalizeDate(r.ContractDate); ok {
		return d, false, nil
	}
	if d, ok := NormalizeDate(r.Date); ok {
		return d, true, nil
	}
	return "", false, ErrInvalidDate
}

func sequenceID(n int) string {
	return fmt.Sprintf("%05d", n)
}
