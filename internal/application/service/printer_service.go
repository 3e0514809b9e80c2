package service

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/clinova/pos-api/internal/domain/entity"
	"github.com/clinova/pos-api/internal/domain/enum"
	"github.com/clinova/pos-api/internal/domain/repository"
	"github.com/clinova/pos-api/pkg/apperror"
	"github.com/clinova/pos-api/pkg/printer"
	"github.com/google/uuid"
)

// PrinterService handles receipt formatting and thermal printing.
type PrinterService struct {
	printer         printer.Printer
	transactionRepo repository.TransactionRepository
	clinicRepo      repository.ClinicRepository
	printerType     string
}

// NewPrinterService creates a new printer service.
func NewPrinterService(
	p printer.Printer,
	transactionRepo repository.TransactionRepository,
	clinicRepo repository.ClinicRepository,
	printerType string,
) *PrinterService {
	return &PrinterService{
		printer:         p,
		transactionRepo: transactionRepo,
		clinicRepo:      clinicRepo,
		printerType:     printerType,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus() *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printerType != "none" && s.printerType != "",
		Connected:  s.printer.IsConnected(),
		Type:       s.printerType,
	}
}

// TestPrint sends a test page to the printer.
// Returns the receipt data so the handler can return it as JSON when printer is disabled.
func (s *PrinterService) TestPrint() (*entity.Receipt, error) {
	receipt := &entity.Receipt{
		Header: entity.ReceiptHeader{
			ClinicName: "PRINTER TEST",
			Address:    "Test Address",
			Phone:      "+62 000 000 000",
		},
		InvoiceNo: "TEST-001",
		Date:      "Test Date",
		Cashier:   "System",
		Items: []entity.ReceiptItem{
			{Name: "Test Item 1", Quantity: 1, UnitPrice: 10.00, Total: 10.00},
			{Name: "Test Item 2", Quantity: 2, UnitPrice: 5.00, Total: 10.00},
		},
		SubTotal: 20.00,
		Total:    20.00,
		Paid:     20.00,
	}

	data := FormatReceipt(receipt)
	if err := s.printer.Print(data); err != nil {
		return receipt, fmt.Errorf("test print failed: %w", err)
	}

	return receipt, nil
}

// PrintTransactionReceipt fetches a transaction (with items) and prints its receipt.
func (s *PrinterService) PrintTransactionReceipt(ctx context.Context, transactionID uuid.UUID) (*entity.Receipt, error) {
	txn, err := s.transactionRepo.GetWithItems(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, apperror.NewNotFoundError("Transaction")
	}

	receipt := s.buildReceipt(ctx, txn)

	data := FormatReceipt(receipt)
	if err := s.printer.Print(data); err != nil {
		log.Printf("Printer error (transaction %s): %v", transactionID, err)
		return receipt, fmt.Errorf("failed to print receipt: %w", err)
	}

	return receipt, nil
}

func (s *PrinterService) buildReceipt(ctx context.Context, txn *entity.Transaction) *entity.Receipt {
	receipt := &entity.Receipt{
		Header: entity.ReceiptHeader{
			ClinicName: "Clinova POS",
		},
		InvoiceNo:          txn.InvoiceNo,
		Date:               txn.TransactionDate.Format("2006-01-02 15:04"),
		PaymentMethod:      txn.PaymentMethod,
		SubTotal:           float64(txn.Subtotal) / 100,
		ItemDiscounts:      float64(txn.ItemDiscountTotal) / 100,
		AdditionalDiscount: float64(txn.AdditionalDiscount) / 100,
		Total:              float64(txn.TotalAmount) / 100,
		Paid:               float64(txn.PaidAmount) / 100,
		Change:             float64(txn.ChangeAmount) / 100,
	}

	if due := txn.TotalAmount - txn.PaidAmount; due > 0 {
		receipt.Due = float64(due) / 100
	}

	if clinic, err := s.clinicRepo.GetByID(ctx, txn.ClinicID); err == nil && clinic != nil {
		receipt.Header.ClinicName = clinic.Name
		receipt.Footer = clinic.Settings.ReceiptFooter
	}

	if txn.Customer != nil {
		receipt.Customer = txn.Customer.Name
	}
	if txn.User.ID != uuid.Nil {
		receipt.Cashier = txn.User.FirstName
	}

	for _, it := range txn.Items {
		item := entity.ReceiptItem{
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: float64(it.UnitPrice) / 100,
			Discount:  float64(it.DiscountAmount) / 100,
			Total:     float64(it.TotalPrice) / 100,
		}
		if it.SaleMode != enum.SaleModeQuantity {
			item.UnitLabel = it.BaseUnitLabel
		}

		// Blend ingredients and bundle contents print as indented sub-lines.
		if it.CustomBlend != nil {
			for _, ing := range it.CustomBlend.Ingredients {
				item.Details = append(item.Details,
					fmt.Sprintf("%s %s %s", formatQty(ing.Quantity), ing.UnitLabel, ing.Name))
			}
		}
		if it.Bundle != nil {
			for _, c := range it.Bundle.Constituents {
				item.Details = append(item.Details,
					fmt.Sprintf("%s x %s", formatQty(c.Quantity), c.Name))
			}
			if it.Bundle.Savings > 0 {
				item.Details = append(item.Details,
					fmt.Sprintf("You saved %.2f", float64(it.Bundle.Savings)/100))
			}
		}

		receipt.Items = append(receipt.Items, item)
	}

	return receipt
}

// FormatReceipt converts a Receipt into ESC/POS bytes.
func FormatReceipt(r *entity.Receipt) []byte {
	doc := printer.NewDocument(32) // 58mm paper = 32 chars

	// Header
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Header.ClinicName).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if r.Header.Address != "" {
		doc.Text(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.Text(r.Header.Phone)
	}
	if r.Header.TaxID != "" {
		doc.TextF("Tax ID: %s", r.Header.TaxID)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-')

	// Invoice info
	doc.KeyValue("Invoice:", r.InvoiceNo).
		KeyValue("Date:", r.Date)

	if r.Cashier != "" {
		doc.KeyValue("Cashier:", r.Cashier)
	}
	if r.Customer != "" {
		doc.KeyValue("Customer:", r.Customer)
	}
	if r.PaymentMethod != "" {
		doc.KeyValue("Payment:", r.PaymentMethod)
	}

	doc.Separator('-')

	// Items
	for _, item := range r.Items {
		qty := formatQty(item.Quantity)
		if item.UnitLabel != "" {
			qty += item.UnitLabel
		}
		doc.ItemLine(qty, item.Name, fmt.Sprintf("%.2f", item.Total))
		if item.Quantity != 1 && item.UnitLabel == "" {
			doc.TextF("  @ %.2f each", item.UnitPrice)
		}
		if item.Discount > 0 {
			doc.TextF("  discount -%.2f", item.Discount)
		}
		for _, detail := range item.Details {
			doc.TextF("  %s", detail)
		}
	}

	doc.Separator('-')

	// Totals
	doc.KeyValue("Subtotal:", fmt.Sprintf("%.2f", r.SubTotal))
	if r.ItemDiscounts > 0 {
		doc.KeyValue("Item discounts:", fmt.Sprintf("-%.2f", r.ItemDiscounts))
	}
	if r.AdditionalDiscount > 0 {
		doc.KeyValue("Extra discount:", fmt.Sprintf("-%.2f", r.AdditionalDiscount))
	}
	doc.SetBold(true).
		KeyValue("TOTAL:", fmt.Sprintf("%.2f", r.Total)).
		SetBold(false)

	if r.Paid > 0 {
		doc.KeyValue("Paid:", fmt.Sprintf("%.2f", r.Paid))
	}
	if r.Change > 0 {
		doc.KeyValue("Change:", fmt.Sprintf("%.2f", r.Change))
	}
	if r.Due > 0 {
		doc.KeyValue("Due:", fmt.Sprintf("%.2f", r.Due))
	}

	doc.Separator('-')

	// Footer
	footer := r.Footer
	if footer == "" {
		footer = "Thank you for your visit!"
	}
	doc.SetAlign(printer.AlignCenter).
		LineFeed().
		Text(footer).
		LineFeed().
		SetAlign(printer.AlignLeft)

	doc.FeedLines(3).
		PartialCut()

	return doc.Bytes()
}

// formatQty renders a quantity without trailing zeros ("2", "2.5", "0.75").
func formatQty(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}
