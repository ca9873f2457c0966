package email

import "fmt"

// QuoteReadyHTML is sent when the admin prices a quote; portalURL lets the
// customer accept or decline.
func QuoteReadyHTML(customerName, productType string, price float64, portalURL string) string {
	return fmt.Sprintf(`<h2>Your quote is ready</h2>
<p>Hi %s,</p>
<p>We've reviewed your %s request and your quote comes to <strong>$%.2f</strong>.</p>
<p><a href="%s">Review and respond to your quote</a></p>
<p>Thanks for considering us for your engraving work.</p>`,
		customerName, productType, price, portalURL)
}

// InvoiceHTML is sent when a quote is accepted into production and an invoice
// was published.
func InvoiceHTML(customerName, orderNumber, invoiceURL string, price float64) string {
	return fmt.Sprintf(`<h2>Your order is underway</h2>
<p>Hi %s,</p>
<p>Order <strong>%s</strong> is now in progress. Your invoice for <strong>$%.2f</strong> is ready:</p>
<p><a href="%s">View and pay your invoice</a></p>`,
		customerName, orderNumber, price, invoiceURL)
}

// AcceptedNoInvoiceHTML is the fallback when the invoice could not be created;
// the order still proceeds.
func AcceptedNoInvoiceHTML(customerName, orderNumber string) string {
	return fmt.Sprintf(`<h2>Your order is underway</h2>
<p>Hi %s,</p>
<p>Order <strong>%s</strong> is now in progress. We'll follow up shortly with payment details.</p>`,
		customerName, orderNumber)
}

// ReceiptHTML confirms a reconciled payment to the customer.
func ReceiptHTML(customerName, orderNumber, receiptNumber string, amount float64) string {
	return fmt.Sprintf(`<h2>Payment received</h2>
<p>Hi %s,</p>
<p>We've received your payment of <strong>$%.2f</strong> for order <strong>%s</strong>.</p>
<p>Receipt number: %s</p>
<p>We'll be in touch as your order progresses.</p>`,
		customerName, amount, orderNumber, receiptNumber)
}

// AdminPaymentHTML notifies the shop that a payment came in.
func AdminPaymentHTML(orderNumber, customerName string, amount float64) string {
	return fmt.Sprintf(`<h2>Payment received</h2>
<p>Order <strong>%s</strong> (%s) was paid: <strong>$%.2f</strong>.</p>`,
		orderNumber, customerName, amount)
}

// AdminUnmatchedPaymentHTML flags a payment that could not be matched to a
// quote so money is never silently dropped.
func AdminUnmatchedPaymentHTML(squarePaymentID, note string, amount float64) string {
	return fmt.Sprintf(`<h2>Unmatched payment recorded</h2>
<p>A Square payment of <strong>$%.2f</strong> (id %s) could not be matched to an order.</p>
<p>Note: %s</p>`,
		amount, squarePaymentID, note)
}

// CompletionPaidHTML thanks the customer when their invoice is confirmed paid.
func CompletionPaidHTML(customerName, orderNumber string) string {
	return fmt.Sprintf(`<h2>Your order is complete</h2>
<p>Hi %s,</p>
<p>Order <strong>%s</strong> is finished. Thank you for your business!</p>`,
		customerName, orderNumber)
}

// CompletionReminderHTML is the completion email when payment is still
// outstanding; it carries the invoice link.
func CompletionReminderHTML(customerName, orderNumber, invoiceURL string) string {
	link := ""
	if invoiceURL != "" {
		link = fmt.Sprintf(`<p><a href="%s">Pay your invoice</a></p>`, invoiceURL)
	}
	return fmt.Sprintf(`<h2>Your order is complete</h2>
<p>Hi %s,</p>
<p>Order <strong>%s</strong> is finished. Our records show the invoice hasn't been paid yet.</p>%s`,
		customerName, orderNumber, link)
}
