package cart

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

const whatsappNumber = "1234567890"

// WhatsAppOrderURL builds the messaging-app share deep link for the given
// cart, entirely client-presentable with no server round-trip.
func WhatsAppOrderURL(summary *Summary) string {
	var b strings.Builder
	b.WriteString("Hi! I'd like to place an order:\n\n")
	for _, line := range summary.Items {
		lineTotal := line.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		fmt.Fprintf(&b, "- %s (%s) - Qty: %d - %s\n", line.Title, line.Brand, line.Quantity, lineTotal.StringFixed(2))
	}
	fmt.Fprintf(&b, "\nTotal: %s\n\n", summary.Total.StringFixed(2))
	b.WriteString("Please confirm availability and delivery details.")

	return fmt.Sprintf("https://wa.me/%s?text=%s", whatsappNumber, url.QueryEscape(b.String()))
}

// WhatsAppOrderConfirmationURL links a placed order into a chat thread.
func WhatsAppOrderConfirmationURL(orderID int64) string {
	return fmt.Sprintf("https://wa.me/%s?text=%s", whatsappNumber, url.QueryEscape(fmt.Sprintf("Order %d", orderID)))
}
