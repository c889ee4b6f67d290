package utils

import (
	"fmt"
	"net/url"
)

// WhatsAppOrderLink builds a wa.me deep link that opens a chat with the
// shop pre-filled with an order request for the given plan. Price is in
// paisa, rendered in rupees inside the message.
func WhatsAppOrderLink(number, productName, variationName string, pricePaisa int64) string {
	message := fmt.Sprintf(
		"Hi! I want to order:\n\n*Product:* %s\n*Plan:* %s\n*Price:* %s\n\nPlease process my order.",
		productName, variationName, FormatRupees(pricePaisa),
	)
	return "https://wa.me/" + number + "?text=" + url.QueryEscape(message)
}
