package catalog

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"ougadgets/internal/model"
)

// FormatNaira renders whole Naira with thousands separators, e.g. ₦1,234,567.
func FormatNaira(n int) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	digits := strconv.Itoa(n)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	return sign + "₦" + b.String()
}

// DiscountPercent is how far ouPrice sits below marketPrice, rounded to a
// whole percent. A non-positive market price gives 0.
func DiscountPercent(marketPrice, ouPrice int) int {
	if marketPrice <= 0 {
		return 0
	}
	return int(math.Round(float64(marketPrice-ouPrice) / float64(marketPrice) * 100))
}

// WhatsAppLink builds the wa.me deep link a buyer uses to send payment
// evidence after a bank transfer. format renders the price; nil means
// FormatNaira.
func WhatsAppLink(phone model.Phone, format func(int) string) string {
	if format == nil {
		format = FormatNaira
	}
	msg := fmt.Sprintf("Hi, I have just made a payment for the %s (%s). Here is my payment evidence.",
		phone.Name, format(phone.OUPrice))
	return "https://wa.me/?text=" + strings.ReplaceAll(url.QueryEscape(msg), "+", "%20")
}
