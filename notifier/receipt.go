package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/doarlabs/donation-ledger-go/queue"
)

// ReceiptURL returns the public URL a receipt is served from. Receipts are
// rendered on demand; nothing is stored.
func ReceiptURL(base, donationID string) string {
	return fmt.Sprintf("%s/receipts/%s", strings.TrimRight(base, "/"), donationID)
}

// RenderReceipt renders the plain-text donation receipt.
func RenderReceipt(evt queue.Event) string {
	var b strings.Builder
	b.WriteString("========================================\n")
	b.WriteString("COMPROVANTE DE DOACAO\n")
	b.WriteString("========================================\n\n")
	fmt.Fprintf(&b, "ID da Doacao: %s\n", evt.DonationID)
	fmt.Fprintf(&b, "Campanha: %s\n", evt.CampaignID)
	fmt.Fprintf(&b, "Doador: %s\n", evt.DonorName)
	fmt.Fprintf(&b, "Valor: R$ %.2f\n", evt.Amount)
	fmt.Fprintf(&b, "Metodo: %s\n", evt.PaymentMethod)
	fmt.Fprintf(&b, "Data: %s\n", formatDonatedAt(evt.DonatedAt))
	b.WriteString("\n========================================\n")
	b.WriteString("Obrigado pela sua doacao!\n")
	b.WriteString("========================================\n")
	return b.String()
}

// RenderEmailBody renders the HTML body for the new-donation email.
func RenderEmailBody(evt queue.Event, receiptURL string) string {
	var b strings.Builder
	b.WriteString("<p>Nova doacao recebida!</p>")
	b.WriteString("<ul>")
	fmt.Fprintf(&b, "<li>ID: %s</li>", evt.DonationID)
	fmt.Fprintf(&b, "<li>Campanha: %s</li>", evt.CampaignID)
	fmt.Fprintf(&b, "<li>Doador: %s</li>", evt.DonorName)
	fmt.Fprintf(&b, "<li>Valor: R$ %.2f</li>", evt.Amount)
	fmt.Fprintf(&b, "<li>Metodo: %s</li>", evt.PaymentMethod)
	fmt.Fprintf(&b, "<li>Data: %s</li>", formatDonatedAt(evt.DonatedAt))
	b.WriteString("</ul>")
	fmt.Fprintf(&b, `<p>Comprovante: <a href="%s">%s</a></p>`, receiptURL, receiptURL)
	return b.String()
}

func formatDonatedAt(raw string) string {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return raw
	}
	return t.Format("02/01/2006 15:04:05")
}
