package notify

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/viviquero/dealtracker/internal/reconcile"
)

// Conservative syntax check: something@something.tld, no whitespace.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Message is the payload handed to a transport
type Message struct {
	ToEmail string
	ToName  string
	Subject string
	Body    string
}

// Transport delivers rendered messages. Implementations must be safe to
// call with a cancelled context.
type Transport interface {
	Send(ctx context.Context, msg Message) error
	Configured() bool
}

// Result is the caller-facing outcome of a dispatch. Failures are always
// expressed here, never as panics or returned errors.
type Result struct {
	Success bool
	Message string
}

// Dispatcher renders reports and alerts into plain text and hands them to
// a transport. With no configured transport it degrades to a simulated
// send that still reports success, so demo and dev setups behave like
// production except for the embedded message string.
type Dispatcher struct {
	transport Transport
	log       *slog.Logger
}

func NewDispatcher(transport Transport, log *slog.Logger) *Dispatcher {
	return &Dispatcher{
		transport: transport,
		log:       log,
	}
}

// SendReport renders and dispatches a deal report
func (d *Dispatcher) SendReport(ctx context.Context, report *reconcile.DealReport, recipient, name, locale, currency string) Result {
	if !emailRegex.MatchString(recipient) {
		return Result{Success: false, Message: fmt.Sprintf("invalid recipient address: %q", recipient)}
	}

	t := stringsFor(locale)
	subject := fmt.Sprintf(t.reportSubject, len(report.Games))

	var b strings.Builder
	fmt.Fprintf(&b, t.reportHeader+"\n", len(report.Games))
	for _, g := range report.Games {
		b.WriteString("\n")
		writeItemBlock(&b, t, g.Title, g.BestPrice, g.StoreName, g.OriginalPrice, g.DiscountPct, g.DealURL, currency)
	}
	fmt.Fprintf(&b, "\n"+t.reportTotal+"\n", money(report.TotalSavings, currency))

	return d.deliver(ctx, Message{
		ToEmail: recipient,
		ToName:  name,
		Subject: subject,
		Body:    b.String(),
	})
}

// SendAlerts renders and dispatches at-target price alerts
func (d *Dispatcher) SendAlerts(ctx context.Context, alerts []reconcile.PriceAlert, recipient, name, locale, currency string) Result {
	if !emailRegex.MatchString(recipient) {
		return Result{Success: false, Message: fmt.Sprintf("invalid recipient address: %q", recipient)}
	}

	t := stringsFor(locale)
	subject := fmt.Sprintf(t.alertSubject, len(alerts))

	var b strings.Builder
	fmt.Fprintf(&b, t.alertHeader+"\n", len(alerts))
	for _, a := range alerts {
		b.WriteString("\n")
		fmt.Fprintf(&b, "%s\n", a.Title)
		fmt.Fprintf(&b, "  "+t.priceLine+"\n", money(a.Price, currency), a.StoreName)
		fmt.Fprintf(&b, "  "+t.targetLine+"\n", money(a.TargetPrice, currency), money(a.Savings, currency))
		if a.DealURL != "" {
			fmt.Fprintf(&b, "  "+t.dealLine+"\n", a.DealURL)
		}
	}

	return d.deliver(ctx, Message{
		ToEmail: recipient,
		ToName:  name,
		Subject: subject,
		Body:    b.String(),
	})
}

func (d *Dispatcher) deliver(ctx context.Context, msg Message) Result {
	if d.transport == nil || !d.transport.Configured() {
		d.log.Info("transport not configured, simulating send", "to", msg.ToEmail, "subject", msg.Subject)
		return Result{Success: true, Message: "send simulated: no transport configured"}
	}

	if err := d.transport.Send(ctx, msg); err != nil {
		d.log.Error("send notification", "to", msg.ToEmail, "error", err)
		return Result{Success: false, Message: "failed to send notification"}
	}

	return Result{Success: true, Message: "notification sent"}
}

// writeItemBlock renders one game. The price line is always present; the
// original price and discount appear only for an active discount, the deal
// URL only when the provider returned one.
func writeItemBlock(b *strings.Builder, t table, title string, price float64, store string, original, discount float64, dealURL, currency string) {
	fmt.Fprintf(b, "%s\n", title)
	fmt.Fprintf(b, "  "+t.priceLine+"\n", money(price, currency), store)
	if discount > 0 {
		fmt.Fprintf(b, "  "+t.originalLine+"\n", money(original, currency), discount)
	}
	if dealURL != "" {
		fmt.Fprintf(b, "  "+t.dealLine+"\n", dealURL)
	}
}

func money(v float64, currency string) string {
	if strings.EqualFold(currency, "USD") {
		return fmt.Sprintf("$%.2f", v)
	}
	return fmt.Sprintf("%.2f€", v)
}

// table holds the handful of strings the dispatcher localizes
type table struct {
	reportSubject string
	reportHeader  string
	reportTotal   string
	alertSubject  string
	alertHeader   string
	priceLine     string
	originalLine  string
	targetLine    string
	dealLine      string
}

var tables = map[string]table{
	"en": {
		reportSubject: "Game deals report: %d discounted games",
		reportHeader:  "Your game deals report (%d games on sale)",
		reportTotal:   "Total potential savings: %s",
		alertSubject:  "Price alert: %d games at your target",
		alertHeader:   "Games that reached your target price (%d)",
		priceLine:     "Price: %s at %s",
		originalLine:  "Original: %s (-%.0f%%)",
		targetLine:    "Target: %s, you save %s",
		dealLine:      "Deal: %s",
	},
	"es": {
		reportSubject: "Informe de ofertas: %d juegos rebajados",
		reportHeader:  "Tu informe de ofertas (%d juegos en oferta)",
		reportTotal:   "Ahorro potencial total: %s",
		alertSubject:  "Alerta de precio: %d juegos en tu objetivo",
		alertHeader:   "Juegos que alcanzaron tu precio objetivo (%d)",
		priceLine:     "Precio: %s en %s",
		originalLine:  "Original: %s (-%.0f%%)",
		targetLine:    "Objetivo: %s, ahorras %s",
		dealLine:      "Oferta: %s",
	},
}

func stringsFor(locale string) table {
	if t, ok := tables[strings.ToLower(locale)]; ok {
		return t
	}
	return tables["en"]
}
