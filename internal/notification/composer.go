// Package notification builds and delivers the WhatsApp messages sent to
// clients when an order's phase starts or completes.
package notification

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"laundry-system/internal/domain"
)

const (
	businessName  = "Lavandería El Cobre"
	countryPrefix = "56"
)

// NormalizePhone strips everything but digits and prepends the Chilean
// country prefix when missing. Empty input stays empty.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return ""
	}
	if !strings.HasPrefix(digits, countryPrefix) {
		digits = countryPrefix + digits
	}
	return digits
}

// Message renders the per-phase wording for an event kind. For advanced
// events nextPhase names where the order moved; estimatedMinutes is only
// used for started events.
func Message(kind domain.NotificationKind, code string, p, nextPhase domain.Phase, estimatedMinutes int) string {
	phase := strings.ToUpper(p.Label())
	switch kind {
	case domain.NotifyStarted:
		return fmt.Sprintf("¡Hola! Tu comanda %s ha iniciado la fase de *%s*. Tiempo estimado: %d minutos. - %s",
			code, phase, estimatedMinutes, businessName)
	case domain.NotifyAdvanced:
		return fmt.Sprintf("¡Tu comanda %s completó la fase de *%s* y pasó a *%s*! - %s",
			code, phase, strings.ToUpper(nextPhase.Label()), businessName)
	case domain.NotifyTerminal:
		return fmt.Sprintf("¡Tu comanda %s está *LISTA PARA RETIRAR*! 🎉 - %s", code, businessName)
	}
	return ""
}

// Link builds the wa.me compose deep link for a normalized phone number.
func Link(phone, message string) string {
	return "https://wa.me/" + phone + "?text=" + url.QueryEscape(message)
}

// Compose builds the full notification event for an order and phase
// transition. Returns false when the order has no phone number: the
// notification is skipped silently, never an error.
func Compose(o *domain.Order, p domain.Phase, kind domain.NotificationKind, nextPhase domain.Phase, now time.Time) (domain.NotificationEvent, bool) {
	phone := NormalizePhone(o.Phone)
	if phone == "" {
		return domain.NotificationEvent{}, false
	}
	msg := Message(kind, o.Code, p, nextPhase, o.Record(p).EstimatedMinutes)
	return domain.NotificationEvent{
		OrderCode:  o.Code,
		Collection: o.Collection,
		Phase:      p,
		Kind:       kind,
		Phone:      phone,
		Message:    msg,
		Link:       Link(phone, msg),
		OccurredAt: now,
	}, true
}
