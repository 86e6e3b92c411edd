package notification

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laundry-system/internal/domain"
)

func TestNormalizePhone(t *testing.T) {
	cases := []struct{ in, want string }{
		{"9 1234 5678", "56912345678"},
		{"56912345678", "56912345678"},
		{"+56 9 1234 5678", "56912345678"},
		{"(9) 1234-5678", "56912345678"},
		{"", ""},
		{"sin teléfono", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, NormalizePhone(c.in), "input %q", c.in)
	}
}

func TestMessageWording(t *testing.T) {
	started := Message(domain.NotifyStarted, "H-0001", domain.PhaseWash, "", 45)
	assert.Contains(t, started, "H-0001")
	assert.Contains(t, started, "*LAVADO*")
	assert.Contains(t, started, "45 minutos")
	assert.Contains(t, started, "Lavandería El Cobre")

	advanced := Message(domain.NotifyAdvanced, "P-0002", domain.PhaseIron, domain.PhaseBag, 0)
	assert.Contains(t, advanced, "*PLANCHADO*")
	assert.Contains(t, advanced, "*EMBOLSADO*")

	terminal := Message(domain.NotifyTerminal, "P-0002", domain.PhaseBag, "", 0)
	assert.Contains(t, terminal, "LISTA PARA RETIRAR")
}

func TestLinkEncoding(t *testing.T) {
	link := Link("56912345678", "¡Hola! fase")
	assert.True(t, strings.HasPrefix(link, "https://wa.me/56912345678?text="))
	assert.NotContains(t, link, " ", "text must be URL encoded")
}

func TestComposeSkipsWithoutPhone(t *testing.T) {
	o := &domain.Order{Code: "H-0001", Collection: domain.CollectionCompany}
	_, ok := Compose(o, domain.PhaseWash, domain.NotifyStarted, "", time.Now().UTC())
	assert.False(t, ok)
}

func TestCompose(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	o := &domain.Order{
		Code:       "H-0001",
		Collection: domain.CollectionCompany,
		Phone:      "9 1234 5678",
		Phases: map[domain.Phase]*domain.PhaseRecord{
			domain.PhaseWash: {Status: domain.PhaseInProgress, EstimatedMinutes: 40},
		},
	}
	ev, ok := Compose(o, domain.PhaseWash, domain.NotifyStarted, "", now)
	require.True(t, ok)
	assert.Equal(t, "56912345678", ev.Phone)
	assert.Contains(t, ev.Message, "40 minutos")
	assert.Contains(t, ev.Link, "wa.me/56912345678")
	assert.Equal(t, now, ev.OccurredAt)
	assert.Equal(t, domain.NotifyStarted, ev.Kind)
}
