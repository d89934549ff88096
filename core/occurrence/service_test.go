package occurrence_test

import (
	"context"
	"net/mail"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LionGab/sistema-disciplinar-jupiara/core"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/occurrence"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/settings"
	emailsvc "github.com/LionGab/sistema-disciplinar-jupiara/services/email"
	"github.com/LionGab/sistema-disciplinar-jupiara/testutil"
)

func TestService_Create_alertsOnGrave(t *testing.T) {
	ctx := context.Background()
	conf := testutil.NewConfig()
	repos := testutil.SeededRepositories(t, true)
	mailSvc := emailsvc.NewConsoleServiceMock(conf, testutil.NewLogger(conf))
	settingsSvc := settings.NewService(repos.Settings)
	require.NoError(t, settingsSvc.Load(ctx))
	svc := occurrence.NewService(repos.Occurrences, mailSvc, settingsSvc)

	types, err := svc.QueryTypes(ctx)
	require.NoError(t, err)
	typeID := func(name string) int {
		for _, tp := range types {
			if tp.Name == name {
				return tp.ID
			}
		}
		t.Fatalf("unknown type %q", name)
		return 0
	}

	tests := []struct {
		name     string
		typeName string
		wantSent int
	}{
		{name: "leve", typeName: "Atraso", wantSent: 0},
		{name: "media", typeName: "Uso de celular", wantSent: 0},
		{name: "grave", typeName: "Bullying", wantSent: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := len(mailSvc.SentMessages())
			o, err := svc.Create(ctx, occurrence.NewOccurrence{
				StudentID:   1,
				TypeID:      typeID(tt.typeName),
				Date:        core.NewDate(2024, time.August, 20),
				Time:        "09:30",
				Description: "Registro de teste",
				Recorder:    "Tenente Silva",
				Status:      occurrence.StatusPendente,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.typeName, o.TypeName)
			assert.Len(t, mailSvc.SentMessages(), before+tt.wantSent)
		})
	}

	sent := mailSvc.SentMessages()
	require.Len(t, sent, 1)
	msg := sent[0]
	assert.Equal(t, []mail.Address{
		{Name: "João Silva", Address: "tenente@escola.mil.br"},
		{Name: "Responsável por Ana Silva Santos", Address: "ana.santos@email.com"},
	}, msg.To)
	assert.Equal(t, "Ocorrência grave: Ana Silva Santos", msg.Subject)
	assert.True(t, strings.Contains(msg.TextContent, "Bullying (10 pontos)"))
	assert.True(t, strings.Contains(msg.TextContent, "20/08/2024 às 09:30"))
	assert.True(t, strings.Contains(msg.TextContent, "Escola Cívico Militar Jupiara"))
	assert.NotEmpty(t, msg.HTMLContent)
}

func TestService_Create_unknownReference(t *testing.T) {
	ctx := context.Background()
	repos := testutil.SeededRepositories(t, false)
	svc := occurrence.NewService(repos.Occurrences, nil, nil)

	_, err := svc.Create(ctx, occurrence.NewOccurrence{StudentID: 42, TypeID: 1, Date: core.NewDate(2024, time.August, 1)})
	var vErr *core.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.ErrorIs(t, err, occurrence.ErrUnknownReference)
}
