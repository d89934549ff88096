package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEmailTemplates(t *testing.T) {
	require.NoError(t, ParseEmailTemplates())

	entry, ok := templates["grave_occurrence"]
	require.True(t, ok, "grave_occurrence not parsed")
	assert.Contains(t, entry, ".txt")
	assert.Contains(t, entry, ".gohtml")
	// layouts are not templates of their own
	assert.NotContains(t, templates, "_base")
}

func TestEmailMessage_Render(t *testing.T) {
	data := map[string]interface{}{
		"SchoolName":  "Escola Estadual Cívico-Militar Jupiara",
		"StudentName": "Ana Silva Santos",
		"Enrollment":  "2024001",
		"ClassName":   "6A",
		"Date":        "20/08/2024",
		"Time":        "09:30",
		"TypeName":    "Bullying",
		"Points":      10,
		"Description": "Registro de teste",
		"Measures":    "",
		"Recorder":    "Tenente Silva",
	}

	tests := []struct {
		name     string
		msg      EmailMessage
		wantText []string
		wantHTML bool
	}{
		{
			name: "templated",
			msg:  EmailMessage{TemplateName: "grave_occurrence", TemplateData: data},
			wantText: []string{
				"Escola Estadual Cívico-Militar Jupiara",
				"Aluno: Ana Silva Santos (matrícula 2024001)",
				"Data: 20/08/2024 às 09:30",
			},
			wantHTML: true,
		},
		{
			name:     "plain body",
			msg:      EmailMessage{BodyStr: "texto simples"},
			wantText: []string{"texto simples"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := tt.msg
			require.NoError(t, m.Render())
			assert.True(t, m.HasContent())
			for _, want := range tt.wantText {
				assert.Contains(t, m.TextContent, want)
			}
			if tt.wantHTML {
				assert.Contains(t, m.HTMLContent, "Ana Silva Santos")
			} else {
				assert.Empty(t, m.HTMLContent)
			}
		})
	}
}
