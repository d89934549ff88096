package occurrence_test

import (
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LionGab/sistema-disciplinar-jupiara/core"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/occurrence"
)

func TestNewOccurrence_Validate(t *testing.T) {
	validate := validator.New()
	core.InitValidators(validate, core.NewTranslator())

	tests := []struct {
		name       string
		time       string
		wantErr    bool
		wantTime   string
		wantStatus occurrence.Status
	}{
		{name: "hh:mm", time: "08:00", wantTime: "08:00", wantStatus: occurrence.StatusPendente},
		{name: "seconds dropped", time: " 08:00:59 ", wantTime: "08:00", wantStatus: occurrence.StatusPendente},
		{name: "no time", time: "", wantTime: "", wantStatus: occurrence.StatusPendente},
		{name: "trailing garbage", time: "08:00xyz", wantErr: true},
		{name: "garbage seconds", time: "08:00:5x", wantErr: true},
		{name: "out of range", time: "24:00", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			no := occurrence.NewOccurrence{
				StudentID:   1,
				TypeID:      1,
				Date:        core.NewDate(2024, time.August, 20),
				Time:        tt.time,
				Description: "Chegou atrasado",
				Recorder:    "Tenente Silva",
			}
			err := no.Validate(validate)
			if tt.wantErr {
				var verrs validator.ValidationErrors
				require.ErrorAs(t, err, &verrs)
				assert.Equal(t, "hora_ocorrencia", verrs[0].Field())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTime, no.Time)
			assert.Equal(t, tt.wantStatus, no.Status)
		})
	}
}
