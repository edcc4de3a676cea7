package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/pdf"
)

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "S/ 150.00", pdf.FormatAmount(decimal.RequireFromString("150")))
	assert.Equal(t, "S/ 1,234.50", pdf.FormatAmount(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "S/ 1,000,000.00", pdf.FormatAmount(decimal.RequireFromString("1000000")))
}

func TestGenerateSaleSheet(t *testing.T) {
	d := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	s := &entity.Sale{
		ID:                   "7f8a7a8e-3c3e-4f4b-9b7e-1f0b2d3c4e5f",
		Number:               42,
		AdvisorName:          "Ana Pérez",
		Modality:             entity.ModalityCallCenter,
		Shift:                entity.ShiftManana,
		ClientName:           "Juan Quispe",
		ClientDNI:            "12345678",
		ClientPhone:          "987654321",
		ClientGender:         entity.GenderMale,
		ProductService:       "Internet 200Mbps",
		Amount:               decimal.RequireFromString("150.00"),
		SEC:                  "S1",
		SOT:                  "T1",
		ScheduledInstallDate: &d,
		Status:               entity.SaleStatusPendienteAudio,
		CreatedAt:            time.Now(),
	}
	history := []*entity.Notification{
		{Message: "Nueva venta #42 de Ana Pérez pendiente de completar", Read: true, CreatedAt: time.Now()},
	}

	out, err := pdf.NewSaleSheetGenerator().GenerateSaleSheet(context.Background(), s, history)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
