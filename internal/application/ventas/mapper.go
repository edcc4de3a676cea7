package ventas

import (
	"time"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/sale"
)

// ToSaleResponse mapea la entidad a DTO.
func ToSaleResponse(s *entity.Sale) *dto.SaleResponse {
	if s == nil {
		return nil
	}
	return &dto.SaleResponse{
		ID:                   s.ID,
		Number:               s.Number,
		AdvisorID:            s.AdvisorID,
		AdvisorName:          s.AdvisorName,
		Modality:             s.Modality,
		Shift:                s.Shift,
		ClientName:           s.ClientName,
		ClientDNI:            s.ClientDNI,
		ClientPhone:          s.ClientPhone,
		ClientAddress:        s.ClientAddress,
		ClientEmail:          s.ClientEmail,
		ClientGender:         s.ClientGender,
		ProductService:       s.ProductService,
		Amount:               s.Amount,
		Notes:                s.Notes,
		SEC:                  s.SEC,
		SOT:                  s.SOT,
		ScheduledInstallDate: dateString(s.ScheduledInstallDate),
		ActualInstallDate:    dateString(s.ActualInstallDate),
		Status:               s.Status,
		StatusLabel:          sale.StatusLabel(s.Status),
		Closed:               sale.IsTerminal(s.Status),
		RejectionReason:      s.RejectionReason,
		CreatedAt:            s.CreatedAt,
		UpdatedAt:            s.UpdatedAt,
		ModifiedBy:           s.ModifiedBy,
	}
}

// ToSaleResponses mapea una lista; nunca devuelve nil.
func ToSaleResponses(list []*entity.Sale) []dto.SaleResponse {
	out := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *ToSaleResponse(s))
	}
	return out
}

func dateString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.DateOnly)
	return &s
}
