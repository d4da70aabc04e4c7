package closing

import (
	"context"

	"github.com/jhoicas/dealroom-api/internal/application/dto"
	"github.com/jhoicas/dealroom-api/internal/domain"
	"github.com/jhoicas/dealroom-api/internal/domain/entity"
	"github.com/jhoicas/dealroom-api/internal/domain/repository"
)

// HistoryUseCase consulta las ejecuciones de cierre registradas.
type HistoryUseCase struct {
	repo repository.CloseRunRepository
}

// NewHistoryUseCase construye el caso de uso.
func NewHistoryUseCase(repo repository.CloseRunRepository) *HistoryUseCase {
	return &HistoryUseCase{repo: repo}
}

// List lista ejecuciones, más recientes primero.
func (uc *HistoryUseCase) List(ctx context.Context, in dto.CloseRunListRequest) (*dto.CloseRunListResponse, error) {
	switch in.TargetKind {
	case "", entity.CloseTargetDeal, entity.CloseTargetTermsheet:
	default:
		return nil, domain.ErrInvalidInput
	}
	in.DefaultPage()
	if in.Limit > 100 {
		in.Limit = 100
	}
	runs, err := uc.repo.List(ctx, in.TargetKind, in.TargetID, in.Limit, in.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.CloseRunListResponse{
		Items: make([]dto.CloseRunResponse, 0, len(runs)),
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}
	for _, r := range runs {
		out.Items = append(out.Items, toCloseRunResponse(r))
	}
	return out, nil
}

func toCloseRunResponse(r *entity.CloseRun) dto.CloseRunResponse {
	errs := r.Errors
	if errs == nil {
		errs = []string{}
	}
	return dto.CloseRunResponse{
		ID:                       r.ID,
		TargetKind:               r.TargetKind,
		TargetID:                 r.TargetID,
		DealID:                   r.DealID,
		Success:                  r.Success,
		Marked:                   r.Marked,
		SubscriptionsActivated:   r.SubscriptionsActivated,
		PositionsCreated:         r.PositionsCreated,
		CommissionsCreated:       r.CommissionsCreated,
		CertificatesTriggered:    r.CertificatesTriggered,
		FeePlansEnabled:          r.FeePlansEnabled,
		NotificationsSent:        r.NotificationsSent,
		AccrualNotificationsSent: r.AccrualNotificationsSent,
		Errors:                   errs,
		StartedAt:                r.StartedAt,
		FinishedAt:               r.FinishedAt,
	}
}
