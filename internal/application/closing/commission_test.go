package closing_test

import (
	"context"
	"testing"

	"github.com/jhoicas/dealroom-api/internal/application/closing"
	"github.com/jhoicas/dealroom-api/internal/domain/entity"
	"github.com/jhoicas/dealroom-api/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCalculator(s *store) *closing.CommissionCalculator {
	return closing.NewCommissionCalculator(
		membershipRepo{s}, feePlanRepo{s}, commissionRepo{s}, agreementRepo{s}, entityUserRepo{s},
		notifier{s}, auditLogger{s}, publisher{s}, logger.Nop(),
	)
}

func calcFixture(kind entity.ReferrerKind, refID string, plan *entity.FeePlan) (*store, *entity.Deal, *entity.Subscription) {
	s := newStore()
	deal := &entity.Deal{ID: "deal-1", Name: "Fondo", Currency: "EUR"}
	s.deals[deal.ID] = deal
	if plan != nil {
		s.feePlans[plan.ID] = plan
	}
	s.memberships = append(s.memberships, &entity.DealMembership{
		ID:                "m-1",
		DealID:            "deal-1",
		InvestorID:        "inv-1",
		ReferrerKind:      kind,
		ReferrerID:        ptr(refID),
		AssignedFeePlanID: ptr("plan-1"),
		DispatchedAt:      daysAgo(5),
	})
	sub := fundedSub("sub-1", "deal-1", "inv-1", "20000")
	sub.Currency = ""
	return s, deal, sub
}

func acceptedPlan() *entity.FeePlan {
	return &entity.FeePlan{
		ID:                  "plan-1",
		DealID:              "deal-1",
		Status:              entity.FeePlanStatusAccepted,
		IsActive:            true,
		CommercialPartnerID: ptr("cp-1"),
		Components:          []entity.FeeComponent{{Kind: entity.FeeComponentSubscription, RateBps: 250}},
	}
}

func TestCommission_CommercialPartnerUsaMonedaDelDeal(t *testing.T) {
	s, deal, sub := calcFixture(entity.ReferrerCommercialPartner, "cp-1", acceptedPlan())

	out, err := newCalculator(s).Process(context.Background(), deal, nil, sub)

	require.NoError(t, err)
	require.True(t, out.Created)
	assert.True(t, out.Commission.AccrualAmount.Equal(dec("500")))
	assert.Equal(t, "EUR", out.Commission.Currency)
	assert.Equal(t, entity.ReferrerCommercialPartner, out.Commission.ReferrerKind)
}

func TestCommission_RechazosSonOmisionesEsperadas(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(p *entity.FeePlan)
		refID  string
	}{
		{"plan no aceptado", func(p *entity.FeePlan) { p.Status = "draft" }, "cp-1"},
		{"plan inactivo", func(p *entity.FeePlan) { p.IsActive = false }, "cp-1"},
		{"tasa cero", func(p *entity.FeePlan) { p.Components[0].RateBps = 0 }, "cp-1"},
		{"solo management fee", func(p *entity.FeePlan) { p.Components[0].Kind = entity.FeeComponentManagement }, "cp-1"},
		{"referente distinto al del plan", func(p *entity.FeePlan) {}, "cp-2"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			plan := acceptedPlan()
			tc.mutate(plan)
			s, deal, sub := calcFixture(entity.ReferrerCommercialPartner, tc.refID, plan)

			out, err := newCalculator(s).Process(context.Background(), deal, nil, sub)

			assert.ErrorIs(t, err, closing.ErrCommissionSkipped)
			assert.False(t, out.Created)
			assert.Empty(t, s.commissions)
			assert.Empty(t, s.audits)
		})
	}
}

func TestCommission_PlanInexistente(t *testing.T) {
	s, deal, sub := calcFixture(entity.ReferrerPartner, "p-1", nil)

	_, err := newCalculator(s).Process(context.Background(), deal, nil, sub)

	assert.ErrorIs(t, err, closing.ErrCommissionSkipped)
}

func TestCommission_IntroducerConAcuerdoQueVenceHoy(t *testing.T) {
	plan := acceptedPlan()
	plan.CommercialPartnerID = nil
	plan.IntroducerID = ptr("intro-1")
	s, deal, sub := calcFixture(entity.ReferrerIntroducer, "intro-1", plan)
	s.agreements["intro-1"] = &entity.IntroducerAgreement{
		ID:           "ag-1",
		IntroducerID: "intro-1",
		Status:       entity.AgreementStatusActive,
		SignedDate:   daysAgo(30),
		ExpiryDate:   daysAgo(0),
	}
	s.entityUsers[entity.Referrer{Kind: entity.ReferrerIntroducer, ID: "intro-1"}] = []string{"u-1"}

	out, err := newCalculator(s).Process(context.Background(), deal, nil, sub)

	require.NoError(t, err)
	assert.True(t, out.Created)
	assert.Equal(t, 1, out.AccrualNotifications)
}

func TestCommission_IntroducerSinFirma(t *testing.T) {
	plan := acceptedPlan()
	plan.CommercialPartnerID = nil
	plan.IntroducerID = ptr("intro-1")
	s, deal, sub := calcFixture(entity.ReferrerIntroducer, "intro-1", plan)
	s.agreements["intro-1"] = &entity.IntroducerAgreement{ID: "ag-1", IntroducerID: "intro-1", Status: entity.AgreementStatusActive}

	_, err := newCalculator(s).Process(context.Background(), deal, nil, sub)

	assert.ErrorIs(t, err, closing.ErrCommissionSkipped)
}

func TestCommission_SegundaVezNoDuplica(t *testing.T) {
	s, deal, sub := calcFixture(entity.ReferrerCommercialPartner, "cp-1", acceptedPlan())
	calc := newCalculator(s)

	first, err := calc.Process(context.Background(), deal, nil, sub)
	require.NoError(t, err)
	second, err := calc.Process(context.Background(), deal, nil, sub)
	require.NoError(t, err)

	assert.True(t, first.Created)
	assert.False(t, second.Created)
	assert.Len(t, s.commissions, 1)
	assert.Len(t, s.audits, 1)
}

func TestCommission_TipoDeReferenteDesconocido(t *testing.T) {
	s, deal, sub := calcFixture(entity.ReferrerKind("broker"), "b-1", acceptedPlan())

	_, err := newCalculator(s).Process(context.Background(), deal, nil, sub)

	assert.ErrorIs(t, err, closing.ErrCommissionSkipped)
}

func TestCommission_UsaLaReferenciaMasReciente(t *testing.T) {
	plan := acceptedPlan()
	s, deal, sub := calcFixture(entity.ReferrerPartner, "p-viejo", plan)
	s.memberships = append(s.memberships, &entity.DealMembership{
		ID:                "m-2",
		DealID:            "deal-1",
		InvestorID:        "inv-1",
		ReferrerKind:      entity.ReferrerCommercialPartner,
		ReferrerID:        ptr("cp-1"),
		AssignedFeePlanID: ptr("plan-1"),
		DispatchedAt:      daysAgo(1),
	})

	out, err := newCalculator(s).Process(context.Background(), deal, nil, sub)

	require.NoError(t, err)
	require.True(t, out.Created)
	assert.Equal(t, "cp-1", out.Commission.EntityID)
}
