package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/dealroom-api/internal/domain/entity"
)

func strPtr(s string) *string { return &s }

func TestFeePlan_LinkedEntity(t *testing.T) {
	p := entity.FeePlan{PartnerID: strPtr("p-1")}
	ref, ok := p.LinkedEntity()
	assert.True(t, ok)
	assert.Equal(t, entity.Referrer{Kind: entity.ReferrerPartner, ID: "p-1"}, ref)

	_, ok = (&entity.FeePlan{IntroducerID: strPtr("")}).LinkedEntity()
	assert.False(t, ok, "id vacío no cuenta como entidad vinculada")
}

func TestFeePlan_RateBpsIgnoraOtrosComponentes(t *testing.T) {
	p := entity.FeePlan{Components: []entity.FeeComponent{
		{Kind: entity.FeeComponentManagement, RateBps: 200},
		{Kind: entity.FeeComponentSubscription, RateBps: 150},
	}}
	assert.Equal(t, 150, p.RateBps(entity.FeeComponentSubscription))
	assert.Equal(t, 0, p.RateBps(entity.FeeComponentPerformance))
}

func TestFeePlan_IsApplicable(t *testing.T) {
	assert.True(t, (&entity.FeePlan{Status: "accepted", IsActive: true}).IsApplicable())
	assert.False(t, (&entity.FeePlan{Status: "draft", IsActive: true}).IsApplicable())
	assert.False(t, (&entity.FeePlan{Status: "accepted"}).IsApplicable())
}

func TestIntroducerAgreement_IsInForce(t *testing.T) {
	now := time.Date(2026, 5, 1, 23, 30, 0, 0, time.UTC)
	signed := now.AddDate(-1, 0, 0)
	sameDay := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -1)

	assert.True(t, (&entity.IntroducerAgreement{Status: "active", SignedDate: &signed}).IsInForce(now), "sin vencimiento")
	assert.True(t, (&entity.IntroducerAgreement{Status: "active", SignedDate: &signed, ExpiryDate: &sameDay}).IsInForce(now), "vence hoy: aún vigente")
	assert.False(t, (&entity.IntroducerAgreement{Status: "active", SignedDate: &signed, ExpiryDate: &past}).IsInForce(now), "vencido")
	assert.False(t, (&entity.IntroducerAgreement{Status: "active"}).IsInForce(now), "sin firma")
	assert.False(t, (&entity.IntroducerAgreement{Status: "terminated", SignedDate: &signed}).IsInForce(now))
}

func TestDealMembership_Referrer(t *testing.T) {
	m := entity.DealMembership{ReferrerKind: entity.ReferrerIntroducer, ReferrerID: strPtr("i-1")}
	ref, ok := m.Referrer()
	assert.True(t, ok)
	assert.Equal(t, "i-1", ref.ID)

	_, ok = (&entity.DealMembership{ReferrerKind: entity.ReferrerIntroducer}).Referrer()
	assert.False(t, ok)
}

func TestReferrerKind(t *testing.T) {
	assert.True(t, entity.ReferrerCommercialPartner.Valid())
	assert.False(t, entity.ReferrerKind("broker").Valid())
	assert.True(t, entity.ReferrerIntroducer.RequiresAgreement())
	assert.False(t, entity.ReferrerPartner.RequiresAgreement())
}
