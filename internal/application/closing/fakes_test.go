package closing_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/dealroom-api/internal/application/closing"
	"github.com/jhoicas/dealroom-api/internal/application/ports"
	"github.com/jhoicas/dealroom-api/internal/domain"
	"github.com/jhoicas/dealroom-api/internal/domain/entity"
	"github.com/jhoicas/dealroom-api/internal/domain/repository"
	"github.com/jhoicas/dealroom-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// store base de datos en memoria compartida por los repositorios falsos.
type store struct {
	mu sync.Mutex

	deals         map[string]*entity.Deal
	termsheets    map[string]*entity.Termsheet
	subs          []*entity.Subscription
	positions     map[string]*entity.Position
	memberships   []*entity.DealMembership
	feePlans      map[string]*entity.FeePlan
	commissions   map[string]*entity.Commission
	agreements    map[string]*entity.IntroducerAgreement
	entityUsers   map[entity.Referrer][]string
	profiles      map[string]*entity.Profile
	notifications []*entity.Notification
	audits        []*entity.AuditLog
	runs          []*entity.CloseRun
	certificates  []entity.CertificateRequest
	events        []publishedEvent
	held          map[string]bool

	failActivate map[string]bool
	panicOnCert  bool
}

type publishedEvent struct {
	Subject string
	Key     string
	Payload any
}

func newStore() *store {
	return &store{
		deals:        map[string]*entity.Deal{},
		termsheets:   map[string]*entity.Termsheet{},
		positions:    map[string]*entity.Position{},
		feePlans:     map[string]*entity.FeePlan{},
		commissions:  map[string]*entity.Commission{},
		agreements:   map[string]*entity.IntroducerAgreement{},
		entityUsers:  map[entity.Referrer][]string{},
		profiles:     map[string]*entity.Profile{},
		held:         map[string]bool{},
		failActivate: map[string]bool{},
	}
}

func (s *store) processor(markOnErrors bool) *closing.Processor {
	calc := closing.NewCommissionCalculator(
		membershipRepo{s}, feePlanRepo{s}, commissionRepo{s}, agreementRepo{s}, entityUserRepo{s},
		notifier{s}, auditLogger{s}, publisher{s}, logger.Nop(),
	)
	return closing.NewProcessor(closing.Deps{
		Deals:         dealRepo{s},
		Termsheets:    termsheetRepo{s},
		Subscriptions: subscriptionRepo{s},
		Positions:     positionRepo{s},
		Memberships:   membershipRepo{s},
		FeePlans:      feePlanRepo{s},
		EntityUsers:   entityUserRepo{s},
		Profiles:      profileRepo{s},
		TxRunner:      txRunner{s},
		Commissions:   calc,
		Certificates:  certTrigger{s},
		Notifier:      notifier{s},
		Events:        publisher{s},
		Locker:        locker{s},
		Logger:        logger.Nop(),
	}, closing.Options{MarkOnErrors: markOnErrors, LockTTL: time.Minute})
}

func (s *store) sub(id string) *entity.Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.subs {
		if sub.ID == id {
			cp := *sub
			return &cp
		}
	}
	return nil
}

// ── fixtures ──

func ptr[T any](v T) *T { return &v }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal { return ptr(dec(s)) }

func daysAgo(n int) *time.Time { return ptr(time.Now().UTC().AddDate(0, 0, -n)) }

func fundedSub(id, dealID, investorID, funded string) *entity.Subscription {
	return &entity.Subscription{
		ID:           id,
		InvestorID:   investorID,
		DealID:       dealID,
		Status:       entity.SubscriptionStatusFunded,
		Currency:     "USD",
		Commitment:   dec(funded),
		FundedAmount: dec(funded),
	}
}

// ── repositorios ──

type dealRepo struct{ s *store }

var _ repository.DealRepository = dealRepo{}

func (r dealRepo) GetByID(_ context.Context, id string) (*entity.Deal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.deals[id]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (r dealRepo) ListReadyForClose(_ context.Context, asOf time.Time) ([]*entity.Deal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Deal
	for _, d := range r.s.deals {
		if d.CloseAt != nil && !d.CloseAt.After(asOf) && d.ClosedProcessedAt == nil {
			cp := *d
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r dealRepo) MarkClosedProcessed(_ context.Context, id string, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.deals[id]
	if !ok || d.ClosedProcessedAt != nil {
		return false, nil
	}
	d.ClosedProcessedAt = &at
	return true, nil
}

type termsheetRepo struct{ s *store }

var _ repository.TermsheetRepository = termsheetRepo{}

func (r termsheetRepo) GetByID(_ context.Context, id string) (*entity.Termsheet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.termsheets[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r termsheetRepo) ListReadyForClose(_ context.Context, asOf time.Time) ([]*entity.Termsheet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Termsheet
	for _, t := range r.s.termsheets {
		if t.CompletionDate != nil && !t.CompletionDate.After(asOf) && t.ClosedProcessedAt == nil {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r termsheetRepo) MarkClosedProcessed(_ context.Context, id string, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.termsheets[id]
	if !ok || t.ClosedProcessedAt != nil {
		return false, nil
	}
	t.ClosedProcessedAt = &at
	return true, nil
}

type subscriptionRepo struct{ s *store }

var _ repository.SubscriptionRepository = subscriptionRepo{}

func (r subscriptionRepo) ListPendingActivation(_ context.Context, dealID string, investorIDs []string) ([]*entity.Subscription, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	allowed := map[string]bool{}
	for _, id := range investorIDs {
		allowed[id] = true
	}
	var out []*entity.Subscription
	for _, sub := range r.s.subs {
		if sub.DealID != dealID || !sub.IsPendingActivation() {
			continue
		}
		if investorIDs != nil && !allowed[sub.InvestorID] {
			continue
		}
		cp := *sub
		out = append(out, &cp)
	}
	return out, nil
}

func (r subscriptionRepo) Activate(_ context.Context, in *entity.Subscription) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failActivate[in.ID] {
		return false, fmt.Errorf("activar suscripción: conexión perdida")
	}
	for _, sub := range r.s.subs {
		if sub.ID != in.ID {
			continue
		}
		if sub.ActivatedAt != nil {
			return false, nil
		}
		sub.Status = in.Status
		sub.ActivatedAt = in.ActivatedAt
		sub.SpreadPerShare = in.SpreadPerShare
		sub.SpreadFeeAmount = in.SpreadFeeAmount
		return true, nil
	}
	return false, nil
}

type positionRepo struct{ s *store }

var _ repository.PositionRepository = positionRepo{}

func (r positionRepo) CreateIfAbsent(_ context.Context, p *entity.Position) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := p.InvestorID + "|" + p.VehicleID
	if _, ok := r.s.positions[key]; ok {
		return false, nil
	}
	cp := *p
	r.s.positions[key] = &cp
	return true, nil
}

type membershipRepo struct{ s *store }

var _ repository.DealMembershipRepository = membershipRepo{}

func (r membershipRepo) ListInvestorIDsByTermsheet(_ context.Context, dealID, termsheetID string) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []string
	for _, m := range r.s.memberships {
		if m.DealID == dealID && m.TermSheetID != nil && *m.TermSheetID == termsheetID {
			out = append(out, m.InvestorID)
		}
	}
	return out, nil
}

func (r membershipRepo) LatestReferral(_ context.Context, dealID, investorID string, termsheetID *string) (*entity.DealMembership, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var best *entity.DealMembership
	for _, m := range r.s.memberships {
		if m.DealID != dealID || m.InvestorID != investorID {
			continue
		}
		if termsheetID != nil && (m.TermSheetID == nil || *m.TermSheetID != *termsheetID) {
			continue
		}
		if _, ok := m.Referrer(); !ok {
			continue
		}
		if best == nil || (m.DispatchedAt != nil && (best.DispatchedAt == nil || m.DispatchedAt.After(*best.DispatchedAt))) {
			best = m
		}
	}
	if best == nil {
		return nil, nil
	}
	cp := *best
	return &cp, nil
}

type feePlanRepo struct{ s *store }

var _ repository.FeePlanRepository = feePlanRepo{}

func (r feePlanRepo) GetByID(_ context.Context, id string) (*entity.FeePlan, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.feePlans[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r feePlanRepo) EnableInvoiceRequests(_ context.Context, dealID string, termsheetID *string) ([]*entity.FeePlan, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.FeePlan
	for _, p := range r.s.feePlans {
		if p.DealID != dealID || p.Status != entity.FeePlanStatusAccepted || p.InvoiceRequestsEnabled {
			continue
		}
		if termsheetID != nil && (p.TermSheetID == nil || *p.TermSheetID != *termsheetID) {
			continue
		}
		p.InvoiceRequestsEnabled = true
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type commissionRepo struct{ s *store }

var _ repository.CommissionRepository = commissionRepo{}

func (r commissionRepo) Create(_ context.Context, c *entity.Commission) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := fmt.Sprintf("%s|%s|%s|%s", c.ReferrerKind, c.EntityID, c.DealID, c.InvestorID)
	if _, ok := r.s.commissions[key]; ok {
		return false, nil
	}
	cp := *c
	r.s.commissions[key] = &cp
	return true, nil
}

type agreementRepo struct{ s *store }

var _ repository.IntroducerAgreementRepository = agreementRepo{}

func (r agreementRepo) GetInForce(_ context.Context, introducerID string, asOf time.Time) (*entity.IntroducerAgreement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.agreements[introducerID]
	if !ok || !a.IsInForce(asOf) {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

type entityUserRepo struct{ s *store }

var _ repository.EntityUserRepository = entityUserRepo{}

func (r entityUserRepo) ListUserIDs(_ context.Context, ref entity.Referrer) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]string(nil), r.s.entityUsers[ref]...), nil
}

type profileRepo struct{ s *store }

var _ repository.ProfileRepository = profileRepo{}

func (r profileRepo) GetInvestorContact(_ context.Context, _ string, investorID string) (*entity.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.profiles[investorID], nil
}

type closeRunRepo struct{ s *store }

var _ repository.CloseRunRepository = closeRunRepo{}

func (r closeRunRepo) Create(_ context.Context, run *entity.CloseRun) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *run
	r.s.runs = append(r.s.runs, &cp)
	return nil
}

func (r closeRunRepo) List(_ context.Context, targetKind, targetID string, limit, offset int) ([]*entity.CloseRun, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.CloseRun
	for i := len(r.s.runs) - 1; i >= 0; i-- {
		run := r.s.runs[i]
		if (targetKind == "" || run.TargetKind == targetKind) && (targetID == "" || run.TargetID == targetID) {
			out = append(out, run)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ── colaboradores ──

type txRunner struct{ s *store }

func (t txRunner) RunFinalize(_ context.Context, fn func(
	dealRepo repository.DealRepository,
	termsheetRepo repository.TermsheetRepository,
	closeRunRepo repository.CloseRunRepository,
) error) error {
	return fn(dealRepo{t.s}, termsheetRepo{t.s}, closeRunRepo{t.s})
}

type certTrigger struct{ s *store }

func (c certTrigger) Trigger(_ context.Context, req entity.CertificateRequest) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	if c.s.panicOnCert {
		panic("generador de certificados caído")
	}
	c.s.certificates = append(c.s.certificates, req)
	return nil
}

type notifier struct{ s *store }

func (n notifier) CreateInvestorNotification(_ context.Context, in *entity.Notification) error {
	n.s.mu.Lock()
	defer n.s.mu.Unlock()
	n.s.notifications = append(n.s.notifications, in)
	return nil
}

type auditLogger struct{ s *store }

func (a auditLogger) Log(_ context.Context, e *entity.AuditLog) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	a.s.audits = append(a.s.audits, e)
	return nil
}

type publisher struct{ s *store }

func (p publisher) Publish(_ context.Context, subject, key string, payload any) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	p.s.events = append(p.s.events, publishedEvent{Subject: subject, Key: key, Payload: payload})
	return nil
}

func (p publisher) subjects() []string {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	out := make([]string, 0, len(p.s.events))
	for _, e := range p.s.events {
		out = append(out, e.Subject)
	}
	return out
}

type locker struct{ s *store }

func (l locker) Acquire(_ context.Context, key string, _ time.Duration) (ports.ReleaseFunc, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	if l.s.held[key] {
		return nil, fmt.Errorf("%w: lock %s tomado", domain.ErrConflict, key)
	}
	l.s.held[key] = true
	return func(context.Context) error {
		l.s.mu.Lock()
		defer l.s.mu.Unlock()
		delete(l.s.held, key)
		return nil
	}, nil
}
