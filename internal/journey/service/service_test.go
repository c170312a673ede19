package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"dealer_portal_backend/internal/events"
	"dealer_portal_backend/internal/journey/domain"
	"dealer_portal_backend/internal/journey/repository"
	"dealer_portal_backend/platform/idgen"
	"dealer_portal_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeStore struct {
	journeys map[uuid.UUID]*domain.CustomerJourney

	getErr    error
	upsertErr error
	addErr    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{journeys: make(map[uuid.UUID]*domain.CustomerJourney)}
}

func (f *fakeStore) GetJourney(_ context.Context, leadID uuid.UUID) (*domain.CustomerJourney, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	j, ok := f.journeys[leadID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *j
	cp.Touchpoints = append([]domain.Touchpoint(nil), j.Touchpoints...)
	cp.Milestones = append([]domain.Milestone(nil), j.Milestones...)
	return &cp, nil
}

func (f *fakeStore) UpsertJourney(_ context.Context, j *domain.CustomerJourney) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.journeys[j.LeadID] = j
	return nil
}

func (f *fakeStore) AddTouchpoint(_ context.Context, _ uuid.UUID, _ domain.Touchpoint) error {
	return f.addErr
}

func (f *fakeStore) AddMilestone(_ context.Context, _ uuid.UUID, _ domain.Milestone) (bool, error) {
	return true, f.addErr
}

type recordingBus struct {
	published []events.Event
}

func (b *recordingBus) Publish(_ context.Context, ev events.Event) {
	b.published = append(b.published, ev)
}

func (b *recordingBus) PublishSync(_ context.Context, ev events.Event) error {
	b.published = append(b.published, ev)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

func (b *recordingBus) lastUpdate(t *testing.T) events.JourneyUpdated {
	t.Helper()
	for i := len(b.published) - 1; i >= 0; i-- {
		if ev, ok := b.published[i].(events.JourneyUpdated); ok {
			return ev
		}
	}
	t.Fatal("no JourneyUpdated event published")
	return events.JourneyUpdated{}
}

func newTestService(store repository.JourneyStore, bus events.Bus, now time.Time) *Service {
	factory := domain.NewFactory(&idgen.Sequence{Prefix: "tp"}, func() time.Time { return now })
	return New(store, factory, bus, logger.New("test"), func() time.Time { return now })
}

func TestRecordTouchpointPersistsAndPublishes(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	store := newFakeStore()
	bus := &recordingBus{}
	svc := newTestService(store, bus, now)
	leadID := uuid.New()

	res := svc.RecordTouchpoint(context.Background(), leadID, TouchpointParams{
		Type:    domain.TouchpointSMSReply,
		Channel: domain.ChannelSMS,
	})

	if !res.Persisted {
		t.Fatal("expected result to be persisted")
	}
	if len(res.Journey.Touchpoints) != 1 {
		t.Fatalf("touchpoints = %d, want 1", len(res.Journey.Touchpoints))
	}
	if _, ok := store.journeys[leadID]; !ok {
		t.Fatal("journey not stored")
	}

	update := bus.lastUpdate(t)
	if update.LeadID != leadID {
		t.Fatalf("event lead = %s, want %s", update.LeadID, leadID)
	}
	if !update.Persisted {
		t.Fatal("update event should be flagged persisted")
	}
}

func TestRecordTouchpointDegradedRead(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	store := newFakeStore()
	store.getErr = errors.New("connection refused")
	bus := &recordingBus{}
	svc := newTestService(store, bus, now)

	res := svc.RecordTouchpoint(context.Background(), uuid.New(), TouchpointParams{
		Type:    domain.TouchpointWebsiteVisit,
		Channel: domain.ChannelWeb,
	})

	// A read failure falls back to a fresh journey; the write still lands.
	if !res.Persisted {
		t.Fatal("expected persisted despite read failure")
	}
	if len(res.Journey.Touchpoints) != 1 {
		t.Fatalf("touchpoints = %d, want 1", len(res.Journey.Touchpoints))
	}
}

func TestRecordTouchpointWriteFailureFlagged(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	store := newFakeStore()
	store.upsertErr = errors.New("disk full")
	bus := &recordingBus{}
	svc := newTestService(store, bus, now)

	res := svc.RecordTouchpoint(context.Background(), uuid.New(), TouchpointParams{
		Type:    domain.TouchpointPhoneCall,
		Channel: domain.ChannelPhone,
	})

	if res.Persisted {
		t.Fatal("expected Persisted=false on write failure")
	}
	// The insights are still usable even when the write fails.
	if res.Insights.NextBestAction == "" {
		t.Fatal("expected a recommendation despite write failure")
	}
	if bus.lastUpdate(t).Persisted {
		t.Fatal("update event should carry Persisted=false")
	}
}

func TestAchieveMilestoneDuplicateIsQuiet(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	store := newFakeStore()
	bus := &recordingBus{}
	svc := newTestService(store, bus, now)
	leadID := uuid.New()

	svc.AchieveMilestone(context.Background(), leadID, MilestoneParams{Type: domain.MilestoneTestDriveScheduled})
	before := len(bus.published)
	res := svc.AchieveMilestone(context.Background(), leadID, MilestoneParams{Type: domain.MilestoneTestDriveScheduled})

	if got := len(res.Journey.Milestones); got != 1 {
		t.Fatalf("milestones = %d, want 1", got)
	}
	for _, ev := range bus.published[before:] {
		if _, ok := ev.(events.MilestoneAchieved); ok {
			t.Fatal("duplicate milestone must not publish MilestoneAchieved")
		}
	}
}

func TestProcessEventMapsChannelToTouchpoint(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		channel   domain.Channel
		direction string
		want      domain.TouchpointType
	}{
		{domain.ChannelSMS, "in", domain.TouchpointSMSReply},
		{domain.ChannelEmail, "in", domain.TouchpointEmailOpen},
		{domain.ChannelPhone, "in", domain.TouchpointPhoneCall},
		{domain.ChannelInPerson, "in", domain.TouchpointAppointment},
		{domain.ChannelWeb, "in", domain.TouchpointWebsiteVisit},
	}
	for _, tc := range cases {
		store := newFakeStore()
		svc := newTestService(store, &recordingBus{}, now)

		res := svc.ProcessEvent(context.Background(), InboundEvent{
			LeadID:      uuid.New(),
			MessageText: "what is the price on the new CX-5?",
			Direction:   tc.direction,
			Channel:     tc.channel,
			Timestamp:   now,
		})
		if got := res.Journey.Touchpoints[0].Type; got != tc.want {
			t.Errorf("%s/%s: type = %s, want %s", tc.channel, tc.direction, got, tc.want)
		}
	}
}

func TestProcessEventPriceCueAdvancesStage(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	store := newFakeStore()
	svc := newTestService(store, &recordingBus{}, now)
	leadID := uuid.New()

	res := svc.ProcessEvent(context.Background(), InboundEvent{
		LeadID:      leadID,
		MessageText: "can you send me the price and financing options",
		Direction:   "in",
		Channel:     domain.ChannelSMS,
		Timestamp:   now,
	})

	if res.Insights.Stage != domain.StageConsideration {
		t.Fatalf("stage = %s, want %s", res.Insights.Stage, domain.StageConsideration)
	}
}

func TestGetJourneyMissingLeadReturnsDefault(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc := newTestService(newFakeStore(), &recordingBus{}, now)

	j := svc.GetJourney(context.Background(), uuid.New())
	if j.Stage != domain.StageAwareness {
		t.Fatalf("stage = %s, want %s", j.Stage, domain.StageAwareness)
	}
	if j.ConversionProbability != domain.DefaultConversionProbability {
		t.Fatalf("probability = %v, want %v", j.ConversionProbability, domain.DefaultConversionProbability)
	}
}
