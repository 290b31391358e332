package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/terraincognita07/mindharbor/internal/hostedauth"
	"github.com/terraincognita07/mindharbor/internal/models"
)

type stubUserResolver struct {
	user  *models.User
	token string
}

func (stub stubUserResolver) ResolveCurrentUser(context.Context, string) (*models.User, bool) {
	return stub.user, stub.user != nil
}

func (stub stubUserResolver) AccessToken(context.Context, string) (string, bool) {
	return stub.token, stub.token != ""
}

type onboardingFixture struct {
	bearings  *memoryBearingStore
	devices   *memoryDeviceStore
	functions *stubFunctions
	service   *OnboardingService
}

func newOnboardingFixture(user *models.User) *onboardingFixture {
	fixture := &onboardingFixture{
		bearings:  newMemoryBearingStore(),
		devices:   newMemoryDeviceStore(),
		functions: &stubFunctions{},
	}
	fixture.service = NewOnboardingService(
		stubUserResolver{user: user, token: "token-1"},
		fixture.bearings,
		fixture.devices,
		fixture.functions,
		nil,
		nil,
	)
	fixture.service.now = func() time.Time {
		return time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	}
	return fixture
}

func TestSubmitOnboardingRequiresUser(t *testing.T) {
	fixture := newOnboardingFixture(nil)

	_, err := fixture.service.SubmitOnboarding(context.Background(), "device-1", models.QuestionnaireAnswers{})
	if !errors.Is(err, ErrOnboardingUnauthenticated) {
		t.Fatalf("expected ErrOnboardingUnauthenticated, got %v", err)
	}
	if fixture.bearings.upserts != 0 || fixture.devices.has("device-1", models.DeviceKeyOnboardingCompleted) {
		t.Fatal("expected no local writes without a user")
	}
}

func TestSubmitOnboardingPersistsDefaultsAndPushes(t *testing.T) {
	fixture := newOnboardingFixture(&models.User{ID: "user-1", Email: "sam@example.com"})

	bearing, err := fixture.service.SubmitOnboarding(context.Background(), "device-1", models.QuestionnaireAnswers{
		PrimaryStruggle: "depression",
		Coping:          "struggling",
	})
	if err != nil {
		t.Fatalf("SubmitOnboarding() unexpected error: %v", err)
	}

	want := models.QuestionnaireAnswers{
		PrimaryStruggle:  "depression",
		SleepQuality:     "good",
		StressLevel:      "moderate",
		SupportSystem:    "moderate",
		Coping:           "struggling",
		PhysicalActivity: "sometimes",
	}
	if diff := cmp.Diff(want, bearing.Answers()); diff != "" {
		t.Fatalf("stored answers mismatch (-want +got):\n%s", diff)
	}
	if bearing.Analysis != Analyze(want) {
		t.Fatal("expected stored analysis to match Analyze")
	}

	completed, err := fixture.service.OnboardingCompleted("device-1")
	if err != nil || !completed {
		t.Fatalf("expected onboarding completed flag, got %v (%v)", completed, err)
	}

	if len(fixture.functions.pushed) != 1 {
		t.Fatalf("expected one remote push, got %d", len(fixture.functions.pushed))
	}
	pushed := fixture.functions.pushed[0]
	if pushed.UserID != "user-1" || pushed.Analysis != bearing.Analysis || pushed.Answers[models.FieldCoping] != "struggling" {
		t.Fatalf("unexpected pushed payload %#v", pushed)
	}
	if fixture.functions.pushTokens[0] != "token-1" {
		t.Fatalf("expected bearer token-1, got %q", fixture.functions.pushTokens[0])
	}
}

func TestSubmitOnboardingSwallowsRemoteFailure(t *testing.T) {
	fixture := newOnboardingFixture(&models.User{ID: "user-1"})
	fixture.functions.pushErr = &hostedauth.APIError{Status: http.StatusInternalServerError, Message: "down"}

	if _, err := fixture.service.SubmitOnboarding(context.Background(), "device-1", models.QuestionnaireAnswers{}); err != nil {
		t.Fatalf("expected remote failure to be swallowed, got %v", err)
	}
	completed, _ := fixture.service.OnboardingCompleted("device-1")
	if !completed {
		t.Fatal("expected completed flag despite remote failure")
	}
}

func TestSubmitOnboardingLocalFailureIsReported(t *testing.T) {
	fixture := newOnboardingFixture(&models.User{ID: "user-1"})
	fixture.bearings.upsertErr = errors.New("disk full")

	if _, err := fixture.service.SubmitOnboarding(context.Background(), "device-1", models.QuestionnaireAnswers{}); err == nil {
		t.Fatal("expected local persist failure to be returned")
	}
	if fixture.devices.has("device-1", models.DeviceKeyOnboardingCompleted) {
		t.Fatal("expected no completed flag after failed persist")
	}
	if len(fixture.functions.pushed) != 0 {
		t.Fatal("expected no remote push after failed persist")
	}
}

func TestSubmitOnboardingTwiceOverwritesBearing(t *testing.T) {
	fixture := newOnboardingFixture(&models.User{ID: "user-1"})
	answers := models.QuestionnaireAnswers{PrimaryStruggle: "stress", StressLevel: "severe"}

	first, err := fixture.service.SubmitOnboarding(context.Background(), "device-1", answers)
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}
	second, err := fixture.service.SubmitOnboarding(context.Background(), "device-1", answers)
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}

	if len(fixture.bearings.bearings) != 1 {
		t.Fatalf("expected a single stored bearing, got %d", len(fixture.bearings.bearings))
	}
	if diff := cmp.Diff(*first, *second, cmpopts.IgnoreFields(models.CompassBearing{}, "CreatedAt", "UpdatedAt")); diff != "" {
		t.Fatalf("resubmission changed the bearing (-first +second):\n%s", diff)
	}
}

func TestSubmitOnboardingClearsDraft(t *testing.T) {
	fixture := newOnboardingFixture(&models.User{ID: "user-1"})
	validator, err := NewStepValidator()
	if err != nil {
		t.Fatalf("NewStepValidator() unexpected error: %v", err)
	}
	drafts := NewQuestionnaireService(fixture.devices, validator)
	fixture.service.drafts = drafts

	if _, err := drafts.SaveStep(context.Background(), "device-1", models.FieldPrimaryStruggle, "anxiety"); err != nil {
		t.Fatalf("SaveStep() unexpected error: %v", err)
	}
	if _, err := fixture.service.SubmitOnboarding(context.Background(), "device-1", models.QuestionnaireAnswers{PrimaryStruggle: "anxiety"}); err != nil {
		t.Fatalf("SubmitOnboarding() unexpected error: %v", err)
	}
	if fixture.devices.has("device-1", models.DeviceKeyOnboardingDraft) {
		t.Fatal("expected draft to be cleared")
	}
}

func TestBearingLookup(t *testing.T) {
	fixture := newOnboardingFixture(&models.User{ID: "user-1"})

	if _, err := fixture.service.Bearing(context.Background(), "device-1"); !errors.Is(err, ErrBearingNotFound) {
		t.Fatalf("expected ErrBearingNotFound, got %v", err)
	}
	if _, err := fixture.service.SubmitOnboarding(context.Background(), "device-1", models.QuestionnaireAnswers{}); err != nil {
		t.Fatalf("SubmitOnboarding() unexpected error: %v", err)
	}
	bearing, err := fixture.service.Bearing(context.Background(), "device-1")
	if err != nil || bearing.UserID != "user-1" {
		t.Fatalf("unexpected bearing %#v (%v)", bearing, err)
	}
}
