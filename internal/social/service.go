// Package social implements the friend graph: the relationship state machine,
// per-user attribute tagging, the attribute visibility filter and the
// notification trigger.
package social

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"friend-service/internal/cache"
	"friend-service/internal/models"
	"friend-service/internal/observability"
	"friend-service/internal/repositories"
)

var tracer = otel.Tracer("friend-service/social")

// Notifier hands a notification intent to delivery. Delivery is best-effort.
type Notifier interface {
	Send(ctx context.Context, intent models.NotificationIntent) error
}

// Auditor records the outcome of a state-changing action.
type Auditor interface {
	Record(ctx context.Context, action, actorID, subjectID string, err error)
}

// Deps are the collaborators of a Service. Profiles, Notifier and Auditor are
// optional.
type Deps struct {
	Relationships repositories.RelationshipRepository
	Attributes    repositories.AttributeRepository
	Chats         repositories.ChatRepository
	Users         repositories.UserRepository
	Reports       repositories.ReportRepository
	Profiles      cache.ProfileCache
	Notifier      Notifier
	Auditor       Auditor
	// AppName is used as the title of every push notification.
	AppName string
}

// Service is the entry point of the friend graph.
type Service struct {
	relationships repositories.RelationshipRepository
	attributes    repositories.AttributeRepository
	chats         repositories.ChatRepository
	users         repositories.UserRepository
	reports       repositories.ReportRepository
	profiles      cache.ProfileCache
	notifier      Notifier
	auditor       Auditor
	appName       string
	now           func() time.Time
}

// NewService builds a Service.
func NewService(deps Deps) *Service {
	appName := deps.AppName
	if appName == "" {
		appName = "BROADER"
	}
	return &Service{
		relationships: deps.Relationships,
		attributes:    deps.Attributes,
		chats:         deps.Chats,
		users:         deps.Users,
		reports:       deps.Reports,
		profiles:      deps.Profiles,
		notifier:      deps.Notifier,
		auditor:       deps.Auditor,
		appName:       appName,
		now:           time.Now,
	}
}

func (s *Service) start(ctx context.Context, op string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "social."+op)
}

// finish records metrics, tracing and audit for a state-changing operation.
func (s *Service) finish(ctx context.Context, span trace.Span, op, actorID, subjectID string, err error) {
	defer span.End()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	observability.ObserveTransition(op, err)
	if s.auditor != nil {
		s.auditor.Record(ctx, op, actorID, subjectID, err)
	}
}

func (s *Service) deliver(ctx context.Context, intent models.NotificationIntent) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Send(ctx, intent); err != nil {
		log.Printf("notification delivery failed type=%s target=%s: %v", intent.Data.Type, intent.TargetUserID, err)
		observability.ObserveNotification(string(intent.Data.Type), "error")
		return
	}
	observability.ObserveNotification(string(intent.Data.Type), "sent")
}

// lookupProfiles resolves display data for ids, through the profile cache
// when one is configured. Unknown users are absent from the result.
func (s *Service) lookupProfiles(ctx context.Context, ids []string) (map[string]models.Profile, error) {
	unique := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	result := make(map[string]models.Profile, len(unique))
	missing := unique
	if s.profiles != nil {
		found, notCached, err := s.profiles.Get(ctx, unique)
		if err != nil {
			log.Printf("profile cache get failed: %v", err)
		} else {
			result = found
			missing = notCached
		}
	}
	if len(missing) == 0 {
		return result, nil
	}

	users, err := s.users.BulkUsers(ctx, missing)
	if err != nil {
		return nil, storeError(err, "load profiles")
	}
	loaded := make([]models.Profile, 0, len(users))
	for _, u := range users {
		p := u.Profile()
		result[p.ID] = p
		loaded = append(loaded, p)
	}
	if s.profiles != nil {
		if err := s.profiles.Set(ctx, loaded); err != nil {
			log.Printf("profile cache set failed: %v", err)
		}
	}
	return result, nil
}
