package social

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"friend-service/internal/observability"
	"friend-service/internal/repositories"
)

// BanDuration is one of the ban lengths moderators can choose from.
type BanDuration string

const (
	BanOneWeek   BanDuration = "1_week"
	BanOneMonth  BanDuration = "1_month"
	BanSixMonths BanDuration = "6_months"
	BanPermanent BanDuration = "permanent"
)

const (
	opBan       = "user.ban"
	opPushToken = "user.push_token"
	opEnsure    = "user.ensure"
)

// Until returns the end of a ban starting at now.
func (d BanDuration) Until(now time.Time) (time.Time, bool) {
	const day = 24 * time.Hour
	switch d {
	case BanOneWeek:
		return now.Add(7 * day), true
	case BanOneMonth:
		return now.Add(30 * day), true
	case BanSixMonths:
		return now.Add(180 * day), true
	case BanPermanent:
		return time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

func (s *Service) requireAdmin(ctx context.Context, userID string) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	if !user.IsAdmin {
		return errors.Wrap(ErrUnauthorized, "admin role required")
	}
	return nil
}

// BanUser bans target for the given duration. Only admins may ban.
func (s *Service) BanUser(ctx context.Context, adminID, targetID string, duration BanDuration) (until time.Time, err error) {
	ctx, span := s.start(ctx, "BanUser")
	defer func() { s.finish(ctx, span, opBan, adminID, targetID, err) }()

	if err = s.requireAdmin(ctx, adminID); err != nil {
		return time.Time{}, err
	}
	until, ok := duration.Until(s.now())
	if !ok {
		return time.Time{}, errors.Wrapf(ErrInvalidInput, "unknown ban duration %q", duration)
	}

	err = s.users.SetBannedUntil(ctx, targetID, until)
	if errors.Is(err, repositories.ErrUserNotFound) {
		return time.Time{}, errors.Wrapf(ErrNotFound, "user %s", targetID)
	}
	if err != nil {
		return time.Time{}, storeError(err, "ban user")
	}
	return until, nil
}

// RegisterPushToken stores the push address used to reach the user. An empty
// token unregisters the device.
func (s *Service) RegisterPushToken(ctx context.Context, userID, token string) (err error) {
	ctx, span := s.start(ctx, "RegisterPushToken")
	defer func() { s.finish(ctx, span, opPushToken, userID, "", err) }()

	err = s.users.SetPushToken(ctx, userID, strings.TrimSpace(token))
	if errors.Is(err, repositories.ErrUserNotFound) {
		return errors.Wrapf(ErrNotFound, "user %s", userID)
	}
	if err != nil {
		return storeError(err, "set push token")
	}
	return nil
}

// EnsureUser provisions the directory row of an authenticated user on first
// sight. The username falls back to the id when the token carries none.
func (s *Service) EnsureUser(ctx context.Context, userID, username string) (err error) {
	if userID == "" {
		return errors.Wrap(ErrInvalidInput, "user id is required")
	}
	username = strings.TrimSpace(username)
	if username == "" {
		username = userID
	}
	created, err := s.users.EnsureUser(ctx, userID, username)
	if err != nil {
		return storeError(err, "ensure user")
	}
	if created {
		observability.ObserveTransition(opEnsure, nil)
		if s.auditor != nil {
			s.auditor.Record(ctx, opEnsure, userID, "", nil)
		}
	}
	return nil
}
