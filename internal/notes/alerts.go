package notes

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xaenox/notes-bot/internal/models"
)

// echoLimit caps how many alerts a single echo lists. Flood control, not a
// storage limit.
const echoLimit = 4

// SetAlert stores a reminder for user. Exactly one of at (an absolute time,
// rejected unless strictly in the future) or span (a "1d2h30m" style spec
// applied to now) must be supplied.
func (s *Service) SetAlert(ctx context.Context, user string, at time.Time, span, text string) error {
	switch {
	case span != "":
		d, err := ParseSpan(span)
		if err != nil {
			return err
		}
		at = s.now().Add(d)
	case at.IsZero():
		return Usagef("alert set needs a date or a time span")
	case !at.After(s.now()):
		return ErrPastDate
	}

	return s.store.CreateAlert(ctx, &models.Alert{
		User: user,
		Time: at,
		Text: text,
	})
}

// AlertList is the echo result: the soonest-due alerts plus how many more
// exist beyond the listing cap.
type AlertList struct {
	Alerts []*models.Alert
	More   int
}

// EchoAlerts lists up to four of the user's soonest-due alerts by ascending
// time; ErrNoAlerts if none are pending.
func (s *Service) EchoAlerts(ctx context.Context, user string) (*AlertList, error) {
	alerts, err := s.store.AlertsByUser(ctx, user)
	if err != nil {
		return nil, err
	}
	if len(alerts) == 0 {
		return nil, ErrNoAlerts
	}

	list := &AlertList{Alerts: alerts}
	if len(alerts) > echoLimit {
		list.Alerts = alerts[:echoLimit]
		list.More = len(alerts) - echoLimit
	}
	return list, nil
}

// DeliverAlerts atomically fetches and deletes every alert for user whose
// time has passed. An alert only becomes visible here once its owner speaks
// again after maturity; delivery is consuming and happens at most once.
func (s *Service) DeliverAlerts(ctx context.Context, user string) ([]*models.Alert, error) {
	alerts, err := s.store.PopDueAlerts(ctx, user, s.now())
	if err != nil {
		return nil, err
	}
	if len(alerts) > 0 {
		s.logger.Info("delivered alerts",
			zap.String("user", user),
			zap.Int("count", len(alerts)))
	}
	return alerts, nil
}
