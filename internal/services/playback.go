package services

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/btmxh/mediaview/internal/db"
	"github.com/btmxh/mediaview/internal/errs"
	"github.com/btmxh/mediaview/internal/media"
	"github.com/btmxh/mediaview/internal/player"
	"github.com/google/uuid"
)

const DefaultPlaybackBuffer = 256

type PlaybackEvent struct {
	Id      uuid.UUID
	Session string
	MediaId string
	Kind    media.MediaKind
	Event   player.Event
	Message string
	At      time.Time
}

func InsertPlaybackEvent(tx *db.Tx, ev PlaybackEvent) (hasErr bool) {
	return tx.Exec(nil, `INSERT INTO playback_events (id, session_id, media_id, media_kind, event, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		ev.Id, ev.Session, ev.MediaId, string(ev.Kind), string(ev.Event), ev.Message, ev.At)
}

// StorePlaybackEvent writes ev in its own transaction. Failures are only
// logged.
func StorePlaybackEvent(ctx context.Context, ev PlaybackEvent) {
	handler := errs.NewLogErrorHandler("recording playback event", nil, "session", ev.Session, "media", ev.MediaId)
	tx := db.BeginTx(ctx, handler)
	if tx == nil {
		return
	}
	defer tx.Rollback()

	if InsertPlaybackEvent(tx, ev) {
		return
	}

	tx.Commit()
}

// PlaybackRecorder queues playback events and stores them in the background.
// A nil recorder drops everything.
type PlaybackRecorder struct {
	events chan PlaybackEvent
	store  func(ctx context.Context, ev PlaybackEvent)
}

func NewPlaybackRecorder(store func(ctx context.Context, ev PlaybackEvent), buffer int) *PlaybackRecorder {
	if buffer <= 0 {
		buffer = DefaultPlaybackBuffer
	}
	return &PlaybackRecorder{events: make(chan PlaybackEvent, buffer), store: store}
}

func (r *PlaybackRecorder) Record(ev PlaybackEvent) {
	if r == nil {
		return
	}

	if ev.Id == uuid.Nil {
		ev.Id = uuid.New()
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}

	select {
	case r.events <- ev:
	default:
		slog.Warn("Playback event queue full, dropping event", "media", ev.MediaId, "event", ev.Event)
	}
}

// Run stores queued events until ctx is done.
func (r *PlaybackRecorder) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-r.events:
			r.store(ctx, ev)
		}
	}
}

// Observer records the playback notifications of one player. mediaId names
// the media item an error belongs to.
func (r *PlaybackRecorder) Observer(session string, mediaId func() string) player.Observer {
	if r == nil {
		return player.Hooks{}
	}

	record := func(event player.Event) func(el *player.Element) {
		return func(el *player.Element) {
			r.Record(PlaybackEvent{Session: session, MediaId: el.MediaId, Kind: el.Kind, Event: event})
		}
	}

	return player.Hooks{
		Play:  record(player.EventPlay),
		Pause: record(player.EventPause),
		Ended: record(player.EventEnded),
		Error: func(message string) {
			r.Record(PlaybackEvent{Session: session, MediaId: mediaId(), Event: player.EventError, Message: message})
		},
	}
}

func CountPlaybackEvents(tx *db.Tx, mediaId string) (count int, hasErr bool) {
	hasErr = tx.QueryRow("SELECT COUNT(*) FROM playback_events WHERE media_id = $1", mediaId).Scan(nil, &count)
	return count, hasErr
}

// RecentPlaybackEvents lists the newest events of mediaId first.
func RecentPlaybackEvents(tx *db.Tx, mediaId string, limit int) (events []PlaybackEvent, hasErr bool) {
	var rows *sql.Rows
	if tx.Query(&rows, `SELECT id, session_id, media_kind, event, message, created_at FROM playback_events
		WHERE media_id = $1 ORDER BY created_at DESC LIMIT $2`, mediaId, limit) {
		return nil, true
	}
	defer rows.Close()

	for rows.Next() {
		ev := PlaybackEvent{MediaId: mediaId}
		var kind, event string
		if err := rows.Scan(&ev.Id, &ev.Session, &kind, &event, &ev.Message, &ev.At); err != nil {
			db.DatabaseError(tx.Handler(), err)
			return nil, true
		}
		ev.Kind = media.MediaKind(kind)
		ev.Event = player.Event(event)
		events = append(events, ev)
	}

	if err := rows.Err(); err != nil {
		db.DatabaseError(tx.Handler(), err)
		return nil, true
	}

	return events, false
}
