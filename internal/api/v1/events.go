package v1

import (
	"context"

	"github.com/rs/zerolog/log"
)

// notifyChanged publishes a change notification on the given channel.
// Subscribers re-read the collection themselves, so the payload carries no
// state. A publish failure is logged and swallowed: the write already
// committed and subscribers will converge on their next snapshot.
func notifyChanged(ctx context.Context, pub EventPublisher, channel string) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, channel, []byte(`{"op":"changed"}`)); err != nil {
		log.Warn().Err(err).Str("channel", channel).Msg("api: failed to publish change notification")
	}
}
