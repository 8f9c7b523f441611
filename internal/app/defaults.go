package app

import "time"

const (
	// frameInterval paces the snap animation at roughly 60 fps.
	frameInterval = 16 * time.Millisecond

	// persistDebounce coalesces position writes during resize bursts.
	persistDebounce = 300 * time.Millisecond

	// configWatcherDebounce coalesces editor save bursts on config.json.
	configWatcherDebounce = 200 * time.Millisecond

	// externalMsgBuffer bounds messages queued from background workers.
	externalMsgBuffer = 64
)
