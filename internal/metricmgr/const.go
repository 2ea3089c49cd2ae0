package metricmgr

type Metric string

const (
	TotalEvents         Metric = "totalEvents"
	TotalBroadcasts     Metric = "totalBroadcasts"
	TotalDirectSends    Metric = "totalDirectSends"
	TotalPollAttempts   Metric = "totalPollAttempts"
	TotalAccountsMoved  Metric = "totalAccountsMoved"
	TotalMissingTags    Metric = "totalMissingTags"
	TotalOwnersResolved Metric = "totalOwnersResolved"

	TotalFailedBroadcasts  Metric = "totalFailedBroadcasts"
	TotalFailedDirectSends Metric = "totalFailedDirectSends"
	TotalFailedTagLookups  Metric = "totalFailedTagLookups"
	TotalFailedEvents      Metric = "totalFailedEvents"
)

// AllMetrics lists every metric registered by Init, in reporting order.
var AllMetrics = []Metric{
	TotalEvents,
	TotalBroadcasts,
	TotalDirectSends,
	TotalPollAttempts,
	TotalAccountsMoved,
	TotalMissingTags,
	TotalOwnersResolved,
	TotalFailedBroadcasts,
	TotalFailedDirectSends,
	TotalFailedTagLookups,
	TotalFailedEvents,
}
