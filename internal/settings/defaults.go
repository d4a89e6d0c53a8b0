package settings

const (
	EnvPrefix = "EMOJI_TRANSFER"

	DefaultBatchSize       = 20
	DefaultSecondsPerBatch = 60
	DefaultPreviewMode     = PreviewAuto
	DefaultLogLevel        = "info"
	DefaultAPIBaseURL      = "https://slack.com/api"

	PreviewAuto = "auto"
	PreviewYes  = "yes"
	PreviewNo   = "no"
)
