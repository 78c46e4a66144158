package config

const (
	// MaxEntryNameLength is the maximum length for folder and frame names.
	// Limited to 200 to fit in PostgreSQL VARCHAR(200) and provide
	// reasonable UX (names should be short and descriptive).
	MaxEntryNameLength = 200

	// MaxSlugLength is the maximum length for a URL path segment.
	// Generated slugs are truncated here before collision suffixing.
	MaxSlugLength = 80

	// MaxFrameURLLength is the maximum length for a frame's iframe URL.
	MaxFrameURLLength = 2000

	// MaxSettingValueLength caps stored admin setting values. Settings are
	// small JSON documents (ordering arrays, feature toggles), not blobs.
	MaxSettingValueLength = 10000
)
