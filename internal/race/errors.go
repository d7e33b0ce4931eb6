package race

import "errors"

var (
	// ErrEmptyRoster means no valid name remained after filtering. Recoverable.
	ErrEmptyRoster = errors.New("roster has no valid names")
	// ErrTooManyEntrants means the roster does not fit the track's lanes.
	ErrTooManyEntrants = errors.New("roster exceeds lane count")
	// ErrInvalidConfiguration covers bad track geometry or motion ranges. It is
	// fatal at startup.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrPresetLoad means the preset file was missing or malformed. The selector
	// then offers zero presets.
	ErrPresetLoad = errors.New("preset load failed")
	// ErrClipboardUnavailable is swallowed by the session.
	ErrClipboardUnavailable = errors.New("clipboard unavailable")
	// ErrEventRejected is returned for events not valid in the current phase.
	ErrEventRejected = errors.New("event rejected")
	// ErrUnknownPreset means a preset index outside the loaded table was chosen.
	ErrUnknownPreset = errors.New("unknown preset")
)
