// Package relay drives the download-classify-upload pipeline: the command
// surface for inbound messages, the worker pool, and the dispatcher that
// routes fetched files to the right Telegram upload call.
package relay

// Media is one outbound file upload.
type Media struct {
	Path    string
	Caption string
	// Thumb holds optional JPEG preview bytes; ignored by sends that do
	// not support thumbnails.
	Thumb []byte
}

// Messenger is the platform surface the relay needs. The production
// implementation wraps the Telegram Bot API; tests substitute a fake.
type Messenger interface {
	// SendText posts a new message and returns its message ID.
	SendText(chatID int64, text string) (int, error)
	EditText(chatID int64, messageID int, text string) error
	DeleteMessage(chatID int64, messageID int) error

	SendPhoto(chatID int64, m Media) error
	SendVideo(chatID int64, m Media) error
	SendAudio(chatID int64, m Media) error
	SendDocument(chatID int64, m Media) error
}

// Job is one URL relay request. It is owned by exactly one worker; the
// status message it references lives and dies with the job.
type Job struct {
	ID          string
	ChatID      int64
	UserID      int64
	URL         string
	StatusMsgID int
}

// Submitter hands jobs to the worker pool. Split out as an interface so the
// command surface can be tested without running workers.
type Submitter interface {
	// TrySubmit queues the job, or reports false when the queue is full.
	TrySubmit(Job) bool
}
