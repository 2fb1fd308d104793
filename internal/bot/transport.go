package bot

// Button is a labeled inline keyboard button carrying callback data.
type Button struct {
	Label string
	Data  string
}

// Keyboard is a set of buttons grouped into rows.
type Keyboard [][]Button

// Transport is the messaging surface the controller needs from the chat
// platform: send a new message, edit a previous one in place, and
// acknowledge a button press so the client stops showing its loading
// indicator. The Telegram implementation lives in telegram.go; tests
// substitute a fake.
type Transport interface {
	// Send delivers a new message and returns its message ID for later
	// in-place edits.
	Send(chatID int64, text string, keyboard Keyboard) (int, error)

	// Edit replaces the text and keyboard of a previously sent message.
	Edit(chatID int64, messageID int, text string, keyboard Keyboard) error

	// AnswerCallback acknowledges a button press, optionally with a short
	// notification shown to the user.
	AnswerCallback(callbackID, text string) error
}
