package domain

// SubmitMessageCommand carries one accepted message submission.
// Members is the full recipient set for the chat, sender included.
type SubmitMessageCommand struct {
	ChatID      ChatID
	Members     []string
	SenderID    string
	SenderName  string
	Content     string
	Attachments []Attachment
}

type GetMessagesCommand struct {
	ChatID ChatID
	Cursor *string
}
