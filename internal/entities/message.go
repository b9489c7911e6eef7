package entities

// InboundMessage is one text message delivered by the messaging-platform webhook.
type InboundMessage struct {
	MessageID   string
	From        string // sender phone number
	ProfileName string // contact profile name, may be empty
	Content     string
}
