package models

// DigestRequest asks for the daily digest to be sent right away. An empty
// recipient means the configured manager.
type DigestRequest struct {
	To string `json:"to"`
}

// DigestReceipt describes a digest handed over to WhatsApp.
type DigestReceipt struct {
	To        string `json:"to"`
	MessageID string `json:"messageId,omitempty"`
	Digest    string `json:"digest"`
}
