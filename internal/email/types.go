package email

// Wire types for the provider's send-email endpoint:
//
//	{
//	  "personalizations": [{"to": [{"email": "to@email.com"}]}],
//	  "from": {"email": "from@email.com"},
//	  "subject": "Subject line",
//	  "content": [{"type": "text/plain", "value": "Content line"}]
//	}
type sendEmailRequest struct {
	Personalizations []personalization `json:"personalizations"`
	From             emailAddress      `json:"from"`
	Subject          string            `json:"subject"`
	Content          []contentPart     `json:"content"`
}

type personalization struct {
	To []emailAddress `json:"to"`
}

type emailAddress struct {
	Email string `json:"email"`
}

type contentPart struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}
