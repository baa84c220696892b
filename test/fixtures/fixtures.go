package fixtures

import (
	"github.com/recordar/contact-gateway/internal/model"
)

var (
	TestContactAna = model.Contact{
		Name:     "Ana Garcia",
		Email:    "ana@example.com",
		Whatsapp: "+5491122334455",
		Tags:     []string{"familia"},
	}

	TestContactEmailOnly = model.Contact{
		Name:  "Bruno Diaz",
		Email: "bruno@example.com",
	}

	TestContactWhatsappOnly = model.Contact{
		Name:     "Carla Ruiz",
		Whatsapp: "+5491166778899",
	}
)

func NewContactCreateRequest(name, email, whatsapp string) model.ContactCreateRequest {
	return model.ContactCreateRequest{
		Name:     name,
		Email:    email,
		Whatsapp: whatsapp,
	}
}

func NewCommunicationCreateRequest(title string, channel model.Channel, content string, contactIDs, groupIDs []string) model.CommunicationCreateRequest {
	return model.CommunicationCreateRequest{
		Title:      title,
		Channel:    channel,
		Content:    content,
		ContactIDs: contactIDs,
		GroupIDs:   groupIDs,
	}
}

func NewTaskCreateRequest(title, dueDate string, priority model.TaskPriority) model.TaskCreateRequest {
	return model.TaskCreateRequest{
		Title:    title,
		DueDate:  dueDate,
		Priority: priority,
	}
}
