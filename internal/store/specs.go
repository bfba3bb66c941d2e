package store

// The fixed names of the console collections. Cache keys and source paths
// match what earlier clients wrote, so existing data keeps loading.
var (
	TicketsSpec = Spec{
		Name: "tickets",
		Key:  "scs6027_tickets",
		Path: "data/tickets.json",
	}
	MessagesSpec = Spec{
		Name: "messages",
		Key:  "scs6027_messages",
		Path: "DATA/messages.json",
	}
)
