package console

const greeting = "SCS6027 Console loaded. Type help to begin."

var helpLines = []string{
	"SCS6027 CONSOLE - HELP",
	"help - show this message",
	"login - open admin login (enter password and click Login)",
	"view tickets - list tickets (id, subject, status)",
	"view ticket <id> - show full ticket details",
	`reply <id> "message" - post admin reply to ticket`,
	`newticket "subject" "body" "email" - create a ticket (public use)`,
	"list messages - show posted messages",
	`post "message" - post a public admin message (admin only)`,
	"export tickets - download tickets.json",
	"export messages - download messages.json",
	"import <tickets|messages> <file> - import a JSON file",
	`commit - push data to the remote (run "scs commit"; GitHub requires a token)`,
}
