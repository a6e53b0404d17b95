package emailsvc

import (
	"log"
	"strings"

	"github.com/paycollect/paycollect/core"
)

// SentMessages collects everything "sent" by the console service; tests
// inspect it.
var SentMessages = make([]core.EmailMessage, 0)

// consoleService prints messages to the log instead of sending them; used in
// DEV and TEST modes.
type consoleService struct {
	subjPrefix string
}

var _ core.EmailService = (*consoleService)(nil)

func NewConsoleService(appName string) core.EmailService {
	return &consoleService{subjPrefix: "[" + appName + "] "}
}

func (svc consoleService) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		if !msg.HasRecipients() {
			continue
		}
		tos := make([]string, 0, len(msg.To))
		for _, to := range msg.To {
			tos = append(tos, to.String())
		}
		log.Printf("EMAIL to=%s subject=%q\n%s\n", strings.Join(tos, ", "), svc.subjPrefix+msg.Subject, msg.BodyStr)
		SentMessages = append(SentMessages, *msg)
	}
}
