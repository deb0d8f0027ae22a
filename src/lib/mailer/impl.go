package mailer

import (
	"ets/src/lib"
	"log"
	"sync"
)

var (
	queue chan *lib.SendMailInput
	once  sync.Once
)

func startWorker() {
	queue = make(chan *lib.SendMailInput, 64)
	go func() {
		for input := range queue {
			if err := lib.SendMail(input); err != nil {
				log.Printf("[mailer] Error sending mail to %v: %s\n", input.To, err.Error())
			}
		}
	}()
}

// NewMailerMessage queues an email for delivery. Delivery failures are
// logged, never surfaced to the request that queued the message.
func NewMailerMessage(input *lib.SendMailInput) error {
	once.Do(startWorker)
	select {
	case queue <- input:
	default:
		// queue full, send inline
		return lib.SendMail(input)
	}
	return nil
}
