package eventpubsub

import (
	"github.com/asaskevich/EventBus"
	log "github.com/sirupsen/logrus"
)

var bus EventBus.Bus

func Init() {
	bus = EventBus.New()
}

// Publish delivers the event to every subscriber of the topic. Delivery is
// asynchronous; publishers never block on slow subscribers.
func Publish(topic Topic, event interface{}) {
	bus.Publish(string(topic), event)
}

// Subscribe registers a callback for a topic. The callback's signature must
// match the payload published on that topic.
func Subscribe(topic Topic, callbackFn interface{}) error {
	if err := bus.SubscribeAsync(string(topic), callbackFn, false); err != nil {
		return err
	}

	log.Infof("subscribed to topic %s", topic)
	return nil
}
