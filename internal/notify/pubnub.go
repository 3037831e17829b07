package notify

import (
	"context"

	"travel-agency/utils"

	pubnub "github.com/pubnub/go/v7"
)

// Publisher is the slice of the PubNub client the notifier needs.
type Publisher interface {
	Publish(channel string, message any) error
}

type pubnubPublisher struct {
	pn *pubnub.PubNub
}

func (p pubnubPublisher) Publish(channel string, message any) error {
	_, _, err := p.pn.Publish().Channel(channel).Message(message).Execute()
	return err
}

func NewPubNubClient(publishKey, subscribeKey, secretKey, userID string) Publisher {
	cfg := pubnub.NewConfigWithUserId(pubnub.UserId(userID))
	cfg.PublishKey = publishKey
	cfg.SubscribeKey = subscribeKey
	cfg.SecretKey = secretKey
	return pubnubPublisher{pn: pubnub.NewPubNub(cfg)}
}

// PubNub pushes events to the admin dashboard channel.
type PubNub struct {
	publisher Publisher
	channel   string
	breaker   *utils.Breaker
}

func NewPubNub(publisher Publisher, channel string) *PubNub {
	return &PubNub{
		publisher: publisher,
		channel:   channel,
		breaker:   utils.NewBreaker("pubnub"),
	}
}

func (p *PubNub) Name() string { return "pubnub" }

func (p *PubNub) Notify(ctx context.Context, event Event) error {
	return p.breaker.Execute(ctx, func(context.Context) error {
		return p.publisher.Publish(p.channel, map[string]any{
			"type":    event.Kind + "_created",
			"id":      event.ID,
			"title":   event.Title,
			"summary": event.Summary,
			"created": event.Created,
		})
	})
}
