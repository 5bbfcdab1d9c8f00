package rabbitmq

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	amqp "github.com/streadway/amqp"
)

type fakeAcknowledger struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (f *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	f.acked = true
	return nil
}

func (f *fakeAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	f.nacked = true
	f.requeue = requeue
	return nil
}

func (f *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	return f.Nack(tag, false, requeue)
}

func delivery(body string, redelivered bool) (amqp.Delivery, *fakeAcknowledger) {
	ack := &fakeAcknowledger{}
	return amqp.Delivery{Acknowledger: ack, Body: []byte(body), DeliveryTag: 1, Redelivered: redelivered}, ack
}

const eventBody = `{"email":"reader@example.com","username":"reader","code":"123456"}`

func TestHandleDelivery_Success(t *testing.T) {
	msg, ack := delivery(eventBody, false)

	var got ConfirmationEvent
	HandleDelivery(msg, func(e ConfirmationEvent) error {
		got = e
		return nil
	})

	assert.True(t, ack.acked)
	assert.False(t, ack.nacked)
	assert.Equal(t, ConfirmationEvent{Email: "reader@example.com", Username: "reader", Code: "123456"}, got)
}

func TestHandleDelivery_Malformed(t *testing.T) {
	msg, ack := delivery("not json", false)

	called := false
	HandleDelivery(msg, func(ConfirmationEvent) error {
		called = true
		return nil
	})

	assert.False(t, called)
	assert.True(t, ack.nacked)
	assert.False(t, ack.requeue)
}

func TestHandleDelivery_HandlerFailure(t *testing.T) {
	failing := func(ConfirmationEvent) error { return errors.New("smtp down") }

	msg, ack := delivery(eventBody, false)
	HandleDelivery(msg, failing)
	assert.True(t, ack.nacked)
	assert.True(t, ack.requeue)

	msg, ack = delivery(eventBody, true)
	HandleDelivery(msg, failing)
	assert.True(t, ack.nacked)
	assert.False(t, ack.requeue)
}

func TestSendConfirmationCode_NoChannel(t *testing.T) {
	c := &Client{queue: "mail_queue"}
	err := c.SendConfirmationCode(context.Background(), "reader@example.com", "reader", "123456")
	assert.ErrorContains(t, err, "channel is not available")

	assert.Error(t, c.ConsumeConfirmationEvents(func(ConfirmationEvent) error { return nil }))
}
