package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectEventPublisherEmptyURL(t *testing.T) {
	publisher, err := ConnectEventPublisher("")
	require.NoError(t, err)
	assert.Nil(t, publisher)
}

func TestNilPublisherIsNoop(t *testing.T) {
	var publisher *AMQPPublisher

	assert.NoError(t, publisher.PublishOrderCreated(OrderEvent{OrderID: "o1"}))
	assert.NoError(t, publisher.Close())
}
